// seehuhn.de/go/tileroute - draw GPS routes onto raster map tiles
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Command export writes the route scenarios as GeoJSON files, one file per
// scenario, and optionally loads them into MongoDB.
// Run from the module root directory.
package main

import (
	"context"
	"flag"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/sirupsen/logrus"

	"seehuhn.de/go/tileroute/route/jsonfile"
	"seehuhn.de/go/tileroute/route/mongostore"
	"seehuhn.de/go/tileroute/testcases"
)

var (
	outDir   = flag.String("o", "testdata/routes", "output directory")
	mongoURI = flag.String("mongo_uri", "", "mongo db uri (empty means no upload)")
	coll     = flag.String("coll", "tileroute.scenarios", "collection for the upload [format: {db}.{col}]")
)

func main() {
	flag.Parse()
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		logrus.Fatal(err)
	}

	var upload *mongostore.Source
	ctx := context.Background()
	if *mongoURI != "" {
		src, closeFn, err := mongostore.Open(ctx, *mongoURI, *coll)
		if err != nil {
			logrus.Fatalf("connecting to mongo: %v", err)
		}
		defer closeFn(ctx)
		upload = src
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, sc := range testcases.All[category] {
			name := category + "_" + sc.Name
			data, err := jsonfile.Encode(sc.Routes)
			if err != nil {
				logrus.Fatalf("%s: %v", name, err)
			}
			fname := filepath.Join(*outDir, name+".geojson")
			if err := os.WriteFile(fname, data, 0o644); err != nil {
				logrus.Fatal(err)
			}

			if upload != nil {
				if err := upload.Insert(ctx, sc.Routes); err != nil {
					logrus.Fatalf("%s: %v", name, err)
				}
			}
			logrus.WithFields(logrus.Fields{
				"routes":  len(sc.Routes),
				"minzoom": sc.MinZoom,
				"maxzoom": sc.MaxZoom,
			}).Info(fname)
		}
	}
}
