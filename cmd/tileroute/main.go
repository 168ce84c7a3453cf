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

// Command tileroute draws GPS routes onto a pyramid of map tiles.
//
// Routes are read from a GeoJSON file or from a MongoDB collection, base
// tiles from a z/x/y directory tree or an MBTiles file.  The output is
// written in the same way; its format is selected by the file name
// extension of the destination.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"seehuhn.de/go/tileroute"
	"seehuhn.de/go/tileroute/config"
	"seehuhn.de/go/tileroute/projection"
	"seehuhn.de/go/tileroute/route"
	"seehuhn.de/go/tileroute/route/jsonfile"
	"seehuhn.de/go/tileroute/route/mongostore"
	"seehuhn.de/go/tileroute/tile"
	"seehuhn.de/go/tileroute/tile/dirstore"
	"seehuhn.de/go/tileroute/tile/mbtiles"
)

var (
	configFile = flag.String("config", "", "YAML configuration file")
	minZoom    = flag.Int("minzoom", 0, "lowest zoom level to render (default 9)")
	maxZoom    = flag.Int("maxzoom", 0, "highest zoom level to render (default 10)")
	tileSize   = flag.Int("tile-size", 0, "tile size in pixels (default 256)")
	alpha      = flag.Float64("alpha", 0, "stroke opacity at full detail (default 0.8)")
	width      = flag.Float64("width", 0, "stroke width in pixels at full detail (default 4)")
	routes     = flag.String("routes", "", "route source [format: {fspath} or {db}.{col}]")
	mongoURI   = flag.String("mongo_uri", "", "mongo db uri")
	tiles      = flag.String("tiles", "", "base tiles, a directory or an .mbtiles file")
	dest       = flag.String("dest", "", "output directory or .mbtiles file, existing content is removed")
	logLevel   = flag.String("log-level", "", "log level [debug, info, warn, error, fatal, panic]")

	logLevels = map[string]logrus.Level{
		"debug": logrus.DebugLevel,
		"info":  logrus.InfoLevel,
		"warn":  logrus.WarnLevel,
		"error": logrus.ErrorLevel,
		"fatal": logrus.FatalLevel,
		"panic": logrus.PanicLevel,
	}
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.0000",
	})
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		logrus.Fatalf("configuration: %v", err)
	}
	if level, ok := logLevels[cfg.LogLevel]; ok {
		logrus.SetLevel(level)
	} else {
		logrus.Fatalf("invalid log level: %s", cfg.LogLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logrus.Fatal(err)
	}
}

// loadConfig combines the defaults, the configuration file, the
// environment and the command line flags, in this order.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			return nil, err
		}
	}
	if err := cfg.LoadEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "minzoom":
			cfg.MinZoom = *minZoom
		case "maxzoom":
			cfg.MaxZoom = *maxZoom
		case "tile-size":
			cfg.TileSize = *tileSize
		case "alpha":
			cfg.Alpha = *alpha
		case "width":
			cfg.Width = *width
		case "routes":
			cfg.Routes = *routes
		case "mongo_uri":
			cfg.MongoURI = *mongoURI
		case "tiles":
			cfg.Tiles = *tiles
		case "dest":
			cfg.Destination = *dest
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})

	return cfg, cfg.Validate()
}

func run(ctx context.Context, cfg *config.Config) error {
	src, closeSrc, err := openRoutes(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSrc(ctx)

	reader, closeReader, err := openTiles(cfg.Tiles)
	if err != nil {
		return err
	}
	defer closeReader()

	var sink tile.Sink
	if isMBTiles(cfg.Destination) {
		s := &mbtiles.Store{}
		defer func() {
			if err := s.Close(); err != nil {
				logrus.Errorf("closing %s: %v", cfg.Destination, err)
			}
		}()
		sink = s
	} else {
		sink = dirstore.New("")
	}

	p := &tileroute.Pipeline{
		Config:    cfg,
		Routes:    src,
		Tiles:     reader,
		Sink:      sink,
		Projector: projection.WebMercator{},
		Log:       logrus.StandardLogger(),
	}
	_, err = p.Run(ctx)
	return err
}

// openRoutes selects the route source.  An existing file is read as
// GeoJSON, anything else is taken to be a MongoDB collection.
func openRoutes(ctx context.Context, cfg *config.Config) (route.Source, func(context.Context) error, error) {
	if _, err := os.Stat(cfg.Routes); err == nil {
		return &jsonfile.Source{Path: cfg.Routes}, noClose, nil
	}
	if cfg.MongoURI == "" {
		return nil, nil, errors.New("routes: no such file, and no mongo uri given")
	}
	src, closeFn, err := mongostore.Open(ctx, cfg.MongoURI, cfg.Routes)
	if err != nil {
		return nil, nil, err
	}
	logrus.Debugf("reading routes from mongo collection %s", cfg.Routes)
	return src, closeFn, nil
}

func openTiles(name string) (tile.Reader, func() error, error) {
	if isMBTiles(name) {
		s, err := mbtiles.Open(name)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	}
	if _, err := os.Stat(name); err != nil {
		return nil, nil, err
	}
	return dirstore.New(name), func() error { return nil }, nil
}

func isMBTiles(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".mbtiles")
}

func noClose(context.Context) error { return nil }
