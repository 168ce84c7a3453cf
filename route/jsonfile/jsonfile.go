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

// Package jsonfile reads and writes routes as GeoJSON.
//
// Each route is one feature of a FeatureCollection.  The geometry is a
// LineString (or a Point, for single-vertex routes, and a MultiPoint
// otherwise) with coordinates in longitude, latitude order.  The following properties are used:
//
//	name     string
//	type     integer classification id
//	color    "#rrggbb"
//	minzoom  integer, or array with one integer per vertex (default 0)
//	maxzoom  integer, or array with one integer per vertex (default 30)
package jsonfile

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"seehuhn.de/go/tileroute/route"
)

const (
	defaultMinZoom = 0
	defaultMaxZoom = 30
)

// Source reads routes from a GeoJSON file.
type Source struct {
	Path string
}

// Routes implements [route.Source].
func (s *Source) Routes(context.Context) ([]*route.Route, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	routes, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	return routes, nil
}

// Decode parses a GeoJSON FeatureCollection.  Every route is validated.
func Decode(data []byte) ([]*route.Route, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, err
	}

	routes := make([]*route.Route, 0, len(fc.Features))
	for i, f := range fc.Features {
		r, err := decodeFeature(f)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		routes = append(routes, r)
	}
	return routes, nil
}

func decodeFeature(f *geojson.Feature) (*route.Route, error) {
	var coords []orb.Point
	switch g := f.Geometry.(type) {
	case orb.LineString:
		coords = g
	case orb.Point:
		coords = []orb.Point{g}
	case orb.MultiPoint:
		coords = g
	case nil:
		return nil, fmt.Errorf("missing geometry")
	default:
		return nil, fmt.Errorf("unsupported geometry %q", f.Geometry.GeoJSONType())
	}
	pts := make([]s2.LatLng, len(coords))
	for i, p := range coords {
		pts[i] = s2.LatLngFromDegrees(p.Lat(), p.Lon())
	}

	name, ok := f.Properties["name"].(string)
	if !ok && f.Properties["name"] != nil {
		return nil, fmt.Errorf("name: not a string")
	}
	tp := route.Type{}
	switch id := f.Properties["type"].(type) {
	case nil:
	case float64:
		tp.ID = int(id)
	default:
		return nil, fmt.Errorf("type: not a number")
	}
	if c, ok := f.Properties["color"]; ok {
		col, err := parseColor(c)
		if err != nil {
			return nil, err
		}
		tp.Color = col
	}

	minZoom, err := zooms(f.Properties, "minzoom", len(pts), defaultMinZoom)
	if err != nil {
		return nil, err
	}
	maxZoom, err := zooms(f.Properties, "maxzoom", len(pts), defaultMaxZoom)
	if err != nil {
		return nil, err
	}

	return route.New(name, tp, pts, minZoom, maxZoom)
}

func parseColor(v any) (uint32, error) {
	switch c := v.(type) {
	case string:
		s := strings.TrimPrefix(c, "#")
		x, err := strconv.ParseUint(s, 16, 32)
		if err != nil || len(s) != 6 {
			return 0, fmt.Errorf("invalid color %q", c)
		}
		return uint32(x), nil
	case float64:
		return uint32(c), nil
	default:
		return 0, fmt.Errorf("invalid color %v", v)
	}
}

// zooms reads a per-vertex zoom property.  A single number applies to all
// vertices; a missing or null value gives def.
func zooms(props geojson.Properties, key string, n int, def int) ([]int, error) {
	res := make([]int, n)
	v, ok := props[key]
	if !ok || v == nil {
		v = float64(def)
	}
	switch z := v.(type) {
	case float64:
		for i := range res {
			res[i] = int(z)
		}
	case []any:
		if len(z) != n {
			return nil, fmt.Errorf("%s: %d values for %d points: %w",
				key, len(z), n, route.ErrInvalidRoute)
		}
		for i, x := range z {
			f, ok := x.(float64)
			if !ok {
				return nil, fmt.Errorf("%s[%d]: not a number", key, i)
			}
			res[i] = int(f)
		}
	default:
		return nil, fmt.Errorf("%s: unexpected value %v", key, v)
	}
	return res, nil
}

// Encode writes routes as a GeoJSON FeatureCollection, in the format read
// by [Decode].  Routes with at least two points become LineStrings, shorter
// routes become a Point or an empty MultiPoint.
func Encode(routes []*route.Route) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, r := range routes {
		f := geojson.NewFeature(geometry(r.Points))
		f.Properties["name"] = r.Name
		f.Properties["type"] = r.Type.ID
		f.Properties["color"] = fmt.Sprintf("#%06x", r.Type.Color&0xFFFFFF)
		f.Properties["minzoom"] = r.MinZoom
		f.Properties["maxzoom"] = r.MaxZoom
		fc.Append(f)
	}
	return fc.MarshalJSON()
}

func geometry(pts []s2.LatLng) orb.Geometry {
	coords := make([]orb.Point, len(pts))
	for i, ll := range pts {
		coords[i] = orb.Point{ll.Lng.Degrees(), ll.Lat.Degrees()}
	}
	switch len(coords) {
	case 0:
		return orb.MultiPoint{}
	case 1:
		return coords[0]
	default:
		return orb.LineString(coords)
	}
}
