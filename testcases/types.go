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

// Package testcases contains synthetic route sets for tests and
// benchmarks.
package testcases

import (
	"fmt"
	"math"

	"github.com/golang/geo/s2"

	"seehuhn.de/go/tileroute/route"
)

// Scenario is a set of routes together with the zoom range to render them
// at.
type Scenario struct {
	Name    string // lowercase a-z and _ only
	Routes  []*route.Route
	MinZoom int
	MaxZoom int
}

// Track describes a route in a compact form.  Zoom ranges apply to all
// vertices unless MinZooms/MaxZooms are given.
type Track struct {
	Name     string
	TypeID   int
	Color    uint32
	Points   [][2]float64 // latitude, longitude in degrees
	MinZoom  int
	MaxZoom  int
	MinZooms []int
	MaxZooms []int
}

// Route converts the track into a validated route.  It panics if the
// track is invalid.
func (t Track) Route() *route.Route {
	n := len(t.Points)
	pts := make([]s2.LatLng, n)
	for i, p := range t.Points {
		pts[i] = s2.LatLngFromDegrees(p[0], p[1])
	}
	minZoom := t.MinZooms
	if minZoom == nil {
		minZoom = repeat(t.MinZoom, n)
	}
	maxZoom := t.MaxZooms
	if maxZoom == nil {
		maxZoom = repeat(t.MaxZoom, n)
	}
	r, err := route.New(t.Name, route.Type{ID: t.TypeID, Color: t.Color}, pts, minZoom, maxZoom)
	if err != nil {
		panic(fmt.Sprintf("testcases: %v", err))
	}
	return r
}

func repeat(v, n int) []int {
	res := make([]int, n)
	for i := range res {
		res[i] = v
	}
	return res
}

func routes(tracks ...Track) []*route.Route {
	res := make([]*route.Route, len(tracks))
	for i, t := range tracks {
		res[i] = t.Route()
	}
	return res
}

// wiggle returns a GPS-like track of n points, starting at (lat, lng) and
// heading east, with a sinusoidal north-south deviation.
func wiggle(lat, lng, length, amplitude float64, n int) [][2]float64 {
	pts := make([][2]float64, n)
	for i := range pts {
		s := float64(i) / float64(n-1)
		pts[i] = [2]float64{
			lat + amplitude*math.Sin(6*math.Pi*s),
			lng + length*s,
		}
	}
	return pts
}
