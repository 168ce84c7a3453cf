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

// Package route holds the routes which are drawn onto map tiles.
//
// A route is a GPS track, together with the range of zoom levels at which
// each of its points is shown.  Routes are validated when they are created,
// so that code using a Route can rely on its invariants.
package route

import (
	"context"
	"errors"
	"fmt"
	"image/color"

	"github.com/golang/geo/s2"
)

// ErrInvalidRoute is returned (wrapped) for routes which violate the
// invariants documented on [Route].
var ErrInvalidRoute = errors.New("invalid route")

// Type classifies a route.  Types with an ID below -1 mark routes which
// are never drawn.
type Type struct {
	// ID is the classification number assigned by the route provider.
	ID int

	// Color is the stroke colour, packed as 0xRRGGBB.  The top byte is
	// ignored; routes are always drawn with opaque paint.
	Color uint32
}

// Suppressed reports whether routes of this type are excluded from
// rendering.
func (t Type) Suppressed() bool {
	return t.ID < -1
}

// NRGBA returns the stroke colour of the type.
func (t Type) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(t.Color >> 16),
		G: uint8(t.Color >> 8),
		B: uint8(t.Color),
		A: 0xFF,
	}
}

// Route is a polyline with per-point zoom ranges.
//
// Points, MinZoom and MaxZoom have the same length, and
// MinZoom[i] <= MaxZoom[i] for every i.  Point i is drawn at zoom level z
// if and only if MinZoom[i] <= z <= MaxZoom[i].
type Route struct {
	Name    string
	Type    Type
	Points  []s2.LatLng
	MinZoom []int
	MaxZoom []int

	// Visible is false for routes which are skipped by the renderer.  It
	// is derived from Type when the route is created, and must equal
	// !Type.Suppressed().
	Visible bool
}

// New creates a route and checks its invariants.
func New(name string, tp Type, pts []s2.LatLng, minZoom, maxZoom []int) (*Route, error) {
	r := &Route{
		Name:    name,
		Type:    tp,
		Points:  pts,
		MinZoom: minZoom,
		MaxZoom: maxZoom,
		Visible: !tp.Suppressed(),
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Len returns the number of points of the route.
func (r *Route) Len() int {
	return len(r.Points)
}

// Validate checks the invariants of the route.
func (r *Route) Validate() error {
	if r.Visible == r.Type.Suppressed() {
		return fmt.Errorf("route %q: visible=%t does not match type %d: %w",
			r.Name, r.Visible, r.Type.ID, ErrInvalidRoute)
	}
	n := len(r.Points)
	if len(r.MinZoom) != n || len(r.MaxZoom) != n {
		return fmt.Errorf("route %q: %d points, %d min zooms, %d max zooms: %w",
			r.Name, n, len(r.MinZoom), len(r.MaxZoom), ErrInvalidRoute)
	}
	for i, ll := range r.Points {
		if !ll.IsValid() {
			return fmt.Errorf("route %q: point %d: %v out of range: %w",
				r.Name, i, ll, ErrInvalidRoute)
		}
		if r.MinZoom[i] > r.MaxZoom[i] {
			return fmt.Errorf("route %q: point %d: min zoom %d > max zoom %d: %w",
				r.Name, i, r.MinZoom[i], r.MaxZoom[i], ErrInvalidRoute)
		}
	}
	return nil
}

// Source supplies the routes for a rendering run.  The returned slice is
// fully loaded; its order is the drawing order.
type Source interface {
	Routes(ctx context.Context) ([]*Route, error)
}

// List is a Source for routes which are already in memory.  The routes
// should be created with [New]; routes built as struct literals must
// set Visible themselves.
type List []*Route

// Routes implements [Source].
func (l List) Routes(context.Context) ([]*Route, error) {
	return l, nil
}
