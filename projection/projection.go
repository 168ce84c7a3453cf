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

// Package projection maps geographic coordinates to continuous tile-grid
// coordinates.
package projection

import (
	"math"

	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"seehuhn.de/go/geom/vec"
)

// Projector maps a point to tile-grid coordinates at a zoom level.  The
// integer parts of the result select the tile, the fractional parts give
// the position inside the tile.  Implementations must be pure functions
// of their arguments.
type Projector interface {
	Project(ll s2.LatLng, zoom maptile.Zoom) vec.Vec2
}

// Func adapts an ordinary function to the Projector interface.
type Func func(ll s2.LatLng, zoom maptile.Zoom) vec.Vec2

// Project implements [Projector].
func (f Func) Project(ll s2.LatLng, zoom maptile.Zoom) vec.Vec2 {
	return f(ll, zoom)
}

// WebMercator is the spherical Mercator projection used by most web map
// tile servers.  Latitudes beyond ±85.0511° are clamped to the edge of
// the grid.  Longitude 180° lies on the eastern edge of the grid and is
// moved just inside it, so that every valid point falls into a tile.
type WebMercator struct{}

// Project implements [Projector].
func (WebMercator) Project(ll s2.LatLng, zoom maptile.Zoom) vec.Vec2 {
	p := maptile.Fraction(orb.Point{ll.Lng.Degrees(), ll.Lat.Degrees()}, zoom)
	limit := math.Nextafter(float64(uint32(1)<<zoom), 0)
	return vec.Vec2{
		X: max(0, min(p[0], limit)),
		Y: max(0, min(p[1], limit)),
	}
}

// ProjectAll projects a sequence of points, preserving their order.
func ProjectAll(p Projector, pts []s2.LatLng, zoom maptile.Zoom) []vec.Vec2 {
	res := make([]vec.Vec2, len(pts))
	for i, ll := range pts {
		res[i] = p.Project(ll, zoom)
	}
	return res
}
