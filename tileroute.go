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

// Package tileroute draws GPS routes onto a pyramid of raster map tiles.
//
// For every zoom level in the configured range, the vertices of each route
// which are visible at that zoom are projected into tile space.  Every tile
// which contains at least one of these vertices is loaded, the complete
// route is stroked onto it, and the result is written to a tile sink.
// Tiles which are crossed by a route segment but contain no vertex are
// left alone.
//
// Near the minimum zoom level the strokes are drawn thinner and more
// transparent, so that overview tiles do not get cluttered.  See
// [LevelOfDetail].
package tileroute

import (
	"errors"
	"fmt"

	"github.com/golang/geo/s2"
	"github.com/paulmach/orb/maptile"
	"github.com/samber/lo"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/tileroute/route"
)

var (
	// ErrOutOfGrid is returned (wrapped) when a projected vertex lies
	// outside the tile grid of its zoom level.
	ErrOutOfGrid = errors.New("vertex outside the tile grid")

	// ErrDestination is returned (wrapped) when the destination cannot be
	// prepared for a run.
	ErrDestination = errors.New("cannot prepare destination")

	// ErrTileSize is returned (wrapped) when a base tile does not have the
	// configured dimensions.
	ErrTileSize = errors.New("unexpected tile size")
)

// VisiblePoints returns the points of r which are shown at the given zoom
// level, in their original order.
func VisiblePoints(r *route.Route, zoom maptile.Zoom) []s2.LatLng {
	z := int(zoom)
	return lo.Filter(r.Points, func(_ s2.LatLng, i int) bool {
		return r.MinZoom[i] <= z && z <= r.MaxZoom[i]
	})
}

// SelectTiles returns the tiles which contain at least one of the given
// tile-space vertices.
func SelectTiles(pts []vec.Vec2, zoom maptile.Zoom) (maptile.Set, error) {
	n := float64(uint64(1) << zoom)
	tiles := make(maptile.Set)
	for _, p := range pts {
		if !(p.X >= 0 && p.X < n && p.Y >= 0 && p.Y < n) {
			return nil, fmt.Errorf("%v at zoom %d: %w", p, zoom, ErrOutOfGrid)
		}
		tiles[maptile.New(uint32(p.X), uint32(p.Y), zoom)] = true
	}
	return tiles, nil
}
