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

package tileroute

import (
	"image/color"

	"github.com/paulmach/orb/maptile"

	"seehuhn.de/go/tileroute/config"
	"seehuhn.de/go/tileroute/route"
)

// LevelOfDetail returns the factors applied to the stroke alpha and
// width at the given zoom level.  Strokes fade in over the first three
// zoom levels above minZoom.
func LevelOfDetail(zoom, minZoom int) (alpha, width float64) {
	switch zoom - minZoom {
	case 0:
		return 1.0 / 8, 1.0 / 4
	case 1:
		return 1.0 / 4, 1.0 / 4
	case 2:
		return 1.0 / 2, 1.0 / 2
	default:
		return 1, 1
	}
}

// Style describes how a route is drawn onto one zoom level.
type Style struct {
	Color color.NRGBA
	Alpha float64
	Width float64
}

// StyleFor returns the style for routes of the given type at the given
// zoom level.
func StyleFor(zoom maptile.Zoom, cfg *config.Config, tp route.Type) Style {
	alpha, width := LevelOfDetail(int(zoom), cfg.MinZoom)
	return Style{
		Color: tp.NRGBA(),
		Alpha: cfg.Alpha * alpha,
		Width: cfg.Width * width,
	}
}
