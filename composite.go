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
	"fmt"
	"image"

	"github.com/paulmach/orb/maptile"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/tileroute/raster"
	"seehuhn.de/go/tileroute/tile"
)

// Compositor draws routes onto individual tiles.  A Compositor reuses its
// buffers between calls and must not be used concurrently.
type Compositor struct {
	// Size is the expected width and height of base tiles, in pixels.
	Size int

	r   *raster.Rasteriser
	img *image.RGBA
	c   [3]uint8
	a   float64
}

// NewCompositor returns a compositor for square tiles of the given size.
func NewCompositor(size int) *Compositor {
	clip := rect.Rect{URx: float64(size), URy: float64(size)}
	return &Compositor{
		Size: size,
		r:    raster.NewRasteriser(clip),
	}
}

// Composite strokes the polyline through pts onto the base tile at.  The
// vertices are in tile-grid units and may lie outside the tile; the stroke
// is clipped to the tile boundary.  The result has the dimensions and,
// where possible, the image format of the base tile.
func (c *Compositor) Composite(base *tile.Tile, pts []vec.Vec2, at maptile.Tile, style Style) (*tile.Tile, error) {
	img, format, err := tile.Decode(base)
	if err != nil {
		return nil, fmt.Errorf("tile %d/%d/%d: %w", at.Z, at.X, at.Y, err)
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w != c.Size || h != c.Size {
		return nil, fmt.Errorf("tile %d/%d/%d is %dx%d, not %dx%d: %w",
			at.Z, at.X, at.Y, w, h, c.Size, c.Size, ErrTileSize)
	}

	c.r.Reset(rect.Rect{URx: float64(w), URy: float64(h)})
	c.r.Width = style.Width
	c.r.Cap = graphics.LineCapRound
	c.r.Join = graphics.LineJoinRound

	c.img = img
	c.c = [3]uint8{style.Color.R, style.Color.G, style.Color.B}
	c.a = style.Alpha
	c.r.Stroke(pixelPath(pts, at, float64(w), float64(h)), c.blendRow)
	c.img = nil

	data, format, err := tile.Encode(img, format)
	if err != nil {
		return nil, fmt.Errorf("tile %d/%d/%d: %w", at.Z, at.X, at.Y, err)
	}
	return &tile.Tile{Data: data, Width: w, Height: h, Format: format}, nil
}

// pixelPath converts tile-grid vertices into a polyline in the pixel
// coordinates of tile at.
func pixelPath(pts []vec.Vec2, at maptile.Tile, w, h float64) path.Path {
	origin := vec.Vec2{X: float64(at.X), Y: float64(at.Y)}
	return func(yield func(path.Command, []vec.Vec2) bool) {
		var buf [1]vec.Vec2
		for i, pt := range pts {
			d := pt.Sub(origin)
			buf[0] = vec.Vec2{X: d.X * w, Y: d.Y * h}
			cmd := path.CmdLineTo
			if i == 0 {
				cmd = path.CmdMoveTo
			}
			if !yield(cmd, buf[:]) {
				return
			}
		}
	}
}

// blendRow composites one row of stroke coverage onto the tile using the
// source-atop operator: S·Da + D·(1-Sa), with the destination alpha left
// unchanged.  Pixels are premultiplied.
func (c *Compositor) blendRow(y, xMin int, coverage []float32) {
	row := c.img.Pix[y*c.img.Stride+4*xMin:]
	for i, cov := range coverage {
		sa := uint8(float64(cov)*c.a*255 + 0.5)
		if sa == 0 {
			continue
		}
		px := row[4*i : 4*i+4 : 4*i+4]
		da := px[3]
		inv := 255 - sa
		for k := range 3 {
			s := mulDiv255(c.c[k], sa)
			px[k] = addClamp(mulDiv255(s, da), mulDiv255(px[k], inv))
		}
	}
}

func mulDiv255(a, b uint8) uint8 {
	return uint8((uint16(a)*uint16(b) + 127) / 255)
}

func addClamp(a, b uint8) uint8 {
	s := uint16(a) + uint16(b)
	if s > 255 {
		return 255
	}
	return uint8(s)
}
