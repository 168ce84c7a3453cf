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
	"image"
	"image/color"
	"testing"

	"github.com/paulmach/orb/maptile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/tileroute/tile"
)

var white = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

func solid(t *testing.T, size int, c color.Color, format string) *tile.Tile {
	t.Helper()
	tl, err := tile.Solid(size, size, c, format)
	require.NoError(t, err)
	return tl
}

func decode(t *testing.T, tl *tile.Tile) *image.RGBA {
	t.Helper()
	img, _, err := tile.Decode(tl)
	require.NoError(t, err)
	return img
}

// collect returns the commands and points of a path.
func collect(p path.Path) ([]path.Command, []vec.Vec2) {
	var cmds []path.Command
	var coords []vec.Vec2
	for cmd, pts := range p {
		cmds = append(cmds, cmd)
		coords = append(coords, pts...)
	}
	return cmds, coords
}

func TestPixelPath(t *testing.T) {
	pts := []vec.Vec2{{X: 10.2, Y: 20.3}, {X: 10.8, Y: 20.7}}
	cmds, coords := collect(pixelPath(pts, maptile.New(10, 20, 10), 256, 256))

	assert.Equal(t, []path.Command{path.CmdMoveTo, path.CmdLineTo}, cmds)
	require.Len(t, coords, 2)
	assert.InDelta(t, 0.2*256, coords[0].X, 1e-9)
	assert.InDelta(t, 0.3*256, coords[0].Y, 1e-9)
	assert.InDelta(t, 0.8*256, coords[1].X, 1e-9)
	assert.InDelta(t, 0.7*256, coords[1].Y, 1e-9)

	// vertices in a neighbouring tile map outside the pixel range
	_, coords = collect(pixelPath(pts, maptile.New(11, 20, 10), 256, 256))
	assert.Less(t, coords[0].X, 0.0)
}

func TestCompositeSegment(t *testing.T) {
	const size = 256
	base := solid(t, size, white, "png")
	pts := []vec.Vec2{{X: 10.2, Y: 20.3}, {X: 10.8, Y: 20.7}}
	style := Style{Color: color.NRGBA{R: 0xFF, A: 0xFF}, Alpha: 0.8, Width: 4}

	out, err := NewCompositor(size).Composite(base, pts, maptile.New(10, 20, 10), style)
	require.NoError(t, err)
	assert.Equal(t, "png", out.Format)
	assert.Equal(t, size, out.Width)
	assert.Equal(t, size, out.Height)

	img := decode(t, out)
	// the segment midpoint is fully covered
	assert.Equal(t, color.RGBA{R: 0xFF, G: 51, B: 51, A: 0xFF}, img.RGBAAt(128, 128))
	// away from the stroke the base is unchanged
	assert.Equal(t, white, img.RGBAAt(10, 10))
	assert.Equal(t, white, img.RGBAAt(240, 230))
	assert.Equal(t, white, img.RGBAAt(128, 150))
}

// Source-atop never paints where the base tile is transparent, and leaves
// the alpha channel unchanged.
func TestCompositeSourceAtop(t *testing.T) {
	const size = 64
	half := color.RGBA{A: 0x80}
	pts := []vec.Vec2{{X: 0, Y: 0.5}, {X: 1, Y: 0.5}}
	style := Style{Color: color.NRGBA{B: 0xFF, A: 0xFF}, Alpha: 1, Width: 8}
	c := NewCompositor(size)

	out, err := c.Composite(solid(t, size, color.RGBA{}, "png"), pts, maptile.New(0, 0, 0), style)
	require.NoError(t, err)
	img := decode(t, out)
	assert.Equal(t, color.RGBA{}, img.RGBAAt(32, 32))

	out, err = c.Composite(solid(t, size, half, "png"), pts, maptile.New(0, 0, 0), style)
	require.NoError(t, err)
	img = decode(t, out)
	got := img.RGBAAt(32, 32)
	assert.Equal(t, uint8(0x80), got.A)
	assert.Equal(t, uint8(0x80), got.B)
	assert.Zero(t, got.R)
	assert.Equal(t, half, img.RGBAAt(32, 5))
}

// The level of detail factors show up as the stroke width (number of rows
// touched) and opacity (ink per column) of a horizontal line.
func TestCompositeLevelOfDetail(t *testing.T) {
	const size = 256
	const minZoom = 9
	base := solid(t, size, white, "png")
	at := maptile.New(3, 5, 4)
	y := 5 + 128.5/size
	pts := []vec.Vec2{{X: 3 + 20.0/size, Y: y}, {X: 3 + 236.0/size, Y: y}}

	cases := []struct {
		offset int
		rows   int
		ink    float64
	}{
		{0, 1, 0.1},
		{1, 1, 0.2},
		{2, 3, 0.8},
		{3, 5, 3.2},
	}
	c := NewCompositor(size)
	for _, tc := range cases {
		alpha, width := LevelOfDetail(minZoom+tc.offset, minZoom)
		style := Style{Alpha: 0.8 * alpha, Width: 4 * width}
		out, err := c.Composite(base, pts, at, style)
		require.NoError(t, err)
		img := decode(t, out)

		rows := 0
		ink := 0.0
		for row := range size {
			v := 255 - img.RGBAAt(128, row).R
			if v > 0 {
				rows++
			}
			ink += float64(v) / 255
		}
		assert.Equal(t, tc.rows, rows, "offset %d", tc.offset)
		assert.InDelta(t, tc.ink, ink, 0.011, "offset %d", tc.offset)
	}
}

func TestCompositeKeepsFormat(t *testing.T) {
	pts := []vec.Vec2{{X: 0.1, Y: 0.1}, {X: 0.9, Y: 0.9}}
	style := Style{Color: color.NRGBA{A: 0xFF}, Alpha: 1, Width: 2}
	c := NewCompositor(32)

	for _, format := range []string{"png", "jpeg", "gif", "bmp", "tiff"} {
		out, err := c.Composite(solid(t, 32, white, format), pts, maptile.New(0, 0, 0), style)
		require.NoError(t, err, format)
		assert.Equal(t, format, out.Format)

		parsed, err := tile.New(out.Data)
		require.NoError(t, err)
		assert.Equal(t, format, parsed.Format)
	}
}

func TestCompositeSingleVertex(t *testing.T) {
	base := solid(t, 32, white, "png")
	style := Style{Color: color.NRGBA{A: 0xFF}, Alpha: 1, Width: 6}

	out, err := NewCompositor(32).Composite(base, []vec.Vec2{{X: 0.5, Y: 0.5}}, maptile.New(0, 0, 0), style)
	require.NoError(t, err)
	assert.Equal(t, white, decode(t, out).RGBAAt(16, 16))
}

func TestCompositeErrors(t *testing.T) {
	c := NewCompositor(32)
	style := Style{Alpha: 1, Width: 1}
	pts := []vec.Vec2{{X: 0.5, Y: 0.5}}

	_, err := c.Composite(&tile.Tile{Data: []byte("garbage")}, pts, maptile.New(0, 0, 0), style)
	assert.Error(t, err)

	_, err = c.Composite(solid(t, 16, white, "png"), pts, maptile.New(0, 0, 0), style)
	assert.ErrorIs(t, err, ErrTileSize)
}
