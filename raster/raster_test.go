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

package raster

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// canvas collects emitted coverage into a dense buffer.
type canvas struct {
	w, h int
	pix  []float32
}

func newCanvas(w, h int) *canvas {
	return &canvas{w: w, h: h, pix: make([]float32, w*h)}
}

func (c *canvas) emit(y, xMin int, coverage []float32) {
	for i, v := range coverage {
		c.pix[y*c.w+xMin+i] = v
	}
}

func (c *canvas) at(x, y int) float32 {
	return c.pix[y*c.w+x]
}

func (c *canvas) sum() float64 {
	var s float64
	for _, v := range c.pix {
		s += float64(v)
	}
	return s
}

func (c *canvas) max() float32 {
	var m float32
	for _, v := range c.pix {
		m = max(m, v)
	}
	return m
}

func clipRect(w, h int) rect.Rect {
	return rect.Rect{URx: float64(w), URy: float64(h)}
}

// polyline returns the open path through pts.
func polyline(pts ...vec.Vec2) path.Path {
	return func(yield func(path.Command, []vec.Vec2) bool) {
		for i, pt := range pts {
			cmd := path.CmdLineTo
			if i == 0 {
				cmd = path.CmdMoveTo
			}
			if !yield(cmd, []vec.Vec2{pt}) {
				return
			}
		}
	}
}

// polygon returns the closed path through pts.
func polygon(pts ...vec.Vec2) path.Path {
	return func(yield func(path.Command, []vec.Vec2) bool) {
		for cmd, p := range polyline(pts...) {
			if !yield(cmd, p) {
				return
			}
		}
		yield(path.CmdClose, nil)
	}
}

// The triangle (0,0)→(10,0)→(10,1)→close has a diagonal edge y = x/10.
// Each pixel X should have coverage (2X+1)/20: 0.05, 0.15, ..., 0.95.
func TestTriangleCoverage(t *testing.T) {
	triangle := polygon(
		vec.Vec2{X: 0, Y: 0},
		vec.Vec2{X: 10, Y: 0},
		vec.Vec2{X: 10, Y: 1},
	)

	c := newCanvas(10, 1)
	r := NewRasteriser(clipRect(10, 1))
	r.FillNonZero(triangle, c.emit)

	for x := range 10 {
		want := float64(2*x+1) / 20
		assert.InDelta(t, want, c.at(x, 0), 1e-6, "pixel %d", x)
	}
}

func TestFillRectangle(t *testing.T) {
	// half-pixel offsets give fractional coverage along the border
	square := polygon(
		vec.Vec2{X: 2.5, Y: 2.5},
		vec.Vec2{X: 6.5, Y: 2.5},
		vec.Vec2{X: 6.5, Y: 6.5},
		vec.Vec2{X: 2.5, Y: 6.5},
	)

	c := newCanvas(10, 10)
	NewRasteriser(clipRect(10, 10)).FillNonZero(square, c.emit)

	assert.InDelta(t, 16, c.sum(), 1e-4)
	assert.InDelta(t, 1, c.at(4, 4), 1e-6)
	assert.InDelta(t, 0.5, c.at(2, 4), 1e-6)
	assert.InDelta(t, 0.25, c.at(2, 2), 1e-6)
	assert.Zero(t, c.at(8, 8))
}

func TestStrokeCaps(t *testing.T) {
	line := polyline(vec.Vec2{X: 10, Y: 32}, vec.Vec2{X: 54, Y: 32})
	const width = 8.0
	body := 44 * width
	disc := math.Pi * width * width / 4

	cases := []struct {
		name string
		cap  graphics.LineCapStyle
		area float64
	}{
		{"butt", graphics.LineCapButt, body},
		{"square", graphics.LineCapSquare, body + width*width},
		{"round", graphics.LineCapRound, body + disc},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newCanvas(64, 64)
			r := NewRasteriser(clipRect(64, 64))
			r.Width = width
			r.Cap = tc.cap
			r.Stroke(line, c.emit)

			assert.InEpsilon(t, tc.area, c.sum(), 0.02)
			assert.InDelta(t, 1, c.at(32, 30), 1e-6)
			assert.InDelta(t, 1, c.at(32, 33), 1e-6)
			assert.Zero(t, c.at(32, 27))
			assert.Zero(t, c.at(32, 36))
			assert.LessOrEqual(t, c.max(), float32(1))
		})
	}
}

func TestStrokeJoins(t *testing.T) {
	// right angle corner: the joins differ only in the outer corner square
	corner := polyline(
		vec.Vec2{X: 10, Y: 40},
		vec.Vec2{X: 40, Y: 40},
		vec.Vec2{X: 40, Y: 10},
	)
	const width = 6.0
	const d = width / 2
	base := 2 * 30 * width // both legs, butt caps, inner square counted twice
	base -= d * d          // ...inner overlap
	cases := []struct {
		name string
		join graphics.LineJoinStyle
		area float64
	}{
		{"bevel", graphics.LineJoinBevel, base + d*d/2},
		{"miter", graphics.LineJoinMiter, base + d*d},
		{"round", graphics.LineJoinRound, base + math.Pi*d*d/4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newCanvas(64, 64)
			r := NewRasteriser(clipRect(64, 64))
			r.Width = width
			r.Join = tc.join
			r.Stroke(corner, c.emit)

			assert.InEpsilon(t, tc.area, c.sum(), 0.01)
			assert.LessOrEqual(t, c.max(), float32(1))
		})
	}
}

func TestStrokeOverlapPaintedOnce(t *testing.T) {
	// A route which doubles back covers the same pixels as a single pass.
	// The stroke borders are pixel aligned, so that the coverage of both
	// passes is exactly 0 or 1.
	a := vec.Vec2{X: 8, Y: 20}
	b := vec.Vec2{X: 56, Y: 20}

	r := NewRasteriser(clipRect(64, 40))
	r.Width = 4
	r.Join = graphics.LineJoinBevel

	single := newCanvas(64, 40)
	r.Stroke(polyline(a, b), single.emit)

	double := newCanvas(64, 40)
	r.Stroke(polyline(a, b, a), double.emit)

	assert.InDelta(t, 48*4, single.sum(), 1e-3)
	assert.InDelta(t, single.sum(), double.sum(), 1e-3)
	assert.LessOrEqual(t, double.max(), float32(1))
}

// A stroke with round caps and joins covers exactly the union of the
// round-capped strokes of its segments.  Short segments with sharp turns,
// as in GPS jitter, must neither leave holes nor paint outside this union.
func TestStrokeJitterMatchesSegments(t *testing.T) {
	const size = 64
	rng := rand.New(rand.NewPCG(1, 2))
	r := NewRasteriser(clipRect(size, size))

	check := func(t *testing.T, pts []vec.Vec2, width float64) {
		t.Helper()
		r.Reset(clipRect(size, size))
		r.Width = width
		r.Cap = graphics.LineCapRound
		r.Join = graphics.LineJoinRound

		got := newCanvas(size, size)
		r.Stroke(polyline(pts...), got.emit)

		want := newCanvas(size, size)
		for i := 1; i < len(pts); i++ {
			seg := newCanvas(size, size)
			r.Stroke(polyline(pts[i-1], pts[i]), seg.emit)
			for k, v := range seg.pix {
				want.pix[k] = max(want.pix[k], v)
			}
		}

		var extra, holes int
		for k := range got.pix {
			if got.pix[k] > 0.5 && want.pix[k] < 0.01 {
				extra++
			}
			if want.pix[k] > 0.99 && got.pix[k] < 0.5 {
				holes++
			}
		}
		assert.Zero(t, extra, "pixels outside the stroke, %v width %g", pts, width)
		assert.Zero(t, holes, "holes inside the stroke, %v width %g", pts, width)
		assert.LessOrEqual(t, got.max(), float32(1))
	}

	t.Run("sharp turns", func(t *testing.T) {
		pts := []vec.Vec2{
			{X: 32, Y: 32},
			{X: 34.13, Y: 33.13},
			{X: 32.96, Y: 31.77},
			{X: 34.46, Y: 33.12},
		}
		check(t, pts, 8.34)
	})

	t.Run("random", func(t *testing.T) {
		for range 500 {
			n := 3 + rng.IntN(6)
			pts := make([]vec.Vec2, n)
			pts[0] = vec.Vec2{X: 32, Y: 32}
			for i := 1; i < n; i++ {
				step := vec.Vec2{X: 6*rng.Float64() - 3, Y: 6*rng.Float64() - 3}
				pts[i] = pts[i-1].Add(step)
			}
			check(t, pts, 1+8*rng.Float64())
			if t.Failed() {
				return
			}
		}
	})
}

func TestStrokeDot(t *testing.T) {
	p := polyline(vec.Vec2{X: 16, Y: 16}, vec.Vec2{X: 16, Y: 16})

	r := NewRasteriser(clipRect(32, 32))
	r.Width = 10

	c := newCanvas(32, 32)
	r.Stroke(p, c.emit)
	assert.Zero(t, c.sum(), "butt caps draw nothing for a dot")

	// The circle is approximated by an inscribed polygon.
	r.Cap = graphics.LineCapRound
	r.Stroke(p, c.emit)
	assert.InEpsilon(t, math.Pi*25, c.sum(), 0.08)
	assert.Less(t, c.sum(), math.Pi*25)
}

func TestStrokeSinglePointDrawsNothing(t *testing.T) {
	p := polyline(vec.Vec2{X: 16, Y: 16})

	r := NewRasteriser(clipRect(32, 32))
	r.Width = 10
	r.Cap = graphics.LineCapRound

	called := false
	r.Stroke(p, func(int, int, []float32) { called = true })
	assert.False(t, called)
}

func TestStrokeClosed(t *testing.T) {
	square := polygon(
		vec.Vec2{X: 10, Y: 10},
		vec.Vec2{X: 30, Y: 10},
		vec.Vec2{X: 30, Y: 30},
		vec.Vec2{X: 10, Y: 30},
	)

	c := newCanvas(40, 40)
	r := NewRasteriser(clipRect(40, 40))
	r.Width = 4
	r.Stroke(square, c.emit)

	// outer square 24×24 minus inner square 16×16, miter joins
	assert.InEpsilon(t, 24*24-16*16, c.sum(), 0.01)
	assert.Zero(t, c.at(20, 20), "interior stays empty")
	assert.InDelta(t, 1, c.at(10, 20), 1e-6)
}

func TestStrokeClipped(t *testing.T) {
	// The line extends far beyond the clip rectangle on both sides.
	line := polyline(vec.Vec2{X: -100, Y: 8}, vec.Vec2{X: 200, Y: 8})

	c := newCanvas(16, 16)
	r := NewRasteriser(clipRect(16, 16))
	r.Width = 4
	r.Stroke(line, func(y, xMin int, coverage []float32) {
		require.GreaterOrEqual(t, xMin, 0)
		require.LessOrEqual(t, xMin+len(coverage), 16)
		require.True(t, y >= 0 && y < 16)
		c.emit(y, xMin, coverage)
	})
	assert.InDelta(t, 16*4, c.sum(), 1e-3)
}

func TestReset(t *testing.T) {
	r := NewRasteriser(clipRect(8, 8))
	r.Width = 7
	r.Cap = graphics.LineCapRound
	r.Join = graphics.LineJoinBevel

	r.Reset(clipRect(16, 16))
	assert.Equal(t, 1.0, r.Width)
	assert.Equal(t, graphics.LineCapButt, r.Cap)
	assert.Equal(t, graphics.LineJoinMiter, r.Join)
	assert.Equal(t, clipRect(16, 16), r.Clip)
}
