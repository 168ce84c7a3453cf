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

// Package raster converts polygons and stroked polylines into anti-aliased
// pixel coverage.
//
// Coordinates are given in device pixels, with y growing downwards.  The
// coverage of a pixel is the exact fraction of its area which lies inside
// the shape.
package raster

import (
	"math"
	"slices"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// EmitFunc receives the coverage values of one pixel row.  The slice holds
// the coverage of the pixels xMin, xMin+1, ... and is only valid during
// the call.
type EmitFunc func(y, xMin int, coverage []float32)

// edge is a non-horizontal line segment in device coordinates.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64 // slope, (x1-x0)/(y1-y0)
}

// Rasteriser turns outlines into coverage values.  One Rasteriser can be
// reused for any number of shapes; its buffers grow as needed and are kept
// between calls.
//
// A Rasteriser is not safe for concurrent use.
type Rasteriser struct {
	// Clip restricts output to this rectangle.  The corners must have
	// integer coordinates.
	Clip rect.Rect

	// Flatness is the maximal distance, in pixels, between a curve or arc
	// and the polygon used to approximate it.
	Flatness float64

	// Width is the stroke width in pixels.
	Width float64

	// Cap is the shape used at the open ends of stroked subpaths.
	Cap graphics.LineCapStyle

	// Join is the shape used where two stroked segments meet.
	Join graphics.LineJoinStyle

	// MiterLimit bounds the length of miter joins, relative to the line
	// width.  Longer miters are drawn as bevels.
	MiterLimit float64

	edges []edge
	cover []float32 // signed height of edge pieces, per pixel
	area  []float32 // cover weighted by the uncovered part of the pixel
	dirty []bool    // rows which received any edge contribution

	// bounding box of the collected edges
	bbox    rect.Rect
	hasBBox bool

	// stroking state
	segs    []segment
	runs    []run
	dots    []vec.Vec2
	outline []vec.Vec2
	polys   []int // start index of each polygon in outline
}

// NewRasteriser returns a Rasteriser for the given clip rectangle.  The
// remaining parameters start out with the PDF defaults.
func NewRasteriser(clip rect.Rect) *Rasteriser {
	r := &Rasteriser{}
	r.Reset(clip)
	return r
}

// Reset restores the default parameters and sets a new clip rectangle.
// Buffer capacity is retained.
func (r *Rasteriser) Reset(clip rect.Rect) {
	r.Clip = clip
	r.Flatness = defaultFlatness
	r.Width = 1
	r.Cap = graphics.LineCapButt
	r.Join = graphics.LineJoinMiter
	r.MiterLimit = defaultMiterLimit

	r.edges = r.edges[:0]
	r.segs = r.segs[:0]
	r.runs = r.runs[:0]
	r.dots = r.dots[:0]
	r.outline = r.outline[:0]
	r.polys = r.polys[:0]
}

// FillNonZero fills the path using the nonzero winding number rule.
// Curves are flattened to within Flatness.
func (r *Rasteriser) FillNonZero(p path.Path, emit EmitFunc) {
	r.beginEdges()
	var cur, start vec.Vec2
	for cmd, pts := range p {
		switch cmd {
		case path.CmdMoveTo:
			if cur != start {
				r.addEdge(cur, start)
			}
			cur = pts[0]
			start = cur
		case path.CmdLineTo:
			r.addEdge(cur, pts[0])
			cur = pts[0]
		case path.CmdQuadTo:
			r.flattenQuad(cur, pts[0], pts[1], r.addEdge)
			cur = pts[1]
		case path.CmdCubeTo:
			r.flattenCube(cur, pts[0], pts[1], pts[2], r.addEdge)
			cur = pts[2]
		case path.CmdClose:
			if cur != start {
				r.addEdge(cur, start)
			}
			cur = start
		}
	}
	// Filling implicitly closes every subpath.
	if cur != start {
		r.addEdge(cur, start)
	}
	r.render(emit)
}

// fillPolygons fills the closed polygons stored in r.outline, using the
// nonzero rule so that overlapping parts are painted once.
func (r *Rasteriser) fillPolygons(emit EmitFunc) {
	r.beginEdges()
	for i, start := range r.polys {
		end := len(r.outline)
		if i+1 < len(r.polys) {
			end = r.polys[i+1]
		}
		poly := r.outline[start:end]
		if len(poly) < 3 {
			continue
		}
		prev := poly[len(poly)-1]
		for _, p := range poly {
			r.addEdge(prev, p)
			prev = p
		}
	}
	r.render(emit)
}

func (r *Rasteriser) beginEdges() {
	r.edges = r.edges[:0]
	r.hasBBox = false
}

// addEdge records the segment from a to b.  Horizontal segments do not
// change the winding number and are dropped.
func (r *Rasteriser) addEdge(a, b vec.Vec2) {
	dy := b.Y - a.Y
	if math.Abs(dy) < horizontalEdgeThreshold {
		return
	}
	r.edges = append(r.edges, edge{
		x0: a.X, y0: a.Y,
		x1: b.X, y1: b.Y,
		dxdy: (b.X - a.X) / dy,
	})

	lo := vec.Vec2{X: min(a.X, b.X), Y: min(a.Y, b.Y)}
	hi := vec.Vec2{X: max(a.X, b.X), Y: max(a.Y, b.Y)}
	if !r.hasBBox {
		r.bbox = rect.Rect{LLx: lo.X, LLy: lo.Y, URx: hi.X, URy: hi.Y}
		r.hasBBox = true
		return
	}
	r.bbox.LLx = min(r.bbox.LLx, lo.X)
	r.bbox.LLy = min(r.bbox.LLy, lo.Y)
	r.bbox.URx = max(r.bbox.URx, hi.X)
	r.bbox.URy = max(r.bbox.URy, hi.Y)
}

// render accumulates all collected edges and emits the resulting coverage
// row by row.
func (r *Rasteriser) render(emit EmitFunc) {
	if len(r.edges) == 0 {
		return
	}

	x0 := max(int(math.Floor(r.bbox.LLx)), int(r.Clip.LLx))
	x1 := min(int(math.Floor(r.bbox.URx))+1, int(r.Clip.URx))
	y0 := max(int(math.Floor(r.bbox.LLy)), int(r.Clip.LLy))
	y1 := min(int(math.Floor(r.bbox.URy))+1, int(r.Clip.URy))
	if x0 >= x1 || y0 >= y1 {
		return
	}
	w, h := x1-x0, y1-y0

	n := w * h
	r.cover = slices.Grow(r.cover[:0], n)[:n]
	r.area = slices.Grow(r.area[:0], n)[:n]
	r.dirty = slices.Grow(r.dirty[:0], h)[:h]
	clear(r.cover)
	clear(r.area)
	clear(r.dirty)

	for i := range r.edges {
		e := &r.edges[i]
		top := max(int(math.Floor(min(e.y0, e.y1))), y0)
		bot := min(int(math.Floor(max(e.y0, e.y1)))+1, y1)
		for y := top; y < bot; y++ {
			row := (y - y0) * w
			if accumulate(e, y, r.cover[row:row+w], r.area[row:row+w], x0) {
				r.dirty[y-y0] = true
			}
		}
	}

	for j := range h {
		if !r.dirty[j] {
			continue
		}
		row := j * w
		cov := r.cover[row : row+w]
		integrateNonZero(cov, r.area[row:row+w])
		if trimmed, off := trimZeros(cov); trimmed != nil {
			emit(y0+j, x0+off, trimmed)
		}
	}
}

// accumulate adds the part of e which lies in the pixel row y to the cover
// and area buffers.  Index 0 of the buffers corresponds to pixel column
// xOff.  Contributions left of the buffer are folded into column 0, since
// they affect the winding number of every pixel in the row.
//
// The return value reports whether anything was added.
//
// For a piece of edge inside a single pixel, cover is the signed vertical
// extent of the piece and area is cover times the fraction of the pixel
// to the right of the piece.  After integration along the row, pixel i
// receives the area of the shape within it.
func accumulate(e *edge, y int, cover, area []float32, xOff int) bool {
	top := max(float64(y), min(e.y0, e.y1))
	bot := min(float64(y+1), max(e.y0, e.y1))
	if bot <= top {
		return false
	}
	dir := float32(1)
	if e.y1 < e.y0 {
		dir = -1
	}
	w := len(cover)

	// x-coordinates where the edge enters and leaves the row
	xa := e.x0 + e.dxdy*(top-e.y0)
	xb := e.x0 + e.dxdy*(bot-e.y0)
	if xa > xb {
		xa, xb = xb, xa
	}

	add := func(col int, dy, xMid float64) {
		c := dir * float32(dy)
		i := col - xOff
		switch {
		case i < 0:
			cover[0] += c
			area[0] += c
		case i < w:
			cover[i] += c
			area[i] += c * float32(1-(xMid-float64(col)))
		}
	}

	first := int(math.Floor(xa))
	last := int(math.Floor(xb))
	if first == last || e.dxdy == 0 {
		add(first, bot-top, (xa+xb)/2)
		return true
	}
	if first-xOff >= w {
		return false
	}

	// The edge crosses several pixel columns.  The part left of the buffer
	// is added in one piece, since all of it goes to column 0.
	dydx := 1 / e.dxdy
	if first < xOff {
		yb := e.y0 + dydx*(float64(xOff)-e.x0)
		lo, hi := top, min(bot, yb)
		if e.dxdy < 0 {
			lo, hi = max(top, yb), bot
		}
		if hi > lo {
			add(xOff-1, hi-lo, 0)
		}
		first = xOff
	}

	// Inside each remaining column the piece spans [lo, hi] vertically.
	last = min(last, xOff+w-1)
	for col := first; col <= last; col++ {
		ya := e.y0 + dydx*(float64(col)-e.x0)
		yb := e.y0 + dydx*(float64(col+1)-e.x0)
		lo := max(min(ya, yb), top)
		hi := min(max(ya, yb), bot)
		if hi <= lo {
			continue
		}
		xMid := e.x0 + e.dxdy*((lo+hi)/2-e.y0)
		add(col, hi-lo, xMid)
	}
	return true
}

// integrateNonZero replaces cover with the final coverage values of the
// row, using the nonzero winding rule.
func integrateNonZero(cover, area []float32) {
	var acc float32
	for i, c := range cover {
		v := acc + area[i]
		acc += c
		if v < 0 {
			v = -v
		}
		cover[i] = min(v, 1)
	}
}

// trimZeros strips zero coverage values from both ends of a row.
func trimZeros(cov []float32) ([]float32, int) {
	lo, hi := 0, len(cov)
	for lo < hi && cov[lo] == 0 {
		lo++
	}
	for hi > lo && cov[hi-1] == 0 {
		hi--
	}
	if lo == hi {
		return nil, 0
	}
	return cov[lo:hi], lo
}

// flattenQuad approximates a quadratic Bézier curve by line segments.
func (r *Rasteriser) flattenQuad(p0, p1, p2 vec.Vec2, line func(a, b vec.Vec2)) {
	dev := p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25).Length()
	n := 1
	if dev > r.Flatness {
		n = int(math.Ceil(math.Sqrt(dev / r.Flatness)))
	}
	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		pt := p0.Mul(s * s).Add(p1.Mul(2 * s * t)).Add(p2.Mul(t * t))
		line(prev, pt)
		prev = pt
	}
}

// flattenCube approximates a cubic Bézier curve by line segments, using
// Wang's formula for the number of pieces.
func (r *Rasteriser) flattenCube(p0, p1, p2, p3 vec.Vec2, line func(a, b vec.Vec2)) {
	d1 := p0.Sub(p1.Mul(2)).Add(p2).Length()
	d2 := p1.Sub(p2.Mul(2)).Add(p3).Length()
	n := max(int(math.Ceil(math.Sqrt(3*max(d1, d2)/(4*r.Flatness)))), 1)
	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		pt := p0.Mul(s * s * s).
			Add(p1.Mul(3 * s * s * t)).
			Add(p2.Mul(3 * s * t * t)).
			Add(p3.Mul(t * t * t))
		line(prev, pt)
		prev = pt
	}
}

const (
	// defaultFlatness is below the threshold of visual perception.
	defaultFlatness = 0.25

	// defaultMiterLimit matches PDF and PostScript.  Joins with an
	// interior angle below about 11.5 degrees become bevels.
	defaultMiterLimit = 10.0

	horizontalEdgeThreshold = 1e-10
	zeroLengthThreshold     = 1e-10
	collinearityThreshold   = 1e-6

	// cuspCosineThreshold detects segments which double back on
	// themselves; cos(179.43°) ≈ -0.9999
	cuspCosineThreshold = -0.9999
)
