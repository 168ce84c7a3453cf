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

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// segment is a non-degenerate piece of a flattened subpath.
type segment struct {
	A, B vec.Vec2
	T    vec.Vec2 // unit tangent, from A to B
	N    vec.Vec2 // unit normal, T rotated by +90°
	L    float64  // length
}

// run describes one flattened subpath, as a range of r.segs.
type run struct {
	start, end int
	closed     bool
}

// Stroke paints the outline of the path, using Width, Cap, Join and
// MiterLimit.  All subpaths are combined into one shape, so that
// self-overlapping parts of a stroke are painted only once.
func (r *Rasteriser) Stroke(p path.Path, emit EmitFunc) {
	r.flatten(p)
	if len(r.runs) == 0 && len(r.dots) == 0 {
		return
	}

	r.outline = r.outline[:0]
	r.polys = r.polys[:0]
	d := r.Width / 2

	// Zero-length subpaths have no direction.  Only round caps give them
	// a well-defined shape.
	if r.Cap == graphics.LineCapRound {
		for _, c := range r.dots {
			r.beginPolygon()
			r.arc(c, d, vec.Vec2{X: 1}, 2*math.Pi, true)
		}
	}

	for _, sp := range r.runs {
		segs := r.segs[sp.start:sp.end]
		if sp.closed {
			r.beginPolygon()
			r.offsetChain(segs, d, +1, true)
			r.beginPolygon()
			r.offsetChain(segs, d, -1, true)
			r.reverseLastPolygon()
		} else {
			r.strokeOpen(segs, d)
		}
	}

	r.fillPolygons(emit)
}

// strokeOpen appends the outline of an open subpath as a single polygon:
// the left offset line, the end cap, the right offset line in reverse
// order and finally the start cap.
func (r *Rasteriser) strokeOpen(segs []segment, d float64) {
	first := &segs[0]
	last := &segs[len(segs)-1]

	r.beginPolygon()
	r.offsetChain(segs, d, +1, false)
	r.addCap(last.B, last.T, d)

	k := len(r.outline)
	r.offsetChain(segs, d, -1, false)
	reverse(r.outline[k:])

	r.addCap(first.A, first.T.Mul(-1), d)
}

// beginPolygon starts a new polygon in r.outline.  Polygons with fewer
// than three vertices are ignored when filling.
func (r *Rasteriser) beginPolygon() {
	r.polys = append(r.polys, len(r.outline))
}

func (r *Rasteriser) reverseLastPolygon() {
	reverse(r.outline[r.polys[len(r.polys)-1]:])
}

func reverse(pts []vec.Vec2) {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}

// offsetChain appends the offset line of segs at distance d on one side,
// in path direction.  The side is +1 for the side of the normal N and -1
// for the opposite side.  On the outer side of each corner the join is
// inserted.  On the inner side the two offset lines are cut at their
// intersection where this stays inside both segments; otherwise the
// chain passes through the corner point, and the nonzero rule fills the
// overlap.  For closed subpaths the chain also contains the corner
// between the last and the first segment.
func (r *Rasteriser) offsetChain(segs []segment, d, side float64, closed bool) {
	n := len(segs)
	off := func(p, normal vec.Vec2) vec.Vec2 {
		return p.Add(normal.Mul(side * d))
	}

	skipStart := false
	if closed {
		// The corner at the start point is emitted at the end of the
		// chain; if it was cut on the inner side, the cut point replaces
		// the offset start point of the first segment.
		prev := &segs[n-1]
		if classify(prev.T, segs[0].T, side) == cornerInner {
			_, skipStart = innerCut(prev, &segs[0], d, side)
		}
	}

	for i := range n {
		seg := &segs[i]
		if !skipStart {
			r.outline = append(r.outline, off(seg.A, seg.N))
		}
		skipStart = false

		var next *segment
		switch {
		case i+1 < n:
			next = &segs[i+1]
		case closed:
			next = &segs[0]
		default:
			r.outline = append(r.outline, off(seg.B, seg.N))
			continue
		}

		switch classify(seg.T, next.T, side) {
		case cornerStraight:
			r.outline = append(r.outline, off(seg.B, seg.N))
		case cornerInner:
			if p, ok := innerCut(seg, next, d, side); ok {
				r.outline = append(r.outline, p)
				skipStart = true
			} else {
				r.outline = append(r.outline,
					off(seg.B, seg.N), seg.B, off(seg.B, next.N))
			}
		case cornerOuter:
			r.outline = append(r.outline, off(seg.B, seg.N))
			r.addJoin(seg.B, seg.T, next.T, d, side)
			if i+1 == n {
				r.outline = append(r.outline, off(next.A, next.N))
			}
		}
	}
}

type corner int

const (
	cornerStraight corner = iota
	cornerInner
	cornerOuter
)

// classify determines the shape of the corner where the tangent turns from
// t1 to t2, as seen from the given side of the stroke.  A path which
// doubles back counts as an outer corner on both sides.
func classify(t1, t2 vec.Vec2, side float64) corner {
	s := cross(t1, t2)
	c := t1.Dot(t2)
	switch {
	case c < cuspCosineThreshold:
		return cornerOuter
	case math.Abs(s) < collinearityThreshold && c > 0:
		return cornerStraight
	case side*s > 0:
		return cornerInner
	default:
		return cornerOuter
	}
}

// cross returns the z-component of the cross product of a and b.  It is
// positive if b is rotated counter-clockwise relative to a.
func cross(a, b vec.Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}

// innerCut returns the intersection of the two offset lines on the inner
// side of the corner between seg and next.  The intersection lies
// d·tan(θ/2) from the corner along both segments, where θ is the turning
// angle.  ok is false if this exceeds half the length of either segment,
// since both ends of a segment can be cut, and for nearly collinear or
// reversing tangents.
func innerCut(seg, next *segment, d, side float64) (vec.Vec2, bool) {
	t1, t2 := seg.T, next.T
	c := t1.Dot(t2)
	if c > 1-1e-9 {
		return vec.Vec2{}, false
	}
	half := math.Sqrt((1 + c) / 2) // cos(θ/2)
	if half < 1e-9 {
		return vec.Vec2{}, false
	}
	trim := d * math.Sqrt((1-c)/(1+c))
	if 2*trim > seg.L || 2*trim > next.L {
		return vec.Vec2{}, false
	}
	dir := vec.Vec2{X: -t1.Y - t2.Y, Y: t1.X + t2.X}.Mul(side)
	l := dir.Length()
	if l < 1e-9 {
		return vec.Vec2{}, false
	}
	return seg.B.Add(dir.Mul(d / (half * l))), true
}

// addCap appends the cap at the end point p of a subpath.  t is the unit
// tangent pointing away from the stroke.  The outline already ends at the
// offset point p+d·n, where n is t rotated by +90°; the cap ends at p-d·n.
func (r *Rasteriser) addCap(p, t vec.Vec2, d float64) {
	n := vec.Vec2{X: -t.Y, Y: t.X}
	switch r.Cap {
	case graphics.LineCapRound:
		r.arc(p, d, n, -math.Pi, false)
	case graphics.LineCapSquare:
		ext := p.Add(t.Mul(d))
		r.outline = append(r.outline, ext.Add(n.Mul(d)), ext.Sub(n.Mul(d)))
	}
	// Butt caps need no extra points.
}

// addJoin appends the join geometry on the outer side of the corner at p,
// where the tangent turns from t1 to t2.  The offset point of the incoming
// segment is already part of the outline.
func (r *Rasteriser) addJoin(p, t1, t2 vec.Vec2, d, side float64) {
	c := max(-1, min(1, t1.Dot(t2)))

	switch r.Join {
	case graphics.LineJoinRound:
		// On the outer side the arc turns against the side of the stroke.
		sweep := -side * math.Acos(c)
		start := vec.Vec2{X: -t1.Y, Y: t1.X}.Mul(side)
		r.arc(p, d, start, sweep, false)

	case graphics.LineJoinMiter:
		half := math.Sqrt((1 + c) / 2) // cos(θ/2)
		const eps = 1e-10
		if half == 0 || 1/half > r.MiterLimit+eps {
			return // bevel
		}
		dir := vec.Vec2{X: -t1.Y - t2.Y, Y: t1.X + t2.X}.Mul(side)
		if l := dir.Length(); l > zeroLengthThreshold {
			r.outline = append(r.outline, p.Add(dir.Mul(d/(half*l))))
		}
	}
	// Bevel joins connect the two offset points directly.
}

// arc appends points on the circle around center with the given radius,
// starting in direction dir and turning by sweep radians (positive is
// counter-clockwise).  The start point is only included if includeStart is
// set.
func (r *Rasteriser) arc(center vec.Vec2, radius float64, dir vec.Vec2, sweep float64, includeStart bool) {
	rot := func(a float64) vec.Vec2 {
		cos, sin := math.Cos(a), math.Sin(a)
		return vec.Vec2{
			X: dir.X*cos - dir.Y*sin,
			Y: dir.X*sin + dir.Y*cos,
		}
	}

	n := 1
	if radius > r.Flatness {
		// A chord spanning the angle φ deviates from the circle by
		// radius*(1-cos(φ/2)).
		step := 2 * math.Acos(1-r.Flatness/radius)
		if step > 0 && !math.IsNaN(step) {
			n = max(int(math.Ceil(math.Abs(sweep)/step)), 1)
		} else {
			n = 8
		}
	}

	i0 := 1
	if includeStart {
		i0 = 0
	}
	for i := i0; i <= n; i++ {
		a := sweep * float64(i) / float64(n)
		r.outline = append(r.outline, center.Add(rot(a).Mul(radius)))
	}
}

// flatten splits the path into subpaths of line segments.  Curves are
// approximated by polygons.  Subpaths which consist of a single point
// are collected in r.dots.
func (r *Rasteriser) flatten(p path.Path) {
	r.segs = r.segs[:0]
	r.runs = r.runs[:0]
	r.dots = r.dots[:0]

	var cur, start vec.Vec2
	first := 0     // index of the first segment of the current subpath
	open := false  // inside a subpath
	drawn := false // the current subpath has a drawing command
	finish := func(closed bool) {
		switch {
		case len(r.segs) > first:
			r.runs = append(r.runs, run{start: first, end: len(r.segs), closed: closed})
		case drawn || closed:
			r.dots = append(r.dots, start)
		}
		first = len(r.segs)
		open = false
		drawn = false
	}

	for cmd, pts := range p {
		switch cmd {
		case path.CmdMoveTo:
			if open {
				finish(false)
			}
			cur = pts[0]
			start = cur
			open = true
		case path.CmdLineTo:
			if !open {
				continue
			}
			drawn = true
			r.addSegment(cur, pts[0])
			cur = pts[0]
		case path.CmdQuadTo:
			if !open {
				continue
			}
			drawn = true
			r.flattenQuad(cur, pts[0], pts[1], r.addSegment)
			cur = pts[1]
		case path.CmdCubeTo:
			if !open {
				continue
			}
			drawn = true
			r.flattenCube(cur, pts[0], pts[1], pts[2], r.addSegment)
			cur = pts[2]
		case path.CmdClose:
			if open {
				if cur != start {
					r.addSegment(cur, start)
				}
				finish(true)
				cur = start
			}
		}
	}
	if open {
		finish(false)
	}
}

// addSegment appends the segment from a to b, unless it has zero length.
func (r *Rasteriser) addSegment(a, b vec.Vec2) {
	v := b.Sub(a)
	l := v.Length()
	if l < zeroLengthThreshold {
		return
	}
	t := v.Mul(1 / l)
	r.segs = append(r.segs, segment{A: a, B: b, T: t, N: vec.Vec2{X: -t.Y, Y: t.X}, L: l})
}
