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
	"fmt"
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// zigzag returns a polyline crossing a size×size tile n times, similar to a
// GPS track wiggling through a map tile.
func zigzag(size float64, n int) path.Path {
	pts := []vec.Vec2{{X: -10, Y: 0}}
	for i := 1; i <= n; i++ {
		x := size * float64(i) / float64(n)
		y := size * 0.1
		if i%2 == 1 {
			y = size * 0.9
		}
		pts = append(pts, vec.Vec2{X: x, Y: y})
	}
	return polyline(pts...)
}

// BenchmarkStroke measures stroking a route with round caps and joins onto
// a single tile.
func BenchmarkStroke(b *testing.B) {
	for _, size := range []int{256, 512} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			r := NewRasteriser(clipRect(size, size))
			dst := image.NewAlpha(image.Rect(0, 0, size, size))
			route := zigzag(float64(size), 40)

			b.ReportAllocs()
			for b.Loop() {
				r.Width = 4
				r.Cap = graphics.LineCapRound
				r.Join = graphics.LineJoinRound
				r.Stroke(route, func(y, xMin int, coverage []float32) {
					row := dst.Pix[y*dst.Stride+xMin:]
					for i, c := range coverage {
						row[i] = uint8(c * 255)
					}
				})
			}
		})
	}
}

// BenchmarkVectorQuads fills the segment bodies of the same route with
// x/image/vector, as a reference point.  Caps and joins are omitted.
func BenchmarkVectorQuads(b *testing.B) {
	for _, size := range []int{256, 512} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			z := vector.NewRasterizer(size, size)
			dst := image.NewAlpha(image.Rect(0, 0, size, size))
			src := image.NewUniform(color.Alpha{A: 255})

			r := NewRasteriser(clipRect(size, size))
			r.flatten(zigzag(float64(size), 40))
			segs := append([]segment(nil), r.segs...)
			const d = 2

			b.ReportAllocs()
			for b.Loop() {
				z.Reset(size, size)
				for _, s := range segs {
					p0 := s.A.Add(s.N.Mul(d))
					p1 := s.B.Add(s.N.Mul(d))
					p2 := s.B.Sub(s.N.Mul(d))
					p3 := s.A.Sub(s.N.Mul(d))
					z.MoveTo(float32(p0.X), float32(p0.Y))
					z.LineTo(float32(p1.X), float32(p1.Y))
					z.LineTo(float32(p2.X), float32(p2.Y))
					z.LineTo(float32(p3.X), float32(p3.Y))
					z.ClosePath()
				}
				z.Draw(dst, dst.Bounds(), src, image.Point{})
			}
		})
	}
}
