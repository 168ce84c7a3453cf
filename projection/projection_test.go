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

package projection

import (
	"math"
	"testing"

	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/stretchr/testify/assert"
	"seehuhn.de/go/geom/vec"
)

func TestWebMercator(t *testing.T) {
	var p WebMercator

	got := p.Project(s2.LatLngFromDegrees(0, 0), 0)
	assert.InDelta(t, 0.5, got.X, 1e-12)
	assert.InDelta(t, 0.5, got.Y, 1e-12)

	got = p.Project(s2.LatLngFromDegrees(0, -180), 10)
	assert.InDelta(t, 0, got.X, 1e-9)
	assert.InDelta(t, 512, got.Y, 1e-9)

	// north of the grid edge
	got = p.Project(s2.LatLngFromDegrees(89, 10), 4)
	assert.Equal(t, 0.0, got.Y)
}

func TestWebMercatorAntimeridian(t *testing.T) {
	var p WebMercator
	for z := maptile.Zoom(0); z <= 20; z++ {
		n := float64(uint32(1) << z)
		for _, lat := range []float64{-90, -85.06, 0, 10, 85.06, 90} {
			ll := s2.LatLngFromDegrees(lat, 180)
			assert.True(t, ll.IsValid())

			v := p.Project(ll, z)
			assert.Less(t, v.X, n, "lat %g z%d", lat, z)
			assert.Less(t, v.Y, n, "lat %g z%d", lat, z)
			assert.GreaterOrEqual(t, v.Y, 0.0)
			assert.Equal(t, n-1, math.Floor(v.X), "lat %g z%d", lat, z)
		}
	}
}

func TestWebMercatorMatchesTileLookup(t *testing.T) {
	var p WebMercator
	pts := []s2.LatLng{
		s2.LatLngFromDegrees(46.5197, 6.6323),
		s2.LatLngFromDegrees(-33.8688, 151.2093),
		s2.LatLngFromDegrees(64.1466, -21.9426),
	}
	for _, ll := range pts {
		for z := maptile.Zoom(0); z <= 18; z++ {
			v := p.Project(ll, z)
			want := maptile.At(orb.Point{ll.Lng.Degrees(), ll.Lat.Degrees()}, z)
			assert.Equal(t, want.X, uint32(math.Floor(v.X)), "%v z%d", ll, z)
			assert.Equal(t, want.Y, uint32(math.Floor(v.Y)), "%v z%d", ll, z)
		}
	}
}

func TestZoomDoublesCoordinates(t *testing.T) {
	var p WebMercator
	ll := s2.LatLngFromDegrees(51.5074, -0.1278)
	a := p.Project(ll, 9)
	b := p.Project(ll, 10)
	assert.InDelta(t, 2*a.X, b.X, 1e-9)
	assert.InDelta(t, 2*a.Y, b.Y, 1e-9)
}

func TestProjectAll(t *testing.T) {
	f := Func(func(ll s2.LatLng, zoom maptile.Zoom) vec.Vec2 {
		return vec.Vec2{X: ll.Lng.Degrees() + float64(zoom), Y: ll.Lat.Degrees()}
	})
	pts := []s2.LatLng{
		s2.LatLngFromDegrees(1, 2),
		s2.LatLngFromDegrees(3, 4),
	}
	got := ProjectAll(f, pts, 5)
	assert.Len(t, got, 2)
	assert.InDelta(t, 7, got[0].X, 1e-12)
	assert.InDelta(t, 3, got[1].Y, 1e-12)
	assert.Empty(t, ProjectAll(f, nil, 5))
}
