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

package testcases

var basicCases = []Scenario{
	{
		Name: "two_points",
		Routes: routes(Track{
			Name:    "harbour",
			TypeID:  1,
			Color:   0xD62828,
			Points:  [][2]float64{{46.5080, 6.6240}, {46.5105, 6.6330}},
			MaxZoom: 18,
		}),
		MinZoom: 9,
		MaxZoom: 14,
	},
	{
		Name: "single_vertex",
		Routes: routes(Track{
			Name:    "viewpoint",
			TypeID:  1,
			Color:   0x003049,
			Points:  [][2]float64{{46.5197, 6.6323}},
			MaxZoom: 18,
		}),
		MinZoom: 9,
		MaxZoom: 12,
	},
	{
		// The two vertices are several tiles apart at higher zoom levels,
		// the tiles in between stay untouched.
		Name: "long_segment",
		Routes: routes(Track{
			Name:    "ferry",
			TypeID:  2,
			Color:   0x0077B6,
			Points:  [][2]float64{{46.4600, 6.5000}, {46.4600, 6.9000}},
			MaxZoom: 18,
		}),
		MinZoom: 9,
		MaxZoom: 13,
	},
	{
		Name: "closed_loop",
		Routes: routes(Track{
			Name:   "lap",
			TypeID: 1,
			Color:  0x2A9D8F,
			Points: [][2]float64{
				{46.5200, 6.6300}, {46.5250, 6.6400}, {46.5200, 6.6500},
				{46.5150, 6.6400}, {46.5200, 6.6300},
			},
			MaxZoom: 18,
		}),
		MinZoom: 10,
		MaxZoom: 14,
	},
}

var zoomCases = []Scenario{
	{
		// all level of detail steps, from faint to full
		Name: "fade_in",
		Routes: routes(Track{
			Name:    "trail",
			TypeID:  3,
			Color:   0x6A994E,
			Points:  wiggle(46.2000, 7.0000, 0.05, 0.005, 40),
			MaxZoom: 18,
		}),
		MinZoom: 9,
		MaxZoom: 13,
	},
	{
		// detail vertices only appear at higher zoom levels
		Name: "partial_visibility",
		Routes: routes(Track{
			Name:   "switchbacks",
			TypeID: 3,
			Color:  0xBC4749,
			Points: [][2]float64{
				{46.1000, 7.1000}, {46.1010, 7.1030}, {46.1000, 7.1060},
				{46.1010, 7.1090}, {46.1000, 7.1200},
			},
			MinZooms: []int{0, 12, 12, 12, 0},
			MaxZooms: []int{18, 18, 18, 18, 18},
		}),
		MinZoom: 10,
		MaxZoom: 13,
	},
	{
		// none of the vertices is visible in the rendered range
		Name: "out_of_range",
		Routes: routes(Track{
			Name:    "overview",
			TypeID:  0,
			Color:   0x000000,
			Points:  [][2]float64{{45.0, 6.0}, {47.0, 8.0}},
			MinZoom: 0,
			MaxZoom: 8,
		}),
		MinZoom: 9,
		MaxZoom: 11,
	},
}

var suppressedCases = []Scenario{
	{
		Name: "hidden",
		Routes: routes(Track{
			Name:    "private",
			TypeID:  -2,
			Color:   0xFF00FF,
			Points:  [][2]float64{{46.5080, 6.6240}, {46.5105, 6.6330}},
			MaxZoom: 18,
		}),
		MinZoom: 9,
		MaxZoom: 12,
	},
	{
		// type -1 is the last id which is still drawn
		Name: "mixed",
		Routes: routes(
			Track{
				Name:    "private",
				TypeID:  -5,
				Color:   0xFF00FF,
				Points:  [][2]float64{{46.5080, 6.6240}, {46.5105, 6.6330}},
				MaxZoom: 18,
			},
			Track{
				Name:    "unclassified",
				TypeID:  -1,
				Color:   0x555555,
				Points:  [][2]float64{{46.5300, 6.6000}, {46.5320, 6.6100}},
				MaxZoom: 18,
			},
		),
		MinZoom: 9,
		MaxZoom: 12,
	},
}

var denseCases = []Scenario{
	{
		Name: "long_track",
		Routes: routes(Track{
			Name:    "tour",
			TypeID:  4,
			Color:   0xF77F00,
			Points:  wiggle(46.0000, 6.5000, 1.2, 0.08, 2000),
			MaxZoom: 18,
		}),
		MinZoom: 9,
		MaxZoom: 13,
	},
	{
		// later routes are drawn on top where tiles are shared
		Name: "overlapping",
		Routes: routes(
			Track{
				Name:    "outbound",
				TypeID:  1,
				Color:   0xD62828,
				Points:  wiggle(46.3000, 6.8000, 0.2, 0.01, 200),
				MaxZoom: 18,
			},
			Track{
				Name:    "return",
				TypeID:  2,
				Color:   0x0077B6,
				Points:  wiggle(46.3020, 6.8000, 0.2, 0.01, 200),
				MaxZoom: 18,
			},
		),
		MinZoom: 10,
		MaxZoom: 13,
	},
}
