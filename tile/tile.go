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

// Package tile defines raster map tiles and the interfaces used to read
// and store them.
//
// Tiles are addressed by [maptile.Tile] keys in the XYZ scheme: zoom level
// z has a 2^z × 2^z grid, with y counted from the north.  Storage back ends
// which use a different row order convert at their boundary.
package tile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/paulmach/orb/maptile"
)

// ErrNotFound is returned (wrapped) by a [Reader] when a tile does not
// exist.
var ErrNotFound = errors.New("tile not found")

// Tile is an encoded raster tile.
type Tile struct {
	Data   []byte
	Width  int
	Height int

	// Format is the name of the image format, as used by [image.Decode],
	// e.g. "png" or "jpeg".
	Format string
}

// New wraps encoded image data as a tile.  The image header is parsed to
// find the dimensions and the format; the pixel data is not decoded.
func New(data []byte) (*Tile, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("tile header: %w", err)
	}
	return &Tile{
		Data:   data,
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: format,
	}, nil
}

// Reader gives access to base tiles.
type Reader interface {
	// Get returns the tile with the given key.  If the tile does not exist,
	// an error wrapping [ErrNotFound] is returned.
	Get(ctx context.Context, key maptile.Tile) (*Tile, error)
}

// Sink receives rendered tiles.
type Sink interface {
	// SetDestination selects where tiles are written.  It must be called
	// before any other method.
	SetDestination(dest string) error

	// Clear removes all existing content at the destination.
	Clear(ctx context.Context) error

	// Put stores a tile.  Storing the same key again replaces the
	// earlier tile.
	Put(ctx context.Context, key maptile.Tile, t *Tile) error
}

// FlipY converts between the XYZ row order and the TMS row order used by
// MBTiles.  The conversion is its own inverse.
func FlipY(y uint32, z maptile.Zoom) uint32 {
	return (1 << uint32(z)) - y - 1
}
