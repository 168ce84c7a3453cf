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

// Package dirstore keeps tiles in a directory tree, one file per tile, at
// {dir}/{z}/{x}/{y}.{ext}.
package dirstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/paulmach/orb/maptile"

	"seehuhn.de/go/tileroute/tile"
)

// extensions are tried in this order when reading a tile.
var extensions = []string{"png", "jpg", "jpeg", "gif", "webp", "bmp", "tif"}

// Store is a [tile.Reader] and [tile.Sink] over a directory tree.
type Store struct {
	Dir string
}

// New returns a store rooted at dir.  The directory is created on demand.
func New(dir string) *Store {
	return &Store{Dir: dir}
}

func (s *Store) base(key maptile.Tile) string {
	return filepath.Join(s.Dir,
		strconv.Itoa(int(key.Z)),
		strconv.FormatUint(uint64(key.X), 10),
		strconv.FormatUint(uint64(key.Y), 10))
}

// Get implements [tile.Reader].
func (s *Store) Get(_ context.Context, key maptile.Tile) (*tile.Tile, error) {
	base := s.base(key)
	for _, ext := range extensions {
		data, err := os.ReadFile(base + "." + ext)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		} else if err != nil {
			return nil, err
		}
		t, err := tile.New(data)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", base, ext, err)
		}
		return t, nil
	}
	return nil, fmt.Errorf("%s.*: %w", base, tile.ErrNotFound)
}

// SetDestination implements [tile.Sink].
func (s *Store) SetDestination(dest string) error {
	if dest == "" {
		return errors.New("empty destination directory")
	}
	s.Dir = dest
	return nil
}

// Clear implements [tile.Sink].  The whole directory is removed.
func (s *Store) Clear(context.Context) error {
	if s.Dir == "" {
		return errors.New("no destination directory")
	}
	return os.RemoveAll(s.Dir)
}

// Put implements [tile.Sink].
func (s *Store) Put(_ context.Context, key maptile.Tile, t *tile.Tile) error {
	fname := s.base(key) + "." + tile.Ext(t.Format)
	if err := os.MkdirAll(filepath.Dir(fname), 0o755); err != nil {
		return err
	}
	return os.WriteFile(fname, t.Data, 0o644)
}
