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

package tile

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/paulmach/orb/maptile"
)

// Memory is an in-memory tile store.  It implements both [Reader] and
// [Sink], and is safe for concurrent use.
type Memory struct {
	mu    sync.Mutex
	dest  string
	tiles map[maptile.Tile]*Tile
	puts  int
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{tiles: make(map[maptile.Tile]*Tile)}
}

// Get implements [Reader].
func (m *Memory) Get(_ context.Context, key maptile.Tile) (*Tile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tiles[key]
	if !ok {
		return nil, fmt.Errorf("%d/%d/%d: %w", key.Z, key.X, key.Y, ErrNotFound)
	}
	return t, nil
}

// SetDestination implements [Sink].  The name is recorded but has no
// other effect.
func (m *Memory) SetDestination(dest string) error {
	m.mu.Lock()
	m.dest = dest
	m.mu.Unlock()
	return nil
}

// Destination returns the name passed to SetDestination.
func (m *Memory) Destination() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dest
}

// Clear implements [Sink].
func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	clear(m.tiles)
	m.puts = 0
	m.mu.Unlock()
	return nil
}

// Put implements [Sink].
func (m *Memory) Put(_ context.Context, key maptile.Tile, t *Tile) error {
	m.mu.Lock()
	m.tiles[key] = t
	m.puts++
	m.mu.Unlock()
	return nil
}

// Puts returns the number of calls to Put since the last Clear.
func (m *Memory) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}

// Keys returns the keys of all stored tiles, ordered by zoom, x and y.
func (m *Memory) Keys() []maptile.Tile {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]maptile.Tile, 0, len(m.tiles))
	for k := range m.tiles {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b maptile.Tile) int {
		return cmp.Or(
			cmp.Compare(a.Z, b.Z),
			cmp.Compare(a.X, b.X),
			cmp.Compare(a.Y, b.Y),
		)
	})
	return keys
}
