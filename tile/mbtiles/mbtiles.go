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

// Package mbtiles stores tiles in an MBTiles file, an SQLite database with
// one row per tile.
//
// MBTiles numbers tile rows from the south (TMS scheme).  The conversion
// to and from the XYZ keys used elsewhere happens inside this package.
package mbtiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/paulmach/orb/maptile"
	_ "modernc.org/sqlite" // register the "sqlite" driver

	"seehuhn.de/go/tileroute/tile"
)

const schema = `
CREATE TABLE IF NOT EXISTS metadata (name TEXT PRIMARY KEY, value TEXT);
CREATE TABLE IF NOT EXISTS tiles (
	zoom_level  INTEGER NOT NULL,
	tile_column INTEGER NOT NULL,
	tile_row    INTEGER NOT NULL,
	tile_data   BLOB,
	PRIMARY KEY (zoom_level, tile_column, tile_row)
);`

// Store is a [tile.Reader] and [tile.Sink] backed by an MBTiles file.
//
// When used as a sink, the metadata table is written by Close.
type Store struct {
	fname string
	db    *sql.DB

	// bookkeeping for the metadata table
	written int
	minZoom maptile.Zoom
	maxZoom maptile.Zoom
	format  string
}

// Open opens an existing MBTiles file for reading.
func Open(fname string) (*Store, error) {
	if _, err := os.Stat(fname); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", fname)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return &Store{fname: fname, db: db}, nil
}

// Get implements [tile.Reader].
func (s *Store) Get(ctx context.Context, key maptile.Tile) (*tile.Tile, error) {
	if s.db == nil {
		return nil, errors.New("mbtiles: store not open")
	}
	var data []byte
	row := s.db.QueryRowContext(ctx,
		"SELECT tile_data FROM tiles WHERE zoom_level=? AND tile_column=? AND tile_row=?",
		int64(key.Z), int64(key.X), int64(tile.FlipY(key.Y, key.Z)))
	err := row.Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %d/%d/%d: %w", s.fname, key.Z, key.X, key.Y, tile.ErrNotFound)
	} else if err != nil {
		return nil, err
	}
	t, err := tile.New(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %d/%d/%d: %w", s.fname, key.Z, key.X, key.Y, err)
	}
	return t, nil
}

// SetDestination implements [tile.Sink].
func (s *Store) SetDestination(dest string) error {
	if dest == "" {
		return errors.New("mbtiles: empty file name")
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return err
		}
		s.db = nil
	}
	s.fname = dest
	return nil
}

// Clear implements [tile.Sink].  An existing file is deleted and a new,
// empty file is created in its place.
func (s *Store) Clear(ctx context.Context) error {
	if s.fname == "" {
		return errors.New("mbtiles: no destination")
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return err
		}
		s.db = nil
	}
	for _, suffix := range []string{"", "-wal", "-shm"} {
		err := os.Remove(s.fname + suffix)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	db, err := sql.Open("sqlite", s.fname)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return fmt.Errorf("%s: %w", s.fname, err)
	}
	s.db = db
	s.written = 0
	s.format = ""
	return nil
}

// Put implements [tile.Sink].
func (s *Store) Put(ctx context.Context, key maptile.Tile, t *tile.Tile) error {
	if s.db == nil {
		return errors.New("mbtiles: Put before Clear")
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO tiles (zoom_level, tile_column, tile_row, tile_data) VALUES (?, ?, ?, ?)",
		int64(key.Z), int64(key.X), int64(tile.FlipY(key.Y, key.Z)), t.Data)
	if err != nil {
		return err
	}

	if s.written == 0 || key.Z < s.minZoom {
		s.minZoom = key.Z
	}
	if s.written == 0 || key.Z > s.maxZoom {
		s.maxZoom = key.Z
	}
	if s.format == "" {
		s.format = t.Format
	}
	s.written++
	return nil
}

// Metadata returns the contents of the metadata table.
func (s *Store) Metadata(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, value FROM metadata")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		res[name] = value
	}
	return res, rows.Err()
}

func (s *Store) writeMetadata() error {
	meta := map[string]string{
		"name":    "routes",
		"type":    "overlay",
		"version": "1",
	}
	if s.written > 0 {
		meta["format"] = tile.Ext(s.format)
		meta["minzoom"] = strconv.Itoa(int(s.minZoom))
		meta["maxzoom"] = strconv.Itoa(int(s.maxZoom))
	}
	for name, value := range meta {
		_, err := s.db.Exec("INSERT OR REPLACE INTO metadata (name, value) VALUES (?, ?)", name, value)
		if err != nil {
			return err
		}
	}
	return nil
}

// Close writes the metadata, if tiles were written, and closes the file.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	var err error
	if s.written > 0 {
		err = s.writeMetadata()
	}
	err = errors.Join(err, s.db.Close())
	s.db = nil
	return err
}
