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

// Package config holds the parameters of a rendering run.
//
// Values are layered: [Default] gives the built-in values, [Load] reads a
// YAML file on top of them, and [Config.LoadEnv] applies TILEROUTE_*
// environment variables.  Command line flags are applied last by the
// caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned (wrapped) by [Config.Validate].
var ErrInvalid = errors.New("invalid configuration")

// MaxZoom is the largest zoom level accepted by Validate.
const MaxZoom = 30

// Config describes one rendering run.
type Config struct {
	MinZoom  int `yaml:"minzoom"`
	MaxZoom  int `yaml:"maxzoom"`
	TileSize int `yaml:"tile_size"`

	// Alpha and Width are the stroke opacity and width (in pixels) at full
	// detail.  They are reduced near MinZoom.
	Alpha float64 `yaml:"alpha"`
	Width float64 `yaml:"width"`

	// Routes selects the route source.  It is either the name of a GeoJSON
	// file, or "{db}.{collection}" for routes stored in MongoDB.
	Routes   string `yaml:"routes"`
	MongoURI string `yaml:"mongo_uri"`

	// Tiles is the base tile pyramid, either a directory or an .mbtiles
	// file.
	Tiles string `yaml:"tiles"`

	// Destination receives the rendered tiles.  Existing content is
	// removed before rendering starts.
	Destination string `yaml:"destination"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		MinZoom:  9,
		MaxZoom:  10,
		TileSize: 256,
		Alpha:    0.8,
		Width:    4,
		LogLevel: "info",
	}
}

// Load reads a YAML configuration file.  Fields missing from the file keep
// their default values.
func Load(fname string) (*Config, error) {
	c := Default()
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return c, nil
}

// LoadEnv overrides fields from environment variables.  The lookup
// function is normally [os.LookupEnv].
func (c *Config) LoadEnv(lookup func(string) (string, bool)) error {
	ints := []struct {
		name string
		dst  *int
	}{
		{"TILEROUTE_MINZOOM", &c.MinZoom},
		{"TILEROUTE_MAXZOOM", &c.MaxZoom},
		{"TILEROUTE_TILE_SIZE", &c.TileSize},
	}
	for _, v := range ints {
		s, ok := lookup(v.name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("%s: %w", v.name, err)
		}
		*v.dst = n
	}

	floats := []struct {
		name string
		dst  *float64
	}{
		{"TILEROUTE_ALPHA", &c.Alpha},
		{"TILEROUTE_WIDTH", &c.Width},
	}
	for _, v := range floats {
		s, ok := lookup(v.name)
		if !ok {
			continue
		}
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", v.name, err)
		}
		*v.dst = x
	}

	strs := []struct {
		name string
		dst  *string
	}{
		{"TILEROUTE_ROUTES", &c.Routes},
		{"TILEROUTE_MONGO_URI", &c.MongoURI},
		{"TILEROUTE_TILES", &c.Tiles},
		{"TILEROUTE_DESTINATION", &c.Destination},
		{"TILEROUTE_LOG_LEVEL", &c.LogLevel},
	}
	for _, v := range strs {
		if s, ok := lookup(v.name); ok {
			*v.dst = s
		}
	}
	return nil
}

// Validate checks that the configuration describes a possible run.
func (c *Config) Validate() error {
	switch {
	case c.MinZoom < 0 || c.MaxZoom > MaxZoom:
		return fmt.Errorf("zoom range %d-%d outside 0-%d: %w",
			c.MinZoom, c.MaxZoom, MaxZoom, ErrInvalid)
	case c.MinZoom > c.MaxZoom:
		return fmt.Errorf("minzoom %d > maxzoom %d: %w",
			c.MinZoom, c.MaxZoom, ErrInvalid)
	case c.TileSize <= 0:
		return fmt.Errorf("tile size %d: %w", c.TileSize, ErrInvalid)
	case !(c.Alpha > 0 && c.Alpha <= 1):
		return fmt.Errorf("alpha %g not in (0, 1]: %w", c.Alpha, ErrInvalid)
	case !(c.Width > 0):
		return fmt.Errorf("width %g: %w", c.Width, ErrInvalid)
	case c.Routes == "":
		return fmt.Errorf("no route source: %w", ErrInvalid)
	case c.Tiles == "":
		return fmt.Errorf("no base tiles: %w", ErrInvalid)
	case c.Destination == "":
		return fmt.Errorf("no destination: %w", ErrInvalid)
	case samePath(c.Destination, c.Tiles):
		return fmt.Errorf("destination %q is also the tile source: %w",
			c.Destination, ErrInvalid)
	}
	return nil
}

// samePath reports whether a and b name the same file system location,
// after making both absolute and removing redundant elements.
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
