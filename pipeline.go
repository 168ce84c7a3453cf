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

package tileroute

import (
	"context"
	"fmt"
	"time"

	"github.com/paulmach/orb/maptile"
	"github.com/sirupsen/logrus"

	"seehuhn.de/go/tileroute/config"
	"seehuhn.de/go/tileroute/projection"
	"seehuhn.de/go/tileroute/route"
	"seehuhn.de/go/tileroute/tile"
)

// Pipeline renders all routes onto all zoom levels of a tile pyramid.
type Pipeline struct {
	Config    *config.Config
	Routes    route.Source
	Tiles     tile.Reader
	Sink      tile.Sink
	Projector projection.Projector

	// Log receives progress and summary messages.  If nil, nothing is
	// logged.
	Log logrus.FieldLogger
}

// Stats summarises a rendering run.
type Stats struct {
	Routes int

	// Drawn and Suppressed count (route, zoom) pairs.
	Drawn      int
	Suppressed int

	TilesWritten int
	Duration     time.Duration

	// Progress is the number of progress units accounted for.  After a
	// complete run this equals the progress total.
	Progress int64
}

// Run performs a full rebuild: the destination is cleared, then every
// visible route is drawn onto every zoom level in ascending order.  Routes
// are drawn in the order given by the route source, so that later routes
// are layered on top of earlier ones where they share a tile.
//
// Any error aborts the run and leaves the destination partially written.
func (p *Pipeline) Run(ctx context.Context) (*Stats, error) {
	start := time.Now()
	cfg := p.Config
	log := orDiscard(p.Log)

	if err := p.Sink.SetDestination(cfg.Destination); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", cfg.Destination, ErrDestination, err)
	}
	if err := p.Sink.Clear(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", cfg.Destination, ErrDestination, err)
	}
	log.Info("rendering routes on tiles")

	routes, err := p.Routes.Routes(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading routes: %w", err)
	}
	for _, r := range routes {
		if err := r.Validate(); err != nil {
			return nil, err
		}
	}

	stats := &Stats{Routes: len(routes)}
	progress := NewProgress(ProgressTotal(cfg.MinZoom, cfg.MaxZoom, len(routes)), log)
	comp := NewCompositor(cfg.TileSize)

	for z := cfg.MinZoom; z <= cfg.MaxZoom; z++ {
		zoom := maptile.Zoom(z)
		log.WithField("zoom", z).Info("rendering zoom level")
		for _, r := range routes {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if !r.Visible {
				stats.Suppressed++
				progress.Advance(int64(1) << z)
				continue
			}
			n, err := p.renderRoute(ctx, comp, r, zoom, progress)
			if err != nil {
				return nil, fmt.Errorf("route %q, zoom %d: %w", r.Name, z, err)
			}
			stats.Drawn++
			stats.TilesWritten += n
		}
	}

	stats.Duration = time.Since(start)
	stats.Progress = progress.Done
	log.WithFields(logrus.Fields{
		"routes":     stats.Routes,
		"suppressed": stats.Suppressed,
		"tiles":      stats.TilesWritten,
		"duration":   stats.Duration.Round(time.Millisecond),
	}).Info("rendering finished")
	return stats, nil
}

// renderRoute draws one route onto all tiles of a zoom level which contain
// one of its visible vertices.  It returns the number of tiles written and
// advances the progress counter by exactly 2^zoom.
func (p *Pipeline) renderRoute(ctx context.Context, comp *Compositor, r *route.Route, zoom maptile.Zoom, progress *Progress) (int, error) {
	budget := int64(1) << zoom

	pts := projection.ProjectAll(p.Projector, VisiblePoints(r, zoom), zoom)
	tiles, err := SelectTiles(pts, zoom)
	if err != nil {
		return 0, err
	}
	style := StyleFor(zoom, p.Config, r.Type)

	written := 0
	for key := range tiles {
		base, err := p.Tiles.Get(ctx, key)
		if err != nil {
			return written, err
		}
		out, err := comp.Composite(base, pts, key, style)
		if err != nil {
			return written, err
		}
		if err := p.Sink.Put(ctx, key, out); err != nil {
			return written, fmt.Errorf("storing tile %d/%d/%d: %w", key.Z, key.X, key.Y, err)
		}
		written++

		// A route can touch more than 2^zoom tiles.  The remaining tiles
		// are not counted.
		if budget > 0 {
			progress.Advance(1)
			budget--
		}
	}
	progress.Advance(budget)
	return written, nil
}
