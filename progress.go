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
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultProgressInterval is the minimum time between two progress
// reports.
const DefaultProgressInterval = time.Second

// Progress tracks the work done during one rendering run.  Every route
// accounts for 2^z units at zoom level z, whether or not it is drawn.
//
// Progress is purely informational.  The percentage is logged at info
// level whenever it changes, but at most once per Interval.
type Progress struct {
	Total    int64
	Done     int64
	Interval time.Duration

	log     logrus.FieldLogger
	now     func() time.Time
	last    time.Time
	percent int
}

// NewProgress returns a progress counter with the given total.
func NewProgress(total int64, log logrus.FieldLogger) *Progress {
	p := &Progress{
		Total:    total,
		Interval: DefaultProgressInterval,
		log:      orDiscard(log),
		now:      time.Now,
	}
	p.last = p.now()
	return p
}

// ProgressTotal returns the number of progress units for rendering the
// given number of routes onto zoom levels minZoom to maxZoom.
func ProgressTotal(minZoom, maxZoom, routes int) int64 {
	var total int64
	for z := minZoom; z <= maxZoom; z++ {
		total += int64(1) << z
	}
	return total * int64(routes)
}

// Advance records n more units of work.
func (p *Progress) Advance(n int64) {
	if n <= 0 {
		return
	}
	p.Done += n
	percent := p.Percent()
	if percent != p.percent {
		if t := p.now(); t.Sub(p.last) >= p.Interval {
			p.log.Infof("%d%% done", percent)
			p.last = t
		}
	}
	p.percent = percent
}

// Percent returns the completed percentage, rounded down.
func (p *Progress) Percent() int {
	if p.Total <= 0 {
		return 100
	}
	return int(p.Done * 100 / p.Total)
}

func orDiscard(log logrus.FieldLogger) logrus.FieldLogger {
	if log != nil {
		return log
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
