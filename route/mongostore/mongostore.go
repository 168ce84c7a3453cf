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

// Package mongostore reads routes from a MongoDB collection.
//
// Every document describes one route:
//
//	{
//	  name:    "lakeside",
//	  type:    {id: 3, color: 0xff8800},
//	  points:  [[lng, lat], ...],
//	  minzoom: [0, 12, ...],
//	  maxzoom: [18, 18, ...]
//	}
//
// Routes are returned in insertion order.
package mongostore

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang/geo/s2"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"seehuhn.de/go/tileroute/route"
)

type typeDoc struct {
	ID    int   `bson:"id"`
	Color int64 `bson:"color"`
}

type routeDoc struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Name    string             `bson:"name"`
	Type    typeDoc            `bson:"type"`
	Points  [][2]float64       `bson:"points"`
	MinZoom []int              `bson:"minzoom"`
	MaxZoom []int              `bson:"maxzoom"`
}

func (d *routeDoc) route() (*route.Route, error) {
	pts := lo.Map(d.Points, func(p [2]float64, _ int) s2.LatLng {
		return s2.LatLngFromDegrees(p[1], p[0])
	})
	tp := route.Type{ID: d.Type.ID, Color: uint32(d.Type.Color)}
	return route.New(d.Name, tp, pts, d.MinZoom, d.MaxZoom)
}

func newDoc(r *route.Route) *routeDoc {
	return &routeDoc{
		Name: r.Name,
		Type: typeDoc{ID: r.Type.ID, Color: int64(r.Type.Color)},
		Points: lo.Map(r.Points, func(ll s2.LatLng, _ int) [2]float64 {
			return [2]float64{ll.Lng.Degrees(), ll.Lat.Degrees()}
		}),
		MinZoom: r.MinZoom,
		MaxZoom: r.MaxZoom,
	}
}

// Source reads routes from a collection.
type Source struct {
	Coll *mongo.Collection

	// Filter selects the documents to use.  If nil, all documents are
	// used.
	Filter any
}

// Routes implements [route.Source].
func (s *Source) Routes(ctx context.Context) ([]*route.Route, error) {
	filter := s.Filter
	if filter == nil {
		filter = bson.D{}
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.Coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var routes []*route.Route
	for cur.Next(ctx) {
		var doc routeDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		r, err := doc.route()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", doc.ID.Hex(), err)
		}
		routes = append(routes, r)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return routes, nil
}

// Insert appends routes to the collection.
func (s *Source) Insert(ctx context.Context, routes []*route.Route) error {
	if len(routes) == 0 {
		return nil
	}
	docs := lo.Map(routes, func(r *route.Route, _ int) any {
		return newDoc(r)
	})
	_, err := s.Coll.InsertMany(ctx, docs)
	return err
}

// Open connects to the server at uri and returns a source for the given
// "{db}.{collection}" path.  The returned function closes the connection.
func Open(ctx context.Context, uri, dbDotColl string) (*Source, func(context.Context) error, error) {
	db, coll, err := ParsePath(dbDotColl)
	if err != nil {
		return nil, nil, err
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}
	src := &Source{Coll: client.Database(db).Collection(coll)}
	return src, client.Disconnect, nil
}

// ParsePath splits a "{db}.{collection}" path.
func ParsePath(dbDotColl string) (db, coll string, err error) {
	parts := strings.Split(strings.TrimSpace(dbDotColl), ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid collection path %q, want {db}.{collection}", dbDotColl)
	}
	return parts[0], parts[1], nil
}
