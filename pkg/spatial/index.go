// Package spatial finds stops near a coordinate.
package spatial

import (
	"sort"

	"github.com/tidwall/rtree"

	"transit_router/pkg/catalogue"
	"transit_router/pkg/geo"
)

// Match is a stop found by Nearby.
type Match struct {
	Stop           catalogue.StopID
	Name           string
	Lat            float64
	Lng            float64
	DistanceMeters float64
}

// Index is an R-tree over stop positions. It is read-only after NewIndex and
// safe for concurrent use.
type Index struct {
	tr    rtree.RTreeG[catalogue.StopID]
	stops []catalogue.Stop
}

// NewIndex indexes stops. Points are stored as (lng, lat).
func NewIndex(stops []catalogue.Stop) *Index {
	idx := &Index{stops: stops}
	for _, s := range stops {
		p := [2]float64{s.Lng, s.Lat}
		idx.tr.Insert(p, p, s.ID)
	}
	return idx
}

// Len returns the number of indexed stops.
func (idx *Index) Len() int { return idx.tr.Len() }

// Nearby returns the stops within radiusMeters of (lat, lng), closest first,
// ties broken by name. limit <= 0 returns every match.
func (idx *Index) Nearby(lat, lng, radiusMeters float64, limit int) []Match {
	if radiusMeters < 0 {
		return nil
	}
	minLat, minLng, maxLat, maxLng := geo.BoundingBox(lat, lng, radiusMeters)

	var matches []Match
	idx.tr.Search([2]float64{minLng, minLat}, [2]float64{maxLng, maxLat},
		func(_, _ [2]float64, id catalogue.StopID) bool {
			s := &idx.stops[id]
			d := geo.Haversine(lat, lng, s.Lat, s.Lng)
			if d <= radiusMeters {
				matches = append(matches, Match{
					Stop:           id,
					Name:           s.Name,
					Lat:            s.Lat,
					Lng:            s.Lng,
					DistanceMeters: d,
				})
			}
			return true
		})

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].DistanceMeters != matches[j].DistanceMeters {
			return matches[i].DistanceMeters < matches[j].DistanceMeters
		}
		return matches[i].Name < matches[j].Name
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
