package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"

	"transit_router/pkg/geo"
)

// Format names a network source encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatPBF  Format = "osmpbf"
	FormatXML  Format = "osmxml"
	FormatGTFS Format = "gtfs"
)

// stopRoles are the PTv2 member roles of a stop position.
var stopRoles = map[string]bool{
	"stop":            true,
	"stop_entry_only": true,
	"stop_exit_only":  true,
}

// platformRoles are used when a route relation has no stop positions.
var platformRoles = map[string]bool{
	"platform":            true,
	"platform_entry_only": true,
	"platform_exit_only":  true,
}

// isBusRoute returns true for type=route + route=bus relations.
func isBusRoute(tags osm.Tags) bool {
	return tags.Find("type") == "route" && tags.Find("route") == "bus"
}

// routeStops returns the node ids a route relation stops at, in member order.
func routeStops(members osm.Members) []osm.NodeID {
	pick := func(roles map[string]bool) []osm.NodeID {
		var ids []osm.NodeID
		for _, m := range members {
			if m.Type == osm.TypeNode && roles[m.Role] {
				ids = append(ids, osm.NodeID(m.Ref))
			}
		}
		return ids
	}
	if ids := pick(stopRoles); len(ids) > 0 {
		return ids
	}
	return pick(platformRoles)
}

// routeInfo holds a bus route collected during pass 1.
type routeInfo struct {
	ID    osm.RelationID
	Name  string
	Nodes []osm.NodeID
}

type nodeInfo struct {
	Lat, Lon float64
	Name     string
}

func newScanner(ctx context.Context, r io.Reader, format Format, nodes bool) (osm.Scanner, error) {
	switch format {
	case FormatPBF:
		s := osmpbf.New(ctx, r, 1)
		s.SkipWays = true
		s.SkipNodes = !nodes
		s.SkipRelations = nodes
		return s, nil
	case FormatXML:
		return osmxml.New(ctx, r), nil
	default:
		return nil, fmt.Errorf("unknown osm format %q", format)
	}
}

// ParseOSM reads bus route relations from an OpenStreetMap extract. The
// reader is consumed twice (seeks back to start for the second pass), so it
// must implement io.ReadSeeker. Road distances are great-circle distances
// between consecutive stops, rounded to the meter.
func ParseOSM(ctx context.Context, rs io.ReadSeeker, format Format) (*Records, error) {
	// Pass 1: Scan relations to collect bus routes and their stop nodes.
	referenced := make(map[osm.NodeID]struct{})
	var routes []routeInfo

	scanner, err := newScanner(ctx, rs, format, false)
	if err != nil {
		return nil, err
	}
	for scanner.Scan() {
		rel, ok := scanner.Object().(*osm.Relation)
		if !ok || !isBusRoute(rel.Tags) {
			continue
		}
		ids := routeStops(rel.Members)
		if len(ids) < 2 {
			continue
		}
		for _, id := range ids {
			referenced[id] = struct{}{}
		}
		name := rel.Tags.Find("ref")
		if name == "" {
			name = rel.Tags.Find("name")
		}
		routes = append(routes, routeInfo{ID: rel.ID, Name: name, Nodes: ids})
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 1 (relations): %w", err)
	}
	scanner.Close()

	slog.Info("osm pass 1 complete", "routes", len(routes), "stop_nodes", len(referenced))

	// Pass 2: Scan nodes to collect positions and names of referenced stops.
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek for pass 2: %w", err)
	}

	nodes := make(map[osm.NodeID]nodeInfo, len(referenced))
	scanner, err = newScanner(ctx, rs, format, true)
	if err != nil {
		return nil, err
	}
	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, needed := referenced[n.ID]; !needed {
			continue
		}
		nodes[n.ID] = nodeInfo{Lat: n.Lat, Lon: n.Lon, Name: n.Tags.Find("name")}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 2 (nodes): %w", err)
	}
	scanner.Close()

	slog.Info("osm pass 2 complete", "stop_nodes", len(nodes))

	return osmRecords(routes, nodes), nil
}

func osmRecords(routes []routeInfo, nodes map[osm.NodeID]nodeInfo) *Records {
	rec := &Records{}
	stopNames := make(uniqueNamer)
	busNames := make(uniqueNamer)
	nameOf := make(map[osm.NodeID]string)
	var dists distanceSet
	var skipped int

	for _, r := range routes {
		var seq []osm.NodeID
		for _, id := range r.Nodes {
			if _, ok := nodes[id]; !ok {
				skipped++
				continue
			}
			if len(seq) > 0 && seq[len(seq)-1] == id {
				continue
			}
			seq = append(seq, id)
		}
		if len(seq) < 2 {
			continue
		}

		names := make([]string, len(seq))
		for i, id := range seq {
			name, ok := nameOf[id]
			if !ok {
				n := nodes[id]
				name = stopNames.name(n.Name, "node/"+strconv.FormatInt(int64(id), 10))
				nameOf[id] = name
				rec.Stops = append(rec.Stops, StopRecord{Name: name, Lat: n.Lat, Lng: n.Lon})
			}
			names[i] = name
			if i > 0 {
				a, b := nodes[seq[i-1]], nodes[id]
				dists.add(names[i-1], name, math.Round(geo.Haversine(a.Lat, a.Lon, b.Lat, b.Lon)))
			}
		}

		rec.Buses = append(rec.Buses, BusRecord{
			Name:      busNames.name(r.Name, "relation/"+strconv.FormatInt(int64(r.ID), 10)),
			Stops:     names,
			Roundtrip: names[0] == names[len(names)-1],
		})
	}
	rec.Distances = dists.list

	if skipped > 0 {
		slog.Warn("skipped route members with missing nodes", "count", skipped)
	}
	return rec
}
