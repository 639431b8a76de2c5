package ingest

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"transit_router/pkg/transit"
)

type networkFile struct {
	RoutingSettings *transit.Settings `yaml:"routing_settings,omitempty"`
	Stops           []stopEntry       `yaml:"stops" validate:"dive"`
	Buses           []busEntry        `yaml:"buses" validate:"dive"`
}

type stopEntry struct {
	Name          string             `yaml:"name" validate:"required"`
	Latitude      float64            `yaml:"latitude" validate:"gte=-90,lte=90"`
	Longitude     float64            `yaml:"longitude" validate:"gte=-180,lte=180"`
	RoadDistances map[string]float64 `yaml:"road_distances,omitempty" validate:"dive,keys,required,endkeys,gte=0"`
}

type busEntry struct {
	Name        string   `yaml:"name" validate:"required"`
	Stops       []string `yaml:"stops" validate:"min=1,dive,required"`
	IsRoundtrip bool     `yaml:"is_roundtrip"`
	Terminal    string   `yaml:"terminal,omitempty"`
}

var validate = validator.New()

// ReadYAML decodes and validates a network file. Unknown keys are rejected.
func ReadYAML(r io.Reader) (*Records, error) {
	var f networkFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &Records{}, nil
		}
		return nil, fmt.Errorf("decode network: %w", err)
	}
	if err := validate.Struct(f); err != nil {
		return nil, fmt.Errorf("validate network: %w", err)
	}

	rec := &Records{Settings: f.RoutingSettings}
	for _, s := range f.Stops {
		rec.Stops = append(rec.Stops, StopRecord{Name: s.Name, Lat: s.Latitude, Lng: s.Longitude})

		// Map order is random; sort for a reproducible load.
		to := make([]string, 0, len(s.RoadDistances))
		for name := range s.RoadDistances {
			to = append(to, name)
		}
		sort.Strings(to)
		for _, name := range to {
			rec.Distances = append(rec.Distances, DistanceRecord{From: s.Name, To: name, Meters: s.RoadDistances[name]})
		}
	}
	for _, b := range f.Buses {
		rec.Buses = append(rec.Buses, BusRecord{
			Name:      b.Name,
			Stops:     b.Stops,
			Roundtrip: b.IsRoundtrip,
			Terminal:  b.Terminal,
		})
	}
	return rec, nil
}

// WriteYAML encodes rec as a network file. Every distance must start at one
// of rec's stops.
func WriteYAML(w io.Writer, rec *Records) error {
	f := networkFile{RoutingSettings: rec.Settings}
	index := make(map[string]int, len(rec.Stops))
	for i, s := range rec.Stops {
		index[s.Name] = i
		f.Stops = append(f.Stops, stopEntry{Name: s.Name, Latitude: s.Lat, Longitude: s.Lng})
	}
	for _, d := range rec.Distances {
		i, ok := index[d.From]
		if !ok {
			return fmt.Errorf("distance from unlisted stop %q", d.From)
		}
		if f.Stops[i].RoadDistances == nil {
			f.Stops[i].RoadDistances = make(map[string]float64)
		}
		f.Stops[i].RoadDistances[d.To] = d.Meters
	}
	for _, b := range rec.Buses {
		f.Buses = append(f.Buses, busEntry{
			Name:        b.Name,
			Stops:       b.Stops,
			IsRoundtrip: b.Roundtrip,
			Terminal:    b.Terminal,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&f); err != nil {
		return fmt.Errorf("encode network: %w", err)
	}
	return enc.Close()
}
