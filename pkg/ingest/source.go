package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"transit_router/pkg/logging"
)

// ErrUnknownFormat is returned for a format ReadFile does not understand.
var ErrUnknownFormat = errors.New("unknown network format")

// ReadFile reads the network at path in the given format.
func ReadFile(ctx context.Context, path string, format Format) (*Records, error) {
	logger := logging.FromContext(ctx)

	switch format {
	case FormatGTFS:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read gtfs: %w", err)
		}
		return ParseGTFS(data)
	case FormatYAML, FormatPBF, FormatXML:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open network: %w", err)
	}
	defer logging.SafeCloseWithLogging(f, logger, "close network file")

	if format == FormatYAML {
		return ReadYAML(f)
	}
	return ParseOSM(ctx, f, format)
}

// BBox defines a geographic bounding box for filtering.
type BBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// IsZero returns true if the bbox is unset.
func (b BBox) IsZero() bool {
	return b.MinLat == 0 && b.MaxLat == 0 && b.MinLng == 0 && b.MaxLng == 0
}

// Contains returns true if the point is inside the bounding box.
func (b BBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// Clip returns the part of rec inside box. A bus is kept only if every one of
// its stops is inside; distances are kept when both ends are. A zero box
// returns rec unchanged.
func Clip(rec *Records, box BBox) *Records {
	if box.IsZero() {
		return rec
	}
	out := &Records{Settings: rec.Settings}
	inside := make(map[string]bool, len(rec.Stops))
	for _, s := range rec.Stops {
		if box.Contains(s.Lat, s.Lng) {
			inside[s.Name] = true
			out.Stops = append(out.Stops, s)
		}
	}

	droppedBuses := 0
	for _, b := range rec.Buses {
		keep := true
		for _, name := range b.Stops {
			if !inside[name] {
				keep = false
				break
			}
		}
		if !keep {
			droppedBuses++
			continue
		}
		out.Buses = append(out.Buses, b)
	}
	for _, d := range rec.Distances {
		if inside[d.From] && inside[d.To] {
			out.Distances = append(out.Distances, d)
		}
	}

	slog.Info("clipped network",
		"stops_kept", len(out.Stops), "stops_dropped", len(rec.Stops)-len(out.Stops),
		"buses_kept", len(out.Buses), "buses_dropped", droppedBuses)
	return out
}
