// Command import converts an OpenStreetMap extract or GTFS feed into a YAML
// network file the server can load.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"transit_router/pkg/ingest"
	"transit_router/pkg/logging"
	"transit_router/pkg/transit"
)

func main() {
	input := flag.String("input", "", "Path to .osm.pbf, .osm or GTFS .zip file")
	format := flag.String("format", "osmpbf", "Input format: osmpbf, osmxml, gtfs or yaml")
	output := flag.String("output", "network.yaml", "Output YAML network file path")
	bbox := flag.String("bbox", "", "Bounding box filter: minLat,minLng,maxLat,maxLng (e.g. 1.15,103.6,1.48,104.1)")
	velocity := flag.Float64("bus-velocity", 0, "Bus velocity in km/h to embed as routing_settings (0 = omit)")
	wait := flag.Float64("bus-wait", 0, "Boarding wait in minutes to embed as routing_settings")
	flag.Parse()

	logger := logging.NewStructuredLogger(os.Stderr, slog.LevelInfo)

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: import --input <file> [--format osmpbf|osmxml|gtfs|yaml] [--output network.yaml] [--bbox minLat,minLng,maxLat,maxLng] [--bus-velocity 40 --bus-wait 6]")
		os.Exit(1)
	}

	var box ingest.BBox
	if *bbox != "" {
		var minLat, minLng, maxLat, maxLng float64
		_, err := fmt.Sscanf(*bbox, "%f,%f,%f,%f", &minLat, &minLng, &maxLat, &maxLng)
		if err != nil {
			logging.LogError(logger, "invalid bbox format (expected minLat,minLng,maxLat,maxLng)", err)
			os.Exit(1)
		}
		box = ingest.BBox{MinLat: minLat, MaxLat: maxLat, MinLng: minLng, MaxLng: maxLng}
	}

	var settings *transit.Settings
	if *velocity != 0 {
		settings = &transit.Settings{BusVelocityKmh: *velocity, BusWaitMinutes: *wait}
		if err := settings.Validate(); err != nil {
			logging.LogError(logger, "invalid routing settings", err)
			os.Exit(1)
		}
	}

	if err := run(logger, *input, ingest.Format(*format), *output, box, settings); err != nil {
		logging.LogError(logger, "import failed", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, input string, format ingest.Format, output string, box ingest.BBox, settings *transit.Settings) error {
	start := time.Now()
	ctx := logging.WithLogger(context.Background(), logger)

	// Step 1: Parse source.
	rec, err := ingest.ReadFile(ctx, input, format)
	if err != nil {
		return err
	}
	rec = ingest.Clip(rec, box)
	if settings != nil {
		rec.Settings = settings
	}

	// Step 2: Check the result loads.
	if _, err := ingest.Load(rec); err != nil {
		return fmt.Errorf("validate network: %w", err)
	}

	// Step 3: Write YAML.
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	w := bufio.NewWriter(f)
	if err := ingest.WriteYAML(w, rec); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush output: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	logging.LogOperation(logger, "import complete",
		slog.String("output", output),
		slog.Int("stops", len(rec.Stops)),
		slog.Int("buses", len(rec.Buses)),
		slog.Int("distances", len(rec.Distances)),
		slog.Duration("duration", time.Since(start).Round(time.Millisecond)),
	)
	return nil
}
