package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"transit_router/pkg/api"
	"transit_router/pkg/config"
	"transit_router/pkg/ingest"
	"transit_router/pkg/logging"
	"transit_router/pkg/spatial"
	"transit_router/pkg/transit"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (empty = defaults)")
	addr := flag.String("addr", "", "Listen address, overrides server.addr")
	networkPath := flag.String("network", "", "Network file, overrides network.path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *networkPath != "" {
		cfg.Network.Path = *networkPath
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stderr, cfg.Log.Format, level)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logging.LogError(logger, "server stopped", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	start := time.Now()
	ctx := logging.WithLogger(context.Background(), logger)

	// Load network.
	logger.Info("loading network", "path", cfg.Network.Path, "format", cfg.Network.Format)
	rec, err := ingest.ReadFile(ctx, cfg.Network.Path, ingest.Format(cfg.Network.Format))
	if err != nil {
		return fmt.Errorf("load network: %w", err)
	}
	settings := cfg.Routing
	if rec.Settings != nil {
		settings = *rec.Settings
	}

	cat, err := ingest.Load(rec)
	if err != nil {
		return fmt.Errorf("load catalogue: %w", err)
	}

	// Build routing network.
	network, err := transit.Build(cat, settings)
	if err != nil {
		return fmt.Errorf("build network: %w", err)
	}
	ns := network.Stats()
	logging.LogOperation(logger, "network ready",
		slog.Int("stops", ns.Stops),
		slog.Int("buses", ns.Buses),
		slog.Int("vertices", ns.Vertices),
		slog.Int("ride_edges", ns.RideEdges),
		slog.Int("components", ns.Components),
		slog.Int("largest_component_stops", ns.LargestComponentStops),
		slog.Float64("bus_velocity", settings.BusVelocityKmh),
		slog.Float64("bus_wait_time", settings.BusWaitMinutes),
		slog.Duration("duration", time.Since(start).Round(time.Millisecond)),
	)

	var finder transit.RouteFinder = network
	if cfg.Cache.RouteCacheSize > 0 {
		finder = transit.NewCachedFinder(network, cfg.Cache.RouteCacheSize)
	}
	index := spatial.NewIndex(cat.Stops())

	stats := api.StatsResponse{
		Stops:       ns.Stops,
		ServedStops: ns.ServedStops,
		Buses:       ns.Buses,
		Vertices:    ns.Vertices,
		WaitEdges:   ns.WaitEdges,
		RideEdges:   ns.RideEdges,
		Components:  ns.Components,
		Largest:     ns.LargestComponentStops,
	}

	handlers := api.NewHandlers(finder, cat, index, stats)
	srv, err := api.NewServer(cfg.Server, handlers, logger)
	if err != nil {
		return err
	}
	return api.ListenAndServe(srv, logger)
}
