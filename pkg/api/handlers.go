package api

import (
	"encoding/json"
	"errors"
	"math"
	"mime"
	"net/http"
	"strconv"

	"github.com/twpayne/go-polyline"

	"transit_router/pkg/catalogue"
	"transit_router/pkg/geo"
	"transit_router/pkg/spatial"
	"transit_router/pkg/transit"
)

const (
	defaultNearbyRadius = 500.0
	maxNearbyRadius     = 5000.0
	defaultNearbyLimit  = 10
	maxNearbyLimit      = 100
)

// Directory answers bus and stop lookups.
type Directory interface {
	BusStats(name string) (catalogue.BusStats, error)
	BusPath(name string) ([]geo.Coordinates, error)
	StopInfo(name string) (catalogue.StopInfo, error)
}

// StopLocator finds stops near a point.
type StopLocator interface {
	Nearby(lat, lng, radiusMeters float64, limit int) []spatial.Match
}

type cacheReporter interface {
	Stats() transit.CacheStats
}

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	routes transit.RouteFinder
	dir    Directory
	stops  StopLocator
	stats  StatsResponse
}

// NewHandlers creates handlers over the given services.
func NewHandlers(routes transit.RouteFinder, dir Directory, stops StopLocator, stats StatsResponse) *Handlers {
	return &Handlers{
		routes: routes,
		dir:    dir,
		stops:  stops,
		stats:  stats,
	}
}

// HandleRoute handles POST /api/v1/route.
func (h *Handlers) HandleRoute(w http.ResponseWriter, r *http.Request) {
	// Enforce Content-Type.
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	var req RouteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}
	if req.From == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "from")
		return
	}
	if req.To == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "to")
		return
	}

	route := h.routes.FindRoute(req.From, req.To)
	if !route.Found {
		writeError(w, http.StatusNotFound, "no_route_found", "")
		return
	}

	resp := RouteResponse{
		TotalTime: route.TotalMinutes,
		Items:     make([]ItemJSON, 0, len(route.Items)),
	}
	for _, it := range route.Items {
		resp.Items = append(resp.Items, ItemJSON{
			Type:      string(it.Kind),
			StopName:  it.StopName,
			Bus:       it.BusName,
			SpanCount: it.SpanCount,
			Time:      it.Minutes,
		})
	}
	writeJSON(w, resp)
}

// HandleBus handles GET /api/v1/buses/{name}.
func (h *Handlers) HandleBus(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	stats, err := h.dir.BusStats(name)
	if err != nil {
		switch {
		case errors.Is(err, catalogue.ErrUnknownBus):
			writeError(w, http.StatusNotFound, "bus_not_found", "name")
		case errors.Is(err, catalogue.ErrMissingDistance), errors.Is(err, catalogue.ErrUndefinedCurvature):
			writeError(w, http.StatusUnprocessableEntity, "stats_unavailable", "")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "")
		}
		return
	}
	path, err := h.dir.BusPath(name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}

	writeJSON(w, BusResponse{
		Name:            stats.Name,
		StopCount:       stats.StopCount,
		UniqueStopCount: stats.UniqueStopCount,
		RouteLength:     stats.RoadLength,
		GeoLength:       stats.GeoLength,
		Curvature:       stats.Curvature,
		Polyline:        encodePolyline(path),
	})
}

// HandleStop handles GET /api/v1/stops/{name}.
func (h *Handlers) HandleStop(w http.ResponseWriter, r *http.Request) {
	info, err := h.dir.StopInfo(r.PathValue("name"))
	if err != nil {
		if errors.Is(err, catalogue.ErrUnknownStop) {
			writeError(w, http.StatusNotFound, "stop_not_found", "name")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}
	buses := info.Buses
	if buses == nil {
		buses = []string{}
	}
	writeJSON(w, StopResponse{Name: info.Name, Lat: info.Lat, Lng: info.Lng, Buses: buses})
}

// HandleNearby handles GET /api/v1/stops/nearby?lat=&lng=&radius=&limit=.
func (h *Handlers) HandleNearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil || validateLat(lat) != nil {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", "lat")
		return
	}
	lng, err := strconv.ParseFloat(q.Get("lng"), 64)
	if err != nil || validateLng(lng) != nil {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", "lng")
		return
	}

	radius := defaultNearbyRadius
	if s := q.Get("radius"); s != "" {
		radius, err = strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(radius) || radius <= 0 || radius > maxNearbyRadius {
			writeError(w, http.StatusBadRequest, "invalid_request", "radius")
			return
		}
	}
	limit := defaultNearbyLimit
	if s := q.Get("limit"); s != "" {
		limit, err = strconv.Atoi(s)
		if err != nil || limit <= 0 || limit > maxNearbyLimit {
			writeError(w, http.StatusBadRequest, "invalid_request", "limit")
			return
		}
	}

	matches := h.stops.Nearby(lat, lng, radius, limit)
	resp := NearbyResponse{Stops: make([]NearbyStopJSON, 0, len(matches))}
	for _, m := range matches {
		resp.Stops = append(resp.Stops, NearbyStopJSON{
			Name:           m.Name,
			Lat:            m.Lat,
			Lng:            m.Lng,
			DistanceMeters: m.DistanceMeters,
		})
	}
	writeJSON(w, resp)
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	resp := h.stats
	if c, ok := h.routes.(cacheReporter); ok {
		s := c.Stats()
		resp.RouteCache = &CacheJSON{Entries: s.Entries, Hits: s.Hits, Misses: s.Misses, HitRate: s.HitRate}
	}
	writeJSON(w, resp)
}

// encodePolyline encodes a path in the Google polyline format.
func encodePolyline(path []geo.Coordinates) string {
	coords := make([][]float64, len(path))
	for i, p := range path {
		coords[i] = []float64{p.Lat, p.Lng}
	}
	return string(polyline.EncodeCoords(coords))
}

func validateLat(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < -90 || v > 90 {
		return errors.New("latitude out of range")
	}
	return nil
}

func validateLng(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < -180 || v > 180 {
		return errors.New("longitude out of range")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, field string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: code, Field: field})
}
