package api

// RouteRequest is the JSON body for POST /api/v1/route.
type RouteRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// RouteResponse is the JSON response for a successful route query.
type RouteResponse struct {
	TotalTime float64    `json:"total_time"`
	Items     []ItemJSON `json:"items"`
}

// ItemJSON is one itinerary step. Type is "Wait" or "Ride".
type ItemJSON struct {
	Type      string  `json:"type"`
	StopName  string  `json:"stop_name,omitempty"`
	Bus       string  `json:"bus,omitempty"`
	SpanCount int     `json:"span_count,omitempty"`
	Time      float64 `json:"time"`
}

// BusResponse is the JSON response for GET /api/v1/buses/{name}.
type BusResponse struct {
	Name            string  `json:"name"`
	StopCount       int     `json:"stop_count"`
	UniqueStopCount int     `json:"unique_stop_count"`
	RouteLength     float64 `json:"route_length"`
	GeoLength       float64 `json:"geo_length"`
	Curvature       float64 `json:"curvature"`
	Polyline        string  `json:"polyline"`
}

// StopResponse is the JSON response for GET /api/v1/stops/{name}.
type StopResponse struct {
	Name  string   `json:"name"`
	Lat   float64  `json:"lat"`
	Lng   float64  `json:"lng"`
	Buses []string `json:"buses"`
}

// NearbyResponse is the JSON response for GET /api/v1/stops/nearby.
type NearbyResponse struct {
	Stops []NearbyStopJSON `json:"stops"`
}

// NearbyStopJSON is one stop near the queried point.
type NearbyStopJSON struct {
	Name           string  `json:"name"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	DistanceMeters float64 `json:"distance_meters"`
}

// ErrorResponse is the JSON response for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// StatsResponse is the JSON response for GET /api/v1/stats.
type StatsResponse struct {
	Stops       int        `json:"stops"`
	ServedStops int        `json:"served_stops"`
	Buses       int        `json:"buses"`
	Vertices    int        `json:"vertices"`
	WaitEdges   int        `json:"wait_edges"`
	RideEdges   int        `json:"ride_edges"`
	Components  int        `json:"components"`
	Largest     int        `json:"largest_component_stops"`
	RouteCache  *CacheJSON `json:"route_cache,omitempty"`
}

// CacheJSON reports route cache counters.
type CacheJSON struct {
	Entries int     `json:"entries"`
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// HealthResponse is the JSON response for GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}
