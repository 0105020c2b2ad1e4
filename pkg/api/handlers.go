package api

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"mime"
	"net/http"
	"sync"

	"georoute/pkg/graph"
	"georoute/pkg/routing"
)

// Handlers holds the HTTP handlers and their dependencies. The router
// is not safe for concurrent use, so every access to it goes through mu.
type Handlers struct {
	mu     sync.Mutex
	router *routing.Router
}

// NewHandlers creates handlers with the given router.
func NewHandlers(router *routing.Router) *Handlers {
	return &Handlers{router: router}
}

// HandleRoute handles POST /api/v1/route.
func (h *Handlers) HandleRoute(w http.ResponseWriter, r *http.Request) {
	// Enforce Content-Type.
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	// Parse request.
	var req RouteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1024)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	// Validate coordinates.
	if err := validateCoord(req.Start); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", "start")
		return
	}
	if err := validateCoord(req.End); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", "end")
		return
	}

	start := graph.Coordinate{Lng: req.Start.Lng, Lat: req.Start.Lat}
	end := graph.Coordinate{Lng: req.End.Lng, Lat: req.End.Lat}

	h.mu.Lock()
	path, err := h.router.GetRoute(r.Context(), start, end)
	h.mu.Unlock()
	if err != nil {
		if errors.Is(err, routing.ErrNotBuilt) {
			writeError(w, http.StatusServiceUnavailable, "graph_not_built", "")
			return
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			writeError(w, http.StatusServiceUnavailable, "request_timeout", "")
			return
		}
		if errors.Is(err, routing.ErrNoRoute) {
			writeError(w, http.StatusNotFound, "no_route_found", "")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}

	geom := make([]LatLngJSON, len(path.Coordinates))
	for i, pt := range path.Coordinates {
		geom[i] = LatLngJSON{Lat: pt.Lat, Lng: pt.Lng}
	}
	resp := RouteResponse{
		TotalCost: path.Cost,
		Geometry:  geom,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	g := h.router.Graph()
	numNodes := g.NumNodes()
	var numEdges int
	for u := uint32(0); u < numNodes; u++ {
		numEdges += g.Degree(u)
	}
	h.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(StatsResponse{
		NumNodes:         numNodes,
		NumDirectedEdges: numEdges,
	})
}

func validateCoord(ll LatLngJSON) error {
	if math.IsNaN(ll.Lat) || math.IsNaN(ll.Lng) || math.IsInf(ll.Lat, 0) || math.IsInf(ll.Lng, 0) {
		return errors.New("coordinates must be finite numbers")
	}
	if ll.Lat < -90 || ll.Lat > 90 || ll.Lng < -180 || ll.Lng > 180 {
		return errors.New("coordinates out of range")
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, code, field string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: code, Field: field})
}
