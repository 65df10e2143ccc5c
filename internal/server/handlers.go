package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	cluster "github.com/MadAppGang/geocluster"
	"github.com/go-chi/chi/v5"
	"github.com/paulmach/orb/geojson"
)

const defaultLeavesLimit = 10

type markerJSON struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
	Tag int     `json:"tag"`
}

type viewportRequest struct {
	BBox      []float64    `json:"bbox"`
	Zoom      float64      `json:"zoom"`
	Displayed []markerJSON `json:"displayed"`
}

type viewportResponse struct {
	Remove []markerJSON               `json:"remove"`
	Add    *geojson.FeatureCollection `json:"add"`
}

// handleClusters returns nodes of the bounding box as a FeatureCollection: ?bbox=w,s,e,n&zoom=z
func (s *Server) handleClusters(w http.ResponseWriter, r *http.Request) {
	c, ok := s.ready(w)
	if !ok {
		return
	}

	bbox, err := parseBBox(r.URL.Query().Get("bbox"))
	if err != nil {
		s.invalid(w, "bbox", err)
		return
	}
	zoom, err := parseZoom(r.URL.Query().Get("zoom"))
	if err != nil {
		s.invalid(w, "zoom", err)
		return
	}

	start := time.Now()
	result, err := c.GetClusters(bbox, zoom)
	if err != nil {
		s.queryError(w, r, err)
		return
	}
	s.metrics.QuerySeconds.WithLabelValues("clusters").Observe(time.Since(start).Seconds())
	s.metrics.QueryNodes.Observe(float64(len(result)))

	writeJSON(w, http.StatusOK, c.FeatureCollection(result))
}

// handleViewport reconciles markers displayed by the client with the nodes of its viewport
func (s *Server) handleViewport(w http.ResponseWriter, r *http.Request) {
	c, ok := s.ready(w)
	if !ok {
		return
	}

	var req viewportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.invalid(w, "body", fmt.Errorf("invalid request body: %w", err))
		return
	}
	if len(req.BBox) != 4 {
		s.invalid(w, "bbox", errors.New("bbox must have 4 values: west, south, east, north"))
		return
	}
	zoom, err := zoomLevel(req.Zoom)
	if err != nil {
		s.invalid(w, "zoom", err)
		return
	}

	displayed := make([]cluster.Marker, len(req.Displayed))
	for i, m := range req.Displayed {
		displayed[i] = cluster.Marker{
			Coordinates: cluster.GeoCoordinates{Lon: m.Lon, Lat: m.Lat},
			Tag:         m.Tag,
		}
	}
	bbox := cluster.BoundingBox{West: req.BBox[0], South: req.BBox[1], East: req.BBox[2], North: req.BBox[3]}

	start := time.Now()
	diff, err := cluster.NewViewport(c).Update(displayed, bbox, zoom)
	if err != nil {
		s.queryError(w, r, err)
		return
	}
	s.metrics.QuerySeconds.WithLabelValues("viewport").Observe(time.Since(start).Seconds())
	s.metrics.ReconcileOps.WithLabelValues("remove").Add(float64(len(diff.Remove)))
	s.metrics.ReconcileOps.WithLabelValues("add").Add(float64(len(diff.Add)))

	resp := viewportResponse{
		Remove: make([]markerJSON, len(diff.Remove)),
		Add:    c.FeatureCollection(diff.Add),
	}
	for i, m := range diff.Remove {
		resp.Remove[i] = markerJSON{Lon: m.Coordinates.Lon, Lat: m.Coordinates.Lat, Tag: m.Tag}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChildren(w http.ResponseWriter, r *http.Request) {
	c, ok := s.ready(w)
	if !ok {
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "clusterID"))
	if err != nil {
		s.invalid(w, "cluster_id", errors.New("cluster id must be an integer"))
		return
	}

	children, err := c.Children(id)
	if err != nil {
		s.queryError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c.FeatureCollection(children))
}

func (s *Server) handleLeaves(w http.ResponseWriter, r *http.Request) {
	c, ok := s.ready(w)
	if !ok {
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "clusterID"))
	if err != nil {
		s.invalid(w, "cluster_id", errors.New("cluster id must be an integer"))
		return
	}
	limit, err := queryInt(r, "limit", defaultLeavesLimit)
	if err != nil {
		s.invalid(w, "limit", err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		s.invalid(w, "offset", err)
		return
	}

	leaves, err := c.Leaves(id, limit, offset)
	if err != nil {
		s.queryError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c.FeatureCollection(leaves))
}

func (s *Server) handleExpansionZoom(w http.ResponseWriter, r *http.Request) {
	c, ok := s.ready(w)
	if !ok {
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "clusterID"))
	if err != nil {
		s.invalid(w, "cluster_id", errors.New("cluster id must be an integer"))
		return
	}

	zoom, err := c.ExpansionZoom(id)
	if err != nil {
		s.queryError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"cluster_id": id, "zoom": zoom})
}

func (s *Server) invalid(w http.ResponseWriter, reason string, err error) {
	s.metrics.InvalidRequests.WithLabelValues(reason).Inc()
	jsonError(w, err.Error(), http.StatusBadRequest)
}

func (s *Server) queryError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, cluster.ErrInvalidBoundingBox):
		s.invalid(w, "bbox", err)
	case errors.Is(err, cluster.ErrClusterNotFound):
		jsonError(w, err.Error(), http.StatusNotFound)
	default:
		s.log.ErrorContext(r.Context(), "Cluster query failed", "path", r.URL.Path, "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
	}
}

// parseBBox parses "west,south,east,north"
func parseBBox(raw string) (cluster.BoundingBox, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return cluster.BoundingBox{}, errors.New("bbox must have 4 values: west, south, east, north")
	}
	var edges [4]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return cluster.BoundingBox{}, fmt.Errorf("invalid bbox value %q", part)
		}
		edges[i] = v
	}
	return cluster.BoundingBox{West: edges[0], South: edges[1], East: edges[2], North: edges[3]}, nil
}

// parseZoom accepts fractional map zoom, the integer part is used
func parseZoom(raw string) (int, error) {
	if raw == "" {
		return 0, errors.New("zoom is required")
	}
	z, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid zoom %q", raw)
	}
	return zoomLevel(z)
}

func zoomLevel(z float64) (int, error) {
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return 0, errors.New("zoom must be a finite number")
	}
	//the index clamps zoom anyway, keep the conversion in int range
	z = math.Max(-1, math.Min(z, cluster.InfinityZoomLevel))
	return int(math.Floor(z)), nil
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", key)
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
