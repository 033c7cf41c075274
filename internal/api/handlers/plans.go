package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"food-delivery-service/internal/api/dto"
	"food-delivery-service/internal/citygraph"
	"food-delivery-service/internal/domain"
	"food-delivery-service/internal/ports"
	"food-delivery-service/internal/services"
)

const (
	maxGridSize = 200
	maxRiders   = 100
	maxBody     = 1 << 20
)

type PlanDefaults struct {
	GridSize    int
	Riders      int
	Parallelism int
}

type PlanHandler struct {
	Restaurants ports.RestaurantRepository
	// Plans is optional; without it plans are returned but not stored.
	Plans    ports.PlanRepository
	Cache    ports.DistanceCache
	Defaults PlanDefaults
}

// Plan assigns every order to a rider and returns the resulting routes.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.PlanRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	gridSize := req.GridSize
	if gridSize == 0 {
		gridSize = h.Defaults.GridSize
	}
	if gridSize < 1 || gridSize > maxGridSize {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("grid_size must be between 1 and %d", maxGridSize))
		return
	}

	riders := req.Riders
	if riders == 0 {
		riders = h.Defaults.Riders
	}
	if riders < 1 || riders > maxRiders {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("riders must be between 1 and %d", maxRiders))
		return
	}

	if len(req.ClosedNodes) > gridSize*gridSize {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("closed_nodes must hold at most %d ids", gridSize*gridSize))
		return
	}
	for _, id := range req.ClosedNodes {
		if id < 1 || id > gridSize*gridSize {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("closed_nodes: node %d is outside the %dx%d grid", id, gridSize, gridSize))
			return
		}
	}

	svcReq := services.PlanDeliveriesRequest{
		GridSize:    gridSize,
		Riders:      riders,
		ClosedNodes: dto.ToNodes(req.ClosedNodes),
		Parallelism: h.Defaults.Parallelism,
	}
	if req.Restaurants != nil {
		svcReq.Restaurants = dto.ToRestaurants(req.Restaurants)
	}

	plan, err := services.PlanDeliveries(r.Context(), svcReq, h.Restaurants, h.Cache)
	if err != nil {
		h.planError(w, r, err)
		return
	}

	if h.Plans != nil {
		if _, err := h.Plans.SavePlan(r.Context(), plan); err != nil {
			logFor(r).WithError(err).Error("save plan failed")
			writeError(w, r, http.StatusInternalServerError, "internal server error")
			return
		}
	}

	h.respond(w, r, http.StatusCreated, plan, req.IncludePaths)
}

// Get returns a stored plan by id. ?include_paths=true expands every route.
func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.Plans == nil {
		writeError(w, r, http.StatusNotFound, "plan storage is disabled")
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "plan id is required")
		return
	}

	includePaths := false
	if v := r.URL.Query().Get("include_paths"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "include_paths must be a boolean")
			return
		}
		includePaths = b
	}

	plan, err := h.Plans.GetPlan(r.Context(), id)
	if errors.Is(err, ports.ErrPlanNotFound) {
		writeError(w, r, http.StatusNotFound, "plan not found")
		return
	}
	if err != nil {
		logFor(r).WithError(err).Error("get plan failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	h.respond(w, r, http.StatusOK, plan, includePaths)
}

func (h *PlanHandler) respond(w http.ResponseWriter, r *http.Request, status int, plan *domain.Plan, includePaths bool) {
	var paths [][]domain.PathStep
	if includePaths {
		var err error
		paths, err = expandAll(r.Context(), plan)
		if err != nil {
			logFor(r).WithError(err).Error("expand routes failed")
			writeError(w, r, http.StatusInternalServerError, "internal server error")
			return
		}
	}
	writeJSON(w, r, status, dto.FromPlan(plan, paths))
}

func expandAll(ctx context.Context, plan *domain.Plan) ([][]domain.PathStep, error) {
	graph, err := citygraph.New(plan.GridSize, citygraph.WithClosedNodes(plan.ClosedNodes...))
	if err != nil {
		return nil, err
	}
	paths := make([][]domain.PathStep, len(plan.Routes))
	for i, route := range plan.Routes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		paths[i], err = services.ExpandRoute(graph, route)
		if err != nil {
			return nil, err
		}
	}
	return paths, nil
}

func (h *PlanHandler) planError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, r, http.StatusBadRequest, verr.Error())
	case errors.Is(err, citygraph.ErrUnreachable):
		writeError(w, r, http.StatusUnprocessableEntity, "a restaurant or customer cannot be reached")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, http.StatusServiceUnavailable, "request cancelled")
	default:
		logFor(r).WithError(err).Error("plan deliveries failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
