package handlers

import (
	"fmt"
	"net/http"
	"time"

	"ev-charge-planner/internal/api/models"
	"ev-charge-planner/internal/config"
	"ev-charge-planner/internal/data"
	"ev-charge-planner/internal/metrics"
	"ev-charge-planner/internal/model"
	"ev-charge-planner/internal/planner"

	"github.com/gin-gonic/gin"
)

// SimulateHandler runs stateless simulations against request or live prices.
type SimulateHandler struct {
	source   data.Source
	vehicle  config.VehicleConfig
	defaults model.Inputs
	location *time.Location
	window   func(now time.Time) (start, end time.Time)
	metrics  metrics.Recorder
	clock    func() time.Time
}

// NewSimulateHandler creates a new simulate handler
func NewSimulateHandler(source data.Source, cfg *config.Config, rec metrics.Recorder, clock func() time.Time) *SimulateHandler {
	loc, err := cfg.Location()
	if err != nil {
		loc = time.Local
	}
	if rec == nil {
		rec = metrics.NopRecorder{}
	}
	if clock == nil {
		clock = time.Now
	}
	return &SimulateHandler{
		source:   source,
		vehicle:  cfg.Vehicle,
		defaults: cfg.Defaults,
		location: loc,
		window:   cfg.Window,
		metrics:  rec,
		clock:    clock,
	}
}

// Simulate handles POST /api/v1/simulate
func (h *SimulateHandler) Simulate(c *gin.Context) {
	var req models.SimulateRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
			return
		}
	}
	for i, s := range req.Slots {
		if !s.End.After(s.Start) {
			writeError(c, http.StatusBadRequest, "INVALID_SLOTS",
				fmt.Sprintf("slot %d: end must be after start", i),
				map[string]interface{}{"index": i})
			return
		}
	}

	now := h.clock()
	if req.Now != nil {
		now = *req.Now
	}
	vehicle := config.MergeVehicle(h.vehicle, config.VehicleConfig{
		CapacityKWh:            req.Vehicle.CapacityKWh,
		ChargingRateKWhPerHour: req.Vehicle.ChargingRateKWhPerHour,
	})
	params := vehicle.ToParameters(mergeInputs(h.defaults, req.Inputs), now, h.location)
	if err := params.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_PARAMETERS", err.Error(), nil)
		return
	}

	slots := fromPriceSlots(req.Slots)
	if len(slots) == 0 {
		start, end := h.window(now)
		fetched, err := h.source.Fetch(c.Request.Context(), start, end)
		if err != nil {
			writeFetchError(c, err)
			return
		}
		slots = fetched
	}

	plan := planner.Compute(slots, params, h.metrics)

	includeScenarios := true
	if req.Options.IncludeScenarios != nil {
		includeScenarios = *req.Options.IncludeScenarios
	}
	c.JSON(http.StatusOK, buildResponse(plan, includeScenarios, req.Options.CheapestHours))
}
