package handlers

import (
	"net/http"
	"strconv"
	"time"

	"ev-charge-planner/internal/api/models"
	"ev-charge-planner/internal/model"
	"ev-charge-planner/internal/planner"

	"github.com/gin-gonic/gin"
)

// SessionHandler exposes the long-lived planner session.
type SessionHandler struct {
	planner *planner.Planner
	clock   func() time.Time
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(p *planner.Planner, clock func() time.Time) *SessionHandler {
	if clock == nil {
		clock = time.Now
	}
	return &SessionHandler{planner: p, clock: clock}
}

// GetSession handles GET /api/v1/session
func (h *SessionHandler) GetSession(c *gin.Context) {
	cheapest := 0
	if q := c.Query("cheapest_hours"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "cheapest_hours must be a non-negative integer", nil)
			return
		}
		cheapest = n
	}

	plan, err := h.planner.Plan(h.clock())
	if err != nil {
		writeNotReady(c, err)
		return
	}

	resp := models.SessionResponse{
		SimulationResponse: buildResponse(plan, true, cheapest),
		FetchedAt:          h.planner.State().FetchedAt,
	}
	if pending, ok := h.planner.PendingInputs(); ok {
		in := toInputs(pending)
		resp.PendingInputs = &in
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateInputs handles PUT /api/v1/session/inputs
// The edit is debounced unless ?commit=true is given.
func (h *SessionHandler) UpdateInputs(c *gin.Context) {
	var req models.InputsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	base := h.planner.Inputs()
	if pending, ok := h.planner.PendingInputs(); ok {
		base = pending
	}
	in := mergeInputs(base, req)
	if err := validateInputs(in); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_INPUTS", err.Error(), nil)
		return
	}

	if c.Query("commit") == "true" {
		h.planner.CommitInputs(in)
		c.JSON(http.StatusOK, models.InputsResponse{Status: "committed", Inputs: toInputs(in)})
		return
	}
	h.planner.SetInputs(in)
	c.JSON(http.StatusAccepted, models.InputsResponse{Status: "pending", Inputs: toInputs(in)})
}

// SelectThreshold handles POST /api/v1/session/threshold
func (h *SessionHandler) SelectThreshold(c *gin.Context) {
	var req models.ThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	in := h.planner.SelectThreshold(*req.ThresholdPrice)
	c.JSON(http.StatusOK, models.InputsResponse{Status: "committed", Inputs: toInputs(in)})
}

// Refresh handles POST /api/v1/session/refresh
func (h *SessionHandler) Refresh(c *gin.Context) {
	if err := h.planner.Refresh(c.Request.Context()); err != nil {
		writeFetchError(c, err)
		return
	}
	st := h.planner.State()
	c.JSON(http.StatusOK, models.PricesResponse{FetchedAt: st.FetchedAt, Slots: toPriceSlots(st.Slots)})
}

// GetPrices handles GET /api/v1/prices
func (h *SessionHandler) GetPrices(c *gin.Context) {
	st := h.planner.State()
	if st.Status != planner.StatusReady {
		writeNotReady(c, &planner.NotReadyError{Status: st.Status, Message: st.Message})
		return
	}
	c.JSON(http.StatusOK, models.PricesResponse{FetchedAt: st.FetchedAt, Slots: toPriceSlots(st.Slots)})
}

func validateInputs(in model.Inputs) error {
	return in.Apply(model.ChargingParameters{
		CapacityKWh:            1,
		ChargingRateKWhPerHour: 1,
		Now:                    time.Unix(0, 0),
	}).Validate()
}
