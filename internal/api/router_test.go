package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ev-charge-planner/internal/api/models"
	"ev-charge-planner/internal/config"
	"ev-charge-planner/internal/data"
	"ev-charge-planner/internal/metrics"
	"ev-charge-planner/internal/model"
	"ev-charge-planner/internal/planner"
	"ev-charge-planner/internal/theme"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

// testSlots starts one hour before testNow. With the default inputs
// (network 12, pay 12) the hours at +0h and +2h charge and -1h is past.
func testSlots() []model.PriceSlot {
	prices := []float64{10, -1, 5, 0, 20, 3}
	out := make([]model.PriceSlot, 0, len(prices))
	for i, p := range prices {
		start := testNow.Add(time.Duration(i-1) * time.Hour)
		out = append(out, model.PriceSlot{Start: start, End: start.Add(time.Hour), MarketPriceCents: p})
	}
	return out
}

type failingSource struct{ err error }

func (f failingSource) Fetch(context.Context, time.Time, time.Time) ([]model.PriceSlot, error) {
	return nil, f.err
}

type testServer struct {
	handler http.Handler
	planner *planner.Planner
}

func newTestServer(t *testing.T, source data.Source, refresh bool) *testServer {
	t.Helper()
	cfg := config.Default()
	cfg.Market.Timezone = "UTC"
	cfg.Server.AllowedOrigins = []string{"http://localhost:5173"}

	clock := func() time.Time { return testNow }
	reg := prometheus.NewRegistry()
	rec, err := metrics.NewPromRecorder(reg)
	require.NoError(t, err)

	p := planner.New(source, planner.Config{
		Location: time.UTC,
		Debounce: time.Hour,
		Defaults: cfg.Defaults,
	}, planner.WithClock(clock), planner.WithMetrics(rec))
	t.Cleanup(func() { _ = p.Close() })
	if refresh {
		_ = p.Refresh(context.Background())
	}

	h := NewHandler(Deps{
		Config:   cfg,
		Source:   source,
		Planner:  p,
		Theme:    theme.NewStore(theme.PreferLight, theme.Light),
		Metrics:  rec,
		Gatherer: reg,
		Clock:    clock,
	})
	return &testServer{handler: h, planner: p}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, data.StaticSource(testSlots()), true)
	w := s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"market_data":"ready"`)
}

func TestGetSession(t *testing.T) {
	s := newTestServer(t, data.StaticSource(testSlots()), true)

	w := s.do(t, http.MethodGet, "/api/v1/session?cheapest_hours=2", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[models.SessionResponse](t, w)

	assert.Equal(t, models.Inputs{CurrentChargePercent: 20, NetworkCostsCentsPerKWh: 12, WillingToPayCentsPerKWh: 12}, resp.Inputs)
	require.Len(t, resp.Schedule, 6)
	assert.Equal(t, "PAST", resp.Schedule[0].Classification)
	assert.Equal(t, "CHARGING", resp.Schedule[1].Classification)
	assert.Equal(t, "IDLE", resp.Schedule[2].Classification)
	assert.Equal(t, "CHARGING", resp.Schedule[3].Classification)
	assert.Equal(t, "12:00", resp.Schedule[1].Hour)

	assert.InDelta(t, 22.0, resp.Summary.TotalEnergyKWh, 1e-9)
	assert.InDelta(t, 253.0, resp.Summary.TotalCostCents, 1e-9)
	assert.InDelta(t, 2.53, resp.Summary.TotalCostCurrencyUnits, 1e-9)
	assert.InDelta(t, 20+22.0/75*100, resp.Summary.FinalStateOfCharge, 1e-9)
	assert.Len(t, resp.Summary.ChargeWindows, 2)
	assert.Len(t, resp.Summary.CheapestHours, 2)
	assert.NotEmpty(t, resp.Scenarios)
	assert.Nil(t, resp.PendingInputs)
}

func TestSessionNotReady(t *testing.T) {
	t.Run("loading", func(t *testing.T) {
		s := newTestServer(t, data.StaticSource(testSlots()), false)
		w := s.do(t, http.MethodGet, "/api/v1/session", nil)
		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "MARKET_DATA_LOADING", decode[models.ErrorResponse](t, w).Error.Code)
	})
	t.Run("error", func(t *testing.T) {
		src := failingSource{err: &data.APIError{StatusCode: 500, Code: "UPSTREAM_ERROR", Message: "HTTP error! status: 500"}}
		s := newTestServer(t, src, true)
		w := s.do(t, http.MethodGet, "/api/v1/session", nil)
		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		body := decode[models.ErrorResponse](t, w)
		assert.Equal(t, "MARKET_DATA_ERROR", body.Error.Code)
		assert.Equal(t, "HTTP error! status: 500", body.Error.Message)

		w = s.do(t, http.MethodGet, "/api/v1/prices", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestRefreshRateLimited(t *testing.T) {
	src := failingSource{err: &data.APIError{StatusCode: 429, Code: "RATE_LIMIT_EXCEEDED", Message: "slow down", RetryAfter: "60"}}
	s := newTestServer(t, src, false)

	w := s.do(t, http.MethodPost, "/api/v1/session/refresh", nil)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	body := decode[models.ErrorResponse](t, w)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", body.Error.Code)
	assert.Equal(t, "60", body.Error.Details["retry_after"])
}

func TestRefreshAndPrices(t *testing.T) {
	s := newTestServer(t, data.StaticSource(testSlots()), false)

	w := s.do(t, http.MethodPost, "/api/v1/session/refresh", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[models.PricesResponse](t, w).Slots, 6)

	w = s.do(t, http.MethodGet, "/api/v1/prices", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[models.PricesResponse](t, w)
	require.Len(t, resp.Slots, 6)
	assert.Equal(t, -1.0, resp.Slots[1].MarketPriceCents)
	assert.True(t, resp.FetchedAt.Equal(testNow))
}

func TestUpdateInputsDebouncedThenCommitted(t *testing.T) {
	s := newTestServer(t, data.StaticSource(testSlots()), true)

	pay := 17.0
	w := s.do(t, http.MethodPut, "/api/v1/session/inputs", map[string]any{"willing_to_pay_cents_per_kwh": pay})
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "pending", decode[models.InputsResponse](t, w).Status)

	resp := decode[models.SessionResponse](t, s.do(t, http.MethodGet, "/api/v1/session", nil))
	assert.Equal(t, 12.0, resp.Inputs.WillingToPayCentsPerKWh)
	require.NotNil(t, resp.PendingInputs)
	assert.Equal(t, pay, resp.PendingInputs.WillingToPayCentsPerKWh)

	w = s.do(t, http.MethodPut, "/api/v1/session/inputs?commit=true", map[string]any{"current_charge_percent": 50})
	require.Equal(t, http.StatusOK, w.Code)
	committed := decode[models.InputsResponse](t, w)
	assert.Equal(t, "committed", committed.Status)
	assert.Equal(t, models.Inputs{CurrentChargePercent: 50, NetworkCostsCentsPerKWh: 12, WillingToPayCentsPerKWh: pay}, committed.Inputs)

	resp = decode[models.SessionResponse](t, s.do(t, http.MethodGet, "/api/v1/session", nil))
	assert.Equal(t, committed.Inputs, resp.Inputs)
	assert.Nil(t, resp.PendingInputs)
}

func TestUpdateInputsRejectsOutOfRangeCharge(t *testing.T) {
	s := newTestServer(t, data.StaticSource(testSlots()), true)
	w := s.do(t, http.MethodPut, "/api/v1/session/inputs", map[string]any{"current_charge_percent": 150})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_INPUTS", decode[models.ErrorResponse](t, w).Error.Code)
}

func TestSelectThreshold(t *testing.T) {
	s := newTestServer(t, data.StaticSource(testSlots()), true)

	w := s.do(t, http.MethodPost, "/api/v1/session/threshold", map[string]any{"threshold_price": 17})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 17.0, decode[models.InputsResponse](t, w).Inputs.WillingToPayCentsPerKWh)

	resp := decode[models.SessionResponse](t, s.do(t, http.MethodGet, "/api/v1/session", nil))
	assert.Equal(t, "CHARGING", resp.Schedule[2].Classification)

	w = s.do(t, http.MethodPost, "/api/v1/session/threshold", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSimulateWithRequestSlots(t *testing.T) {
	s := newTestServer(t, failingSource{err: assert.AnError}, false)

	slots := make([]models.PriceSlot, 0)
	for _, sl := range testSlots() {
		slots = append(slots, models.PriceSlot{Start: sl.Start, End: sl.End, MarketPriceCents: sl.MarketPriceCents})
	}
	now := testNow
	include := false
	w := s.do(t, http.MethodPost, "/api/v1/simulate", models.SimulateRequest{
		Slots:   slots,
		Vehicle: models.VehicleConfig{ChargingRateKWhPerHour: 7},
		Now:     &now,
		Options: models.SimulationOptions{IncludeScenarios: &include},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[models.SimulationResponse](t, w)

	assert.InDelta(t, 14.0, resp.Summary.TotalEnergyKWh, 1e-9)
	assert.InDelta(t, 7*11.0+7*12.0, resp.Summary.TotalCostCents, 1e-9)
	assert.Empty(t, resp.Scenarios)
	assert.Equal(t, "#ccc", resp.Schedule[0].Color)
}

func TestSimulateFetchesWhenNoSlots(t *testing.T) {
	s := newTestServer(t, data.StaticSource(testSlots()), false)
	w := s.do(t, http.MethodPost, "/api/v1/simulate", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[models.SimulationResponse](t, w)
	assert.Len(t, resp.Schedule, 6)
	assert.NotEmpty(t, resp.Scenarios)

	s = newTestServer(t, failingSource{err: assert.AnError}, false)
	w = s.do(t, http.MethodPost, "/api/v1/simulate", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestSimulateRejectsBadInput(t *testing.T) {
	s := newTestServer(t, data.StaticSource(testSlots()), false)

	w := s.do(t, http.MethodPost, "/api/v1/simulate", models.SimulateRequest{
		Slots: []models.PriceSlot{{Start: testNow, End: testNow}},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_SLOTS", decode[models.ErrorResponse](t, w).Error.Code)

	charge := -5.0
	w = s.do(t, http.MethodPost, "/api/v1/simulate", models.SimulateRequest{
		Inputs: models.InputsRequest{CurrentChargePercent: &charge},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_PARAMETERS", decode[models.ErrorResponse](t, w).Error.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/simulate", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTheme(t *testing.T) {
	s := newTestServer(t, data.StaticSource(testSlots()), false)

	resp := decode[models.ThemeResponse](t, s.do(t, http.MethodGet, "/api/v1/theme", nil))
	assert.Equal(t, models.ThemeResponse{Mode: "light", IsDark: false}, resp)

	resp = decode[models.ThemeResponse](t, s.do(t, http.MethodPut, "/api/v1/theme", map[string]any{"toggle": true}))
	assert.Equal(t, models.ThemeResponse{Mode: "dark", IsDark: true}, resp)

	resp = decode[models.ThemeResponse](t, s.do(t, http.MethodPut, "/api/v1/theme", map[string]any{"mode": "light"}))
	assert.Equal(t, "light", resp.Mode)

	w := s.do(t, http.MethodPut, "/api/v1/theme", map[string]any{"mode": "sepia"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, data.StaticSource(testSlots()), true)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/session", nil).Code)

	w := s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "charge_planner_simulations_total 1")
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t, data.StaticSource(testSlots()), false)
	w := s.do(t, http.MethodGet, "/api/v1/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResponsesAreCompressedWhenAccepted(t *testing.T) {
	s := newTestServer(t, data.StaticSource(testSlots()), true)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
}
