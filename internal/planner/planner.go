package planner

import (
	"context"
	"sync"
	"time"

	"ev-charge-planner/internal/analysis"
	"ev-charge-planner/internal/charging"
	"ev-charge-planner/internal/data"
	"ev-charge-planner/internal/logger"
	"ev-charge-planner/internal/metrics"
	"ev-charge-planner/internal/model"
)

// Config holds what stays fixed for the lifetime of a Planner.
type Config struct {
	CapacityKWh            float64
	ChargingRateKWhPerHour float64
	Location               *time.Location

	// Debounce is the quiet period before SetInputs takes effect.
	Debounce time.Duration
	// Window returns the fetch window for now. Defaults to data.DefaultWindow.
	Window func(now time.Time) (start, end time.Time)

	Defaults model.Inputs
}

// Plan is everything computed for one set of inputs at one instant.
type Plan struct {
	Now         time.Time
	Inputs      model.Inputs
	CapacityKWh float64
	Result      *charging.Result
	Scenarios   []charging.ScenarioRow
	Windows     []charging.ChargeWindow
	Stats       analysis.PriceStats
}

type memoKey struct {
	version uint64
	inputs  model.Inputs
	now     int64
}

// Planner keeps market data and committed inputs for one user session and
// recomputes the schedule only when one of them changes. It is safe for
// concurrent use.
type Planner struct {
	source  data.Source
	cfg     Config
	log     logger.Logger
	metrics metrics.Recorder
	clock   func() time.Time

	inputs *Debouncer[model.Inputs]

	mu        sync.Mutex
	state     MarketState
	version   uint64
	committed model.Inputs
	memo      *Plan
	memoKey   memoKey
}

type Option func(*Planner)

func WithLogger(l logger.Logger) Option { return func(p *Planner) { p.log = l } }

func WithMetrics(r metrics.Recorder) Option { return func(p *Planner) { p.metrics = r } }

// WithClock overrides time.Now for fetch windows.
func WithClock(now func() time.Time) Option { return func(p *Planner) { p.clock = now } }

func New(source data.Source, cfg Config, opts ...Option) *Planner {
	if cfg.CapacityKWh <= 0 {
		cfg.CapacityKWh = model.DefaultCapacityKWh
	}
	if cfg.ChargingRateKWhPerHour <= 0 {
		cfg.ChargingRateKWhPerHour = model.DefaultChargingRateKWhPerHour
	}
	if cfg.Window == nil {
		cfg.Window = data.DefaultWindow
	}
	p := &Planner{
		source:    source,
		cfg:       cfg,
		log:       logger.NopLogger{},
		metrics:   metrics.NopRecorder{},
		clock:     time.Now,
		state:     MarketState{Status: StatusLoading},
		committed: cfg.Defaults,
	}
	for _, o := range opts {
		o(p)
	}
	p.inputs = NewDebouncer(cfg.Debounce, p.commit)
	return p
}

// Refresh re-fetches market data. It is the only retry mechanism: callers
// invoke it again after an error.
func (p *Planner) Refresh(ctx context.Context) error {
	p.mu.Lock()
	p.state.Status = StatusLoading
	p.state.Message = ""
	p.mu.Unlock()

	now := p.clock()
	start, end := p.cfg.Window(now)
	slots, err := p.source.Fetch(ctx, start, end)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.log.Errorf("fetch market data: %v", err)
		p.state.Status = StatusError
		p.state.Message = err.Error()
		return err
	}
	p.state = MarketState{Status: StatusReady, Slots: slots, FetchedAt: now}
	p.version++
	p.log.Infof("market data ready: %d slots", len(slots))
	return nil
}

// State returns a copy of the current market state.
func (p *Planner) State() MarketState {
	p.mu.Lock()
	defer p.mu.Unlock()
	st := p.state
	st.Slots = append([]model.PriceSlot(nil), p.state.Slots...)
	return st
}

// Inputs returns the committed inputs.
func (p *Planner) Inputs() model.Inputs {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.committed
}

// PendingInputs returns inputs still waiting out the debounce period.
func (p *Planner) PendingInputs() (model.Inputs, bool) {
	return p.inputs.Pending()
}

// SetInputs schedules in to become the committed inputs after the quiet period.
func (p *Planner) SetInputs(in model.Inputs) {
	p.inputs.Push(in)
}

// CommitInputs replaces the committed inputs immediately, dropping any pending edit.
func (p *Planner) CommitInputs(in model.Inputs) {
	p.inputs.Resolve(func(model.Inputs, bool) { p.commit(in) })
}

// SelectThreshold adopts a scenario's threshold as the new willingness to pay.
// A pending edit is committed first so the selection applies on top of it.
func (p *Planner) SelectThreshold(price float64) model.Inputs {
	var out model.Inputs
	p.inputs.Resolve(func(pending model.Inputs, ok bool) {
		base := p.Inputs()
		if ok {
			base = pending
		}
		base.WillingToPayCentsPerKWh = price
		p.commit(base)
		out = base
	})
	return out
}

func (p *Planner) commit(in model.Inputs) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.committed = in
	p.log.Debugw("inputs committed", map[string]any{
		"charge":  in.CurrentChargePercent,
		"network": in.NetworkCostsCentsPerKWh,
		"pay":     in.WillingToPayCentsPerKWh,
	})
}

// Plan returns the schedule evaluated at exactly now. Repeated calls with
// unchanged data, inputs and instant return the cached plan.
func (p *Planner) Plan(now time.Time) (*Plan, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state.Status != StatusReady {
		return nil, &NotReadyError{Status: p.state.Status, Message: p.state.Message}
	}

	key := memoKey{version: p.version, inputs: p.committed, now: now.UnixNano()}
	if p.memo != nil && p.memoKey == key {
		return p.memo, nil
	}

	params := p.committed.Apply(model.ChargingParameters{
		CapacityKWh:            p.cfg.CapacityKWh,
		ChargingRateKWhPerHour: p.cfg.ChargingRateKWhPerHour,
		Now:                    now,
		Location:               p.cfg.Location,
	})
	plan := Compute(p.state.Slots, params, p.metrics)
	plan.Inputs = p.committed

	p.memo = plan
	p.memoKey = key
	return plan, nil
}

// Compute runs the simulation and scenario sweep for a single parameter set.
func Compute(slots []model.PriceSlot, params model.ChargingParameters, rec metrics.Recorder) *Plan {
	if rec == nil {
		rec = metrics.NopRecorder{}
	}
	began := time.Now()
	res := charging.Simulate(slots, params)
	scenarios := charging.Sweep(res.Rows, params)
	rec.ObserveSimulation(time.Since(began), len(res.Rows), len(scenarios))

	return &Plan{
		Now:    params.Now,
		Inputs: model.Inputs{
			CurrentChargePercent:    params.InitialChargePercent,
			NetworkCostsCentsPerKWh: params.NetworkCostsCentsPerKWh,
			WillingToPayCentsPerKWh: params.WillingToPayCentsPerKWh,
		},
		CapacityKWh: params.CapacityKWh,
		Result:      res,
		Scenarios:   scenarios,
		Windows:     charging.ChargeWindows(res.Rows),
		Stats:       analysis.ComputePriceStats(res.Rows),
	}
}

// Close drops any pending input edit.
func (p *Planner) Close() error {
	p.inputs.Cancel()
	return nil
}
