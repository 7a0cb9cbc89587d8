package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder receives planner and market data events.
type Recorder interface {
	ObserveSimulation(d time.Duration, slots, scenarios int)
	RecordFetch(result string)
	RecordCache(hit bool)
}

// Fetch results.
const (
	FetchOK    = "ok"
	FetchError = "error"
)

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) ObserveSimulation(time.Duration, int, int) {}
func (NopRecorder) RecordFetch(string)                        {}
func (NopRecorder) RecordCache(bool)                          {}

// PromRecorder records events in Prometheus metrics.
type PromRecorder struct {
	simulations prometheus.Counter
	latency     prometheus.Histogram
	slots       prometheus.Gauge
	scenarios   prometheus.Gauge
	fetches     *prometheus.CounterVec
	cache       *prometheus.CounterVec
}

// NewPromRecorder registers metrics on reg. A nil registerer defaults to the
// global Prometheus registerer. Metrics already registered are reused.
func NewPromRecorder(reg prometheus.Registerer) (*PromRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &PromRecorder{
		simulations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "charge_planner_simulations_total",
			Help: "Number of schedule simulations computed",
		}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "charge_planner_simulation_seconds",
			Help:    "Time to simulate a schedule and its threshold sweep",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		slots: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "charge_planner_price_slots",
			Help: "Price slots in the last simulation",
		}),
		scenarios: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "charge_planner_scenarios",
			Help: "Threshold scenarios in the last simulation",
		}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "charge_planner_market_fetches_total",
			Help: "Market data fetches by result",
		}, []string{"result"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "charge_planner_price_cache_total",
			Help: "Price cache lookups by outcome",
		}, []string{"outcome"}),
	}

	var err error
	if r.simulations, err = register(reg, r.simulations); err != nil {
		return nil, err
	}
	if r.latency, err = register(reg, r.latency); err != nil {
		return nil, err
	}
	if r.slots, err = register(reg, r.slots); err != nil {
		return nil, err
	}
	if r.scenarios, err = register(reg, r.scenarios); err != nil {
		return nil, err
	}
	if r.fetches, err = register(reg, r.fetches); err != nil {
		return nil, err
	}
	if r.cache, err = register(reg, r.cache); err != nil {
		return nil, err
	}
	return r, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (r *PromRecorder) ObserveSimulation(d time.Duration, slots, scenarios int) {
	r.simulations.Inc()
	r.latency.Observe(d.Seconds())
	r.slots.Set(float64(slots))
	r.scenarios.Set(float64(scenarios))
}

func (r *PromRecorder) RecordFetch(result string) {
	r.fetches.WithLabelValues(result).Inc()
}

func (r *PromRecorder) RecordCache(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	r.cache.WithLabelValues(outcome).Inc()
}
