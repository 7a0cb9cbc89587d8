package planner

import (
	"errors"
	"fmt"
	"time"

	"ev-charge-planner/internal/model"
)

// Status is the lifecycle of the market data the planner works on.
type Status string

const (
	StatusLoading Status = "loading"
	StatusError   Status = "error"
	StatusReady   Status = "ready"
)

// MarketState is loading, error(Message) or ready(Slots).
type MarketState struct {
	Status    Status
	Message   string
	Slots     []model.PriceSlot
	FetchedAt time.Time
}

// ErrNotReady is returned by Plan while market data is loading or failed.
var ErrNotReady = errors.New("market data not ready")

// NotReadyError carries the state that prevented planning.
type NotReadyError struct {
	Status  Status
	Message string
}

func (e *NotReadyError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s: %s", ErrNotReady, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", ErrNotReady, e.Status)
}

func (e *NotReadyError) Unwrap() error { return ErrNotReady }
