// Package domain contains the strategy context's core types.
package domain

import "sync"

// Parameter clamp ranges. Updates outside a range are clamped, not rejected.
const (
	MinSpreadThresholdBps = 10
	MaxSpreadThresholdBps = 2000
	MinPositionPct        = 1
	MaxPositionPct        = 100
	MinSlippageBps        = 1
	MaxSlippageBps        = 1000
)

// Default parameter values at process start.
const (
	DefaultSpreadThresholdBps = 100
	DefaultMaxPositionPct     = 10
	DefaultMaxSlippageBps     = 50
)

// Params are the user-adjustable strategy knobs.
type Params struct {
	SpreadThresholdBps int
	MaxPositionPct     int
	MaxSlippageBps     int
}

// ParamsUpdate carries partial updates. Nil fields are left unchanged.
type ParamsUpdate struct {
	SpreadThresholdBps *int
	MaxPositionPct     *int
	MaxSlippageBps     *int
}

// ParamsStore holds the live strategy parameters. All access is clamped and
// safe for concurrent use.
type ParamsStore struct {
	mu     sync.RWMutex
	params Params
}

// NewParamsStore creates a store with the default parameters.
func NewParamsStore() *ParamsStore {
	return &ParamsStore{
		params: Params{
			SpreadThresholdBps: DefaultSpreadThresholdBps,
			MaxPositionPct:     DefaultMaxPositionPct,
			MaxSlippageBps:     DefaultMaxSlippageBps,
		},
	}
}

// Get returns a copy of the current parameters.
func (s *ParamsStore) Get() Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}

// Update applies a partial update, clamping each field to its range.
func (s *ParamsStore) Update(u ParamsUpdate) Params {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.SpreadThresholdBps != nil {
		s.params.SpreadThresholdBps = clamp(*u.SpreadThresholdBps, MinSpreadThresholdBps, MaxSpreadThresholdBps)
	}
	if u.MaxPositionPct != nil {
		s.params.MaxPositionPct = clamp(*u.MaxPositionPct, MinPositionPct, MaxPositionPct)
	}
	if u.MaxSlippageBps != nil {
		s.params.MaxSlippageBps = clamp(*u.MaxSlippageBps, MinSlippageBps, MaxSlippageBps)
	}
	return s.params
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
