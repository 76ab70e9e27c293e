package pipeline

import "time"

// DefaultRefreshInterval is how often the dashboard re-fetches data when
// auto refresh is enabled.
const DefaultRefreshInterval = 30 * time.Second

// RefreshState tracks when data was last refreshed and whether periodic
// refresh is active. It is a value type: Touch and Toggle return the
// updated state so callers can keep it in immutable UI models.
type RefreshState struct {
	LastRefresh time.Time
	AutoRefresh bool
	Interval    time.Duration
}

// NewRefreshState returns a state with auto refresh off and the default
// interval.
func NewRefreshState(now time.Time) RefreshState {
	return RefreshState{
		LastRefresh: now,
		Interval:    DefaultRefreshInterval,
	}
}

// Due reports whether an automatic refresh should fire at now.
func (s RefreshState) Due(now time.Time) bool {
	if !s.AutoRefresh {
		return false
	}
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return now.Sub(s.LastRefresh) >= interval
}

// Touch records a completed refresh.
func (s RefreshState) Touch(now time.Time) RefreshState {
	s.LastRefresh = now
	return s
}

// Toggle flips auto refresh.
func (s RefreshState) Toggle() RefreshState {
	s.AutoRefresh = !s.AutoRefresh
	return s
}

// Age returns how long ago the last refresh happened.
func (s RefreshState) Age(now time.Time) time.Duration {
	return now.Sub(s.LastRefresh)
}
