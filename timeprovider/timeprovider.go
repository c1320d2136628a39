package timeprovider

import (
	"sync"
	"time"
)

// Provider exposes the ability to retrieve the current time.
type Provider interface {
	Now() time.Time
}

// ProviderFunc adapts a function to satisfy the Provider interface.
type ProviderFunc func() time.Time

// Now returns the result of calling the underlying function.
func (f ProviderFunc) Now() time.Time {
	return f()
}

// RealProvider delegates to time.Now.
type RealProvider struct{}

// Now returns the current time using time.Now.
func (RealProvider) Now() time.Time {
	return time.Now()
}

// FixedProvider always returns the provided timestamp.
type FixedProvider struct {
	T time.Time
}

// Now returns the fixed timestamp.
func (f FixedProvider) Now() time.Time {
	return f.T
}

// StepProvider returns Start on the first call and moves forward by Step on
// every later call, so elapsed times measured against it are predictable.
type StepProvider struct {
	mu    sync.Mutex
	Start time.Time
	Step  time.Duration
	calls int
}

// Now returns the next timestamp in the sequence.
func (s *StepProvider) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.Start.Add(time.Duration(s.calls) * s.Step)
	s.calls++
	return t
}

// Since returns the time elapsed on p since start.
func Since(p Provider, start time.Time) time.Duration {
	return p.Now().Sub(start)
}
