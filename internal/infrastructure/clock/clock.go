// Package clock provides the wall-clock implementation of domain.Clock.
package clock

import (
	"time"

	"github.com/ithesk/axeweb/domain"
)

type systemClock struct{}

// New returns a Clock backed by the system time.
func New() domain.Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) NewTicker(d time.Duration) domain.Ticker {
	return &systemTicker{t: time.NewTicker(d)}
}

type systemTicker struct {
	t *time.Ticker
}

func (s *systemTicker) C() <-chan time.Time {
	return s.t.C
}

func (s *systemTicker) Stop() {
	s.t.Stop()
}
