// Package clock provides the wall clock used by services.
package clock

import (
	"time"

	"majicmall/internal/domain/service"
)

type systemClock struct{}

// New returns a clock backed by time.Now.
func New() service.Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}
