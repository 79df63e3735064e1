package service

import "time"

// Clock abstracts the current time so lifecycle windows can be tested.
type Clock interface {
	Now() time.Time
}
