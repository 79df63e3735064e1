// Package lifecycle holds shared timing constants for fx start/stop hooks.
package lifecycle

import "time"

// DefaultTimeout bounds a single OnStart/OnStop hook.
const DefaultTimeout = 10 * time.Second
