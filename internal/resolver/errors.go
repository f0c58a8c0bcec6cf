package resolver

import (
	"fmt"
	"strings"

	"codeberg.org/mutker/pgscout/internal/errors"
)

const (
	ErrNoStrategies = errors.ErrNoStrategies
	ErrExhausted    = errors.ErrResolutionExhausted
	ErrCancelled    = errors.ErrResolutionCancelled
)

// ExhaustedError reports that every strategy for a metric was skipped or
// failed. It carries the full attempt trace so callers can tell a
// misconfigured capability probe from a genuine outage without re-running
// the resolution.
type ExhaustedError struct {
	Metric   string
	Attempts []Attempt
}

func (e *ExhaustedError) Code() errors.ErrorCode {
	return ErrExhausted
}

func (e *ExhaustedError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "metric %s: all %d strategies exhausted", e.Metric, len(e.Attempts))
	for i := range e.Attempts {
		a := &e.Attempts[i]
		fmt.Fprintf(&b, "; %s=%s", a.Strategy, a.Outcome)
		if a.Err != nil {
			fmt.Fprintf(&b, " (%v)", a.Err)
		}
	}

	return b.String()
}

// IsExhausted reports whether err is a resolution-exhausted error.
func IsExhausted(err error) bool {
	var exhausted *ExhaustedError
	return errors.As(err, &exhausted)
}
