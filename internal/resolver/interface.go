package resolver

import (
	"context"

	"codeberg.org/mutker/pgscout/internal/probe"
)

// Outcome classifies one strategy attempt.
type Outcome string

const (
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
	OutcomeSucceeded Outcome = "succeeded"
)

// Strategy is one named candidate for computing a metric, gated by an
// applicability check. A nil Applicable means always applicable. Execute
// is invoked at most once per resolution pass and only after the
// applicability check has passed.
type Strategy struct {
	Name       string
	Applicable func(snap probe.Snapshot) bool
	Execute    func(ctx context.Context) (float64, error)
}

// Metric is an ordered list of strategies for one metric. Strategies are
// tried in declared order; the first applicable one that succeeds wins.
type Metric struct {
	Name       string
	Help       string
	Strategies []Strategy
}

// Attempt records the outcome of one strategy during a resolution pass.
type Attempt struct {
	Strategy string
	Outcome  Outcome
	Err      error
}

// Result carries a resolved value and its provenance. Attempted holds the
// full ordered trace, ending with the strategy that succeeded. Results are
// constructed fresh per resolution call and immutable once returned.
type Result struct {
	Metric       string
	Value        float64
	StrategyUsed string
	Attempted    []Attempt
}
