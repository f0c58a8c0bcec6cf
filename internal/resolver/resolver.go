package resolver

import (
	"context"

	"codeberg.org/mutker/pgscout/internal/errors"
	"codeberg.org/mutker/pgscout/internal/logger"
	"codeberg.org/mutker/pgscout/internal/probe"
)

// Resolve runs the metric's strategies in declared order against the probe
// snapshot. Inapplicable strategies are recorded as skipped and never
// executed. An execution failure is recorded with its cause and resolution
// falls through to the next strategy; only total exhaustion is an error.
// Cancellation of ctx aborts the remaining chain. Resolve holds no state
// between calls and is safe for concurrent use.
func Resolve(ctx context.Context, metric Metric, snap probe.Snapshot) (*Result, error) {
	errFactory := errors.New()

	if len(metric.Strategies) == 0 {
		return nil, errFactory.WithData(ErrNoStrategies, metric.Name)
	}

	attempts := make([]Attempt, 0, len(metric.Strategies))

	for i := range metric.Strategies {
		strat := &metric.Strategies[i]

		if ctx.Err() != nil {
			return nil, errFactory.Wrap(ErrCancelled, context.Cause(ctx))
		}

		if strat.Applicable != nil && !strat.Applicable(snap) {
			attempts = append(attempts, Attempt{Strategy: strat.Name, Outcome: OutcomeSkipped})
			logger.Debug().
				Str("metric", metric.Name).
				Str("strategy", strat.Name).
				Msg("Strategy not applicable, skipping")

			continue
		}

		value, err := strat.Execute(ctx)
		if err != nil {
			// A failure caused by cancellation aborts the chain instead of
			// falling through to strategies that would fail the same way.
			if ctx.Err() != nil {
				return nil, errFactory.Wrap(ErrCancelled, context.Cause(ctx))
			}

			attempts = append(attempts, Attempt{Strategy: strat.Name, Outcome: OutcomeFailed, Err: err})
			logger.Warn().
				Str("metric", metric.Name).
				Str("strategy", strat.Name).
				Err(err).
				Msg("Strategy failed, falling through")

			continue
		}

		attempts = append(attempts, Attempt{Strategy: strat.Name, Outcome: OutcomeSucceeded})
		logger.Debug().
			Str("metric", metric.Name).
			Str("strategy", strat.Name).
			Float64("value", value).
			Msg("Strategy succeeded")

		return &Result{
			Metric:       metric.Name,
			Value:        value,
			StrategyUsed: strat.Name,
			Attempted:    attempts,
		}, nil
	}

	return nil, &ExhaustedError{Metric: metric.Name, Attempts: attempts}
}
