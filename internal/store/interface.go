package store

import (
	"context"
	"time"
)

// Recorder is the core domain interface for persisting resolved samples.
type Recorder interface {
	Record(ctx context.Context, sample *Sample) error
	Close() error
}

// Repository defines the interface for sample storage
type Repository interface {
	Record(sample *Sample) error
	Close() error
}

// Sample is one resolved metric value with its provenance: the strategy
// that produced it.
type Sample struct {
	Timestamp time.Time
	Metric    string
	Value     float64
	Strategy  string
}
