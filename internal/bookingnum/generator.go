package bookingnum

import (
	"context"
	"fmt"
	"time"
)

const (
	prefix    = "LB"
	dayFormat = "20060102"
)

// Allocator hands out the next sequence number for a calendar day. Allocation
// must be atomic; counting existing bookings and adding one is not acceptable
// because two concurrent creators would read the same count.
type Allocator interface {
	Next(ctx context.Context, day string) (int64, error)
}

// Generator builds human-readable booking references of the form
// LB<YYYYMMDD><NNNN>, unique per calendar day.
type Generator struct {
	allocator Allocator
	now       func() time.Time
}

type Option func(*Generator)

// WithClock overrides the clock, used by tests.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

func NewGenerator(allocator Allocator, opts ...Option) *Generator {
	g := &Generator{allocator: allocator, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) Generate(ctx context.Context) (string, error) {
	day := g.now().Format(dayFormat)

	seq, err := g.allocator.Next(ctx, day)
	if err != nil {
		return "", fmt.Errorf("allocate sequence for %s: %w", day, err)
	}

	return fmt.Sprintf("%s%s%04d", prefix, day, seq), nil
}
