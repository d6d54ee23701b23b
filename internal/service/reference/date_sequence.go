package reference

import (
	"context"
	"fmt"
	"time"
)

// DateSequenceConfig holds configuration for the date-sequence generator.
type DateSequenceConfig struct {
	Prefix      string
	SequenceMax int
	Now         func() time.Time
}

// DateSequenceGenerator produces references of the form PREFIX-YYYYMMDD-NNN
// where NNN is a zero-padded per-day sequence starting at 001. The sequence
// is derived from existing records rather than a separate counter, so the
// generator itself holds no state.
type DateSequenceGenerator struct {
	prefix string
	maxSeq int
	now    func() time.Time
}

// NewDateSequenceGenerator creates a date-sequence generator.
func NewDateSequenceGenerator(config DateSequenceConfig) *DateSequenceGenerator {
	if config.Prefix == "" {
		config.Prefix = "AMD"
	}
	if config.SequenceMax == 0 {
		config.SequenceMax = 999
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &DateSequenceGenerator{
		prefix: config.Prefix,
		maxSeq: config.SequenceMax,
		now:    config.Now,
	}
}

// Name identifies the generation scheme.
func (g *DateSequenceGenerator) Name() string {
	return "date_sequence"
}

// Next returns the next reference for today. Claiming happens when the
// caller inserts the row, so Next must run inside that transaction.
func (g *DateSequenceGenerator) Next(ctx context.Context, store SequenceStore) (string, error) {
	return g.generate(ctx, store)
}

// Peek returns the reference Next would produce right now.
func (g *DateSequenceGenerator) Peek(ctx context.Context, store SequenceStore) (string, error) {
	return g.generate(ctx, store)
}

// DatePrefix returns the prefix shared by all references issued on the
// given date, e.g. "AMD-20241219-".
func (g *DateSequenceGenerator) DatePrefix(t time.Time) string {
	return fmt.Sprintf("%s-%s-", g.prefix, t.Format("20060102"))
}

func (g *DateSequenceGenerator) generate(ctx context.Context, store SequenceStore) (string, error) {
	prefix := g.DatePrefix(g.now())

	seq, err := store.MaxSequence(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to read max sequence: %w", err)
	}

	next := seq + 1
	if next > g.maxSeq {
		return "", fmt.Errorf("%w: %s%03d exceeds %03d", ErrSequenceExhausted, prefix, next, g.maxSeq)
	}

	return fmt.Sprintf("%s%03d", prefix, next), nil
}
