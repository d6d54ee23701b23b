package reference

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fisworks/amendtrack/internal/models"
)

type stubStore struct {
	max    int
	err    error
	prefix string
}

func (s *stubStore) MaxSequence(ctx context.Context, prefix string) (int, error) {
	s.prefix = prefix
	return s.max, s.err
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestDateSequence_FirstOfDay(t *testing.T) {
	gen := NewDateSequenceGenerator(DateSequenceConfig{
		Now: fixedClock(time.Date(2024, 12, 19, 10, 30, 0, 0, time.UTC)),
	})
	store := &stubStore{max: 0}

	ref, err := gen.Next(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, "AMD-20241219-001", ref)
	assert.Equal(t, "AMD-20241219-", store.prefix)
}

func TestDateSequence_IncrementsFromMax(t *testing.T) {
	gen := NewDateSequenceGenerator(DateSequenceConfig{
		Now: fixedClock(time.Date(2024, 12, 19, 23, 59, 59, 0, time.UTC)),
	})
	store := &stubStore{max: 41}

	ref, err := gen.Next(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, "AMD-20241219-042", ref)
}

func TestDateSequence_LastOfDay(t *testing.T) {
	gen := NewDateSequenceGenerator(DateSequenceConfig{
		Now: fixedClock(time.Date(2024, 12, 19, 12, 0, 0, 0, time.UTC)),
	})
	store := &stubStore{max: 998}

	ref, err := gen.Next(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, "AMD-20241219-999", ref)
}

func TestDateSequence_Overflow(t *testing.T) {
	gen := NewDateSequenceGenerator(DateSequenceConfig{
		Now: fixedClock(time.Date(2024, 12, 19, 12, 0, 0, 0, time.UTC)),
	})
	store := &stubStore{max: 999}

	_, err := gen.Next(context.Background(), store)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSequenceExhausted))
	assert.True(t, errors.Is(err, models.ErrConflict))
}

func TestDateSequence_PeekMatchesNext(t *testing.T) {
	clock := fixedClock(time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC))
	gen := NewDateSequenceGenerator(DateSequenceConfig{Now: clock})
	store := &stubStore{max: 7}

	peeked, err := gen.Peek(context.Background(), store)
	require.NoError(t, err)

	next, err := gen.Next(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, peeked, next)
	assert.Equal(t, "AMD-20250102-008", next)
}

func TestDateSequence_StoreErrorPropagates(t *testing.T) {
	gen := NewDateSequenceGenerator(DateSequenceConfig{
		Now: fixedClock(time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC)),
	})
	store := &stubStore{err: errors.New("connection reset")}

	_, err := gen.Next(context.Background(), store)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestDateSequence_CustomPrefix(t *testing.T) {
	gen := NewDateSequenceGenerator(DateSequenceConfig{
		Prefix: "CHG",
		Now:    fixedClock(time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)),
	})
	store := &stubStore{max: 2}

	ref, err := gen.Next(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, "CHG-20250630-003", ref)
}

func TestDateSequence_Name(t *testing.T) {
	gen := NewDateSequenceGenerator(DateSequenceConfig{})
	assert.Equal(t, "date_sequence", gen.Name())
}
