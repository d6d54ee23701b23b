package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterNormalize(t *testing.T) {
	var f AmendmentFilter
	f.Normalize()

	assert.Equal(t, DefaultListLimit, f.Limit)
	assert.Equal(t, 0, f.Skip)
	assert.Equal(t, "amendment_id", f.SortBy)
	assert.Equal(t, "desc", f.SortOrder)
	assert.True(t, f.SortDescending())

	// Explicit values are not overwritten.
	g := AmendmentFilter{Limit: 50, SortBy: "created_on", SortOrder: "asc"}
	g.Normalize()
	assert.Equal(t, 50, g.Limit)
	assert.Equal(t, "created_on", g.SortBy)
	assert.False(t, g.SortDescending())
}

func TestFilterValidate(t *testing.T) {
	base := func() AmendmentFilter {
		var f AmendmentFilter
		f.Normalize()
		return f
	}

	t.Run("empty filter is valid", func(t *testing.T) {
		f := base()
		require.NoError(t, f.Validate())
	})

	t.Run("negative skip", func(t *testing.T) {
		f := base()
		f.Skip = -1
		assert.True(t, errors.Is(f.Validate(), ErrValidation))
	})

	t.Run("limit bounds", func(t *testing.T) {
		cases := []struct {
			limit int
			ok    bool
		}{
			{1, true},
			{1000, true},
			{0, false}, // zero means unset before Normalize, invalid after
			{1001, false},
			{-5, false},
		}
		for _, tc := range cases {
			f := base()
			f.Limit = tc.limit
			err := f.Validate()
			if tc.ok {
				assert.NoError(t, err, "limit %d", tc.limit)
			} else {
				assert.True(t, errors.Is(err, ErrValidation), "limit %d", tc.limit)
			}
		}
	})

	t.Run("unknown sort field fails, never falls back", func(t *testing.T) {
		f := base()
		f.SortBy = "qa_signature"
		err := f.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))
		assert.Contains(t, err.Error(), "qa_signature")
	})

	t.Run("every whitelisted sort field passes", func(t *testing.T) {
		for col := range sortableColumns {
			f := base()
			f.SortBy = col
			require.NoError(t, f.Validate(), "sort_by %s", col)
			assert.Equal(t, sortableColumns[col], f.SortColumn())
		}
	})

	t.Run("bad sort order", func(t *testing.T) {
		f := base()
		f.SortOrder = "descending"
		assert.True(t, errors.Is(f.Validate(), ErrValidation))
	})

	t.Run("invalid status member", func(t *testing.T) {
		f := base()
		f.Statuses = []AmendmentStatus{StatusOpen, "Closed"}
		assert.True(t, errors.Is(f.Validate(), ErrValidation))
	})

	t.Run("invalid type member", func(t *testing.T) {
		f := base()
		f.Types = []AmendmentType{"Defect"}
		assert.True(t, errors.Is(f.Validate(), ErrValidation))
	})

	t.Run("valid list members", func(t *testing.T) {
		f := base()
		f.Statuses = []AmendmentStatus{StatusOpen, StatusInProgress}
		f.Priorities = []Priority{PriorityHigh, PriorityCritical}
		f.DevelopmentStatuses = []DevelopmentStatus{DevReadyForQA}
		f.Types = []AmendmentType{TypeBug, TypeFault}
		require.NoError(t, f.Validate())
	})
}
