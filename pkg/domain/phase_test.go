package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "ascent/pkg/domain-errors"
)

func TestParsePhaseID(t *testing.T) {
	t.Run("accepts the full range including entry", func(t *testing.T) {
		for v := 0; v <= 7; v++ {
			p, err := ParsePhaseID(v)
			require.NoError(t, err)
			assert.Equal(t, PhaseID(v), p)
		}
	})

	t.Run("rejects out of range", func(t *testing.T) {
		for _, v := range []int{-1, 8, 100} {
			_, err := ParsePhaseID(v)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		}
	})

	t.Run("only phase zero is entry", func(t *testing.T) {
		assert.True(t, EntryPhase.IsEntry())
		for v := 1; v <= 7; v++ {
			assert.False(t, PhaseID(v).IsEntry())
		}
	})
}

func TestParseRating(t *testing.T) {
	t.Run("zero is accepted and unanswered", func(t *testing.T) {
		r, err := ParseRating(0)
		require.NoError(t, err)
		assert.False(t, r.Answered())
	})

	t.Run("one through five are answered", func(t *testing.T) {
		for v := 1; v <= 5; v++ {
			r, err := ParseRating(v)
			require.NoError(t, err)
			assert.True(t, r.Answered())
		}
	})

	t.Run("out of range is a validation error", func(t *testing.T) {
		for _, v := range []int{-1, 6, 42} {
			_, err := ParseRating(v)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		}
	})
}
