package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpretCoversEveryValidScore(t *testing.T) {
	for _, q := range []Questionnaire{PHQ9, GAD7} {
		for score := 0; score <= q.MaxScore; score++ {
			matches := 0
			for _, b := range q.Bands {
				if b.Min <= score && score <= b.Max {
					matches++
				}
			}
			require.Equalf(t, 1, matches, "%s score %d must fall in exactly one band", q.ID, score)

			first, err := Interpret(score, q.Bands)
			require.NoError(t, err)
			second, err := Interpret(score, q.Bands)
			require.NoError(t, err)
			assert.Equal(t, first, second)
		}
	}
}

func TestInterpretLevels(t *testing.T) {
	cases := []struct {
		q     Questionnaire
		score int
		level string
	}{
		{PHQ9, 0, "Minimal"},
		{PHQ9, 5, "Mild"},
		{PHQ9, 14, "Moderate"},
		{PHQ9, 15, "Moderately Severe"},
		{PHQ9, 27, "Severe"},
		{GAD7, 3, "Minimal"},
		{GAD7, 10, "Moderate"},
		{GAD7, 21, "Severe"},
	}
	for _, tc := range cases {
		band, err := Interpret(tc.score, tc.q.Bands)
		require.NoError(t, err)
		assert.Equalf(t, tc.level, band.Level, "%s %d", tc.q.ID, tc.score)
	}
}

func TestInterpretOutOfRange(t *testing.T) {
	_, err := Interpret(28, PHQ9.Bands)
	assert.True(t, errors.Is(err, ErrOutOfRange))

	_, err = Interpret(-1, GAD7.Bands)
	assert.True(t, errors.Is(err, ErrOutOfRange))

	_, err = Interpret(3, nil)
	assert.True(t, errors.Is(err, ErrOutOfRange))
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole("Super Admin")
	assert.True(t, ok)
	assert.Equal(t, RoleSuperAdmin, r)

	_, ok = ParseRole("superadmin")
	assert.False(t, ok)

	assert.Equal(t, RoleStudent, RoleOrDefault(""))
	assert.Equal(t, RoleStudent, RoleOrDefault("Janitor"))
	assert.Equal(t, RoleModerator, RoleOrDefault("Moderator"))
}
