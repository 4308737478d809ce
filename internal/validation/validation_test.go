package validation

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "reviewhub/internal/errors"
)

func TestUsername(t *testing.T) {
	tests := []struct {
		name        string
		username    string
		wantErr     bool
		wantMessage []string
	}{
		{name: "plain", username: "reader_42"},
		{name: "all allowed punctuation", username: "a.b@c+d-e_f"},
		{name: "reserved lower", username: "me", wantErr: true, wantMessage: []string{`"me"`}},
		{name: "reserved upper", username: "ME", wantErr: true, wantMessage: []string{`"me"`}},
		{name: "reserved mixed", username: "mE", wantErr: true, wantMessage: []string{`"me"`}},
		{name: "longer than reserved", username: "meme"},
		{name: "space", username: "john doe", wantErr: true, wantMessage: []string{`' '`}},
		{
			name:        "several offenders reported once each",
			username:    "a!b#c!d$",
			wantErr:     true,
			wantMessage: []string{`'!'`, `'#'`, `'$'`},
		},
		{name: "non ascii letter", username: "jalapeño", wantErr: true, wantMessage: []string{`'ñ'`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Username(tt.username)
			if !tt.wantErr {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			assert.Equal(t, apperrors.KindInvalidInput, err.Kind)
			require.Len(t, err.Fields["username"], 1)
			for _, part := range tt.wantMessage {
				assert.Contains(t, err.Fields["username"][0], part)
			}
		})
	}
}

func TestUsername_DuplicateOffendersListedOnce(t *testing.T) {
	err := Username("x!!y!")
	require.NotNil(t, err)
	msg := err.Fields["username"][0]
	assert.Equal(t, 1, countOf(msg, `'!'`))
}

func countOf(s, sub string) int {
	n := 0
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			n++
		}
	}
	return n
}

func TestScore(t *testing.T) {
	for score := MinScore; score <= MaxScore; score++ {
		assert.Nil(t, Score(score), "score %d", score)
	}

	for _, score := range []int{0, -1, -100} {
		err := Score(score)
		require.NotNil(t, err, "score %d", score)
		assert.Contains(t, err.Fields["score"][0], "less than 1")
	}

	for _, score := range []int{11, 12, 1000} {
		err := Score(score)
		require.NotNil(t, err, "score %d", score)
		assert.Contains(t, err.Fields["score"][0], "greater than 10")
	}
}

func TestYear(t *testing.T) {
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

	for _, year := range []int{2024, 2023, 1895, 0} {
		assert.Nil(t, Year(year, now), "year %d", year)
	}

	for _, year := range []int{2025, 2100} {
		err := Year(year, now)
		require.NotNil(t, err, "year %d", year)
		assert.Equal(t, apperrors.KindInvalidInput, err.Kind)
		assert.Contains(t, err.Fields["year"][0], "2024")
		assert.Contains(t, err.Fields["year"][0], fmt.Sprint(year))
	}
}

func TestSlug(t *testing.T) {
	assert.Nil(t, Slug("sci-fi_2"))
	assert.NotNil(t, Slug("sci fi"))
	assert.NotNil(t, Slug("жанр"))
	assert.NotNil(t, Slug(""))
}
