package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchScore(t *testing.T) {
	tests := []struct {
		name     string
		user     []string
		required []string
		want     int
	}{
		{
			name:     "partial overlap rounds to nearest",
			user:     []string{"Python", "SQL"},
			required: []string{"Python", "SQL", "ML"},
			want:     67,
		},
		{
			name:     "full overlap",
			user:     []string{"Go", "Docker", "SQL"},
			required: []string{"Go", "SQL"},
			want:     100,
		},
		{
			name:     "no overlap",
			user:     []string{"Figma"},
			required: []string{"Go", "SQL"},
			want:     0,
		},
		{
			name:     "empty required set",
			user:     []string{"Go"},
			required: nil,
			want:     0,
		},
		{
			name:     "empty user set",
			user:     nil,
			required: []string{"Go"},
			want:     0,
		},
		{
			name:     "comparison is case sensitive",
			user:     []string{"python"},
			required: []string{"Python"},
			want:     0,
		},
		{
			name:     "duplicate required skills each count",
			user:     []string{"Go"},
			required: []string{"Go", "Go", "SQL", "SQL"},
			want:     50,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, MatchScore(tc.user, tc.required))
		})
	}
}
