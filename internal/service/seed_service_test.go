package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/campusconnect/campus-api/internal/models"
)

func TestSeedServicePopulatesEmptyDatabase(t *testing.T) {
	repo := newFakeOpportunityRepo()
	svc := NewSeedService(repo, testLogger())

	created, err := svc.SeedOpportunities(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(12), created)

	opportunities, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, opportunities, 12)
	for _, opportunity := range opportunities {
		require.Equal(t, models.OpportunityOpen, opportunity.Status)
		require.NotEmpty(t, opportunity.SkillsRequired)
		require.NotNil(t, opportunity.Deadline)
		require.True(t, opportunity.Deadline.After(time.Now()))
	}
}

func TestSeedServiceSkipsNonEmptyDatabase(t *testing.T) {
	repo := newFakeOpportunityRepo()
	existing := models.Opportunity{Title: "Existing", Company: "Acme", Description: "Already here.", Status: models.OpportunityOpen, PostedAt: time.Now()}
	require.NoError(t, repo.Create(context.Background(), &existing))

	svc := NewSeedService(repo, testLogger())
	_, err := svc.SeedOpportunities(context.Background())
	require.ErrorIs(t, err, ErrAlreadySeeded)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}
