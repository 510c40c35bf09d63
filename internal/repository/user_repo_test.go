package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/campusconnect/campus-api/internal/models"
)

func seedUser(t *testing.T, repo UserRepository, email string) models.User {
	t.Helper()
	user := models.User{
		Name:     "Priya Sharma",
		Email:    email,
		Password: "hashed",
		Role:     models.RoleStudent,
		Skills:   []string{"Go", "SQL"},
		Settings: models.DefaultUserSettings(),
	}
	require.NoError(t, repo.Create(context.Background(), &user))
	return user
}

func TestUserRepositoryRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	created := seedUser(t, repo, "priya@campus.edu")

	byID, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, "priya@campus.edu", byID.Email)
	require.Equal(t, []string{"Go", "SQL"}, []string(byID.Skills))

	byEmail, err := repo.GetByEmail(context.Background(), "priya@campus.edu")
	require.NoError(t, err)
	require.Equal(t, created.ID, byEmail.ID)
}

func TestUserRepositoryEmailTakenExcludesOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user := seedUser(t, repo, "priya@campus.edu")

	taken, err := repo.EmailTaken(context.Background(), "priya@campus.edu", 0)
	require.NoError(t, err)
	require.True(t, taken)

	taken, err = repo.EmailTaken(context.Background(), "priya@campus.edu", user.ID)
	require.NoError(t, err)
	require.False(t, taken, "a user's own row must not count as a conflict")

	taken, err = repo.EmailTaken(context.Background(), "other@campus.edu", 0)
	require.NoError(t, err)
	require.False(t, taken)
}

func TestUserRepositoryDuplicateEmailRejected(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	seedUser(t, repo, "priya@campus.edu")

	duplicate := models.User{Name: "Other", Email: "priya@campus.edu", Password: "hashed", Role: models.RoleStudent}
	err := repo.Create(context.Background(), &duplicate)
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey, "the unique-index violation must surface as the gorm sentinel")
}

func TestUserRepositoryDeleteMissingRow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user := seedUser(t, repo, "priya@campus.edu")
	require.NoError(t, repo.Delete(context.Background(), user.ID))

	err := repo.Delete(context.Background(), user.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.GetByID(context.Background(), user.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestActivityLogRepositoryListLimitsAndOrders(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityLogRepository(db)

	for _, action := range []string{"account:register", "account:login", "opportunity:apply"} {
		require.NoError(t, repo.Create(context.Background(), &models.ActivityLog{
			UserID: 7,
			Action: action,
		}))
	}
	require.NoError(t, repo.Create(context.Background(), &models.ActivityLog{UserID: 8, Action: "account:login"}))

	entries, err := repo.ListByUser(context.Background(), 7, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	entries, err = repo.ListByUser(context.Background(), 7, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for _, entry := range entries {
		require.Equal(t, uint(7), entry.UserID)
	}
}
