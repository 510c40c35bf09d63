package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/campusconnect/campus-api/internal/dto"
	"github.com/campusconnect/campus-api/internal/models"
)

type clubRepoStub struct {
	clubs map[uint]models.Club
}

func newClubRepoStub(clubs ...models.Club) *clubRepoStub {
	stub := &clubRepoStub{clubs: make(map[uint]models.Club)}
	for _, club := range clubs {
		stub.clubs[club.ID] = club
	}
	return stub
}

func (r *clubRepoStub) List(_ context.Context) ([]models.Club, error) {
	out := make([]models.Club, 0, len(r.clubs))
	for _, club := range r.clubs {
		out = append(out, club)
	}
	return out, nil
}

func (r *clubRepoStub) GetByID(_ context.Context, id uint) (models.Club, error) {
	club, ok := r.clubs[id]
	if !ok {
		return models.Club{}, gorm.ErrRecordNotFound
	}
	return club, nil
}

func (r *clubRepoStub) Update(_ context.Context, club *models.Club) error {
	r.clubs[club.ID] = *club
	return nil
}

func TestClubServiceUpdateRequiresCoordinator(t *testing.T) {
	repo := newClubRepoStub(models.Club{ID: 1, Name: "Robotics Club", Coordinators: datatypes.JSONSlice[uint]{10}})
	svc := NewClubService(repo, &stubActivity{}, validator.New(), testLogger())

	_, err := svc.Update(context.Background(), 1, 99, models.RoleStudent, dto.ClubUpdateRequest{Name: stringPtr("Hacked")})
	require.ErrorIs(t, err, ErrNotCoordinator)

	resp, err := svc.Update(context.Background(), 1, 10, models.RoleClubCoordinator, dto.ClubUpdateRequest{Name: stringPtr("Robotics Society")})
	require.NoError(t, err)
	require.Equal(t, "Robotics Society", resp.Name)
}

func TestClubServiceUpdateAllowsAdmin(t *testing.T) {
	repo := newClubRepoStub(models.Club{ID: 1, Name: "Robotics Club", Coordinators: datatypes.JSONSlice[uint]{10}})
	svc := NewClubService(repo, &stubActivity{}, validator.New(), testLogger())

	resp, err := svc.Update(context.Background(), 1, 99, models.RoleAdmin, dto.ClubUpdateRequest{Description: stringPtr("Campus robotics and automation projects.")})
	require.NoError(t, err)
	require.Equal(t, "Campus robotics and automation projects.", resp.Description)
}

func TestClubServiceUpdateNotFound(t *testing.T) {
	svc := NewClubService(newClubRepoStub(), &stubActivity{}, validator.New(), testLogger())

	_, err := svc.Update(context.Background(), 5, 10, models.RoleAdmin, dto.ClubUpdateRequest{})
	require.ErrorIs(t, err, ErrClubNotFound)
}
