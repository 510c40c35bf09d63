package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/campusconnect/campus-api/internal/models"
)

// ClubRepository exposes persistence helpers for clubs.
type ClubRepository interface {
	List(ctx context.Context) ([]models.Club, error)
	GetByID(ctx context.Context, id uint) (models.Club, error)
	Update(ctx context.Context, club *models.Club) error
}

type clubRepository struct {
	db *gorm.DB
}

// NewClubRepository constructs the repository implementation.
func NewClubRepository(db *gorm.DB) ClubRepository {
	return &clubRepository{db: db}
}

func (r *clubRepository) List(ctx context.Context) ([]models.Club, error) {
	var clubs []models.Club
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&clubs).Error
	return clubs, err
}

func (r *clubRepository) GetByID(ctx context.Context, id uint) (models.Club, error) {
	var club models.Club
	err := r.db.WithContext(ctx).First(&club, id).Error
	return club, err
}

func (r *clubRepository) Update(ctx context.Context, club *models.Club) error {
	return r.db.WithContext(ctx).Save(club).Error
}
