package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campusconnect/campus-api/internal/models"
)

// OpportunityRepository exposes persistence helpers for opportunities and
// their applicant sets.
type OpportunityRepository interface {
	Create(ctx context.Context, opportunity *models.Opportunity) error
	CreateBatch(ctx context.Context, opportunities []models.Opportunity) (int64, error)
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context) ([]models.Opportunity, error)
	GetByID(ctx context.Context, id uint) (models.Opportunity, error)
	UpdateStatus(ctx context.Context, opportunity *models.Opportunity) error
	// AddApplicant inserts the (opportunity, user) pair and reports whether a
	// row was actually added. The composite unique index makes the insert a
	// no-op for duplicates, so concurrent applies cannot double-register.
	AddApplicant(ctx context.Context, opportunityID, userID uint) (bool, error)
	GetApplication(ctx context.Context, opportunityID, userID uint) (models.Application, error)
	UpdateApplication(ctx context.Context, application *models.Application) error
	ListApplicationsByUser(ctx context.Context, userID uint) ([]models.Application, error)
}

type opportunityRepository struct {
	db *gorm.DB
}

// NewOpportunityRepository constructs the repository implementation.
func NewOpportunityRepository(db *gorm.DB) OpportunityRepository {
	return &opportunityRepository{db: db}
}

func (r *opportunityRepository) Create(ctx context.Context, opportunity *models.Opportunity) error {
	return r.db.WithContext(ctx).Create(opportunity).Error
}

func (r *opportunityRepository) CreateBatch(ctx context.Context, opportunities []models.Opportunity) (int64, error) {
	if len(opportunities) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Create(&opportunities)
	return result.RowsAffected, result.Error
}

func (r *opportunityRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Opportunity{}).Count(&count).Error
	return count, err
}

func (r *opportunityRepository) List(ctx context.Context) ([]models.Opportunity, error) {
	var opportunities []models.Opportunity
	err := r.db.WithContext(ctx).
		Preload("Applicants").
		Order("posted_at DESC").
		Find(&opportunities).Error
	return opportunities, err
}

func (r *opportunityRepository) GetByID(ctx context.Context, id uint) (models.Opportunity, error) {
	var opportunity models.Opportunity
	err := r.db.WithContext(ctx).Preload("Applicants").First(&opportunity, id).Error
	return opportunity, err
}

func (r *opportunityRepository) UpdateStatus(ctx context.Context, opportunity *models.Opportunity) error {
	return r.db.WithContext(ctx).Model(opportunity).
		Select("status", "interview_date", "updated_at").
		Updates(map[string]interface{}{
			"status":         opportunity.Status,
			"interview_date": opportunity.InterviewDate,
		}).Error
}

func (r *opportunityRepository) AddApplicant(ctx context.Context, opportunityID, userID uint) (bool, error) {
	application := models.Application{
		OpportunityID: opportunityID,
		UserID:        userID,
		DisplayStatus: models.ApplicationApplied,
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "opportunity_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&application)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *opportunityRepository) GetApplication(ctx context.Context, opportunityID, userID uint) (models.Application, error) {
	var application models.Application
	err := r.db.WithContext(ctx).
		Where("opportunity_id = ? AND user_id = ?", opportunityID, userID).
		First(&application).Error
	return application, err
}

func (r *opportunityRepository) UpdateApplication(ctx context.Context, application *models.Application) error {
	return r.db.WithContext(ctx).Save(application).Error
}

func (r *opportunityRepository) ListApplicationsByUser(ctx context.Context, userID uint) ([]models.Application, error) {
	var applications []models.Application
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&applications).Error
	return applications, err
}
