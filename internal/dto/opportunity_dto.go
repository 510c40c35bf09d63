package dto

import (
	"time"

	"github.com/campusconnect/campus-api/internal/models"
)

// OpportunityCreateRequest is the payload for posting a new opportunity.
type OpportunityCreateRequest struct {
	Title          string   `json:"title" validate:"required,min=2,max=120"`
	Company        string   `json:"company" validate:"omitempty,max=120"`
	Description    string   `json:"description" validate:"required,min=10"`
	Category       string   `json:"category" validate:"required,oneof=internship hackathon event project job"`
	SkillsRequired []string `json:"skillsRequired" validate:"omitempty,dive,min=1,max=80"`
	Location       string   `json:"location" validate:"omitempty,max=120"`
	LogoURL        string   `json:"logo" validate:"omitempty,url"`
	Deadline       *string  `json:"deadline" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// OpportunityStatusRequest moves an opportunity through its lifecycle.
type OpportunityStatusRequest struct {
	Status         string  `json:"status" validate:"required,oneof=open closed interview_scheduled"`
	InterviewDate  *string `json:"interviewDate" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	CandidateEmail string  `json:"candidateEmail" validate:"omitempty,email"`
}

// ApplicationUpdateRequest lets an applicant change their own tracking status.
type ApplicationUpdateRequest struct {
	DisplayStatus string  `json:"displayStatus" validate:"required,oneof=applied pending shortlisted interview accepted rejected withdrawn"`
	InterviewDate *string `json:"interviewDate" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// OpportunityResponse is the serialized opportunity returned to API clients.
type OpportunityResponse struct {
	ID             uint       `json:"id"`
	Title          string     `json:"title"`
	Company        string     `json:"company"`
	Description    string     `json:"description"`
	Category       string     `json:"category"`
	Location       string     `json:"location"`
	LogoURL        string     `json:"logoUrl,omitempty"`
	SkillsRequired []string   `json:"skillsRequired"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	Status         string     `json:"status"`
	InterviewDate  *time.Time `json:"interviewDate,omitempty"`
	PostedAt       time.Time  `json:"postedAt"`
	CreatedBy      *uint      `json:"createdBy,omitempty"`
	ApplicantIDs   []uint     `json:"applicantIds"`
}

// RecommendedOpportunityResponse annotates an opportunity with the caller's match score.
type RecommendedOpportunityResponse struct {
	OpportunityResponse
	MatchPercentage int `json:"matchPercentage"`
}

// ApplicationResponse is one row of the caller's application history.
type ApplicationResponse struct {
	ID            uint       `json:"id"`
	OpportunityID uint       `json:"opportunityId"`
	DisplayStatus string     `json:"displayStatus"`
	InterviewDate *time.Time `json:"interviewDate,omitempty"`
	AppliedAt     time.Time  `json:"appliedAt"`
}

// NewOpportunityResponse converts a model into a DTO.
func NewOpportunityResponse(model models.Opportunity) OpportunityResponse {
	applicantIDs := make([]uint, 0, len(model.Applicants))
	for _, application := range model.Applicants {
		applicantIDs = append(applicantIDs, application.UserID)
	}

	return OpportunityResponse{
		ID:             model.ID,
		Title:          model.Title,
		Company:        model.Company,
		Description:    model.Description,
		Category:       model.Category,
		Location:       model.Location,
		LogoURL:        model.LogoURL,
		SkillsRequired: append([]string(nil), model.SkillsRequired...),
		Deadline:       model.Deadline,
		Status:         model.Status,
		InterviewDate:  model.InterviewDate,
		PostedAt:       model.PostedAt,
		CreatedBy:      model.CreatedBy,
		ApplicantIDs:   applicantIDs,
	}
}

// NewOpportunityResponseSlice converts a slice of models into DTOs.
func NewOpportunityResponseSlice(opportunities []models.Opportunity) []OpportunityResponse {
	responses := make([]OpportunityResponse, 0, len(opportunities))
	for _, opportunity := range opportunities {
		responses = append(responses, NewOpportunityResponse(opportunity))
	}
	return responses
}

// NewApplicationResponse converts an application row into a DTO.
func NewApplicationResponse(model models.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:            model.ID,
		OpportunityID: model.OpportunityID,
		DisplayStatus: model.DisplayStatus,
		InterviewDate: model.InterviewDate,
		AppliedAt:     model.CreatedAt,
	}
}
