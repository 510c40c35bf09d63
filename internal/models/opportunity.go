package models

import (
	"time"

	"gorm.io/datatypes"
)

// Opportunity lifecycle statuses. Legal transitions are open -> interview_scheduled,
// open -> closed and interview_scheduled -> closed.
const (
	OpportunityOpen               = "open"
	OpportunityClosed             = "closed"
	OpportunityInterviewScheduled = "interview_scheduled"
)

// Opportunity categories.
const (
	CategoryInternship = "internship"
	CategoryHackathon  = "hackathon"
	CategoryEvent      = "event"
	CategoryProject    = "project"
	CategoryJob        = "job"
)

// Opportunity is a postable item students can apply to.
type Opportunity struct {
	ID             uint                        `gorm:"primaryKey" json:"id"`
	Title          string                      `gorm:"size:120;not null" json:"title"`
	Company        string                      `gorm:"size:120;not null" json:"company"`
	Description    string                      `gorm:"type:text;not null" json:"description"`
	Category       string                      `gorm:"size:32;not null;default:internship" json:"category"`
	Location       string                      `gorm:"size:120;not null" json:"location"`
	LogoURL        string                      `gorm:"size:512" json:"logoUrl"`
	SkillsRequired datatypes.JSONSlice[string] `json:"skillsRequired"`
	Deadline       *time.Time                  `json:"deadline"`
	Status         string                      `gorm:"size:32;not null;default:open;index" json:"status"`
	InterviewDate  *time.Time                  `json:"interviewDate"`
	PostedAt       time.Time                   `gorm:"not null;index" json:"postedAt"`
	CreatedBy      *uint                       `gorm:"index" json:"createdBy"`
	Applicants     []Application               `gorm:"foreignKey:OpportunityID" json:"applicants"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

// Application display statuses used by the applicant-facing tracking view.
// This vocabulary is wider than the opportunity lifecycle and lives on the
// application row, not the opportunity.
const (
	ApplicationApplied     = "applied"
	ApplicationPending     = "pending"
	ApplicationShortlisted = "shortlisted"
	ApplicationInterview   = "interview"
	ApplicationAccepted    = "accepted"
	ApplicationRejected    = "rejected"
	ApplicationWithdrawn   = "withdrawn"
)

// Application records that a user applied to an opportunity. The composite
// unique index makes the insert the only membership check needed: a second
// insert for the same pair is a no-op, even under concurrent requests.
type Application struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	OpportunityID uint       `gorm:"not null;uniqueIndex:idx_opportunity_applicant" json:"opportunityId"`
	UserID        uint       `gorm:"not null;uniqueIndex:idx_opportunity_applicant" json:"userId"`
	DisplayStatus string     `gorm:"size:32;not null;default:applied" json:"displayStatus"`
	InterviewDate *time.Time `json:"interviewDate"`
	CreatedAt     time.Time  `json:"created_at"`
}
