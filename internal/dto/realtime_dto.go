package dto

import "time"

// Realtime event names emitted over the websocket channel.
const (
	EventAnnouncement    = "announcement:new"
	EventNotification    = "notification:new"
	EventInterviewStatus = "interview:status"

	// ControlJoinUser subscribes a connection to its per-user topic.
	ControlJoinUser = "join:user"
)

// AnnouncementRequest is the admin payload for a global announcement.
type AnnouncementRequest struct {
	Title   string `json:"title" validate:"omitempty,max=120"`
	Message string `json:"message" validate:"required,max=2000"`
}

// NotifyUserRequest is the admin payload for a direct notification.
type NotifyUserRequest struct {
	UserID  uint   `json:"userId" validate:"required"`
	Title   string `json:"title" validate:"omitempty,max=120"`
	Message string `json:"message" validate:"required,max=2000"`
}

// RealtimeMessage is the JSON payload delivered for every event kind.
// Optional fields stay empty for kinds that do not use them.
type RealtimeMessage struct {
	ID            int64      `json:"id"`
	OpportunityID uint       `json:"opportunityId,omitempty"`
	Title         string     `json:"title,omitempty"`
	Message       string     `json:"message,omitempty"`
	Status        string     `json:"status,omitempty"`
	InterviewDate *time.Time `json:"interviewDate,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// RealtimeEnvelope pairs an event name with its payload on the wire.
type RealtimeEnvelope struct {
	Event   string          `json:"event"`
	Payload RealtimeMessage `json:"payload"`
}

// JoinRequest is the control message a client sends to join its user topic.
type JoinRequest struct {
	Event  string `json:"event"`
	UserID uint   `json:"userId"`
}
