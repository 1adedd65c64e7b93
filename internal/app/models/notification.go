package models

import "time"

// NotificationType classifies a notification
type NotificationType string

const (
	NotificationSessionRequested NotificationType = "session_requested"
	NotificationSessionUpdated   NotificationType = "session_updated"
	NotificationReviewReceived   NotificationType = "review_received"
	NotificationSkillPublished   NotificationType = "skill_published"
)

// Notification is a message addressed to a single user
type Notification struct {
	ID        string           `json:"id" db:"id"`
	UserID    string           `json:"userId" db:"user_id"`
	Type      NotificationType `json:"type" db:"type"`
	Message   string           `json:"message" db:"message"`
	Link      string           `json:"link,omitempty" db:"link"`
	IsRead    bool             `json:"isRead" db:"is_read"`
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`
}
