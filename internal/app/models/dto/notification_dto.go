package dto

import (
	"time"

	"github.com/yigit/skillshare/internal/app/models"
)

// NotificationResponse is a notification in the inbox
type NotificationResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type" example:"review_received"`
	Message   string    `json:"message"`
	Link      string    `json:"link,omitempty"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotificationListResponse is a page of the inbox
type NotificationListResponse struct {
	Items       []NotificationResponse `json:"items"`
	UnreadCount int64                  `json:"unreadCount"`
	Pagination  PaginationInfo         `json:"pagination"`
}

// NewNotificationResponse maps a notification
func NewNotificationResponse(n *models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Message:   n.Message,
		Link:      n.Link,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
