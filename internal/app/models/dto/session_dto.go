package dto

import (
	"time"

	"github.com/yigit/skillshare/internal/app/models"
)

// CreateSessionRequest books a session on a published skill
type CreateSessionRequest struct {
	SkillID         string    `json:"skillId" binding:"required,uuid"`
	ScheduledAt     time.Time `json:"scheduledAt" binding:"required"`
	DurationMinutes int       `json:"durationMinutes" binding:"required,min=15,max=480"`
	Note            string    `json:"note" binding:"max=1000"`
}

// SessionResponse is a session as seen by either participant
type SessionResponse struct {
	ID              string    `json:"id"`
	SkillID         string    `json:"skillId,omitempty"`
	SkillName       string    `json:"skillName"`
	LearnerID       string    `json:"learnerId"`
	InstructorID    string    `json:"instructorId"`
	ScheduledAt     time.Time `json:"scheduledAt"`
	DurationMinutes int       `json:"durationMinutes"`
	Note            string    `json:"note,omitempty"`
	Status          string    `json:"status" example:"requested"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// NewSessionResponse maps a session
func NewSessionResponse(s *models.Session) SessionResponse {
	return SessionResponse{
		ID:              s.ID,
		SkillID:         s.SkillID,
		SkillName:       s.SkillName,
		LearnerID:       s.LearnerID,
		InstructorID:    s.InstructorID,
		ScheduledAt:     s.ScheduledAt,
		DurationMinutes: s.DurationMinutes,
		Note:            s.Note,
		Status:          string(s.Status),
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}
