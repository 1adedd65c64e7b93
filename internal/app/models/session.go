package models

import "time"

// SessionStatus is the booking state of a session
type SessionStatus string

const (
	SessionRequested SessionStatus = "requested"
	SessionConfirmed SessionStatus = "confirmed"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

// Session is a scheduled meeting between a learner and the instructor of a skill.
// SkillID is empty once the skill has been deleted; SkillName keeps the title it was booked under.
type Session struct {
	ID              string        `json:"id" db:"id"`
	SkillID         string        `json:"skillId" db:"skill_id"`
	SkillName       string        `json:"skillName" db:"skill_name"`
	LearnerID       string        `json:"learnerId" db:"learner_id"`
	InstructorID    string        `json:"instructorId" db:"instructor_id"`
	ScheduledAt     time.Time     `json:"scheduledAt" db:"scheduled_at"`
	DurationMinutes int           `json:"durationMinutes" db:"duration_minutes"`
	Note            string        `json:"note" db:"note"`
	Status          SessionStatus `json:"status" db:"status"`
	CreatedAt       time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time     `json:"updatedAt" db:"updated_at"`
}

// IsParticipant reports whether userID is the learner or the instructor.
func (s *Session) IsParticipant(userID string) bool {
	return s.LearnerID == userID || s.InstructorID == userID
}
