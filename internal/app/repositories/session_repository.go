package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/yigit/skillshare/internal/app/models"
	"github.com/yigit/skillshare/internal/db"
	"github.com/yigit/skillshare/internal/pkg/apperrors"
	"github.com/yigit/skillshare/internal/pkg/helpers"
)

var sessionColumns = []string{
	"id", "skill_id", "skill_name", "learner_id", "instructor_id", "scheduled_at", "duration_minutes", "note", "status",
	"created_at", "updated_at",
}

// sessionSelect reads a deleted skill's NULL reference as an empty id.
var sessionSelect = append([]string{"id", "COALESCE(skill_id, '') AS skill_id"}, sessionColumns[2:]...)

// SessionStats aggregates an instructor's sessions.
type SessionStats struct {
	Completed    int `db:"completed"`
	NotCancelled int `db:"not_cancelled"`
	Minutes      int `db:"minutes"`
	Learners     int `db:"learners"`
}

// SessionRepository handles session database operations
type SessionRepository struct {
	store
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(database *db.DB) *SessionRepository {
	return &SessionRepository{store: newStore(database)}
}

// WithTx returns a copy bound to tx.
func (r *SessionRepository) WithTx(tx *sqlx.Tx) *SessionRepository {
	return &SessionRepository{store: r.withTx(tx)}
}

// Create inserts a new session request
func (r *SessionRepository) Create(ctx context.Context, s *models.Session) error {
	now := helpers.Now()
	s.CreatedAt, s.UpdatedAt = now, now

	stmt := r.sb().Insert("sessions").
		Columns(sessionColumns...).
		Values(s.ID, s.SkillID, s.SkillName, s.LearnerID, s.InstructorID, s.ScheduledAt.UTC(), s.DurationMinutes, s.Note,
			s.Status, s.CreatedAt, s.UpdatedAt)

	if _, err := r.exec(ctx, stmt); err != nil {
		return fmt.Errorf("error creating session: %w", err)
	}
	return nil
}

// GetByID retrieves a session by ID
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	var s models.Session
	stmt := r.sb().Select(sessionSelect...).From("sessions").Where(squirrel.Eq{"id": id})
	if err := r.get(ctx, &s, stmt, apperrors.ErrSessionNotFound); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListForUser returns the sessions where the user is the learner, or the instructor when asInstructor is set.
func (r *SessionRepository) ListForUser(ctx context.Context, userID string, asInstructor bool) ([]models.Session, error) {
	column := "learner_id"
	if asInstructor {
		column = "instructor_id"
	}

	sessions := []models.Session{}
	stmt := r.sb().Select(sessionSelect...).
		From("sessions").
		Where(squirrel.Eq{column: userID}).
		OrderBy("scheduled_at DESC", "id ASC")

	if err := r.selectAll(ctx, &sessions, stmt); err != nil {
		return nil, fmt.Errorf("error listing sessions: %w", err)
	}
	return sessions, nil
}

// UpdateStatus moves a session to status if it is currently in one of from.
// It reports false when the guard did not match.
func (r *SessionRepository) UpdateStatus(ctx context.Context, id string, from []models.SessionStatus, to models.SessionStatus) (bool, error) {
	stmt := r.sb().Update("sessions").
		Set("status", to).
		Set("updated_at", helpers.Now()).
		Where(squirrel.Eq{"id": id, "status": from})

	n, err := r.exec(ctx, stmt)
	if err != nil {
		return false, fmt.Errorf("error updating session: %w", err)
	}
	return n > 0, nil
}

// AddStudent records learnerID as a student of skillID. It reports false when
// the learner was already counted.
func (r *SessionRepository) AddStudent(ctx context.Context, skillID, learnerID string) (bool, error) {
	stmt := r.sb().Insert("skill_students").
		Columns("skill_id", "learner_id", "created_at").
		Values(skillID, learnerID, helpers.Now()).
		Suffix("ON CONFLICT DO NOTHING")

	n, err := r.exec(ctx, stmt)
	if err != nil {
		return false, fmt.Errorf("error recording student: %w", err)
	}
	return n > 0, nil
}

// StatsForInstructor aggregates the instructor's sessions.
func (r *SessionRepository) StatsForInstructor(ctx context.Context, instructorID string) (SessionStats, error) {
	var stats SessionStats
	stmt := r.sb().Select(
		"COUNT(CASE WHEN status = 'completed' THEN 1 END) AS completed",
		"COUNT(CASE WHEN status <> 'cancelled' THEN 1 END) AS not_cancelled",
		"COALESCE(SUM(CASE WHEN status = 'completed' THEN duration_minutes ELSE 0 END), 0) AS minutes",
		"COUNT(DISTINCT CASE WHEN status = 'completed' THEN learner_id END) AS learners",
	).
		From("sessions").
		Where(squirrel.Eq{"instructor_id": instructorID})

	if err := r.get(ctx, &stats, stmt, nil); err != nil {
		return SessionStats{}, fmt.Errorf("error loading session stats: %w", err)
	}
	return stats, nil
}
