package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/yigit/skillshare/internal/app/models"
	"github.com/yigit/skillshare/internal/app/models/dto"
	"github.com/yigit/skillshare/internal/app/repositories"
	"github.com/yigit/skillshare/internal/db"
	"github.com/yigit/skillshare/internal/pkg/apperrors"
	"github.com/yigit/skillshare/internal/pkg/helpers"
)

// SessionAction is a status change requested by a session participant
type SessionAction string

const (
	SessionConfirm  SessionAction = "confirm"
	SessionComplete SessionAction = "complete"
	SessionCancel   SessionAction = "cancel"
)

type sessionTransition struct {
	from           []models.SessionStatus
	to             models.SessionStatus
	instructorOnly bool
}

var sessionTransitions = map[SessionAction]sessionTransition{
	SessionConfirm: {
		from:           []models.SessionStatus{models.SessionRequested},
		to:             models.SessionConfirmed,
		instructorOnly: true,
	},
	SessionComplete: {
		from:           []models.SessionStatus{models.SessionConfirmed},
		to:             models.SessionCompleted,
		instructorOnly: true,
	},
	SessionCancel: {
		from: []models.SessionStatus{models.SessionRequested, models.SessionConfirmed},
		to:   models.SessionCancelled,
	},
}

// SessionService defines session booking operations
type SessionService interface {
	Create(ctx context.Context, learnerID string, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	List(ctx context.Context, userID string, asInstructor bool) ([]dto.SessionResponse, error)
	Transition(ctx context.Context, actorID, id string, action SessionAction) (*dto.SessionResponse, error)
}

// sessionServiceImpl implements SessionService
type sessionServiceImpl struct {
	db       *db.DB
	sessions *repositories.SessionRepository
	skills   *repositories.SkillRepository
	notifier Notifier
	logger   zerolog.Logger
}

// NewSessionService creates a new SessionService
func NewSessionService(database *db.DB, repos *repositories.Repositories, notifier Notifier, logger zerolog.Logger) SessionService {
	return &sessionServiceImpl{
		db:       database,
		sessions: repos.SessionRepository,
		skills:   repos.SkillRepository,
		notifier: notifier,
		logger:   logger,
	}
}

// Create requests a session on a published skill
func (s *sessionServiceImpl) Create(ctx context.Context, learnerID string, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	if !req.ScheduledAt.After(time.Now()) {
		return nil, apperrors.NewValidationError("session must be scheduled in the future",
			map[string]string{"scheduledAt": "must be in the future"})
	}

	skill, err := s.skills.GetByID(ctx, req.SkillID)
	if err != nil {
		return nil, err
	}
	if skill.Status != models.StatusPublished {
		return nil, apperrors.ErrSkillNotFound
	}
	if skill.IsOwnedBy(learnerID) {
		return nil, apperrors.NewForbiddenError("you cannot book a session on your own skill")
	}

	session := &models.Session{
		ID:              uuid.NewString(),
		SkillID:         skill.ID,
		SkillName:       skill.Name,
		LearnerID:       learnerID,
		InstructorID:    skill.OwnerID,
		ScheduledAt:     req.ScheduledAt.UTC().Truncate(time.Second),
		DurationMinutes: req.DurationMinutes,
		Note:            strings.TrimSpace(req.Note),
		Status:          models.SessionRequested,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info().Str("sessionID", session.ID).Str("skillID", skill.ID).Msg("Session requested")
	s.notifier.Notify(ctx, skill.OwnerID, models.NotificationSessionRequested,
		fmt.Sprintf("New session request for %q", skill.Name), "/sessions/"+session.ID)

	resp := dto.NewSessionResponse(session)
	return &resp, nil
}

// List returns the sessions the user takes part in with the given role
func (s *sessionServiceImpl) List(ctx context.Context, userID string, asInstructor bool) ([]dto.SessionResponse, error) {
	sessions, err := s.sessions.ListForUser(ctx, userID, asInstructor)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, dto.NewSessionResponse(&sessions[i]))
	}
	return out, nil
}

// Transition applies action to a session the actor takes part in. Completing a
// learner's first session of a skill counts them as a student of it.
func (s *sessionServiceImpl) Transition(ctx context.Context, actorID, id string, action SessionAction) (*dto.SessionResponse, error) {
	rule, ok := sessionTransitions[action]
	if !ok {
		return nil, apperrors.NewBadRequestError("unknown session action: " + string(action))
	}

	var session *models.Session
	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		sessions := s.sessions.WithTx(tx)

		var err error
		session, err = sessions.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !session.IsParticipant(actorID) {
			return apperrors.ErrSessionNotFound
		}
		if rule.instructorOnly && session.InstructorID != actorID {
			return apperrors.NewForbiddenError("only the instructor can " + string(action) + " a session")
		}
		if !slices.Contains(rule.from, session.Status) {
			return invalidSessionTransition(session.Status, action)
		}

		ok, err := sessions.UpdateStatus(ctx, id, rule.from, rule.to)
		if err != nil {
			return err
		}
		if !ok {
			latest, err := sessions.GetByID(ctx, id)
			if err != nil {
				return err
			}
			return invalidSessionTransition(latest.Status, action)
		}
		session.Status = rule.to
		session.UpdatedAt = helpers.Now()

		if rule.to != models.SessionCompleted || session.SkillID == "" {
			return nil
		}
		added, err := sessions.AddStudent(ctx, session.SkillID, session.LearnerID)
		if err != nil || !added {
			return err
		}
		return s.skills.WithTx(tx).IncrementStudents(ctx, session.SkillID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("sessionID", id).Str("action", string(action)).Str("status", string(session.Status)).Msg("Session updated")

	recipient := session.LearnerID
	if actorID == session.LearnerID {
		recipient = session.InstructorID
	}
	s.notifier.Notify(ctx, recipient, models.NotificationSessionUpdated,
		fmt.Sprintf("A session was %s", session.Status), "/sessions/"+session.ID)

	resp := dto.NewSessionResponse(session)
	return &resp, nil
}

func invalidSessionTransition(from models.SessionStatus, action SessionAction) error {
	return apperrors.NewCustomError(apperrors.ErrInvalidTransition,
		fmt.Sprintf("cannot %s a session in %s status", action, from)).
		WithDetails(map[string]interface{}{"status": string(from), "command": string(action)})
}
