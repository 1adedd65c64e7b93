package services

import (
	"context"
	"time"

	"github.com/yigit/skillshare/internal/app/models"
	"github.com/yigit/skillshare/internal/app/repositories"
)

// The services depend on these narrow views of the repositories so tests can
// substitute mocks. The concrete repositories satisfy them.

// SkillStore is the skill persistence used by the catalog, lifecycle and stats services.
type SkillStore interface {
	Create(ctx context.Context, skill *models.Skill) error
	GetByID(ctx context.Context, id string) (*models.Skill, error)
	List(ctx context.Context, filter repositories.SkillFilter) ([]models.Skill, error)
	Update(ctx context.Context, skill *models.Skill, expectedStatus models.SkillStatus, expectedVersion int) (bool, error)
	Delete(ctx context.Context, id string, allowed []models.SkillStatus, expectedVersion int) (bool, error)
	SetImage(ctx context.Context, id, imageURL string) error
	IncrementViews(ctx context.Context, id string) error
	IncrementStudents(ctx context.Context, id string) error
	CountByStatus(ctx context.Context, ownerID string) (map[models.SkillStatus]int, error)
}

// UserStore is the user persistence used by the auth, user and catalog services.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdateRoles(ctx context.Context, userID string, roles models.Roles) error
}

// ReviewReader lists reviews for the catalog.
type ReviewReader interface {
	ListBySkill(ctx context.Context, skillID string, offset, limit uint64) ([]models.ReviewWithAuthor, int64, error)
	RatingDistribution(ctx context.Context, skillID string) (map[int]int, error)
}

// StatsReader is the session aggregate used by the teaching dashboard.
type StatsReader interface {
	StatsForInstructor(ctx context.Context, instructorID string) (repositories.SessionStats, error)
}

// NotificationStore is the notification persistence.
type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListForUser(ctx context.Context, userID string, unreadOnly bool, offset, limit uint64) ([]models.Notification, int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

// Notifier delivers a notification to a user. Delivery is best effort; failures are logged, not returned.
type Notifier interface {
	Notify(ctx context.Context, userID string, kind models.NotificationType, message, link string)
}

var (
	_ SkillStore        = (*repositories.SkillRepository)(nil)
	_ UserStore         = (*repositories.UserRepository)(nil)
	_ ReviewReader      = (*repositories.ReviewRepository)(nil)
	_ StatsReader       = (*repositories.SessionRepository)(nil)
	_ NotificationStore = (*repositories.NotificationRepository)(nil)
)

// TokenStore is the refresh token persistence.
type TokenStore interface {
	CreateToken(ctx context.Context, token, userID string, expiresAt time.Time) error
	GetTokenByValue(ctx context.Context, token string) (*models.RefreshToken, error)
	RevokeToken(ctx context.Context, token string) error
	RevokeAllUserTokens(ctx context.Context, userID string) error
}

var _ TokenStore = (*repositories.TokenRepository)(nil)
