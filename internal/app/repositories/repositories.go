package repositories

import (
	"github.com/yigit/skillshare/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	TokenRepository        *TokenRepository
	SkillRepository        *SkillRepository
	ReviewRepository       *ReviewRepository
	SessionRepository      *SessionRepository
	NotificationRepository *NotificationRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.DB) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(database),
		TokenRepository:        NewTokenRepository(database),
		SkillRepository:        NewSkillRepository(database),
		ReviewRepository:       NewReviewRepository(database),
		SessionRepository:      NewSessionRepository(database),
		NotificationRepository: NewNotificationRepository(database),
	}
}
