package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yigit/skillshare/internal/app/migrations"
	"github.com/yigit/skillshare/internal/app/models"
	"github.com/yigit/skillshare/internal/app/models/dto"
	"github.com/yigit/skillshare/internal/app/repositories"
	"github.com/yigit/skillshare/internal/db"
)

type testEnv struct {
	db       *db.DB
	repos    *repositories.Repositories
	notifier *recordingNotifier
	files    *memoryStorage
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	database, err := db.OpenSQLite(ctx, filepath.Join(t.TempDir(), "services.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, migrations.NewMigrator(database).Up(ctx))

	return &testEnv{
		db:       database,
		repos:    repositories.NewRepositories(database),
		notifier: &recordingNotifier{},
		files:    &memoryStorage{saved: map[string]bool{}},
	}
}

func (e *testEnv) lifecycle() LifecycleService {
	return NewLifecycleService(e.repos.SkillRepository, e.files, e.notifier, zerolog.Nop())
}

func (e *testEnv) catalog() CatalogService {
	return NewCatalogService(e.repos.SkillRepository, e.repos.UserRepository, e.repos.ReviewRepository, zerolog.Nop())
}

func (e *testEnv) user(t *testing.T, name string, roles ...models.RoleType) *models.User {
	t.Helper()
	u := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		Roles:        roles,
	}
	require.NoError(t, e.repos.UserRepository.Create(context.Background(), u))
	return u
}

// publishedSkill creates a complete skill and publishes it through the lifecycle.
func (e *testEnv) publishedSkill(t *testing.T, ownerID string) *dto.OwnedSkillResponse {
	t.Helper()
	ctx := context.Background()
	svc := e.lifecycle()
	created, err := svc.Create(ctx, ownerID, completeDraft("Go Basics"))
	require.NoError(t, err)
	published, err := svc.Apply(ctx, ownerID, created.ID, CommandPublish)
	require.NoError(t, err)
	return published
}

func completeDraft(name string) *dto.CreateSkillRequest {
	return &dto.CreateSkillRequest{SkillContentRequest: dto.SkillContentRequest{
		Name:        name,
		Description: "Learn the language from scratch",
		Category:    string(models.CategoryProgramming),
		Modules: []dto.ModuleRequest{{
			Title: "Intro",
			Lessons: []dto.LessonRequest{
				{Title: "Hello", Type: "video", DurationMinutes: 12},
				{Title: "Types", Type: "article", DurationMinutes: 8},
			},
		}},
		LearningOutcomes: []string{" write a program ", ""},
	}}
}

type sentNotification struct {
	UserID string
	Kind   models.NotificationType
	Link   string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (n *recordingNotifier) Notify(_ context.Context, userID string, kind models.NotificationType, _, link string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{UserID: userID, Kind: kind, Link: link})
}

func (n *recordingNotifier) of(kind models.NotificationType) []sentNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []sentNotification
	for _, s := range n.sent {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

type memoryStorage struct {
	mu      sync.Mutex
	saved   map[string]bool
	deleted []string
}

func (m *memoryStorage) SaveFileWithPath(fh *multipart.FileHeader, path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	url := "http://files.test/uploads/" + path + "/" + uuid.NewString() + filepath.Ext(fh.Filename)
	m.saved[url] = true
	return url, nil
}

func (m *memoryStorage) CopyFile(url, path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.saved[url] {
		return "", fmt.Errorf("no stored file %s", url)
	}
	copied := "http://files.test/uploads/" + path + "/" + uuid.NewString() + filepath.Ext(url)
	m.saved[copied] = true
	return copied, nil
}

func (m *memoryStorage) stored(url string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved[url]
}

func (m *memoryStorage) DeleteFile(url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.saved, url)
	m.deleted = append(m.deleted, url)
	return nil
}

// MockSkillStore is a mock type for the SkillStore interface
type MockSkillStore struct {
	mock.Mock
}

func (m *MockSkillStore) Create(ctx context.Context, skill *models.Skill) error {
	args := m.Called(ctx, skill)
	return args.Error(0)
}

func (m *MockSkillStore) GetByID(ctx context.Context, id string) (*models.Skill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Skill), args.Error(1)
}

func (m *MockSkillStore) List(ctx context.Context, filter repositories.SkillFilter) ([]models.Skill, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Skill), args.Error(1)
}

func (m *MockSkillStore) Update(ctx context.Context, skill *models.Skill, expectedStatus models.SkillStatus, expectedVersion int) (bool, error) {
	args := m.Called(ctx, skill, expectedStatus, expectedVersion)
	return args.Bool(0), args.Error(1)
}

func (m *MockSkillStore) Delete(ctx context.Context, id string, allowed []models.SkillStatus, expectedVersion int) (bool, error) {
	args := m.Called(ctx, id, allowed, expectedVersion)
	return args.Bool(0), args.Error(1)
}

func (m *MockSkillStore) SetImage(ctx context.Context, id, imageURL string) error {
	args := m.Called(ctx, id, imageURL)
	return args.Error(0)
}

func (m *MockSkillStore) IncrementViews(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSkillStore) IncrementStudents(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSkillStore) CountByStatus(ctx context.Context, ownerID string) (map[models.SkillStatus]int, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[models.SkillStatus]int), args.Error(1)
}

// MockStatsReader is a mock type for the StatsReader interface
type MockStatsReader struct {
	mock.Mock
}

func (m *MockStatsReader) StatsForInstructor(ctx context.Context, instructorID string) (repositories.SessionStats, error) {
	args := m.Called(ctx, instructorID)
	return args.Get(0).(repositories.SessionStats), args.Error(1)
}
