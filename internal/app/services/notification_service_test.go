package services

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/skillshare/internal/app/models"
	"github.com/yigit/skillshare/internal/app/models/dto"
	"github.com/yigit/skillshare/internal/pkg/apperrors"
)

type pushedEvent struct {
	userID    string
	eventType string
	payload   interface{}
}

type recordingPusher struct {
	mu     sync.Mutex
	events []pushedEvent
}

func (p *recordingPusher) SendToUser(userID, eventType string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, pushedEvent{userID, eventType, payload})
}

func TestNotificationInbox(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	pusher := &recordingPusher{}
	svc := NewNotificationService(env.repos.NotificationRepository, pusher, zerolog.Nop())

	alice := env.user(t, "Alice")
	bob := env.user(t, "Bob")

	svc.Notify(ctx, alice.ID, models.NotificationReviewReceived, "New review", "/skills/1")
	svc.Notify(ctx, alice.ID, models.NotificationSkillPublished, "Published", "/teach/skills/1")
	svc.Notify(ctx, bob.ID, models.NotificationSessionRequested, "Session requested", "")

	require.Len(t, pusher.events, 3)
	assert.Equal(t, alice.ID, pusher.events[0].userID)
	assert.Equal(t, "notification", pusher.events[0].eventType)
	pushed, ok := pusher.events[0].payload.(dto.NotificationResponse)
	require.True(t, ok)
	assert.Equal(t, "New review", pushed.Message)

	inbox, err := svc.List(ctx, alice.ID, false, 1, 10)
	require.NoError(t, err)
	assert.Len(t, inbox.Items, 2)
	assert.EqualValues(t, 2, inbox.UnreadCount)

	t.Run("another user's notification is not found", func(t *testing.T) {
		err := svc.MarkRead(ctx, bob.ID, inbox.Items[0].ID)
		assert.ErrorIs(t, err, apperrors.ErrNotificationNotFound)
	})

	require.NoError(t, svc.MarkRead(ctx, alice.ID, inbox.Items[0].ID))
	unread, err := svc.List(ctx, alice.ID, true, 1, 10)
	require.NoError(t, err)
	assert.Len(t, unread.Items, 1)
	assert.EqualValues(t, 1, unread.UnreadCount)

	n, err := svc.MarkAllRead(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	unread, err = svc.List(ctx, alice.ID, true, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, unread.Items)

	bobs, err := svc.List(ctx, bob.ID, true, 1, 10)
	require.NoError(t, err)
	assert.Len(t, bobs.Items, 1, "marking alice's inbox leaves bob's untouched")
}

func TestNotifyWithoutPusher(t *testing.T) {
	env := setupEnv(t)
	svc := NewNotificationService(env.repos.NotificationRepository, nil, zerolog.Nop())
	u := env.user(t, "Carol")

	svc.Notify(context.Background(), u.ID, models.NotificationSessionUpdated, "Confirmed", "")

	inbox, err := svc.List(context.Background(), u.ID, false, 1, 10)
	require.NoError(t, err)
	assert.Len(t, inbox.Items, 1)
}
