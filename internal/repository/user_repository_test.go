package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"studycloud/internal/model"
)

func TestUserRepositoryFindByEmail(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	seedUser(t, db, "alice@example.com")

	user, err := repo.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepositoryAddBadge(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	alice := seedUser(t, db, "alice@example.com")

	created, err := repo.AddBadge(ctx, alice.ID, model.BadgeFirstStep)
	require.NoError(t, err)
	assert.True(t, created)

	// Second award of the same badge is a silent no-op.
	created, err = repo.AddBadge(ctx, alice.ID, model.BadgeFirstStep)
	require.NoError(t, err)
	assert.False(t, created)

	badges, err := repo.ListBadges(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.Equal(t, model.BadgeFirstStep, badges[0].Name)

	t.Run("same badge name on another user", func(t *testing.T) {
		bob := seedUser(t, db, "bob@example.com")
		created, err := repo.AddBadge(ctx, bob.ID, model.BadgeFirstStep)
		require.NoError(t, err)
		assert.True(t, created)
	})
}

func TestUserRepositoryDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	notifications := NewNotificationRepository(db)

	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")

	task := seedTask(t, db, &model.Task{UserID: alice.ID, Title: "hers", Status: model.StatusIncomplete, Priority: model.PriorityMedium})
	bobTask := seedTask(t, db, &model.Task{UserID: bob.ID, Title: "his", Status: model.StatusIncomplete, Priority: model.PriorityMedium})

	_, err := users.AddBadge(ctx, alice.ID, model.BadgeFirstStep)
	require.NoError(t, err)
	require.NoError(t, notifications.Create(ctx, &model.Notification{UserID: alice.ID, TaskID: &task.ID, Message: "hi"}))

	require.NoError(t, users.Delete(ctx, alice.ID))

	_, err = users.FindByID(ctx, alice.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var taskCount, badgeCount, notificationCount int64
	require.NoError(t, db.Model(&model.Task{}).Where("user_id = ?", alice.ID).Count(&taskCount).Error)
	require.NoError(t, db.Model(&model.Badge{}).Where("user_id = ?", alice.ID).Count(&badgeCount).Error)
	require.NoError(t, db.Model(&model.Notification{}).Where("user_id = ?", alice.ID).Count(&notificationCount).Error)
	assert.Zero(t, taskCount)
	assert.Zero(t, badgeCount)
	assert.Zero(t, notificationCount)

	// The other account is untouched.
	_, err = users.FindByID(ctx, bob.ID)
	require.NoError(t, err)
	_, err = NewTaskRepository(db).FindByID(ctx, bobTask.ID)
	require.NoError(t, err)
}

func TestUserRepositoryDeleteMissing(t *testing.T) {
	db := newTestDB(t)

	err := NewUserRepository(db).Delete(context.Background(), 9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
