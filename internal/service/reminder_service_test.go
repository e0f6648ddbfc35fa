package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"studycloud/internal/model"
	"studycloud/internal/notify"
	"studycloud/internal/repository"
)

// captureNotifier records outbound sends and can be told to fail.
type captureNotifier struct {
	attempts int
	sent     []notify.Message
	fail     error
}

func (c *captureNotifier) Notify(ctx context.Context, user *model.User, msg notify.Message) error {
	c.attempts++
	if c.fail != nil {
		return c.fail
	}
	c.sent = append(c.sent, msg)
	return nil
}

func newReminderService(db *gorm.DB, notifier notify.Notifier, clock Clock) *ReminderService {
	return NewReminderService(
		repository.NewTaskRepository(db),
		repository.NewUserRepository(db),
		repository.NewNotificationRepository(db),
		notifier,
		clock,
		nil,
		nil,
	)
}

func seedDueTask(t *testing.T, db *gorm.DB, userID uint, title string, due time.Time) *model.Task {
	t.Helper()

	task := &model.Task{
		UserID:   userID,
		Title:    title,
		Status:   model.StatusIncomplete,
		Priority: model.PriorityMedium,
		DueDate:  &due,
	}
	require.NoError(t, repository.NewTaskRepository(db).Create(context.Background(), task))
	return task
}

func TestMatchThreshold(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		until time.Duration
		flags model.Task
		label string
	}{
		{name: "exactly one day", until: 24 * time.Hour, label: "1 day"},
		{name: "day window lower bound", until: 23*time.Hour + 50*time.Minute, label: "1 day"},
		{name: "day window upper bound", until: 24*time.Hour + 10*time.Minute, label: "1 day"},
		{name: "just past the day window", until: 24*time.Hour + 11*time.Minute},
		{name: "exactly one hour", until: time.Hour, label: "1 hour"},
		{name: "hour window lower bound", until: 50 * time.Minute, label: "1 hour"},
		{name: "hour window upper bound", until: 70 * time.Minute, label: "1 hour"},
		{name: "between hour and day windows", until: 3 * time.Hour},
		{name: "exactly ten minutes", until: 10 * time.Minute, label: "10 minutes"},
		{name: "minute window lower bound", until: 5 * time.Minute, label: "10 minutes"},
		{name: "minute window upper bound", until: 15 * time.Minute, label: "10 minutes"},
		{name: "almost due", until: 4 * time.Minute},
		{name: "already overdue", until: -time.Minute},
		{name: "day already notified", until: 24 * time.Hour, flags: model.Task{Notified1Day: true}},
		{name: "hour already notified", until: time.Hour, flags: model.Task{Notified1Hour: true}},
		{name: "minute already notified", until: 10 * time.Minute, flags: model.Task{Notified10Min: true}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			task := tc.flags
			due := now.Add(tc.until)
			task.DueDate = &due

			th, ok := matchThreshold(&task, now)
			if tc.label == "" {
				assert.False(t, ok)
			} else {
				require.True(t, ok)
				assert.Equal(t, tc.label, th.label)
			}
		})
	}
}

func TestSweepOneDayReminder(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)

	alice := createAccount(t, db, "alice@example.com")
	task := seedDueTask(t, db, alice.ID, "hand in thesis", now.Add(24*time.Hour))

	notifier := &captureNotifier{}
	svc := newReminderService(db, notifier, fixedClock(now))

	require.NoError(t, svc.Sweep(ctx))

	require.Len(t, notifier.sent, 1)
	assert.Contains(t, notifier.sent[0].Subject, "hand in thesis")
	assert.Contains(t, notifier.sent[0].Body, "1 day")

	notifications, err := repository.NewNotificationRepository(db).ListByUser(ctx, alice.ID, false)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	require.NotNil(t, notifications[0].TaskID)
	assert.Equal(t, task.ID, *notifications[0].TaskID)
	assert.False(t, notifications[0].Read)

	reloaded, err := repository.NewTaskRepository(db).FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Notified1Day)
	assert.False(t, reloaded.Notified1Hour)
	assert.False(t, reloaded.Notified10Min)

	t.Run("immediate rerun is quiet", func(t *testing.T) {
		require.NoError(t, svc.Sweep(ctx))

		assert.Len(t, notifier.sent, 1)
		notifications, err := repository.NewNotificationRepository(db).ListByUser(ctx, alice.ID, false)
		require.NoError(t, err)
		assert.Len(t, notifications, 1)
	})
}

func TestSweepEachThresholdFiresOnce(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	alice := createAccount(t, db, "alice@example.com")
	due := time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC)
	task := seedDueTask(t, db, alice.ID, "exam", due)

	notifier := &captureNotifier{}
	tasks := repository.NewTaskRepository(db)

	sweepAt := func(at time.Time) {
		t.Helper()
		require.NoError(t, newReminderService(db, notifier, fixedClock(at)).Sweep(ctx))
	}

	sweepAt(due.Add(-24 * time.Hour))
	sweepAt(due.Add(-time.Hour))
	sweepAt(due.Add(-10 * time.Minute))

	require.Len(t, notifier.sent, 3)
	assert.Contains(t, notifier.sent[0].Body, "1 day")
	assert.Contains(t, notifier.sent[1].Body, "1 hour")
	assert.Contains(t, notifier.sent[2].Body, "10 minutes")

	reloaded, err := tasks.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Notified1Day)
	assert.True(t, reloaded.Notified1Hour)
	assert.True(t, reloaded.Notified10Min)

	notifications, err := repository.NewNotificationRepository(db).ListByUser(ctx, alice.ID, false)
	require.NoError(t, err)
	assert.Len(t, notifications, 3)
}

func TestSweepSkipsQuietTasks(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)

	alice := createAccount(t, db, "alice@example.com")
	seedDueTask(t, db, alice.ID, "far away", now.Add(48*time.Hour))
	seedDueTask(t, db, alice.ID, "long gone", now.Add(-time.Hour))

	completed := now
	done := &model.Task{UserID: alice.ID, Title: "done", Status: model.StatusComplete, Priority: model.PriorityMedium, CompletedAt: &completed}
	due := now.Add(24 * time.Hour)
	done.DueDate = &due
	require.NoError(t, repository.NewTaskRepository(db).Create(ctx, done))

	notifier := &captureNotifier{}
	require.NoError(t, newReminderService(db, notifier, fixedClock(now)).Sweep(ctx))

	assert.Zero(t, notifier.attempts)
}

func TestSweepSendFailureStillMarks(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)

	alice := createAccount(t, db, "alice@example.com")
	task := seedDueTask(t, db, alice.ID, "flaky channel", now.Add(24*time.Hour))

	notifier := &captureNotifier{fail: errors.New("smtp down")}
	svc := newReminderService(db, notifier, fixedClock(now))

	err := svc.Sweep(ctx)
	require.Error(t, err, "failures are surfaced")
	assert.Contains(t, err.Error(), "reminders had failures")

	// The in-app notification and the flag are written regardless, so the
	// reminder does not repeat once the channel recovers.
	notifications, listErr := repository.NewNotificationRepository(db).ListByUser(ctx, alice.ID, false)
	require.NoError(t, listErr)
	assert.Len(t, notifications, 1)

	reloaded, findErr := repository.NewTaskRepository(db).FindByID(ctx, task.ID)
	require.NoError(t, findErr)
	assert.True(t, reloaded.Notified1Day)

	t.Run("no retry after recovery", func(t *testing.T) {
		notifier.fail = nil
		require.NoError(t, svc.Sweep(ctx))
		assert.Equal(t, 1, notifier.attempts)
	})
}
