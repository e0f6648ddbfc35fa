package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"studycloud/internal/metrics"
	"studycloud/internal/model"
	"studycloud/internal/notify"
	"studycloud/internal/repository"
)

// reminderThreshold is one due-date proximity window. Each window is 20
// minutes wide so a five-minute sweep interval cannot step over it, and
// the windows are disjoint, so a task matches at most one per pass.
type reminderThreshold struct {
	label    string
	min      time.Duration
	max      time.Duration
	column   string
	notified func(*model.Task) bool
}

var reminderThresholds = []reminderThreshold{
	{
		label:    "1 day",
		min:      24*time.Hour - 10*time.Minute,
		max:      24*time.Hour + 10*time.Minute,
		column:   "notified_1day",
		notified: func(t *model.Task) bool { return t.Notified1Day },
	},
	{
		label:    "1 hour",
		min:      50 * time.Minute,
		max:      70 * time.Minute,
		column:   "notified_1hour",
		notified: func(t *model.Task) bool { return t.Notified1Hour },
	},
	{
		label:    "10 minutes",
		min:      5 * time.Minute,
		max:      15 * time.Minute,
		column:   "notified_10min",
		notified: func(t *model.Task) bool { return t.Notified10Min },
	},
}

// matchThreshold returns the first window the task currently sits in,
// skipping thresholds that already fired for it.
func matchThreshold(task *model.Task, now time.Time) (reminderThreshold, bool) {
	until := task.DueDate.Sub(now)
	for _, th := range reminderThresholds {
		if th.notified(task) {
			continue
		}
		if until >= th.min && until <= th.max {
			return th, true
		}
	}
	return reminderThreshold{}, false
}

func reminderMessage(task *model.Task, th reminderThreshold) notify.Message {
	return notify.Message{
		Subject: fmt.Sprintf("Task reminder: %s", task.Title),
		Body:    fmt.Sprintf("%q is due in %s (at %s).", task.Title, th.label, task.DueDate.Format("2006-01-02 15:04")),
	}
}

// ReminderService scans for tasks approaching their due date and fans
// reminders out to the configured channels.
type ReminderService struct {
	tasks         *repository.TaskRepository
	users         *repository.UserRepository
	notifications *repository.NotificationRepository
	notifier      notify.Notifier
	clock         Clock
	logger        *zap.Logger
	metrics       *metrics.Metrics
}

func NewReminderService(
	tasks *repository.TaskRepository,
	users *repository.UserRepository,
	notifications *repository.NotificationRepository,
	notifier notify.Notifier,
	clock Clock,
	logger *zap.Logger,
	m *metrics.Metrics,
) *ReminderService {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderService{
		tasks:         tasks,
		users:         users,
		notifications: notifications,
		notifier:      notifier,
		clock:         clock,
		logger:        logger,
		metrics:       m,
	}
}

// Sweep runs one pass over every incomplete task that has a due date.
// A matched task gets the outbound send, an in-app notification, and its
// threshold flag set, in that order. The flag is set even when the send
// fails, so a reminder fires at most once per threshold.
func (s *ReminderService) Sweep(ctx context.Context) error {
	now := s.clock()
	tasks, err := s.tasks.ListDueForReminder(ctx)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}
	if s.metrics != nil {
		s.metrics.SweepRuns.Inc()
	}

	owners := make(map[uint]*model.User)
	var matched, sent, failed int

	for i := range tasks {
		task := &tasks[i]
		th, ok := matchThreshold(task, now)
		if !ok {
			continue
		}
		matched++

		user, err := s.ownerOf(ctx, owners, task.UserID)
		if err != nil {
			s.logger.Error("load reminder recipient",
				zap.Uint("task_id", task.ID),
				zap.Uint("user_id", task.UserID),
				zap.Error(err))
			failed++
			continue
		}

		msg := reminderMessage(task, th)
		if err := s.notifier.Notify(ctx, user, msg); err != nil {
			s.logger.Warn("send reminder",
				zap.Uint("task_id", task.ID),
				zap.String("threshold", th.label),
				zap.Error(err))
			if s.metrics != nil {
				s.metrics.ReminderFailures.WithLabelValues(th.label).Inc()
			}
			failed++
		} else {
			if s.metrics != nil {
				s.metrics.RemindersSent.WithLabelValues(th.label).Inc()
			}
			sent++
		}

		if err := s.notifications.Create(ctx, &model.Notification{
			UserID:  task.UserID,
			TaskID:  &task.ID,
			Message: msg.Body,
		}); err != nil {
			s.logger.Error("record reminder", zap.Uint("task_id", task.ID), zap.Error(err))
			failed++
		}

		if err := s.tasks.MarkReminded(ctx, task, th.column); err != nil {
			s.logger.Error("mark task reminded",
				zap.Uint("task_id", task.ID),
				zap.String("column", th.column),
				zap.Error(err))
			failed++
		}
	}

	if matched > 0 {
		s.logger.Info("reminder sweep complete",
			zap.Int("matched", matched),
			zap.Int("sent", sent),
			zap.Int("failed", failed))
	}
	if failed > 0 {
		return fmt.Errorf("sweep: %d of %d reminders had failures", failed, matched)
	}
	return nil
}

// ownerOf resolves a task owner, caching lookups for the duration of one
// sweep so users with many due tasks are loaded once.
func (s *ReminderService) ownerOf(ctx context.Context, cache map[uint]*model.User, userID uint) (*model.User, error) {
	if user, ok := cache[userID]; ok {
		return user, nil
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	cache[userID] = user
	return user, nil
}
