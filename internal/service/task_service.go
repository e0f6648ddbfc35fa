package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"studycloud/internal/metrics"
	"studycloud/internal/model"
	"studycloud/internal/repository"
)

// Clock supplies the current time. Injected so the sweep, streaks, and
// token checks are testable against a fixed instant.
type Clock func() time.Time

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title       string
	Description string
	Priority    model.Priority
	DueDate     *time.Time
}

// TaskUpdate carries the fields a PUT may change; nil fields are left
// untouched. Status is deliberately absent: Toggle is the only way to
// change it, so completions always pass through the gamification path.
type TaskUpdate struct {
	Title       *string
	Description *string
	Priority    *model.Priority
	DueDate     *time.Time
	ClearDue    bool
}

// ToggleResult reports what a toggle did beside flipping the status.
type ToggleResult struct {
	Task          *model.Task `json:"task"`
	PointsAwarded int         `json:"points_awarded"`
	BadgeAwarded  string      `json:"badge_awarded,omitempty"`
}

// TaskService wraps task-related business logic.
type TaskService struct {
	db            *gorm.DB
	tasks         *repository.TaskRepository
	users         *repository.UserRepository
	notifications *repository.NotificationRepository
	clock         Clock
	logger        *zap.Logger
	metrics       *metrics.Metrics
}

func NewTaskService(
	db *gorm.DB,
	tasks *repository.TaskRepository,
	users *repository.UserRepository,
	notifications *repository.NotificationRepository,
	clock Clock,
	logger *zap.Logger,
	m *metrics.Metrics,
) *TaskService {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskService{
		db:            db,
		tasks:         tasks,
		users:         users,
		notifications: notifications,
		clock:         clock,
		logger:        logger,
		metrics:       m,
	}
}

func (s *TaskService) Create(ctx context.Context, user *model.User, input TaskInput) (*model.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if input.Priority == "" {
		input.Priority = model.PriorityMedium
	}

	task := model.Task{
		UserID:      user.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Status:      model.StatusIncomplete,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
	}

	if err := s.tasks.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) List(ctx context.Context, user *model.User, filter repository.TaskFilter) ([]model.Task, error) {
	return s.tasks.ListByOwner(ctx, user.ID, filter)
}

// Get returns a task after checking ownership.
func (s *TaskService) Get(ctx context.Context, user *model.User, taskID uint) (*model.Task, error) {
	return s.findOwned(ctx, s.tasks, user, taskID)
}

// Update changes the editable fields of a task. The lifecycle status and
// the reminder flags are not reachable from here.
func (s *TaskService) Update(ctx context.Context, user *model.User, taskID uint, update TaskUpdate) (*model.Task, error) {
	task, err := s.findOwned(ctx, s.tasks, user, taskID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title is required", ErrValidation)
		}
		task.Title = title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Priority != nil {
		task.Priority = *update.Priority
	}
	if update.ClearDue {
		task.DueDate = nil
	} else if update.DueDate != nil {
		task.DueDate = update.DueDate
	}

	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, user *model.User, taskID uint) error {
	task, err := s.findOwned(ctx, s.tasks, user, taskID)
	if err != nil {
		return err
	}
	return s.tasks.Delete(ctx, task)
}

// Toggle flips a task between incomplete and complete. Completing awards
// points by priority and may award a badge; reverting clears the
// completion timestamp but never claws points back. Everything runs in
// one transaction so a failed write leaves no partial award.
func (s *TaskService) Toggle(ctx context.Context, user *model.User, taskID uint) (*ToggleResult, error) {
	now := s.clock()
	var result ToggleResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tasks := s.tasks.WithTx(tx)
		users := s.users.WithTx(tx)
		notifications := s.notifications.WithTx(tx)

		task, err := s.findOwned(ctx, tasks, user, taskID)
		if err != nil {
			return err
		}

		if task.Status == model.StatusComplete {
			task.Status = model.StatusIncomplete
			task.CompletedAt = nil
			if err := tasks.Save(ctx, task); err != nil {
				return err
			}
			result = ToggleResult{Task: task}
			return nil
		}

		task.Status = model.StatusComplete
		task.CompletedAt = &now
		if err := tasks.Save(ctx, task); err != nil {
			return err
		}

		points := model.PointsForPriority(task.Priority)
		user.AddPoints(points)
		if err := users.Save(ctx, user); err != nil {
			return err
		}

		result = ToggleResult{Task: task, PointsAwarded: points}

		completed, err := tasks.CountCompleted(ctx, user.ID)
		if err != nil {
			return err
		}
		name, ok := model.BadgeForCompletedCount(completed)
		if !ok {
			return nil
		}
		created, err := users.AddBadge(ctx, user.ID, name)
		if err != nil {
			return err
		}
		if !created {
			return nil
		}

		result.BadgeAwarded = name
		return notifications.Create(ctx, &model.Notification{
			UserID:  user.ID,
			TaskID:  &task.ID,
			Message: fmt.Sprintf("You earned the badge %q!", name),
		})
	})
	if err != nil {
		return nil, err
	}

	if result.Task.Status == model.StatusComplete {
		if s.metrics != nil {
			s.metrics.TasksCompleted.Inc()
			if result.BadgeAwarded != "" {
				s.metrics.BadgesAwarded.Inc()
			}
		}
		s.logger.Info("task completed",
			zap.Uint("task_id", result.Task.ID),
			zap.Uint("user_id", user.ID),
			zap.Int("points", result.PointsAwarded),
			zap.String("badge", result.BadgeAwarded),
		)
	}

	return &result, nil
}

// findOwned loads a task and verifies the acting user owns it,
// translating store errors into the service taxonomy.
func (s *TaskService) findOwned(ctx context.Context, tasks *repository.TaskRepository, user *model.User, taskID uint) (*model.Task, error) {
	task, err := tasks.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("task %d: %w", taskID, ErrNotFound)
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	if task.UserID != user.ID {
		return nil, fmt.Errorf("task %d: %w", taskID, ErrNotOwner)
	}
	return task, nil
}
