package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"studycloud/internal/model"
)

// TaskFilter narrows task listings. Nil fields match everything.
type TaskFilter struct {
	Status   *model.Status
	Priority *model.Priority
}

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *TaskRepository) WithTx(tx *gorm.DB) *TaskRepository {
	return &TaskRepository{db: tx}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// ListByOwner returns a user's tasks, newest first.
func (r *TaskRepository) ListByOwner(ctx context.Context, userID uint, filter TaskFilter) ([]model.Task, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		q = q.Where("priority = ?", *filter.Priority)
	}

	var tasks []model.Task
	if err := q.Order("created_at DESC, id DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// FindByID looks a task up by id alone; callers decide whether the owner
// matches.
func (r *TaskRepository) FindByID(ctx context.Context, taskID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).First(&task, taskID).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Delete(task).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// ListDueForReminder returns every incomplete task that has a due date.
// The sweep evaluates threshold windows and flags in code.
func (r *TaskRepository) ListDueForReminder(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("status = ? AND due_date IS NOT NULL", model.StatusIncomplete).
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list due tasks: %w", err)
	}
	return tasks, nil
}

// MarkReminded flips one of the monotonic notified_* columns.
func (r *TaskRepository) MarkReminded(ctx context.Context, task *model.Task, column string) error {
	switch column {
	case "notified_1day", "notified_1hour", "notified_10min":
	default:
		return fmt.Errorf("unknown reminder column %q", column)
	}
	if err := r.db.WithContext(ctx).Model(task).Update(column, true).Error; err != nil {
		return fmt.Errorf("mark reminded: %w", err)
	}
	return nil
}

// ListCompleted returns a user's completed tasks, most recent completion
// first.
func (r *TaskRepository) ListCompleted(ctx context.Context, userID uint) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.StatusComplete).
		Order("completed_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list completed tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) CountByOwner(ctx context.Context, userID uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

func (r *TaskRepository) CountCompleted(ctx context.Context, userID uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND status = ?", userID, model.StatusComplete).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count completed tasks: %w", err)
	}
	return n, nil
}

func (r *TaskRepository) CountCompletedSince(ctx context.Context, userID uint, since time.Time) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND status = ? AND completed_at >= ?", userID, model.StatusComplete, since).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count recent completions: %w", err)
	}
	return n, nil
}

func (r *TaskRepository) CountCreatedSince(ctx context.Context, userID uint, since time.Time) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count recent tasks: %w", err)
	}
	return n, nil
}

func (r *TaskRepository) CountOverdue(ctx context.Context, userID uint, now time.Time) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND status = ? AND due_date IS NOT NULL AND due_date < ?",
			userID, model.StatusIncomplete, now).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count overdue tasks: %w", err)
	}
	return n, nil
}
