package service

import (
	"context"
	"time"

	"studycloud/internal/model"
	"studycloud/internal/repository"
)

// Stats is the rolling-metrics summary for one user.
type Stats struct {
	Streak               int     `json:"streak"`
	WeeklyCompletionRate float64 `json:"weekly_completion_rate"`
	OverdueCount         int64   `json:"overdue_count"`
	CompletedCount       int64   `json:"completed_count"`
	TotalCount           int64   `json:"total_count"`
}

// StatsService derives streaks and completion-rate metrics from the task
// history.
type StatsService struct {
	tasks *repository.TaskRepository
	clock Clock
}

func NewStatsService(tasks *repository.TaskRepository, clock Clock) *StatsService {
	if clock == nil {
		clock = time.Now
	}
	return &StatsService{tasks: tasks, clock: clock}
}

func (s *StatsService) Summary(ctx context.Context, user *model.User) (*Stats, error) {
	now := s.clock()

	completed, err := s.tasks.ListCompleted(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	weekAgo := now.AddDate(0, 0, -7)
	completedRecent, err := s.tasks.CountCompletedSince(ctx, user.ID, weekAgo)
	if err != nil {
		return nil, err
	}
	createdRecent, err := s.tasks.CountCreatedSince(ctx, user.ID, weekAgo)
	if err != nil {
		return nil, err
	}
	overdue, err := s.tasks.CountOverdue(ctx, user.ID, now)
	if err != nil {
		return nil, err
	}
	total, err := s.tasks.CountByOwner(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	var rate float64
	if createdRecent > 0 {
		rate = float64(completedRecent) / float64(createdRecent) * 100
	}

	return &Stats{
		Streak:               streak(completed, now),
		WeeklyCompletionRate: rate,
		OverdueCount:         overdue,
		CompletedCount:       int64(len(completed)),
		TotalCount:           total,
	}, nil
}

// streak counts consecutive calendar days with at least one completion,
// walking backwards from today. A streak may start yesterday instead;
// with no completion on either day it is 0.
func streak(completed []model.Task, now time.Time) int {
	if len(completed) == 0 {
		return 0
	}

	days := make(map[string]bool, len(completed))
	for _, task := range completed {
		if task.CompletedAt != nil {
			days[dayKey(*task.CompletedAt, now.Location())] = true
		}
	}

	cursor := now
	if !days[dayKey(cursor, now.Location())] {
		cursor = cursor.AddDate(0, 0, -1)
	}

	count := 0
	for days[dayKey(cursor, now.Location())] {
		count++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return count
}

func dayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}
