package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"studycloud/internal/model"
	"studycloud/internal/repository"
)

// Profile is the gamification summary a user sees for themselves.
type Profile struct {
	ID                uint        `json:"id"`
	Email             string      `json:"email"`
	Role              string      `json:"role"`
	Points            int         `json:"points"`
	Level             int         `json:"level"`
	PointsToNextLevel int         `json:"points_to_next_level"`
	Badges            []BadgeView `json:"badges"`
}

// BadgeView is a badge as rendered in a profile.
type BadgeView struct {
	Name     string `json:"name"`
	EarnedAt string `json:"earned_at"`
}

// UserOverview is one row of the admin user listing.
type UserOverview struct {
	ID             uint   `json:"id"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	Points         int    `json:"points"`
	Level          int    `json:"level"`
	TaskCount      int64  `json:"task_count"`
	CompletedCount int64  `json:"completed_count"`
}

// UserService serves profile and administrative user operations.
type UserService struct {
	users *repository.UserRepository
	tasks *repository.TaskRepository
}

func NewUserService(users *repository.UserRepository, tasks *repository.TaskRepository) *UserService {
	return &UserService{users: users, tasks: tasks}
}

// Profile assembles the acting user's gamification state.
func (s *UserService) Profile(ctx context.Context, user *model.User) (*Profile, error) {
	badges, err := s.users.ListBadges(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	views := make([]BadgeView, 0, len(badges))
	for _, b := range badges {
		views = append(views, BadgeView{
			Name:     b.Name,
			EarnedAt: b.CreatedAt.Format("2006-01-02"),
		})
	}

	return &Profile{
		ID:                user.ID,
		Email:             user.Email,
		Role:              user.Role,
		Points:            user.Points,
		Level:             user.Level,
		PointsToNextLevel: user.PointsToNextLevel(),
		Badges:            views,
	}, nil
}

// Overview lists every account with its task totals, for the admin
// console.
func (s *UserService) Overview(ctx context.Context) ([]UserOverview, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	rows := make([]UserOverview, 0, len(users))
	for _, u := range users {
		total, err := s.tasks.CountByOwner(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		completed, err := s.tasks.CountCompleted(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, UserOverview{
			ID:             u.ID,
			Email:          u.Email,
			Role:           u.Role,
			Points:         u.Points,
			Level:          u.Level,
			TaskCount:      total,
			CompletedCount: completed,
		})
	}
	return rows, nil
}

// Delete removes an account and everything it owns.
func (s *UserService) Delete(ctx context.Context, userID uint) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return err
	}
	return nil
}
