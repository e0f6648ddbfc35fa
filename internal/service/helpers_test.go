package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"studycloud/internal/config"
	"studycloud/internal/metrics"
	"studycloud/internal/model"
	"studycloud/internal/repository"
)

// newTestDB opens a fully migrated throwaway SQLite database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func fixedClock(at time.Time) Clock {
	return func() time.Time { return at }
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:  "test-secret",
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
}

func createAccount(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()

	user := &model.User{Email: email, PasswordHash: "x", Role: model.RoleUser, Level: 1}
	require.NoError(t, repository.NewUserRepository(db).Create(context.Background(), user))
	return user
}

func newTaskService(db *gorm.DB, clock Clock) *TaskService {
	return NewTaskService(
		db,
		repository.NewTaskRepository(db),
		repository.NewUserRepository(db),
		repository.NewNotificationRepository(db),
		clock,
		nil,
		metrics.New(),
	)
}
