package repository

import (
	"time"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"studycloud/internal/model"
)

// Migrate applies all pending schema migrations exactly once, recorded in
// the gormigrate bookkeeping table. Fresh databases take the InitSchema
// fast path and have every migration marked as applied.
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, migrations)

	m.InitSchema(func(tx *gorm.DB) error {
		return tx.AutoMigrate(
			&model.User{},
			&model.Task{},
			&model.Badge{},
			&model.Notification{},
		)
	})

	return m.Migrate()
}

// Each migration uses local snapshot types so that later model changes
// cannot rewrite history. Struct names are chosen so GORM derives the
// same table names as the live models.
var migrations = []*gormigrate.Migration{
	{
		ID: "20250601000001_create_core_tables",
		Migrate: func(tx *gorm.DB) error {
			type user struct {
				ID           uint   `gorm:"primaryKey"`
				Email        string `gorm:"uniqueIndex;not null"`
				PasswordHash string `gorm:"not null"`
				Role         string `gorm:"type:varchar(16);default:user"`
				Points       int    `gorm:"default:0"`
				Level        int    `gorm:"default:1"`
				CreatedAt    time.Time
				UpdatedAt    time.Time
			}
			type task struct {
				ID            uint   `gorm:"primaryKey"`
				UserID        uint   `gorm:"index"`
				Title         string `gorm:"not null"`
				Description   string
				Status        string `gorm:"type:varchar(16);default:incomplete;index"`
				Priority      string `gorm:"type:varchar(16);default:medium"`
				DueDate       *time.Time
				CompletedAt   *time.Time
				Notified1Day  bool `gorm:"column:notified_1day;default:false"`
				Notified1Hour bool `gorm:"column:notified_1hour;default:false"`
				Notified10Min bool `gorm:"column:notified_10min;default:false"`
				CreatedAt     time.Time
				UpdatedAt     time.Time
			}
			type badge struct {
				ID        uint   `gorm:"primaryKey"`
				UserID    uint   `gorm:"index:idx_user_badge_name,unique"`
				Name      string `gorm:"index:idx_user_badge_name,unique"`
				CreatedAt time.Time
			}
			type notification struct {
				ID        uint   `gorm:"primaryKey"`
				UserID    uint   `gorm:"index"`
				TaskID    *uint  `gorm:"index"`
				Message   string `gorm:"not null"`
				Read      bool   `gorm:"default:false"`
				CreatedAt time.Time
			}
			return tx.Migrator().CreateTable(&user{}, &task{}, &badge{}, &notification{})
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable("notifications", "badges", "tasks", "users")
		},
	},
	{
		ID: "20250801000001_add_user_telegram_chat_id",
		Migrate: func(tx *gorm.DB) error {
			type user struct {
				TelegramChatID *int64
			}
			if tx.Migrator().HasColumn(&user{}, "TelegramChatID") {
				return nil
			}
			return tx.Migrator().AddColumn(&user{}, "TelegramChatID")
		},
		Rollback: func(tx *gorm.DB) error {
			type user struct {
				TelegramChatID *int64
			}
			return tx.Migrator().DropColumn(&user{}, "TelegramChatID")
		},
	},
}
