package model

import "time"

// Roles gate access to the admin endpoints.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account that owns tasks and accumulates gamification state.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"type:varchar(16);default:user" json:"role"`

	// Points only ever grow; Level is derived from Points and never
	// mutated on its own.
	Points int `gorm:"default:0" json:"points"`
	Level  int `gorm:"default:1" json:"level"`

	// TelegramChatID, when linked, enables the Telegram reminder channel.
	TelegramChatID *int64 `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`

	Badges []Badge `gorm:"foreignKey:UserID" json:"-"`
	Tasks  []Task  `gorm:"foreignKey:UserID" json:"-"`
}

// AddPoints grants n points and recomputes the derived level.
func (u *User) AddPoints(n int) {
	u.Points += n
	u.Level = LevelForPoints(u.Points)
}

// PointsToNextLevel is how many points remain until the next level up.
func (u *User) PointsToNextLevel() int {
	return u.Level*100 - u.Points
}

// Badge is a named award held by a user. The (user, name) pair is unique,
// which makes awarding idempotent.
type Badge struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    uint      `gorm:"index:idx_user_badge_name,unique" json:"-"`
	Name      string    `gorm:"index:idx_user_badge_name,unique" json:"name"`
	CreatedAt time.Time `json:"awarded_at"`
}
