package model

import "time"

// Notification is an in-app message for a user, written by the reminder
// sweep or by a badge award. Only the Read flag ever changes after
// creation.
type Notification struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"index" json:"user_id"`
	TaskID  *uint  `gorm:"index" json:"task_id,omitempty"`
	Message string `gorm:"not null" json:"message"`
	Read    bool   `gorm:"default:false" json:"read"`

	CreatedAt time.Time `json:"created_at"`
}
