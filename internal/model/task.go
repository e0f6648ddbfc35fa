package model

import "time"

// Status is the lifecycle state of a task.
type Status string

const (
	StatusIncomplete Status = "incomplete"
	StatusComplete   Status = "complete"
)

// Priority weights a task and drives the points awarded on completion.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority validates a raw priority value. An empty string maps to
// the default (medium).
func ParsePriority(raw string) (Priority, bool) {
	switch Priority(raw) {
	case "":
		return PriorityMedium, true
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(raw), true
	default:
		return PriorityMedium, false
	}
}

// Task is a single item owned by exactly one user.
type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"index" json:"user_id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description,omitempty"`
	Status      Status     `gorm:"type:varchar(16);default:incomplete;index" json:"status"`
	Priority    Priority   `gorm:"type:varchar(16);default:medium" json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Reminder flags are monotonic: once a threshold has fired for this
	// task it never fires again, even if the send itself failed.
	Notified1Day  bool `gorm:"column:notified_1day;default:false" json:"-"`
	Notified1Hour bool `gorm:"column:notified_1hour;default:false" json:"-"`
	Notified10Min bool `gorm:"column:notified_10min;default:false" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// IsOverdue reports whether an incomplete task has slipped past its due date.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.Status == StatusIncomplete && t.DueDate != nil && t.DueDate.Before(now)
}
