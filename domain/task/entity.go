package task

import (
	"strings"
	"time"
)

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is one of the known task statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Priority represents the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known task priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Color returns the display color for the priority.
func (p Priority) Color() string {
	switch p {
	case PriorityLow:
		return "#10B981" // green
	case PriorityHigh:
		return "#EF4444" // red
	default:
		return "#F59E0B" // yellow
	}
}

// Task represents a task entity in the system.
type Task struct {
	ID             string     `gorm:"primaryKey;type:text"`
	Title          string     `gorm:"not null;type:text"`
	Description    string     `gorm:"type:text"`
	Status         Status     `gorm:"not null;default:pending;type:text;index:idx_tasks_creator_status,priority:2;index:idx_tasks_assignee_status,priority:2"`
	Priority       Priority   `gorm:"not null;default:medium;type:text"`
	DueDate        *time.Time `gorm:"index"`
	AssignedUserID *string    `gorm:"type:text;index:idx_tasks_assignee_status,priority:1"`
	CreatedBy      string     `gorm:"not null;type:text;index:idx_tasks_creator_status,priority:1"`
	CompletedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}

const (
	titleMinLen       = 3
	titleMaxLen       = 200
	descriptionMaxLen = 1000
)

// ValidateTitle checks the title length bounds after trimming whitespace.
func ValidateTitle(title string) *FieldError {
	trimmed := strings.TrimSpace(title)
	if len(trimmed) < titleMinLen || len(trimmed) > titleMaxLen {
		return &FieldError{Field: "title", Message: "title must be 3-200 characters"}
	}
	return nil
}

// ValidateDescription checks the description length bound after trimming whitespace.
func ValidateDescription(description string) *FieldError {
	if len(strings.TrimSpace(description)) > descriptionMaxLen {
		return &FieldError{Field: "description", Message: "description must be less than 1000 characters"}
	}
	return nil
}

// ValidateDueDate checks that a due date, when set, is not before the start of
// the current day. The rule applies every time the field is set; a stored due
// date that has since passed stays valid and merely makes the task overdue.
func ValidateDueDate(dueDate *time.Time, now time.Time) *FieldError {
	if dueDate == nil {
		return nil
	}
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if dueDate.Before(startOfDay) {
		return &FieldError{Field: "dueDate", Message: "due date must be today or in the future"}
	}
	return nil
}

// IsOverdue reports whether the task's due date has passed and the task is not
// completed. It is a derived, read-time property, never stored.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	return now.After(*t.DueDate) && t.Status != StatusCompleted
}

// ApplyStatus transitions the task to the given status and maintains the
// CompletedAt invariant: entering completed stamps the completion time if not
// already set, leaving completed clears it. Re-applying the current status
// leaves CompletedAt untouched. All transitions between the three states are
// legal.
func (t *Task) ApplyStatus(status Status, now time.Time) {
	if status == t.Status {
		return
	}
	t.Status = status
	if status == StatusCompleted {
		if t.CompletedAt == nil {
			completedAt := now
			t.CompletedAt = &completedAt
		}
	} else {
		t.CompletedAt = nil
	}
}
