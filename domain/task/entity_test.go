package task

import (
	"strings"
	"testing"
	"time"
)

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		valid bool
	}{
		{name: "minimum length", title: "abc", valid: true},
		{name: "typical title", title: "Quarterly Report", valid: true},
		{name: "maximum length", title: strings.Repeat("a", 200), valid: true},
		{name: "two characters", title: "Hi", valid: false},
		{name: "empty", title: "", valid: false},
		{name: "whitespace only", title: "   ", valid: false},
		{name: "whitespace padded short title", title: "  ab  ", valid: false},
		{name: "over maximum length", title: strings.Repeat("a", 201), valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := ValidateTitle(tt.title)
			if (fe == nil) != tt.valid {
				t.Errorf("ValidateTitle(%q) = %v, want valid = %v", tt.title, fe, tt.valid)
			}
		})
	}
}

func TestValidateDescription(t *testing.T) {
	if fe := ValidateDescription(strings.Repeat("a", 1000)); fe != nil {
		t.Errorf("1000 characters should be valid, got %v", fe)
	}
	if fe := ValidateDescription(strings.Repeat("a", 1001)); fe == nil {
		t.Error("1001 characters should be invalid")
	}
	if fe := ValidateDescription(""); fe != nil {
		t.Errorf("empty description should be valid, got %v", fe)
	}
}

func TestValidateDueDate(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		dueDate *time.Time
		valid   bool
	}{
		{name: "no due date", dueDate: nil, valid: true},
		{name: "later today", dueDate: timePtr(time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)), valid: true},
		{name: "start of today", dueDate: timePtr(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)), valid: true},
		{name: "earlier today", dueDate: timePtr(time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)), valid: true},
		{name: "tomorrow", dueDate: timePtr(time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)), valid: true},
		{name: "yesterday", dueDate: timePtr(time.Date(2025, 6, 14, 23, 59, 59, 0, time.UTC)), valid: false},
		{name: "last year", dueDate: timePtr(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)), valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := ValidateDueDate(tt.dueDate, now)
			if (fe == nil) != tt.valid {
				t.Errorf("ValidateDueDate(%v) = %v, want valid = %v", tt.dueDate, fe, tt.valid)
			}
		})
	}
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	tests := []struct {
		name    string
		dueDate *time.Time
		status  Status
		want    bool
	}{
		{name: "past due and pending", dueDate: &yesterday, status: StatusPending, want: true},
		{name: "past due and in progress", dueDate: &yesterday, status: StatusInProgress, want: true},
		{name: "past due but completed", dueDate: &yesterday, status: StatusCompleted, want: false},
		{name: "due in the future", dueDate: &tomorrow, status: StatusPending, want: false},
		{name: "no due date", dueDate: nil, status: StatusPending, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &Task{DueDate: tt.dueDate, Status: tt.status}
			if got := task.IsOverdue(now); got != tt.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyStatus(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("entering completed stamps completion time", func(t *testing.T) {
		task := &Task{Status: StatusInProgress}
		task.ApplyStatus(StatusCompleted, now)

		if task.Status != StatusCompleted {
			t.Errorf("status = %v, want completed", task.Status)
		}
		if task.CompletedAt == nil || !task.CompletedAt.Equal(now) {
			t.Errorf("CompletedAt = %v, want %v", task.CompletedAt, now)
		}
	})

	t.Run("leaving completed clears completion time", func(t *testing.T) {
		completedAt := now.Add(-time.Hour)
		task := &Task{Status: StatusCompleted, CompletedAt: &completedAt}
		task.ApplyStatus(StatusPending, now)

		if task.Status != StatusPending {
			t.Errorf("status = %v, want pending", task.Status)
		}
		if task.CompletedAt != nil {
			t.Errorf("CompletedAt = %v, want nil", task.CompletedAt)
		}
	})

	t.Run("re-applying completed keeps original timestamp", func(t *testing.T) {
		completedAt := now.Add(-time.Hour)
		task := &Task{Status: StatusCompleted, CompletedAt: &completedAt}
		task.ApplyStatus(StatusCompleted, now)

		if task.CompletedAt == nil || !task.CompletedAt.Equal(completedAt) {
			t.Errorf("CompletedAt = %v, want unchanged %v", task.CompletedAt, completedAt)
		}
	})

	t.Run("re-applying pending is a no-op", func(t *testing.T) {
		task := &Task{Status: StatusPending}
		task.ApplyStatus(StatusPending, now)

		if task.Status != StatusPending || task.CompletedAt != nil {
			t.Errorf("task = %+v, want untouched pending task", task)
		}
	})

	t.Run("invariant holds across every transition", func(t *testing.T) {
		statuses := []Status{StatusPending, StatusInProgress, StatusCompleted}
		for _, from := range statuses {
			for _, to := range statuses {
				task := &Task{Status: StatusPending}
				task.ApplyStatus(from, now)
				task.ApplyStatus(to, now.Add(time.Minute))

				completed := task.Status == StatusCompleted
				stamped := task.CompletedAt != nil
				if completed != stamped {
					t.Errorf("transition %s -> %s: status completed = %v but CompletedAt set = %v",
						from, to, completed, stamped)
				}
			}
		}
	})
}

func TestPriorityColor(t *testing.T) {
	tests := []struct {
		priority Priority
		want     string
	}{
		{PriorityLow, "#10B981"},
		{PriorityMedium, "#F59E0B"},
		{PriorityHigh, "#EF4444"},
		{Priority("unknown"), "#F59E0B"},
	}

	for _, tt := range tests {
		if got := tt.priority.Color(); got != tt.want {
			t.Errorf("Priority(%q).Color() = %q, want %q", tt.priority, got, tt.want)
		}
	}
}

func TestValidationErrorAggregatesFields(t *testing.T) {
	verr := &ValidationError{}
	verr.Add(ValidateTitle("Hi"))
	verr.Add(ValidateDescription(strings.Repeat("a", 1001)))

	if len(verr.Fields) != 2 {
		t.Fatalf("expected 2 field errors, got %d", len(verr.Fields))
	}
	msg := verr.Error()
	if !strings.Contains(msg, "title") || !strings.Contains(msg, "description") {
		t.Errorf("error message should name both fields, got %q", msg)
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
