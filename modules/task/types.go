package task

import (
	"time"

	domain "github.com/example/taskboard/domain/task"
	"github.com/example/taskboard/domain/user"
)

// CreateTaskRequest represents a task creation request. New tasks always
// start in the pending status with the actor as creator.
type CreateTaskRequest struct {
	Actor          user.Actor `json:"actor"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Priority       string     `json:"priority,omitempty"`
	DueDate        string     `json:"dueDate,omitempty"`
	AssignedUserID string     `json:"assignedUserId,omitempty"`
}

// GetTaskRequest represents a single task lookup.
type GetTaskRequest struct {
	Actor  user.Actor `json:"actor"`
	TaskID string     `json:"task_id"`
}

// ListTasksRequest carries the filter parameters for a task listing. Optional
// filters are omitted when empty; DueDate and enum values travel as strings
// and are validated by the service.
type ListTasksRequest struct {
	Actor          user.Actor `json:"actor"`
	Status         string     `json:"status,omitempty"`
	Priority       string     `json:"priority,omitempty"`
	AssignedUserID string     `json:"assignedUserId,omitempty"`
	Search         string     `json:"search,omitempty"`
	Page           int        `json:"page,omitempty"`
	PageSize       int        `json:"pageSize,omitempty"`
}

// UpdateTaskRequest represents a task update. Nil pointer fields are left
// unchanged; an empty DueDate or AssignedUserID string clears the field.
type UpdateTaskRequest struct {
	Actor          user.Actor `json:"actor"`
	TaskID         string     `json:"task_id"`
	Title          *string    `json:"title,omitempty"`
	Description    *string    `json:"description,omitempty"`
	Status         *string    `json:"status,omitempty"`
	Priority       *string    `json:"priority,omitempty"`
	DueDate        *string    `json:"dueDate,omitempty"`
	AssignedUserID *string    `json:"assignedUserId,omitempty"`
}

// DeleteTaskRequest represents a task deletion request.
type DeleteTaskRequest struct {
	Actor  user.Actor `json:"actor"`
	TaskID string     `json:"task_id"`
}

// DeleteTaskResponse confirms a deletion.
type DeleteTaskResponse struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// ChangeStatusRequest represents a dedicated status transition request.
type ChangeStatusRequest struct {
	Actor  user.Actor `json:"actor"`
	TaskID string     `json:"task_id"`
	Status string     `json:"status"`
}

// ChangeStatusResponse carries the new status and the completion timestamp
// effect of the transition.
type ChangeStatusResponse struct {
	ID          string     `json:"id"`
	Status      string     `json:"status"`
	CompletedAt *time.Time `json:"completedAt"`
}

// TaskResponse is a task record enriched with denormalized creator and
// assignee summaries and the derived read-time properties.
type TaskResponse struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Description    string        `json:"description,omitempty"`
	Status         string        `json:"status"`
	Priority       string        `json:"priority"`
	PriorityColor  string        `json:"priorityColor"`
	DueDate        *time.Time    `json:"dueDate"`
	AssignedUserID *string       `json:"assignedUserId"`
	CreatedBy      string        `json:"createdBy"`
	CompletedAt    *time.Time    `json:"completedAt"`
	IsOverdue      bool          `json:"isOverdue"`
	AssignedUser   *user.Summary `json:"assignedUser"`
	Creator        *user.Summary `json:"creator"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// Pagination is the metadata returned alongside every task page.
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
	HasNextPage  bool  `json:"hasNextPage"`
	HasPrevPage  bool  `json:"hasPrevPage"`
}

// TaskPageResponse is one page of tasks plus pagination metadata.
type TaskPageResponse struct {
	Tasks      []TaskResponse `json:"tasks"`
	Pagination Pagination     `json:"pagination"`
}

// SingleTaskResponse wraps one enriched task.
type SingleTaskResponse struct {
	Task TaskResponse `json:"task"`
}

func toTaskResponse(t *domain.Task, users map[string]user.Summary, now time.Time) TaskResponse {
	resp := TaskResponse{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		Status:         string(t.Status),
		Priority:       string(t.Priority),
		PriorityColor:  t.Priority.Color(),
		DueDate:        t.DueDate,
		AssignedUserID: t.AssignedUserID,
		CreatedBy:      t.CreatedBy,
		CompletedAt:    t.CompletedAt,
		IsOverdue:      t.IsOverdue(now),
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
	if creator, ok := users[t.CreatedBy]; ok {
		resp.Creator = &creator
	}
	if t.AssignedUserID != nil {
		if assignee, ok := users[*t.AssignedUserID]; ok {
			resp.AssignedUser = &assignee
		}
	}
	return resp
}
