package task

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	domain "github.com/example/taskboard/domain/task"
	domainuser "github.com/example/taskboard/domain/user"
	"github.com/example/taskboard/modules/auth"
	"github.com/google/uuid"
)

var (
	// ErrInvalidTaskID is returned when a task id is not a well-formed uuid.
	// Malformed ids are rejected before any storage lookup.
	ErrInvalidTaskID = errors.New("invalid task id")
	// ErrPermissionDenied is returned when the access policy rejects an action.
	ErrPermissionDenied = errors.New("access denied")
	// ErrAssigneeNotFound is returned when assignedUserId references no user.
	ErrAssigneeNotFound = errors.New("assigned user not found")
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	maxSearchLen    = 100
)

// Service implements the task operations: every method takes the acting user
// explicitly and gates the operation through the access policy before
// touching storage.
type Service struct {
	repo  *Repository
	users auth.UserPort
}

// NewService creates a new task Service.
func NewService(repo *Repository, users auth.UserPort) *Service {
	return &Service{
		repo:  repo,
		users: users,
	}
}

// Create validates the input and stores a new pending task created by the
// actor. Every violated field is reported, not just the first.
func (s *Service) Create(ctx context.Context, req CreateTaskRequest) (*TaskResponse, error) {
	now := time.Now()
	verr := &domain.ValidationError{}

	verr.Add(domain.ValidateTitle(req.Title))
	verr.Add(domain.ValidateDescription(req.Description))

	priority := domain.PriorityMedium
	if req.Priority != "" {
		priority = domain.Priority(req.Priority)
		if !priority.Valid() {
			verr.Add(&domain.FieldError{Field: "priority", Message: "invalid priority value"})
		}
	}

	dueDate, fe := parseDueDate(req.DueDate)
	if fe != nil {
		verr.Add(fe)
	} else {
		verr.Add(domain.ValidateDueDate(dueDate, now))
	}

	var assignedUserID *string
	if req.AssignedUserID != "" {
		if _, err := uuid.Parse(req.AssignedUserID); err != nil {
			verr.Add(&domain.FieldError{Field: "assignedUserId", Message: "invalid assigned user id"})
		} else {
			id := req.AssignedUserID
			assignedUserID = &id
		}
	}

	if verr.HasErrors() {
		return nil, verr
	}

	if assignedUserID != nil {
		if err := s.checkAssigneeExists(ctx, *assignedUserID); err != nil {
			return nil, err
		}
	}

	task := &domain.Task{
		ID:             uuid.New().String(),
		Title:          strings.TrimSpace(req.Title),
		Description:    strings.TrimSpace(req.Description),
		Status:         domain.StatusPending,
		Priority:       priority,
		DueDate:        dueDate,
		AssignedUserID: assignedUserID,
		CreatedBy:      req.Actor.ID,
	}

	if err := s.repo.Create(task); err != nil {
		return nil, err
	}

	return s.enrichOne(ctx, task)
}

// Get returns a single enriched task, provided the actor may read it.
func (s *Service) Get(ctx context.Context, req GetTaskRequest) (*TaskResponse, error) {
	if _, err := uuid.Parse(req.TaskID); err != nil {
		return nil, ErrInvalidTaskID
	}

	task, err := s.repo.FindByID(req.TaskID)
	if err != nil {
		return nil, err
	}

	if !domain.CanAccess(req.Actor, task, domain.ActionRead) {
		return nil, ErrPermissionDenied
	}

	return s.enrichOne(ctx, task)
}

// List produces a page of tasks visible to the actor. Non-admin actors only
// ever see tasks they created or are assigned to, regardless of the filters
// they supply.
func (s *Service) List(ctx context.Context, req ListTasksRequest) (*TaskPageResponse, error) {
	query, err := s.buildListQuery(req)
	if err != nil {
		return nil, err
	}

	tasks, total, err := s.repo.List(*query)
	if err != nil {
		return nil, err
	}

	users, err := s.resolveUsers(ctx, tasks)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	resp := &TaskPageResponse{
		Tasks: make([]TaskResponse, 0, len(tasks)),
	}
	for _, t := range tasks {
		resp.Tasks = append(resp.Tasks, toTaskResponse(t, users, now))
	}

	totalPages := int(math.Ceil(float64(total) / float64(query.PageSize)))
	resp.Pagination = Pagination{
		CurrentPage:  query.Page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: query.PageSize,
		HasNextPage:  query.Page < totalPages,
		HasPrevPage:  query.Page > 1,
	}

	return resp, nil
}

// Update applies the provided fields to a task the actor may update. Status
// changes flow through the same lifecycle transition as the dedicated
// change-status operation.
func (s *Service) Update(ctx context.Context, req UpdateTaskRequest) (*TaskResponse, error) {
	now := time.Now()
	verr := &domain.ValidationError{}

	if req.Title != nil {
		verr.Add(domain.ValidateTitle(*req.Title))
	}
	if req.Description != nil {
		verr.Add(domain.ValidateDescription(*req.Description))
	}
	if req.Status != nil && !domain.Status(*req.Status).Valid() {
		verr.Add(&domain.FieldError{Field: "status", Message: "invalid status value"})
	}
	if req.Priority != nil && !domain.Priority(*req.Priority).Valid() {
		verr.Add(&domain.FieldError{Field: "priority", Message: "invalid priority value"})
	}

	var dueDate *time.Time
	if req.DueDate != nil && *req.DueDate != "" {
		var fe *domain.FieldError
		dueDate, fe = parseDueDate(*req.DueDate)
		if fe != nil {
			verr.Add(fe)
		} else {
			verr.Add(domain.ValidateDueDate(dueDate, now))
		}
	}

	if req.AssignedUserID != nil && *req.AssignedUserID != "" {
		if _, err := uuid.Parse(*req.AssignedUserID); err != nil {
			verr.Add(&domain.FieldError{Field: "assignedUserId", Message: "invalid assigned user id"})
		}
	}

	if verr.HasErrors() {
		return nil, verr
	}

	if _, err := uuid.Parse(req.TaskID); err != nil {
		return nil, ErrInvalidTaskID
	}

	task, err := s.repo.FindByID(req.TaskID)
	if err != nil {
		return nil, err
	}

	if !domain.CanAccess(req.Actor, task, domain.ActionUpdate) {
		return nil, ErrPermissionDenied
	}

	if req.AssignedUserID != nil && *req.AssignedUserID != "" {
		if err := s.checkAssigneeExists(ctx, *req.AssignedUserID); err != nil {
			return nil, err
		}
	}

	if req.Title != nil {
		task.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		task.Description = strings.TrimSpace(*req.Description)
	}
	if req.Priority != nil {
		task.Priority = domain.Priority(*req.Priority)
	}
	if req.DueDate != nil {
		task.DueDate = dueDate // nil clears the due date
	}
	if req.AssignedUserID != nil {
		if *req.AssignedUserID == "" {
			task.AssignedUserID = nil
		} else {
			id := *req.AssignedUserID
			task.AssignedUserID = &id
		}
	}
	if req.Status != nil {
		task.ApplyStatus(domain.Status(*req.Status), now)
	}

	if err := s.repo.Save(task); err != nil {
		return nil, err
	}

	return s.enrichOne(ctx, task)
}

// Delete permanently removes a task. Only the creator or an admin may delete;
// a mere assignee may not.
func (s *Service) Delete(_ context.Context, req DeleteTaskRequest) (*DeleteTaskResponse, error) {
	if _, err := uuid.Parse(req.TaskID); err != nil {
		return nil, ErrInvalidTaskID
	}

	task, err := s.repo.FindByID(req.TaskID)
	if err != nil {
		return nil, err
	}

	if !domain.CanAccess(req.Actor, task, domain.ActionDelete) {
		return nil, ErrPermissionDenied
	}

	if err := s.repo.Delete(task.ID); err != nil {
		return nil, err
	}

	return &DeleteTaskResponse{Deleted: true, ID: task.ID}, nil
}

// ChangeStatus transitions a task to a new status and reports the completion
// timestamp effect.
func (s *Service) ChangeStatus(_ context.Context, req ChangeStatusRequest) (*ChangeStatusResponse, error) {
	status := domain.Status(req.Status)
	if !status.Valid() {
		verr := &domain.ValidationError{}
		verr.Add(&domain.FieldError{Field: "status", Message: "invalid status value"})
		return nil, verr
	}

	if _, err := uuid.Parse(req.TaskID); err != nil {
		return nil, ErrInvalidTaskID
	}

	task, err := s.repo.FindByID(req.TaskID)
	if err != nil {
		return nil, err
	}

	if !domain.CanAccess(req.Actor, task, domain.ActionChangeStatus) {
		return nil, ErrPermissionDenied
	}

	task.ApplyStatus(status, time.Now())

	if err := s.repo.Save(task); err != nil {
		return nil, err
	}

	return &ChangeStatusResponse{
		ID:          task.ID,
		Status:      string(task.Status),
		CompletedAt: task.CompletedAt,
	}, nil
}

// buildListQuery validates the filter parameters and resolves the visibility
// scope. Invalid filter values are reported together as a validation error.
func (s *Service) buildListQuery(req ListTasksRequest) (*ListQuery, error) {
	verr := &domain.ValidationError{}
	query := &ListQuery{
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	if req.Status != "" {
		status := domain.Status(req.Status)
		if !status.Valid() {
			verr.Add(&domain.FieldError{Field: "status", Message: "invalid status value"})
		} else {
			query.Status = &status
		}
	}
	if req.Priority != "" {
		priority := domain.Priority(req.Priority)
		if !priority.Valid() {
			verr.Add(&domain.FieldError{Field: "priority", Message: "invalid priority value"})
		} else {
			query.Priority = &priority
		}
	}
	if req.AssignedUserID != "" {
		if _, err := uuid.Parse(req.AssignedUserID); err != nil {
			verr.Add(&domain.FieldError{Field: "assignedUserId", Message: "invalid assigned user id"})
		} else {
			id := req.AssignedUserID
			query.AssignedUserID = &id
		}
	}
	if len(req.Search) > maxSearchLen {
		verr.Add(&domain.FieldError{Field: "search", Message: "search term must be 1-100 characters"})
	} else {
		query.Search = strings.TrimSpace(req.Search)
	}

	if query.Page == 0 {
		query.Page = 1
	} else if query.Page < 1 {
		verr.Add(&domain.FieldError{Field: "page", Message: "page must be a positive integer"})
	}
	if query.PageSize == 0 {
		query.PageSize = defaultPageSize
	} else if query.PageSize < 1 || query.PageSize > maxPageSize {
		verr.Add(&domain.FieldError{Field: "pageSize", Message: "page size must be between 1 and 100"})
	}

	if verr.HasErrors() {
		return nil, verr
	}

	// Visibility scoping happens before, and in addition to, any filter the
	// actor supplied.
	if req.Actor.Role != domainuser.RoleAdmin {
		query.VisibleTo = req.Actor.ID
	}

	return query, nil
}

// checkAssigneeExists verifies the referenced user exists via the auth module.
func (s *Service) checkAssigneeExists(ctx context.Context, userID string) error {
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		if strings.Contains(err.Error(), auth.ErrUserNotFound.Error()) ||
			strings.Contains(err.Error(), auth.ErrInvalidUserID.Error()) {
			return ErrAssigneeNotFound
		}
		return fmt.Errorf("failed to look up assignee: %w", err)
	}
	return nil
}

// enrichOne resolves the creator and assignee summaries for a single task.
func (s *Service) enrichOne(ctx context.Context, task *domain.Task) (*TaskResponse, error) {
	users, err := s.resolveUsers(ctx, []*domain.Task{task})
	if err != nil {
		return nil, err
	}
	resp := toTaskResponse(task, users, time.Now())
	return &resp, nil
}

// resolveUsers batches the creator and assignee lookups for a page of tasks
// into a single call, deduplicating ids first.
func (s *Service) resolveUsers(ctx context.Context, tasks []*domain.Task) (map[string]domainuser.Summary, error) {
	seen := make(map[string]struct{}, len(tasks)*2)
	ids := make([]string, 0, len(tasks)*2)
	for _, t := range tasks {
		if _, ok := seen[t.CreatedBy]; !ok {
			seen[t.CreatedBy] = struct{}{}
			ids = append(ids, t.CreatedBy)
		}
		if t.AssignedUserID != nil {
			if _, ok := seen[*t.AssignedUserID]; !ok {
				seen[*t.AssignedUserID] = struct{}{}
				ids = append(ids, *t.AssignedUserID)
			}
		}
	}
	if len(ids) == 0 {
		return map[string]domainuser.Summary{}, nil
	}

	users, err := s.users.GetUsers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user summaries: %w", err)
	}
	return users, nil
}

// parseDueDate accepts an RFC 3339 timestamp or a bare YYYY-MM-DD date. An
// empty string means no due date.
func parseDueDate(value string) (*time.Time, *domain.FieldError) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", value, time.Local); err == nil {
		// A bare date means end of that day, so "due today" stays valid all day.
		t = t.Add(24*time.Hour - time.Nanosecond)
		return &t, nil
	}
	return nil, &domain.FieldError{Field: "dueDate", Message: "invalid due date format"}
}
