package task

import (
	"errors"
	"fmt"
	"strings"

	domain "github.com/example/taskboard/domain/task"
	"gorm.io/gorm"
)

// ErrTaskNotFound is returned when a task is not found.
var ErrTaskNotFound = errors.New("task not found")

// ListQuery describes a scoped, filtered, paginated task listing. VisibleTo
// restricts the result to tasks created by or assigned to that user id; an
// empty VisibleTo means no scoping (admin). The visibility scope is applied
// before, and ANDed with, every user-supplied filter.
type ListQuery struct {
	VisibleTo      string
	Status         *domain.Status
	Priority       *domain.Priority
	AssignedUserID *string
	Search         string
	Page           int
	PageSize       int
}

// Repository handles task persistence using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new task Repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create saves a new task.
func (r *Repository) Create(task *domain.Task) error {
	if err := r.db.Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByID retrieves a task by its ID.
func (r *Repository) FindByID(id string) (*domain.Task, error) {
	var task domain.Task
	if err := r.db.First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

// Save persists all fields of an existing task, including cleared optional
// fields such as a removed assignee or completion timestamp.
func (r *Repository) Save(task *domain.Task) error {
	if err := r.db.Save(task).Error; err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

// Delete permanently removes a task by ID. There is no soft delete.
func (r *Repository) Delete(id string) error {
	result := r.db.Delete(&domain.Task{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// List returns one page of tasks matching the query plus the total number of
// matching tasks. Sort order is fixed: most recently created first. A page
// past the end yields an empty slice with the count still correct.
func (r *Repository) List(query ListQuery) ([]*domain.Task, int64, error) {
	filters := func(q *gorm.DB) *gorm.DB {
		if query.VisibleTo != "" {
			q = q.Where("created_by = ? OR assigned_user_id = ?", query.VisibleTo, query.VisibleTo)
		}
		if query.Status != nil {
			q = q.Where("status = ?", *query.Status)
		}
		if query.Priority != nil {
			q = q.Where("priority = ?", *query.Priority)
		}
		if query.AssignedUserID != nil {
			q = q.Where("assigned_user_id = ?", *query.AssignedUserID)
		}
		if query.Search != "" {
			pattern := "%" + strings.ToLower(query.Search) + "%"
			q = q.Where("lower(title) LIKE ? OR lower(description) LIKE ?", pattern, pattern)
		}
		return q
	}

	var total int64
	if err := r.db.Model(&domain.Task{}).Scopes(filters).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	offset := (query.Page - 1) * query.PageSize
	var tasks []*domain.Task
	if err := r.db.Scopes(filters).Order("created_at DESC").Offset(offset).Limit(query.PageSize).Find(&tasks).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}
