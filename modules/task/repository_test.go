package task

import (
	"errors"
	"testing"
	"time"

	domain "github.com/example/taskboard/domain/task"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func newTestTask(createdBy string, mutate func(*domain.Task)) *domain.Task {
	task := &domain.Task{
		ID:        uuid.New().String(),
		Title:     "Test task",
		Status:    domain.StatusPending,
		Priority:  domain.PriorityMedium,
		CreatedBy: createdBy,
	}
	if mutate != nil {
		mutate(task)
	}
	return task
}

func TestRepository_CreateAndFind(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	task := newTestTask("user-1", func(task *domain.Task) {
		task.Title = "Write release notes"
		task.Priority = domain.PriorityHigh
	})
	if err := repo.Create(task); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	found, err := repo.FindByID(task.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found.Title != "Write release notes" {
		t.Errorf("title = %q, want %q", found.Title, "Write release notes")
	}
	if found.Priority != domain.PriorityHigh {
		t.Errorf("priority = %q, want high", found.Priority)
	}
}

func TestRepository_FindByID_NotFound(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	_, err := repo.FindByID(uuid.New().String())
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestRepository_SaveClearsOptionalFields(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	completedAt := time.Now()
	assignee := "user-2"
	task := newTestTask("user-1", func(task *domain.Task) {
		task.Status = domain.StatusCompleted
		task.CompletedAt = &completedAt
		task.AssignedUserID = &assignee
	})
	if err := repo.Create(task); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	task.Status = domain.StatusPending
	task.CompletedAt = nil
	task.AssignedUserID = nil
	if err := repo.Save(task); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	found, err := repo.FindByID(task.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found.CompletedAt != nil {
		t.Errorf("CompletedAt = %v, want nil after save", found.CompletedAt)
	}
	if found.AssignedUserID != nil {
		t.Errorf("AssignedUserID = %v, want nil after save", found.AssignedUserID)
	}
}

func TestRepository_Delete(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	task := newTestTask("user-1", nil)
	if err := repo.Create(task); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.Delete(task.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := repo.FindByID(task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound after delete, got %v", err)
	}

	if err := repo.Delete(task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("deleting twice should report ErrTaskNotFound, got %v", err)
	}
}

func TestRepository_List_VisibilityScope(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	me := "user-me"
	other := "user-other"

	created := newTestTask(me, nil)
	assigned := newTestTask(other, func(task *domain.Task) {
		task.AssignedUserID = &me
	})
	unrelated := newTestTask(other, nil)
	for _, task := range []*domain.Task{created, assigned, unrelated} {
		if err := repo.Create(task); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	tasks, total, err := repo.List(ListQuery{VisibleTo: me, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
	for _, task := range tasks {
		if task.CreatedBy != me && (task.AssignedUserID == nil || *task.AssignedUserID != me) {
			t.Errorf("task %s is neither created by nor assigned to %s", task.ID, me)
		}
	}

	// No scoping returns everything.
	_, total, err = repo.List(ListQuery{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 3 {
		t.Errorf("unscoped total = %d, want 3", total)
	}
}

func TestRepository_List_SearchIsCaseInsensitive(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	report := newTestTask("user-1", func(task *domain.Task) {
		task.Title = "Quarterly Report"
	})
	inDescription := newTestTask("user-1", func(task *domain.Task) {
		task.Title = "Misc chores"
		task.Description = "Compile the REPORT for finance"
	})
	other := newTestTask("user-1", func(task *domain.Task) {
		task.Title = "Water the plants"
	})
	for _, task := range []*domain.Task{report, inDescription, other} {
		if err := repo.Create(task); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	tasks, total, err := repo.List(ListQuery{Search: "report", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 2 || len(tasks) != 2 {
		t.Fatalf("total = %d, len = %d, want 2 matches", total, len(tasks))
	}
	for _, task := range tasks {
		if task.ID == other.ID {
			t.Errorf("unexpected match %q", task.Title)
		}
	}
}

func TestRepository_List_FiltersAndScopeCombine(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	me := "user-me"
	other := "user-other"

	mine := newTestTask(me, func(task *domain.Task) {
		task.Status = domain.StatusInProgress
	})
	// Matches the status filter but is outside the visibility scope.
	foreign := newTestTask(other, func(task *domain.Task) {
		task.Status = domain.StatusInProgress
	})
	minePending := newTestTask(me, nil)
	for _, task := range []*domain.Task{mine, foreign, minePending} {
		if err := repo.Create(task); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	status := domain.StatusInProgress
	tasks, total, err := repo.List(ListQuery{VisibleTo: me, Status: &status, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 1 || len(tasks) != 1 {
		t.Fatalf("total = %d, len = %d, want exactly 1", total, len(tasks))
	}
	if tasks[0].ID != mine.ID {
		t.Errorf("got task %s, want %s", tasks[0].ID, mine.ID)
	}
}

func TestRepository_List_SortsNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	base := time.Now().Add(-time.Hour)
	var ids []string
	for i := 0; i < 3; i++ {
		task := newTestTask("user-1", nil)
		task.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := db.Create(task).Error; err != nil {
			t.Fatalf("failed to seed task: %v", err)
		}
		ids = append(ids, task.ID)
	}

	tasks, _, err := repo.List(ListQuery{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("len = %d, want 3", len(tasks))
	}
	// Most recently created first.
	if tasks[0].ID != ids[2] || tasks[2].ID != ids[0] {
		t.Errorf("unexpected order: got [%s %s %s], want newest first", tasks[0].ID, tasks[1].ID, tasks[2].ID)
	}
}

func TestRepository_List_PageBeyondEnd(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	for i := 0; i < 3; i++ {
		if err := repo.Create(newTestTask("user-1", nil)); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	tasks, total, err := repo.List(ListQuery{Page: 5, PageSize: 2})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("len = %d, want empty page", len(tasks))
	}
	if total != 3 {
		t.Errorf("total = %d, want 3 even for an empty page", total)
	}
}
