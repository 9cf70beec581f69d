package tasks

import (
	"errors"
	"testing"
	"time"

	"github.com/example/task-api/domain/task"
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

	if err := db.AutoMigrate(&task.Task{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func strPtr(s string) *string {
	return &s
}

func TestRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	now := time.Now()
	tk := &task.Task{
		Title:       "Buy milk",
		Description: strPtr("Two liters"),
		UserID:      1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := repo.Create(tk); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if tk.ID == 0 {
		t.Error("expected generated id, got 0")
	}

	var found task.Task
	if err := db.First(&found, "id = ?", tk.ID).Error; err != nil {
		t.Fatalf("failed to find created task: %v", err)
	}
	if found.Title != "Buy milk" {
		t.Errorf("expected title %q, got %q", "Buy milk", found.Title)
	}
	if found.Description == nil || *found.Description != "Two liters" {
		t.Errorf("expected description %q, got %v", "Two liters", found.Description)
	}
	if found.Completed {
		t.Error("expected completed to be false")
	}
	if found.UserID != 1 {
		t.Errorf("expected user_id 1, got %d", found.UserID)
	}
}

func TestRepository_FindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	tk := &task.Task{Title: "Existing", UserID: 1}
	if err := db.Create(tk).Error; err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}

	t.Run("existing task", func(t *testing.T) {
		found, err := repo.FindByID(tk.ID)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if found.ID != tk.ID {
			t.Errorf("expected id %d, got %d", tk.ID, found.ID)
		}
		if found.Title != "Existing" {
			t.Errorf("expected title %q, got %q", "Existing", found.Title)
		}
	})

	t.Run("non-existent task", func(t *testing.T) {
		_, err := repo.FindByID(99999)
		if !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})
}

func TestRepository_FindAllByUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	base := time.Now().Add(-time.Hour)

	// Three tasks for user 1 at t1 < t2 < t3, one for user 2.
	for i := 1; i <= 3; i++ {
		tk := &task.Task{
			Title:     "Task " + string(rune('0'+i)),
			UserID:    1,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.Create(tk).Error; err != nil {
			t.Fatalf("failed to create test task: %v", err)
		}
	}
	other := &task.Task{Title: "Other user's task", UserID: 2, CreatedAt: base, UpdatedAt: base}
	if err := db.Create(other).Error; err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}

	got, err := repo.FindAllByUser(1)
	if err != nil {
		t.Fatalf("FindAllByUser() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(got))
	}

	// Newest first.
	want := []string{"Task 3", "Task 2", "Task 1"}
	for i, tk := range got {
		if tk.Title != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], tk.Title)
		}
		if tk.UserID != 1 {
			t.Errorf("position %d: foreign task leaked into list (user_id=%d)", i, tk.UserID)
		}
	}
}

func TestRepository_FindAllByUser_TieBreak(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	at := time.Now().Truncate(time.Second)
	first := &task.Task{Title: "First inserted", UserID: 1, CreatedAt: at, UpdatedAt: at}
	second := &task.Task{Title: "Second inserted", UserID: 1, CreatedAt: at, UpdatedAt: at}
	for _, tk := range []*task.Task{first, second} {
		if err := db.Create(tk).Error; err != nil {
			t.Fatalf("failed to create test task: %v", err)
		}
	}

	got, err := repo.FindAllByUser(1)
	if err != nil {
		t.Fatalf("FindAllByUser() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(got))
	}

	// Equal created_at resolves by id descending.
	if got[0].ID != second.ID {
		t.Errorf("expected higher id first, got id %d", got[0].ID)
	}
}

func TestRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	tk := &task.Task{Title: "Original", Description: strPtr("Keep me"), UserID: 1}
	if err := db.Create(tk).Error; err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}

	t.Run("update existing task", func(t *testing.T) {
		tk.Title = "Updated"
		tk.Completed = true
		tk.UpdatedAt = time.Now()

		if err := repo.Update(tk); err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		var found task.Task
		if err := db.First(&found, "id = ?", tk.ID).Error; err != nil {
			t.Fatalf("failed to find updated task: %v", err)
		}
		if found.Title != "Updated" {
			t.Errorf("expected title %q, got %q", "Updated", found.Title)
		}
		if !found.Completed {
			t.Error("expected completed to be true")
		}
	})

	t.Run("nil description writes NULL", func(t *testing.T) {
		tk.Description = nil
		tk.UpdatedAt = time.Now()

		if err := repo.Update(tk); err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		var found task.Task
		if err := db.First(&found, "id = ?", tk.ID).Error; err != nil {
			t.Fatalf("failed to find updated task: %v", err)
		}
		if found.Description != nil {
			t.Errorf("expected description cleared, got %q", *found.Description)
		}
	})

	t.Run("update non-existent task", func(t *testing.T) {
		missing := &task.Task{ID: 99999, Title: "Should not work"}
		if err := repo.Update(missing); !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})
}

func TestRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	tk := &task.Task{Title: "To be deleted", UserID: 1}
	if err := db.Create(tk).Error; err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}

	t.Run("delete existing task", func(t *testing.T) {
		if err := repo.Delete(tk.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}

		// Hard delete: the row is gone, no tombstone.
		var count int64
		if err := db.Model(&task.Task{}).Where("id = ?", tk.ID).Count(&count).Error; err != nil {
			t.Fatalf("failed to count rows: %v", err)
		}
		if count != 0 {
			t.Errorf("expected row removed, found %d rows", count)
		}

		if _, err := repo.FindByID(tk.ID); !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound after delete, got %v", err)
		}
	})

	t.Run("delete non-existent task", func(t *testing.T) {
		if err := repo.Delete(99999); !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})
}
