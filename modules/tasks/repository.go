package tasks

import (
	"errors"
	"fmt"

	"github.com/example/task-api/domain/task"
	"gorm.io/gorm"
)

// ErrTaskNotFound is returned when no task row exists for a given id.
var ErrTaskNotFound = errors.New("task not found")

// Repository provides access to task storage using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create saves a new task to the database.
func (r *Repository) Create(t *task.Task) error {
	if err := r.db.Create(t).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByID retrieves a task by id alone, without an owner filter. The
// service layer compares owners afterwards; filtering here would collapse
// "absent" and "foreign" into a single not-found.
func (r *Repository) FindByID(id uint) (*task.Task, error) {
	var t task.Task
	if err := r.db.First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &t, nil
}

// FindAllByUser retrieves all tasks owned by the given user, newest first.
// Id descending breaks creation-time ties so the order stays stable.
func (r *Repository) FindAllByUser(userID int64) ([]*task.Task, error) {
	var ts []*task.Task
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&ts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return ts, nil
}

// Update persists the mutable columns of an existing task. The explicit
// column list makes a nil description write NULL instead of being skipped
// as a zero value, and keeps user_id and created_at out of the statement.
func (r *Repository) Update(t *task.Task) error {
	result := r.db.Model(&task.Task{}).
		Where("id = ?", t.ID).
		Select("title", "description", "completed", "updated_at").
		Updates(t)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Delete removes a task row by id. Hard delete, no tombstone.
func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&task.Task{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
