package task

import "time"

// Task represents a to-do item owned by exactly one user.
//
// UserID is fixed at creation from the authenticated caller and never
// changes afterward; the composite index keeps per-user listing by
// creation time efficient.
type Task struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description *string   `gorm:"size:2000" json:"description"`
	Completed   bool      `gorm:"not null;default:false" json:"completed"`
	UserID      int64     `gorm:"not null;index:idx_tasks_user;index:idx_tasks_user_created,priority:1" json:"user_id"`
	CreatedAt   time.Time `gorm:"index:idx_tasks_user_created,priority:2" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}
