package tasks

import (
	"errors"
	"strings"
	"time"

	"github.com/example/task-api/domain/task"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 2000
)

// ErrAccessDenied is returned when a task exists but belongs to another user.
var ErrAccessDenied = errors.New("task access denied")

// ValidationError reports a field-level input failure caught before
// persistence.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Service holds the ownership and mutation rules for tasks. It is the one
// place business rules live; handlers above it only translate transport.
type Service struct {
	repo *Repository
}

// NewService creates a new task service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create persists a new task for the given user. The title is required and
// trimmed; a description that is empty after trimming is stored as absent.
func (s *Service) Create(userID int64, title string, description *string) (*task.Task, error) {
	title, err := normalizeTitle(title)
	if err != nil {
		return nil, err
	}

	description, err = normalizeDescription(description)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	t := &task.Task{
		Title:       title,
		Description: description,
		Completed:   false,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(t); err != nil {
		return nil, err
	}
	return t, nil
}

// List returns all tasks owned by the given user, newest first.
func (s *Service) List(userID int64) ([]*task.Task, error) {
	return s.repo.FindAllByUser(userID)
}

// Get fetches a task by id and checks ownership. The lookup deliberately
// runs without a user filter first: an absent row is ErrTaskNotFound, a row
// owned by someone else is ErrAccessDenied. Collapsing the two steps into
// one filtered query would make both cases indistinguishable to callers.
func (s *Service) Get(taskID uint, userID int64) (*task.Task, error) {
	t, err := s.repo.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, ErrAccessDenied
	}
	return t, nil
}

// Replace overwrites all mutable fields of a task. An omitted description
// clears the stored one; this is the full-update contract, unlike Patch.
func (s *Service) Replace(taskID uint, userID int64, title string, description *string, completed bool) (*task.Task, error) {
	t, err := s.Get(taskID, userID)
	if err != nil {
		return nil, err
	}

	title, err = normalizeTitle(title)
	if err != nil {
		return nil, err
	}

	description, err = normalizeDescription(description)
	if err != nil {
		return nil, err
	}

	t.Title = title
	t.Description = description
	t.Completed = completed
	t.UpdatedAt = time.Now()

	if err := s.repo.Update(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Patch overwrites only the supplied fields of a task; omitted fields keep
// their stored values. updated_at is refreshed even when no field changed.
func (s *Service) Patch(taskID uint, userID int64, title, description *string, completed *bool) (*task.Task, error) {
	t, err := s.Get(taskID, userID)
	if err != nil {
		return nil, err
	}

	if title != nil {
		normalized, err := normalizeTitle(*title)
		if err != nil {
			return nil, err
		}
		t.Title = normalized
	}
	if description != nil {
		normalized, err := normalizeDescription(description)
		if err != nil {
			return nil, err
		}
		t.Description = normalized
	}
	if completed != nil {
		t.Completed = *completed
	}

	t.UpdatedAt = time.Now()

	if err := s.repo.Update(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes a task after the existence and ownership checks.
func (s *Service) Delete(taskID uint, userID int64) error {
	t, err := s.Get(taskID, userID)
	if err != nil {
		return err
	}
	return s.repo.Delete(t.ID)
}

// normalizeTitle trims surrounding whitespace and enforces the 1-200
// character contract.
func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", &ValidationError{Field: "title", Message: "title is required"}
	}
	if len([]rune(title)) > maxTitleLength {
		return "", &ValidationError{Field: "title", Message: "title must be at most 200 characters"}
	}
	return title, nil
}

// normalizeDescription trims surrounding whitespace; empty after trimming
// normalizes to absent, not empty string.
func normalizeDescription(description *string) (*string, error) {
	if description == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*description)
	if trimmed == "" {
		return nil, nil
	}
	if len([]rune(trimmed)) > maxDescriptionLength {
		return nil, &ValidationError{Field: "description", Message: "description must be at most 2000 characters"}
	}
	return &trimmed, nil
}
