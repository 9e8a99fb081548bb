package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid"
)

type TaskStatus string

const (
	StatusNotStarted TaskStatus = "NOT_STARTED"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusCompleted  TaskStatus = "COMPLETED"
)

type TaskPriority string

const (
	PriorityLow           TaskPriority = "LOW"
	PriorityMedium        TaskPriority = "MEDIUM"
	PriorityHigh          TaskPriority = "HIGH"
	PriorityVeryImportant TaskPriority = "VERY_IMPORTANT"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
	MaxTags              = 5
)

// StandardTags is the fixed vocabulary a task may be tagged with.
var StandardTags = []string{
	"work", "personal", "shopping", "health",
	"finance", "study", "home", "errands",
}

var (
	ErrEmptyTitle         = errors.New("title must not be empty")
	ErrTitleTooLong       = fmt.Errorf("title must be at most %d characters", MaxTitleLength)
	ErrDescriptionTooLong = fmt.Errorf("description must be at most %d characters", MaxDescriptionLength)
	ErrTooManyTags        = fmt.Errorf("a task may have at most %d tags", MaxTags)
	ErrDuplicateTag       = errors.New("duplicate tag")
	ErrUnknownTag         = errors.New("tag is not in the standard vocabulary")
	ErrInvalidStatus      = errors.New("invalid task status")
	ErrInvalidPriority    = errors.New("invalid task priority")
)

type TagList []string

type Task struct {
	ID          uuid.UUID    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID      uuid.UUID    `json:"user_id" gorm:"type:uuid;not null;index"`
	Title       string       `json:"title" gorm:"not null"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status" gorm:"not null;default:'NOT_STARTED'"`
	Priority    TaskPriority `json:"priority" gorm:"not null;default:'MEDIUM'"`
	Tags        TagList      `json:"tags" gorm:"type:text;serializer:json"`
	DueDate     *time.Time   `json:"due_date"`
	CompletedAt *time.Time   `json:"completed_at"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityVeryImportant:
		return true
	}
	return false
}

func IsStandardTag(tag string) bool {
	for _, t := range StandardTags {
		if t == tag {
			return true
		}
	}
	return false
}

// Validate checks the task invariants before it is persisted.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if len([]rune(t.Title)) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if len([]rune(t.Description)) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if !t.Status.Valid() {
		return ErrInvalidStatus
	}
	if !t.Priority.Valid() {
		return ErrInvalidPriority
	}
	if len(t.Tags) > MaxTags {
		return ErrTooManyTags
	}
	seen := make(map[string]bool, len(t.Tags))
	for _, tag := range t.Tags {
		if seen[tag] {
			return fmt.Errorf("%w: %s", ErrDuplicateTag, tag)
		}
		seen[tag] = true
		if !IsStandardTag(tag) {
			return fmt.Errorf("%w: %s", ErrUnknownTag, tag)
		}
	}
	return nil
}

var urgentKeywords = []string{"urgent", "asap", "important", "critical", "deadline"}

// ClassifyPriority derives a priority from title keywords and due-date
// proximity. Used when the caller did not choose a priority explicitly.
func ClassifyPriority(title string, dueDate *time.Time, now time.Time) TaskPriority {
	lower := strings.ToLower(title)
	urgent := false
	for _, kw := range urgentKeywords {
		if strings.Contains(lower, kw) {
			urgent = true
			break
		}
	}

	if dueDate != nil {
		until := dueDate.Sub(now)
		switch {
		case until <= 24*time.Hour:
			return PriorityVeryImportant
		case until <= 72*time.Hour:
			if urgent {
				return PriorityVeryImportant
			}
			return PriorityHigh
		case urgent:
			return PriorityHigh
		}
		return PriorityMedium
	}

	if urgent {
		return PriorityHigh
	}
	return PriorityMedium
}

// Complete marks the task completed and stamps the completion time.
func (t *Task) Complete(now time.Time) {
	t.Status = StatusCompleted
	t.CompletedAt = &now
}

// Incomplete reverts a completed task back to in-progress.
func (t *Task) Incomplete() {
	t.Status = StatusInProgress
	t.CompletedAt = nil
}

// DueSoon reports whether the task falls inside the due-date warning window.
func (t *Task) DueSoon(now time.Time, window time.Duration) bool {
	if t.DueDate == nil || t.Status == StatusCompleted {
		return false
	}
	until := t.DueDate.Sub(now)
	return until >= 0 && until <= window
}
