package models

import (
	"time"

	"github.com/gofrs/uuid"
)

type HistoryAction string

const (
	ActionCreated     HistoryAction = "CREATED"
	ActionUpdated     HistoryAction = "UPDATED"
	ActionCompleted   HistoryAction = "COMPLETED"
	ActionIncompleted HistoryAction = "INCOMPLETED"
	ActionDeleted     HistoryAction = "DELETED"
)

// HistoryEntry is an append-only audit record of a task mutation. TaskID is
// cleared when the originating task is deleted; the title snapshot survives.
type HistoryEntry struct {
	ID          uuid.UUID     `json:"id" gorm:"primaryKey;type:uuid"`
	UserID      uuid.UUID     `json:"user_id" gorm:"type:uuid;not null;index"`
	TaskID      *uuid.UUID    `json:"task_id" gorm:"type:uuid;index"`
	TaskTitle   string        `json:"task_title" gorm:"not null"`
	Action      HistoryAction `json:"action" gorm:"not null"`
	Description string        `json:"description"`
	CreatedAt   time.Time     `json:"created_at"`
}

func (a HistoryAction) Valid() bool {
	switch a {
	case ActionCreated, ActionUpdated, ActionCompleted, ActionIncompleted, ActionDeleted:
		return true
	}
	return false
}
