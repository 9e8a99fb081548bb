package models

import (
	"time"

	"github.com/gofrs/uuid"
)

// Notification alerts the user about a very-important task approaching its
// due date. Created server-side by the due-soon scan job.
type Notification struct {
	ID        uuid.UUID    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID    uuid.UUID    `json:"user_id" gorm:"type:uuid;not null;index"`
	TaskID    uuid.UUID    `json:"task_id" gorm:"type:uuid;not null;index"`
	Message   string       `json:"message" gorm:"not null"`
	Priority  TaskPriority `json:"priority" gorm:"not null"`
	ReadAt    *time.Time   `json:"read_at"`
	CreatedAt time.Time    `json:"created_at"`
}

func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
