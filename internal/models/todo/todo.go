package todo

import (
	"time"

	"github.com/google/uuid"
)

type Todo struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Status      Status     `json:"status" db:"status"`
	ParentID    *uuid.UUID `json:"parent_id" db:"parent_id"`
	UserID      string     `json:"user_id" db:"user_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" db:"updated_at,omitempty"`
}

type Status string

const StatusPending Status = "pending"
const StatusCompleted Status = "completed"

// поддерживается ровно один уровень вложенности:
// подзадача всегда ссылается на задачу верхнего уровня
func (t *Todo) IsTopLevel() bool {
	return t.ParentID == nil
}

func ValidStatus(s Status) bool {
	return s == StatusPending || s == StatusCompleted
}
