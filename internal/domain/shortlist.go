package domain

import (
	"time"

	"github.com/google/uuid"
)

type ShortlistEntry struct {
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	CandidateID uuid.UUID `json:"candidate_id" db:"candidate_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Role names understood by the role gateway.
const (
	RoleAdmin = "admin"
)
