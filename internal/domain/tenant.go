package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tenant owns models and sessions. Requests authenticate as a tenant with the
// API key issued when it is created; only the key's hash is kept.
type Tenant struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	APIKeyHash string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
