package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the base interface for all domain entities
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity provides common fields for all entities
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// NewBaseEntity creates a new base entity with generated ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Actor identifies the person performing a mutating operation.
// Audit attribution is always threaded explicitly through calls; there is
// no ambient current-user context.
type Actor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewActor creates an actor with the given display name and email
func NewActor(name, email string) Actor {
	return Actor{Name: name, Email: email}
}

// IsZero returns true if the actor carries no identity
func (a Actor) IsZero() bool {
	return a.Name == "" && a.Email == ""
}

// String returns a human-readable representation for log entries
func (a Actor) String() string {
	if a.Email == "" {
		return a.Name
	}
	if a.Name == "" {
		return a.Email
	}
	return a.Name + " <" + a.Email + ">"
}
