package models

import (
	"time"

	"github.com/google/uuid"
)

// Entity is implemented by every persisted content type
type Entity interface {
	GetID() string
	SetID(id string)
	Touch(now time.Time)
}

// Record holds the identity and audit fields shared by all entities.
// Field names are identical across the SQL and document backends.
type Record struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"column:updated_at" bson:"updated_at"`
}

// GetID returns the record identity
func (r *Record) GetID() string {
	return r.ID
}

// SetID sets the record identity
func (r *Record) SetID(id string) {
	r.ID = id
}

// Touch stamps the record as written at now. CreatedAt is only set once.
func (r *Record) Touch(now time.Time) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
}

// NewID generates a store identity for a new record
func NewID() string {
	return uuid.New().String()
}

// Status is the publication state of posts and career entries
type Status string

const (
	StatusDraft     Status = "Draft"
	StatusPublished Status = "Published"
)

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}
