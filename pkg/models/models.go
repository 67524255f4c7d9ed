// Package models defines the persistent entities of the notedown service
// and the typed IDs that identify them.
//
// Both entities use typed UUID IDs ([UserID], [NoteID]) rather than raw
// strings or integers. The typed IDs carry every codec the storage backends
// need: JSON marshaling for the REST API, CBOR marshaling to SurrealDB's
// RecordID tag format, and driver.Valuer/sql.Scanner plus GormDataType for
// PostgreSQL. Handlers and stores therefore pass IDs around without caring
// which backend is active.
//
// The User's password hash is excluded from JSON serialization entirely;
// API responses expose users only through [User.Public].
package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a registered account. Users are created on registration and are
// never deleted in this scope. Email is unique and stored case-sensitively.
type User struct {
	ID           UserID    `gorm:"type:uuid;primary_key" json:"id"`
	Email        string    `gorm:"unique;not null" json:"email"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate hook to generate ID if not set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID.IsZero() {
		u.ID = NewUserID()
	}
	return nil
}

// PublicUser is the client-facing view of a User. The password hash never
// leaves the server; this is the only user shape handlers respond with.
type PublicUser struct {
	ID    UserID `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Public returns the client-facing view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
	}
}

// Note is a short text or rich-text document owned by exactly one user.
// OwnerID is immutable after creation; every read and mutation is scoped
// to the owner.
type Note struct {
	ID        NoteID    `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID   UserID    `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner     *User     `gorm:"foreignKey:OwnerID" json:"-"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook to generate ID if not set
func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID.IsZero() {
		n.ID = NewNoteID()
	}
	return nil
}
