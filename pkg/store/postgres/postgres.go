// Package postgres provides the PostgreSQL implementation of the
// [github.com/notedown/notedown/pkg/store.Store] interface using GORM.
//
// GORM handles SQL generation, connection pooling, and schema migration.
// Each operation is scoped to the request context through WithContext so
// cancelled requests release their connection promptly. Individual
// operations are wrapped in implicit transactions by GORM; the service's
// contract is last-write-wins for overlapping updates, so no explicit
// locking or optimistic concurrency is layered on top.
//
// Schema is managed through [PostgresStore.Migrate], which runs GORM's
// AutoMigrate for the User and Note models. AutoMigrate only adds schema
// elements and is safe to run on every deployment.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/notedown/notedown/pkg/models"
	"github.com/notedown/notedown/pkg/store"
)

// PostgresStore implements the Store interface using PostgreSQL with GORM.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore connects to PostgreSQL with the given DSN.
func NewPostgresStore(dsn string) (store.Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Migrate creates or updates the users and notes tables, their indexes,
// and the owner foreign key. Only additive; never drops data.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Note{},
	)
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// User operations

func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *PostgresStore) GetUser(ctx context.Context, id models.UserID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Note operations

func (s *PostgresStore) CreateNote(ctx context.Context, note *models.Note) error {
	return s.db.WithContext(ctx).Create(note).Error
}

func (s *PostgresStore) GetNote(ctx context.Context, id models.NoteID) (*models.Note, error) {
	var note models.Note
	err := s.db.WithContext(ctx).First(&note, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &note, nil
}

func (s *PostgresStore) UpdateNote(ctx context.Context, note *models.Note) error {
	return s.db.WithContext(ctx).Save(note).Error
}

func (s *PostgresStore) DeleteNote(ctx context.Context, id models.NoteID) error {
	return s.db.WithContext(ctx).Delete(&models.Note{}, "id = ?", id).Error
}

func (s *PostgresStore) ListNotes(ctx context.Context, ownerID models.UserID) ([]*models.Note, error) {
	var notes []*models.Note
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&notes).Error
	return notes, err
}
