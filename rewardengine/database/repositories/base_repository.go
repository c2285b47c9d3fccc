package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

const defaultQueryTimeout = 30 * time.Second

// BaseRepository provides common repository functionality
type BaseRepository struct {
	db             *bun.DB
	defaultTimeout time.Duration
}

func NewBaseRepository(db *bun.DB) *BaseRepository {
	return &BaseRepository{
		db:             db,
		defaultTimeout: defaultQueryTimeout,
	}
}

// RepositoryError represents a repository-level error
type RepositoryError struct {
	Operation string
	Entity    string
	Err       error
}

func (re *RepositoryError) Error() string {
	return fmt.Sprintf("repository error during %s for %s: %v", re.Operation, re.Entity, re.Err)
}

func (re *RepositoryError) Unwrap() error {
	return re.Err
}

// NotFoundError represents an entity not found error
type NotFoundError struct {
	Entity string
	ID     interface{}
}

func (nfe *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %v not found", nfe.Entity, nfe.ID)
}

// WithTimeout creates a context with the default timeout
func (br *BaseRepository) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, br.defaultTimeout)
}

// HandleError standardizes error handling across repositories
func (br *BaseRepository) HandleError(operation, entity string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &NotFoundError{Entity: entity, ID: "unknown"}
	}

	return &RepositoryError{
		Operation: operation,
		Entity:    entity,
		Err:       err,
	}
}

// HandleErrorWithID standardizes error handling with specific ID
func (br *BaseRepository) HandleErrorWithID(operation, entity string, id interface{}, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &NotFoundError{Entity: entity, ID: id}
	}

	return &RepositoryError{
		Operation: operation,
		Entity:    entity,
		Err:       err,
	}
}

// GetDB returns the underlying database connection
func (br *BaseRepository) GetDB() *bun.DB {
	return br.db
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}
