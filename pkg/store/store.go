// Package store persists diagram definitions for the HTTP API.
//
// A stored diagram is a [Record]: the definition as submitted plus a
// generated id and creation time. Rendered artifacts are not stored here;
// they live in the artifact cache and are recomputed on demand.
//
// Backends:
//   - [MemoryStore]: in-process, for development and tests
//   - [FileStore]: one JSON file per diagram under a directory
//   - [MongoStore]: MongoDB collection, for shared deployments
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/nodemap/pkg/errors"
	"github.com/matzehuels/nodemap/pkg/io"
)

// Record is a stored diagram definition.
type Record struct {
	ID         string         `json:"id"`
	Name       string         `json:"name,omitempty"`
	Definition *io.Definition `json:"definition"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Store is the interface for diagram storage backends.
type Store interface {
	// Save validates and stores def under a new id and returns the record.
	Save(ctx context.Context, def *io.Definition) (*Record, error)

	// Get retrieves a record by id.
	// Returns an error with code NOT_FOUND if the id is unknown.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns all records, newest first.
	List(ctx context.Context) ([]Record, error)

	// Delete removes a record. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

// NewRecord validates def and wraps it in a record with a fresh id.
func NewRecord(def *io.Definition) (*Record, error) {
	if def == nil {
		return nil, errors.New(errors.ErrCodeInvalidDefinition, "definition is required")
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &Record{
		ID:         uuid.NewString(),
		Name:       def.Name,
		Definition: def,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// ValidateID rejects ids that are not UUIDs, so that they can be used as
// file names and document keys unchanged.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New(errors.ErrCodeNotFound, "diagram %q not found", id)
	}
	return nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "diagram %q not found", id)
}
