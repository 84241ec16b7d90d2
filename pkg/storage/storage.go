// Package storage archives export artifacts on the local filesystem.
package storage

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// Artifact contains metadata about an archived export file.
type Artifact struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	Path        string    `json:"path"` // Internal storage path
	CreatedAt   time.Time `json:"created_at"`
}

// Archive defines the interface for export artifact storage.
type Archive interface {
	// Save stores an artifact and returns its metadata
	Save(ctx context.Context, name string, contentType string, r io.Reader) (*Artifact, error)

	// Open retrieves an artifact by its ID
	Open(ctx context.Context, id uuid.UUID) (io.ReadCloser, *Artifact, error)

	// List returns all archived artifacts
	List(ctx context.Context) ([]*Artifact, error)

	// Remove deletes an artifact by its ID
	Remove(ctx context.Context, id uuid.UUID) error

	// GetInfo returns metadata for an artifact without opening it
	GetInfo(ctx context.Context, id uuid.UUID) (*Artifact, error)
}
