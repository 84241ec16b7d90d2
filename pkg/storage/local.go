package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalArchive implements Archive using the local filesystem
type LocalArchive struct {
	basePath string
}

// NewLocalArchive creates a new local filesystem archive
func NewLocalArchive(basePath string) (*LocalArchive, error) {
	// Ensure base path exists
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	return &LocalArchive{basePath: basePath}, nil
}

// Save stores an artifact and returns its metadata
func (a *LocalArchive) Save(ctx context.Context, name string, contentType string, r io.Reader) (*Artifact, error) {
	id := uuid.New()

	// Sanitize filename and add UUID prefix for uniqueness
	safeName := sanitizeFilename(name)
	storedName := fmt.Sprintf("%s_%s", id.String()[:8], safeName)
	filePath := filepath.Join(a.basePath, storedName)

	f, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create artifact: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(filePath) // Cleanup on error
		return nil, fmt.Errorf("failed to write artifact: %w", err)
	}

	info := &Artifact{
		ID:          id,
		Name:        name,
		Size:        size,
		ContentType: contentType,
		Path:        storedName,
		CreatedAt:   time.Now(),
	}

	// Save metadata
	if err := a.saveMetadata(id, info); err != nil {
		os.Remove(filePath) // Cleanup on error
		return nil, err
	}

	return info, nil
}

// Open retrieves an artifact by its ID
func (a *LocalArchive) Open(ctx context.Context, id uuid.UUID) (io.ReadCloser, *Artifact, error) {
	info, err := a.GetInfo(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(filepath.Join(a.basePath, info.Path))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open artifact: %w", err)
	}

	return f, info, nil
}

// Remove deletes an artifact by its ID
func (a *LocalArchive) Remove(ctx context.Context, id uuid.UUID) error {
	info, err := a.GetInfo(ctx, id)
	if err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(a.basePath, info.Path)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete artifact: %w", err)
	}

	// Delete metadata
	os.Remove(filepath.Join(a.basePath, ".meta", id.String()+".json"))

	return nil
}

// List returns all archived artifacts
func (a *LocalArchive) List(ctx context.Context) ([]*Artifact, error) {
	metaDir := filepath.Join(a.basePath, ".meta")
	if _, err := os.Stat(metaDir); os.IsNotExist(err) {
		return []*Artifact{}, nil
	}

	entries, err := os.ReadDir(metaDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata: %w", err)
	}

	artifacts := make([]*Artifact, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id, err := uuid.Parse(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}

		info, err := a.GetInfo(ctx, id)
		if err != nil {
			continue
		}
		artifacts = append(artifacts, info)
	}

	return artifacts, nil
}

// GetInfo returns metadata for an artifact without opening it
func (a *LocalArchive) GetInfo(ctx context.Context, id uuid.UUID) (*Artifact, error) {
	metaPath := filepath.Join(a.basePath, ".meta", id.String()+".json")

	data, err := os.ReadFile(metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("artifact not found: %s", id)
		}
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	var info Artifact
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}

	return &info, nil
}

// saveMetadata saves artifact metadata to a JSON file
func (a *LocalArchive) saveMetadata(id uuid.UUID, info *Artifact) error {
	metaDir := filepath.Join(a.basePath, ".meta")
	if err := os.MkdirAll(metaDir, 0755); err != nil {
		return fmt.Errorf("failed to create metadata directory: %w", err)
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	metaPath := filepath.Join(metaDir, id.String()+".json")
	if err := os.WriteFile(metaPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	return nil
}

// sanitizeFilename removes unsafe characters from filenames
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		"..", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	return replacer.Replace(name)
}
