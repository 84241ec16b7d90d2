package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalArchiveSaveAndOpen(t *testing.T) {
	archive, err := NewLocalArchive(t.TempDir())
	require.NoError(t, err)

	body := "invoice_no,supplier\nINV-1,Tech Solutions\n"
	info, err := archive.Save(context.Background(), "invoices.csv", "text/csv", strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, "invoices.csv", info.Name)
	assert.Equal(t, int64(len(body)), info.Size)

	rc, got, err := archive.Open(context.Background(), info.ID)
	require.NoError(t, err)
	defer rc.Close()

	assert.Equal(t, info.ID, got.ID)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, body, string(data))
}

func TestLocalArchiveList(t *testing.T) {
	archive, err := NewLocalArchive(t.TempDir())
	require.NoError(t, err)

	artifacts, err := archive.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, artifacts)

	_, err = archive.Save(context.Background(), "a.csv", "text/csv", strings.NewReader("a"))
	require.NoError(t, err)
	_, err = archive.Save(context.Background(), "b.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", strings.NewReader("b"))
	require.NoError(t, err)

	artifacts, err = archive.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, artifacts, 2)
}

func TestLocalArchiveRemove(t *testing.T) {
	archive, err := NewLocalArchive(t.TempDir())
	require.NoError(t, err)

	info, err := archive.Save(context.Background(), "invoices.csv", "text/csv", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, archive.Remove(context.Background(), info.ID))

	_, err = archive.GetInfo(context.Background(), info.ID)
	assert.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "_etc_passwd", sanitizeFilename("/etc/passwd"))
	assert.Equal(t, "__.csv", sanitizeFilename("../.csv"))
	assert.Equal(t, "report 2025.csv", sanitizeFilename("report 2025.csv"))
}
