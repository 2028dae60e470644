package report

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Row statuses.
const (
	StatusSent      = "sent"
	StatusFailed    = "failed"
	StatusSimulated = "simulated"
)

var header = []string{"email", "status", "error_message", "message_id", "sent_at"}

// Row is one attempted recipient.
type Row struct {
	Email        string
	Status       string
	ErrorMessage string
	MessageID    string
	SentAt       time.Time
}

// Uploader pushes a finished artifact to object storage.
type Uploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Writer appends rows to a per-run CSV artifact. Every Append flushes to
// disk, so partial runs are never lost.
type Writer struct {
	file *os.File
	csv  *csv.Writer
	path string
}

// NewWriter creates the artifact file for one run, named by mailout id and
// run timestamp, and writes the header line.
func NewWriter(dir, mailoutID string, startedAt time.Time) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Join(ErrCreateArtifact, err)
	}

	name := fmt.Sprintf("mailout-%s-%d.csv", sanitizeID(mailoutID), startedAt.UnixMilli())
	path := filepath.Join(dir, name)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return nil, errors.Join(ErrCreateArtifact, err)
	}

	w := &Writer{file: file, csv: csv.NewWriter(file), path: path}
	if err := w.csv.Write(header); err != nil {
		_ = file.Close()
		return nil, errors.Join(ErrCreateArtifact, err)
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		_ = file.Close()
		return nil, errors.Join(ErrCreateArtifact, err)
	}

	return w, nil
}

// Path returns the artifact location on disk.
func (w *Writer) Path() string {
	return w.path
}

// Append writes one recipient outcome and flushes it.
func (w *Writer) Append(row Row) error {
	record := []string{
		row.Email,
		row.Status,
		row.ErrorMessage,
		row.MessageID,
		row.SentAt.UTC().Format(time.RFC3339),
	}
	if err := w.csv.Write(record); err != nil {
		return errors.Join(ErrAppendRow, err)
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return errors.Join(ErrAppendRow, err)
	}
	return nil
}

// Close releases the artifact file.
func (w *Writer) Close() error {
	w.csv.Flush()
	return w.file.Close()
}

// Publish uploads the finished artifact and returns its download URL. The
// writer must be closed first.
func (w *Writer) Publish(ctx context.Context, uploader Uploader) (string, error) {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return "", errors.Join(ErrUploadArtifact, err)
	}

	url, err := uploader.Upload(ctx, filepath.Base(w.path), data, "text/csv")
	if err != nil {
		return "", errors.Join(ErrUploadArtifact, err)
	}
	return url, nil
}

// sanitizeID keeps the artifact name filesystem-safe regardless of the id
// format the document store hands out.
func sanitizeID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, id)
}
