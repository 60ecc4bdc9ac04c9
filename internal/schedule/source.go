package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// Source supplies raw schedule records. Implementations must read fresh data on every call.
type Source interface {
	Records(ctx context.Context) ([]Record, error)
}

// FileSource reads the schedule from a JSON array file
type FileSource struct {
	path string
}

// NewFileSource creates a source backed by the JSON file at path
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Path returns the schedule file location
func (s *FileSource) Path() string {
	return s.path
}

// Records reads and decodes the schedule file
func (s *FileSource) Records(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading schedule file: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(content, &records); err != nil {
		return nil, fmt.Errorf("decoding schedule file %s: %w", s.path, err)
	}

	return records, nil
}

// StaticSource serves a fixed set of records
type StaticSource []Record

// Records returns a copy of the static records
func (s StaticSource) Records(ctx context.Context) ([]Record, error) {
	out := make([]Record, len(s))
	copy(out, s)
	return out, nil
}
