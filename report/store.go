/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package report

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/humaidq/labsight/labs"
	"github.com/humaidq/labsight/logging"
)

const (
	timestampLayout = "20060102150405"
	resultsSuffix   = "_results.csv"
)

var logger = logging.Logger(logging.SourceReport)

// Upload is a report stored in the upload directory.
type Upload struct {
	Name string
	Path string
}

// ResultsName is the file name of the derived results CSV.
func (u Upload) ResultsName() string {
	return u.Name + resultsSuffix
}

// ResultsPath is the location of the derived results CSV.
func (u Upload) ResultsPath() string {
	return u.Path + resultsSuffix
}

// Store keeps uploaded reports and their derived results on disk.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore returns a store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &Store{dir: dir, now: time.Now}, nil
}

// Dir returns the upload directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save copies r into a new file named after the upload time and the
// sanitised client filename. Existing files are never overwritten.
func (s *Store) Save(filename string, r io.Reader) (Upload, error) {
	if strings.TrimSpace(filename) == "" {
		return Upload{}, errEmptyFilename
	}

	secure := SecureFilename(filename)
	if !AllowedFile(filename) || !AllowedFile(secure) {
		return Upload{}, ErrDisallowedFile
	}

	stamp := s.now().Format(timestampLayout)
	name := stamp + "_" + secure

	f, err := s.create(name)
	if errors.Is(err, fs.ErrExist) {
		name = stamp + "_" + strings.SplitN(uuid.NewString(), "-", 2)[0] + "_" + secure
		f, err = s.create(name)
	}

	if err != nil {
		return Upload{}, fmt.Errorf("failed to create upload file: %w", err)
	}

	upload := Upload{Name: name, Path: filepath.Join(s.dir, name)}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		s.remove(upload.Path)

		return Upload{}, fmt.Errorf("failed to write upload file: %w", err)
	}

	if err := f.Close(); err != nil {
		s.remove(upload.Path)
		return Upload{}, fmt.Errorf("failed to close upload file: %w", err)
	}

	logger.Info("Stored upload", "name", upload.Name)

	return upload, nil
}

// Lookup returns a previously saved upload by name.
func (s *Store) Lookup(name string) (Upload, error) {
	if name == "" ||
		strings.ContainsAny(name, `/\`) ||
		strings.HasPrefix(name, ".") ||
		strings.HasSuffix(name, resultsSuffix) ||
		!AllowedFile(name) {
		return Upload{}, ErrUploadNotFound
	}

	path := filepath.Join(s.dir, name)

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Upload{}, ErrUploadNotFound
	}

	if err != nil {
		return Upload{}, fmt.Errorf("failed to stat upload: %w", err)
	}

	if !info.Mode().IsRegular() {
		return Upload{}, ErrUploadNotFound
	}

	return Upload{Name: name, Path: path}, nil
}

// ReadRecords parses the stored upload.
func (s *Store) ReadRecords(u Upload) ([]labs.Record, error) {
	f, err := os.Open(u.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	return ReadRecords(f)
}

// WriteResults writes the derived results CSV next to the upload, replacing
// any previous results for it.
func (s *Store) WriteResults(u Upload, records []labs.EvaluatedRecord) error {
	f, err := os.OpenFile(u.ResultsPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o640)
	if err != nil {
		return fmt.Errorf("failed to create results file: %w", err)
	}

	if err := WriteResults(f, records); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close results file: %w", err)
	}

	return nil
}

// OpenResults opens the derived results CSV of an upload.
func (s *Store) OpenResults(u Upload) (*os.File, error) {
	f, err := os.Open(u.ResultsPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrResultsNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open results: %w", err)
	}

	return f, nil
}

func (s *Store) create(name string) (*os.File, error) {
	return os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
}

func (s *Store) remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("Failed to remove partial upload", "path", path, "error", err)
	}
}
