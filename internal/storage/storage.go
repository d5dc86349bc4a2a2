// Package storage keeps uploaded files on the local filesystem, grouped by bucket
package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidName is returned for file names that would escape the bucket directory
var ErrInvalidName = errors.New("invalid file name")

// localStorage stores files under basePath/<bucket>/<name>
type localStorage struct {
	basePath string
}

// NewLocalStorage creates a new localStorage instance
func NewLocalStorage(basePath string) *localStorage {
	return &localStorage{
		basePath: basePath,
	}
}

// path builds the full file path, rejecting names with separators or dot segments
func (s *localStorage) path(bucket, name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", ErrInvalidName
	}
	if bucket == "" || strings.ContainsAny(bucket, `/\.`) {
		return "", ErrInvalidName
	}
	return filepath.Join(s.basePath, bucket, name), nil
}

// Create creates a new file and returns a WriteCloser
func (s *localStorage) Create(bucket, name string) (io.WriteCloser, error) {
	path, err := s.path(bucket, name)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	return os.Create(path)
}

// OpenFile opens a file for reading; *os.File is needed by http.ServeContent
func (s *localStorage) OpenFile(bucket, name string) (*os.File, error) {
	path, err := s.path(bucket, name)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Delete removes a file
func (s *localStorage) Delete(bucket, name string) error {
	path, err := s.path(bucket, name)
	if err != nil {
		return err
	}
	return os.Remove(path)
}
