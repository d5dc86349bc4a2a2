package storage

import (
	"github.com/google/uuid"
)

// GenerateFileName returns a UUID-based file name with the given extension
func GenerateFileName(extension string) string {
	newUUID := uuid.New().String()
	if extension != "" && extension[0] != '.' {
		return newUUID + "." + extension
	}
	return newUUID + extension
}

// sizeWriter counts the bytes written through it
type sizeWriter struct {
	size int64
}

func (sw *sizeWriter) Write(p []byte) (int, error) {
	sw.size += int64(len(p))
	return len(p), nil
}

// Size returns the total number of bytes written
func (sw *sizeWriter) Size() int64 {
	return sw.size
}

// NewSizeWriter creates a new byte counter for use with io.TeeReader
func NewSizeWriter() *sizeWriter {
	return &sizeWriter{}
}
