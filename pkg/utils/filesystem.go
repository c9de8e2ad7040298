// Package utils provides utility functions
package utils

import (
	"os"
	"path/filepath"
)

// FileSystemUtils provides file system operations
type FileSystemUtils struct{}

// NewFileSystemUtils creates a new filesystem utils instance
func NewFileSystemUtils() *FileSystemUtils {
	return &FileSystemUtils{}
}

// Exists checks if a path exists
func (f *FileSystemUtils) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadFile reads a file's contents
func (f *FileSystemUtils) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to a file, creating parent directories as needed
func (f *FileSystemUtils) WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// RemoveFile deletes a file
func (f *FileSystemUtils) RemoveFile(path string) error {
	return os.Remove(path)
}

// ReadAndRemove reads a file's contents then deletes the source file.
// The read contents are returned even if the delete fails.
func (f *FileSystemUtils) ReadAndRemove(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := os.Remove(path); err != nil {
		return data, err
	}
	return data, nil
}
