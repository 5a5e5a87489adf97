package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// DocumentStore is the blob-storage contract: named containers holding named
// documents. Uploads overwrite; downloads of missing documents fail.
type DocumentStore interface {
	Upload(container, name string, data []byte) error
	Download(container, name string) ([]byte, error)
}

// LocalStore keeps containers as subdirectories under a root directory.
type LocalStore struct {
	Root string
}

func NewLocalStore(root string) *LocalStore {
	return &LocalStore{Root: root}
}

func (s *LocalStore) Upload(container, name string, data []byte) error {
	dir := filepath.Join(s.Root, container)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create container %s: %w", container, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		return fmt.Errorf("upload %s/%s: %w", container, name, err)
	}
	return nil
}

func (s *LocalStore) Download(container, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.Root, container, name))
	if err != nil {
		return nil, fmt.Errorf("download %s/%s: %w", container, name, err)
	}
	return data, nil
}
