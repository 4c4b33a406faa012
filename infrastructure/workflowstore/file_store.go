// Package workflowstore persists the generated GitHub Actions workflow.
package workflowstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/reglet-dev/wasmer-pipeline/application/workflow"
)

// fileStoreConfig holds configuration for the FileStore.
type fileStoreConfig struct {
	path     string      // Path to the workflow file
	dirPerm  os.FileMode // Permission for created directories
	filePerm os.FileMode // Permission for the workflow file
}

func defaultFileStoreConfig() fileStoreConfig {
	return fileStoreConfig{
		path:     workflow.DefaultFileName,
		dirPerm:  0o755,
		filePerm: 0o644, // Checked into the repository
	}
}

// FileStoreOption configures a FileStore instance.
type FileStoreOption func(*fileStoreConfig)

// WithPath sets the path to the workflow file.
func WithPath(path string) FileStoreOption {
	return func(c *fileStoreConfig) {
		if path != "" {
			c.path = path
		}
	}
}

// WithFilePermissions sets the file permissions for the workflow file.
func WithFilePermissions(perm os.FileMode) FileStoreOption {
	return func(c *fileStoreConfig) {
		c.filePerm = perm
	}
}

// WithDirPermissions sets the permissions for created parent directories.
func WithDirPermissions(perm os.FileMode) FileStoreOption {
	return func(c *fileStoreConfig) {
		c.dirPerm = perm
	}
}

// FileStore reads and writes a workflow file.
type FileStore struct {
	config fileStoreConfig
}

// NewFileStore creates a new FileStore with the given options.
func NewFileStore(opts ...FileStoreOption) *FileStore {
	cfg := defaultFileStoreConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &FileStore{config: cfg}
}

// Exists reports whether the workflow file is already present.
func (s *FileStore) Exists() bool {
	_, err := os.Stat(s.config.path)
	return err == nil
}

// Load reads the workflow file. A missing file returns (nil, nil).
func (s *FileStore) Load() (*workflow.Workflow, error) {
	data, err := os.ReadFile(s.config.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow: %w", err)
	}
	return workflow.Parse(data)
}

// Save writes w, creating parent directories as needed.
func (s *FileStore) Save(w *workflow.Workflow) error {
	data, err := workflow.Marshal(w)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.config.path)
	if err := os.MkdirAll(dir, s.config.dirPerm); err != nil {
		return fmt.Errorf("failed to create workflow directory: %w", err)
	}

	if err := os.WriteFile(s.config.path, data, s.config.filePerm); err != nil {
		return fmt.Errorf("failed to write workflow: %w", err)
	}
	return nil
}

// Path returns the path to the workflow file.
func (s *FileStore) Path() string {
	return s.config.path
}
