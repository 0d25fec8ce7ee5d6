package images

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/skvault/sleevekeeper/internal/filex"
)

// LocalStore keeps images in a directory on local disk. It is the default
// backend when no S3 endpoint is configured.
type LocalStore struct {
	dir string
}

// NewLocalStore ensures dirName exists under the working directory and
// returns a store writing into it.
func NewLocalStore(dirName string) (*LocalStore, error) {
	dir, err := filex.EnsureSubDir(dirName)
	if err != nil {
		return nil, err
	}
	return &LocalStore{dir: dir}, nil
}

// Save writes data under a sanitized generated name and returns the name.
func (s *LocalStore) Save(_ context.Context, originalName string, data []byte) (string, error) {
	name, err := storedName(originalName)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o660); err != nil {
		return "", err
	}
	return name, nil
}

// URL returns the path under which the static file layer serves the image.
func (s *LocalStore) URL(_ context.Context, storedName string) (string, error) {
	return "/uploads/" + storedName, nil
}

// Remove deletes the stored file. A missing file is not an error.
func (s *LocalStore) Remove(_ context.Context, storedName string) error {
	err := os.Remove(filepath.Join(s.dir, storedName))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Dir returns the absolute directory images are stored in, for the static
// file handler.
func (s *LocalStore) Dir() string {
	return s.dir
}
