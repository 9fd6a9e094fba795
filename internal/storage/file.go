package storage

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

// FileStore keeps each key in its own JSON file under a directory. Writes go
// through a temp file and rename so a crash never leaves a torn value.
type FileStore struct {
	dir string
}

func OpenFile(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("data dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(f.dir, key+".json"), nil
}

func (f *FileStore) Get(key string) ([]byte, error) {
	p, err := f.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

func (f *FileStore) Put(key string, value []byte) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(p, bytes.NewReader(value)); err != nil {
		return err
	}
	// atomic.WriteFile keeps the temp file's 0600 mode on new files.
	return os.Chmod(p, 0o644)
}

func (f *FileStore) Close() error {
	return nil
}
