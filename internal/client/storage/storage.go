package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DefaultFile is the file name used when no explicit path is configured.
const DefaultFile = "session.json"

// FileStore keeps all values in one JSON document on disk. Every write
// rewrites the document through a temp file and rename.
type FileStore struct {
	Values map[string]string `json:"values"`
	path   string
	mu     sync.Mutex
}

// NewFileStore opens (or lazily creates) the JSON document at path.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		path = DefaultFile
	}
	fs := &FileStore{path: path}
	if err := fs.Load(); err != nil {
		return nil, err
	}
	return fs, nil
}

// Path returns the backing file.
func (fs *FileStore) Path() string {
	return fs.path
}

// Load replaces the in-memory values with the file's content. A missing file
// yields an empty store.
func (fs *FileStore) Load() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	f, err := os.Open(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			fs.Values = make(map[string]string)
			return nil
		}
		return fmt.Errorf("open store: %w", err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(fs); err != nil {
		return fmt.Errorf("decode store: %w", err)
	}
	if fs.Values == nil {
		fs.Values = make(map[string]string)
	}
	return nil
}

func (fs *FileStore) Get(key string) (string, bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	v, ok := fs.Values[key]
	return v, ok, nil
}

func (fs *FileStore) Set(key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()

	prev, had := fs.Values[key]
	fs.Values[key] = value
	if err := fs.save(); err != nil {
		if had {
			fs.Values[key] = prev
		} else {
			delete(fs.Values, key)
		}
		return err
	}
	return nil
}

func (fs *FileStore) Remove(key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	prev, had := fs.Values[key]
	if !had {
		return nil
	}
	delete(fs.Values, key)
	if err := fs.save(); err != nil {
		fs.Values[key] = prev
		return err
	}
	return nil
}

// save must be called with fs.mu held.
func (fs *FileStore) save() error {
	dir := filepath.Dir(fs.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".store-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := json.NewEncoder(tmp).Encode(fs); err != nil {
		tmp.Close()
		return fmt.Errorf("encode store: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), fs.path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
