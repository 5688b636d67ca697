package storage

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// FileBackend keeps every key in one TOML document of string pairs. The
// whole document is rewritten on each change through a temp file and a
// rename, so readers never see a partial file.
type FileBackend struct {
	path string

	mu sync.Mutex
}

// OpenFile returns a FileBackend rooted at path. The file is created on
// the first write.
func OpenFile(path string) (*FileBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create storage dir")
	}
	return &FileBackend{path: path}, nil
}

// Get reads the document and looks up key. A missing file is empty.
func (f *FileBackend) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := doc[key]
	return v, ok, nil
}

// Set rewrites the document with key set to value.
func (f *FileBackend) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.load()
	if err != nil {
		return err
	}
	doc[key] = value
	return f.save(doc)
}

// Delete rewrites the document without key.
func (f *FileBackend) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := doc[key]; !ok {
		return nil
	}
	delete(doc, key)
	return f.save(doc)
}

// Close is a no-op; every call reads and writes the file directly.
func (f *FileBackend) Close() error { return nil }

func (f *FileBackend) load() (map[string]string, error) {
	doc := make(map[string]string)
	bytes, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, nil
		}
		return nil, errors.Wrap(err, "read storage file")
	}
	if err := toml.Unmarshal(bytes, &doc); err != nil {
		return nil, errors.Wrap(err, "parse storage file")
	}
	return doc, nil
}

func (f *FileBackend) save(doc map[string]string) error {
	bytes, err := toml.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "marshal storage file")
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".storefront-*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(bytes); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "write temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return errors.Wrap(err, "replace storage file")
	}
	return nil
}
