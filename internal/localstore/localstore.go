// Package localstore provides small durable key-value slots scoped to the
// current user, the terminal counterpart of browser local storage.
package localstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

// KV is a string-valued key-value slot store.
type KV interface {
	// Get returns the value stored at key. ok is false when the key is absent.
	Get(key string) (value string, ok bool, err error)
	// Set overwrites the value stored at key.
	Set(key, value string) error
}

var (
	_ KV = (*File)(nil)
	_ KV = (*Memory)(nil)
)

// File keeps every slot in a single TOML document on disk. Each call reads
// the document afresh so a value written by Set is what the next Get sees.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile returns a File store rooted at path. The file is created on the
// first Set.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the backing file location.
func (f *File) Path() string {
	return f.path
}

// Get implements KV.
func (f *File) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return "", false, err
	}
	value, ok := doc[key]
	return value, ok, nil
}

// Set implements KV. An unreadable document is replaced rather than
// blocking the write.
func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		doc = map[string]string{}
	}
	doc[key] = value
	return f.write(doc)
}

func (f *File) read() (map[string]string, error) {
	bytes, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read storage: %w", err)
	}
	doc := map[string]string{}
	if err := toml.Unmarshal(bytes, &doc); err != nil {
		return nil, fmt.Errorf("parse storage: %w", err)
	}
	return doc, nil
}

func (f *File) write(doc map[string]string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}
	bytes, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal storage: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".storage-*.toml")
	if err != nil {
		return fmt.Errorf("create temp storage: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(bytes); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close storage: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace storage: %w", err)
	}
	return nil
}

// ErrUnavailable is returned by a Memory store with writes disabled.
var ErrUnavailable = errors.New("storage unavailable")

// Memory is an in-process KV used in tests and when no file is configured.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
	// FailWrites makes Set return ErrUnavailable without storing anything.
	FailWrites bool
}

// NewMemory returns a Memory store seeded with values.
func NewMemory(values map[string]string) *Memory {
	m := &Memory{values: make(map[string]string, len(values))}
	for k, v := range values {
		m.values[k] = v
	}
	return m
}

// Get implements KV.
func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	return value, ok, nil
}

// Set implements KV.
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrUnavailable
	}
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
	return nil
}
