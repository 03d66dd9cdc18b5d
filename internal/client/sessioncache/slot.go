package sessioncache

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// ErrEmpty is returned by Slot.Read when nothing is stored.
var ErrEmpty = errors.New("sessioncache: slot is empty")

// Slot is one independent place a session can be kept.
type Slot interface {
	Name() string
	Read() ([]byte, error)
	Write(b []byte) error
	Remove() error
}

// FileSlot keeps the record in a single file readable only by the owner.
type FileSlot struct {
	Path string
}

func (s FileSlot) Name() string { return s.Path }

func (s FileSlot) Read() ([]byte, error) {
	b, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) || (err == nil && len(b) == 0) {
		return nil, ErrEmpty
	}
	return b, err
}

// Write replaces the file atomically so a reader never sees half a record.
func (s FileSlot) Write(b []byte) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.Path)
}

func (s FileSlot) Remove() error {
	err := os.Remove(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// MemorySlot holds the record in process memory.
type MemorySlot struct {
	Label string

	mu   sync.Mutex
	data []byte
}

func (s *MemorySlot) Name() string { return "memory:" + s.Label }

func (s *MemorySlot) Read() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.data) == 0 {
		return nil, ErrEmpty
	}
	return append([]byte(nil), s.data...), nil
}

func (s *MemorySlot) Write(b []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), b...)
	return nil
}

func (s *MemorySlot) Remove() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}
