// Package records implements the local record store: named collections of
// JSON-encoded records addressed by string keys over a pluggable backend.
//
// Every mutation is a whole-collection read-modify-write. The store holds one
// mutex per key, so operations against the same key execute in submission
// order; operations against distinct keys are independent.
package records

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ErrNoRecord is returned by a Backend when a key has no stored value.
var ErrNoRecord = errors.New("records: no record")

// Backend is the persistent key-value area underneath the store.
type Backend interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(keys ...string) error
	Keys(prefix string) ([]string, error)
}

// Store wraps a Backend with per-key serialization and JSON codecs.
type Store struct {
	backend Backend
	log     *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewStore(backend Backend, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		backend: backend,
		log:     log,
		locks:   map[string]*sync.Mutex{},
	}
}

func (s *Store) keyLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// Delete removes the given keys. Missing keys are not an error.
func (s *Store) Delete(keys ...string) error {
	for _, k := range keys {
		l := s.keyLock(k)
		l.Lock()
		err := s.backend.Delete(k)
		l.Unlock()
		if err != nil {
			s.log.Error("delete record", zap.String("key", k), zap.Error(err))
			return fmt.Errorf("delete %s: %w", k, err)
		}
	}
	return nil
}

// Keys lists stored keys with the given prefix.
func (s *Store) Keys(prefix string) ([]string, error) {
	return s.backend.Keys(prefix)
}

func (s *Store) read(key string, out any) (bool, error) {
	raw, err := s.backend.Get(key)
	if errors.Is(err, ErrNoRecord) {
		return false, nil
	}
	if err != nil {
		s.log.Error("read record", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.log.Error("decode record", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) write(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.backend.Put(key, raw); err != nil {
		s.log.Error("write record", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Read returns the collection stored under key. An absent key yields an empty
// slice; a failed or corrupt read yields an error rather than empty data.
func Read[T any](s *Store, key string) ([]T, error) {
	l := s.keyLock(key)
	l.Lock()
	defer l.Unlock()
	return readLocked[T](s, key)
}

func readLocked[T any](s *Store, key string) ([]T, error) {
	var items []T
	ok, err := s.read(key, &items)
	if err != nil {
		return nil, err
	}
	if !ok || items == nil {
		return []T{}, nil
	}
	return items, nil
}

// Write overwrites the entire collection stored under key.
func Write[T any](s *Store, key string, items []T) error {
	l := s.keyLock(key)
	l.Lock()
	defer l.Unlock()
	if items == nil {
		items = []T{}
	}
	return s.write(key, items)
}

// Update applies fn to the collection under key and writes the result back,
// all under the key's lock. When fn returns an error nothing is written.
func Update[T any](s *Store, key string, fn func([]T) ([]T, error)) ([]T, error) {
	l := s.keyLock(key)
	l.Lock()
	defer l.Unlock()
	items, err := readLocked[T](s, key)
	if err != nil {
		return nil, err
	}
	updated, err := fn(items)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		updated = []T{}
	}
	if err := s.write(key, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// ReadOne returns the singleton record under key, or nil when absent.
func ReadOne[T any](s *Store, key string) (*T, error) {
	l := s.keyLock(key)
	l.Lock()
	defer l.Unlock()
	return readOneLocked[T](s, key)
}

func readOneLocked[T any](s *Store, key string) (*T, error) {
	var v T
	ok, err := s.read(key, &v)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &v, nil
}

// WriteOne overwrites the singleton record under key.
func WriteOne[T any](s *Store, key string, v *T) error {
	l := s.keyLock(key)
	l.Lock()
	defer l.Unlock()
	return s.write(key, v)
}

// UpdateOne applies fn to the singleton under key (nil when absent) and
// writes the returned value back under the key's lock.
func UpdateOne[T any](s *Store, key string, fn func(*T) (*T, error)) (*T, error) {
	l := s.keyLock(key)
	l.Lock()
	defer l.Unlock()
	v, err := readOneLocked[T](s, key)
	if err != nil {
		return nil, err
	}
	updated, err := fn(v)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, errors.New("records: update returned nil record")
	}
	if err := s.write(key, updated); err != nil {
		return nil, err
	}
	return updated, nil
}
