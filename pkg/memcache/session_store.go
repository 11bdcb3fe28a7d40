// Package mem holds short lived, single-use values in process memory.
package mem

import (
	"sync"
	"time"
)

type SessionStore[T any] interface {
	Set(key string, value T, ttl time.Duration)

	// Consume returns the value for key if not expired and removes it
	// (single-use).
	Consume(key string) (T, bool)

	// Peek reads without consuming.
	Peek(key string) (T, bool)

	Delete(key string)
}

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

type Sessions[T any] struct {
	mu   sync.RWMutex
	data map[string]entry[T]
	now  func() time.Time
}

func NewSessions[T any]() *Sessions[T] {
	return &Sessions[T]{
		data: make(map[string]entry[T]),
		now:  time.Now,
	}
}

func (s *Sessions[T]) Set(key string, value T, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	s.data[key] = entry[T]{
		value:     value,
		expiresAt: s.now().Add(ttl),
	}
}

func (s *Sessions[T]) Consume(key string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	e, ok := s.data[key]
	if !ok {
		return zero, false
	}
	delete(s.data, key)
	if s.now().After(e.expiresAt) {
		return zero, false
	}
	return e.value, true
}

func (s *Sessions[T]) Peek(key string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var zero T
	e, ok := s.data[key]
	if !ok || s.now().After(e.expiresAt) {
		return zero, false
	}
	return e.value, true
}

func (s *Sessions[T]) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

// sweepLocked drops expired entries so abandoned pickers do not pile up.
func (s *Sessions[T]) sweepLocked() {
	now := s.now()
	for k, e := range s.data {
		if now.After(e.expiresAt) {
			delete(s.data, k)
		}
	}
}

func (s *Sessions[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
