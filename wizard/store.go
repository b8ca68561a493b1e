// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wizard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vibealong/onboarding/auth"
)

// Store keeps running wizards by session token. Entries idle for longer
// than the TTL are dropped by Sweep.
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*storeEntry
}

type storeEntry struct {
	ctrl     *Controller
	lastSeen time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*storeEntry),
	}
}

// Create registers a wizard and returns its token.
func (s *Store) Create(c *Controller) (string, error) {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[token] = &storeEntry{ctrl: c, lastSeen: s.now()}
	return token, nil
}

// Get returns the wizard for a token and marks it as used.
func (s *Store) Get(token string) (*Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[token]
	if !ok || s.expired(e) {
		return nil, ErrSessionNotFound
	}
	e.lastSeen = s.now()
	return e.ctrl, nil
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) expired(e *storeEntry) bool {
	return s.now().Sub(e.lastSeen) > s.ttl
}

// Sweep drops expired wizards and returns how many went. A wizard in the
// middle of a submission is kept until it finishes.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for token, e := range s.entries {
		if s.expired(e) && !e.ctrl.Submitting() {
			delete(s.entries, token)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				slog.Info("expired signup sessions removed", "count", n, "remaining", s.Len())
			}
		}
	}
}
