// Package memory is a non-durable store for development and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jose-valero/pug-picker-bot/internal/storage"
)

// Store keeps priorities and logged games in memory.
type Store struct {
	mu         sync.Mutex
	priorities map[string]storage.Priority
	games      []storage.GameRecord
}

// New returns an empty store.
func New() *Store {
	return &Store{priorities: make(map[string]storage.Priority)}
}

func (s *Store) Get(ctx context.Context, player string) (storage.Priority, error) {
	if err := ctx.Err(); err != nil {
		return storage.Priority{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.priorities[player]
	if !ok {
		return storage.Priority{Player: player}, nil
	}
	return p, nil
}

func (s *Store) IncrementAll(ctx context.Context, players []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range players {
		p := s.priorities[name]
		p.Player = name
		p.TimesQueued++
		s.priorities[name] = p
	}
	return nil
}

func (s *Store) Reset(ctx context.Context, players []string, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range players {
		s.priorities[name] = storage.Priority{Player: name, LastGameAt: now.Unix()}
	}
	return nil
}

// Log accepts canonical games only, like the durable backends.
func (s *Store) Log(ctx context.Context, rec storage.GameRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := storage.SlotsOf(rec); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games = append(s.games, rec)
	return nil
}

// Games returns the logged games in append order.
func (s *Store) Games() []storage.GameRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]storage.GameRecord(nil), s.games...)
}

// Set overwrites a player's record.
func (s *Store) Set(p storage.Priority) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.priorities[p.Player] = p
}

func (s *Store) Close() error { return nil }
