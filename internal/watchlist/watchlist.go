// Package watchlist keeps an in-memory watchlist. Nothing is persisted:
// a Store lives as long as the process (or the chat session) that owns it.
package watchlist

import (
	"errors"
	"slices"
	"sync"

	"github.com/vadimtrunov/reelview/internal/core"
)

// SeedSize is how many movies Seed takes from a fetched list.
const SeedSize = 5

// ErrNotFound is returned when removing a movie that is not on the list.
var ErrNotFound = errors.New("movie not on watchlist")

// Store is a mutex-guarded ordered list of movies keyed by ID.
type Store struct {
	mu     sync.RWMutex
	movies []core.Movie
}

// New creates an empty Store.
func New() *Store {
	return &Store{}
}

// Seed replaces the contents with the first SeedSize movies.
func (s *Store) Seed(movies []core.Movie) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.movies = nil
	for _, m := range movies {
		if len(s.movies) == SeedSize {
			break
		}
		if m.ID == "" || s.indexLocked(m.ID) >= 0 {
			continue
		}
		s.movies = append(s.movies, m)
	}
}

// Add appends a movie. It reports false when the movie is already listed or has no ID.
func (s *Store) Add(m core.Movie) bool {
	if m.ID == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexLocked(m.ID) >= 0 {
		return false
	}
	s.movies = append(s.movies, m)
	return true
}

// Remove deletes the movie with the given ID.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return ErrNotFound
	}
	s.movies = slices.Delete(s.movies, i, i+1)
	return nil
}

// Toggle adds the movie when absent and removes it when present.
// It reports whether the movie is on the list afterwards.
func (s *Store) Toggle(m core.Movie) bool {
	if s.Remove(m.ID) == nil {
		return false
	}
	return s.Add(m)
}

// Contains reports whether the ID is on the list.
func (s *Store) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexLocked(id) >= 0
}

// List returns a snapshot in insertion order.
func (s *Store) List() []core.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.movies)
}

// Len returns the number of listed movies.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.movies)
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.movies, func(m core.Movie) bool { return m.ID == id })
}
