package telegram

import (
	"sync"

	"github.com/vadimtrunov/reelview/internal/watchlist"
)

// sessionManager keeps one watchlist per user and enforces the allow-list.
type sessionManager struct {
	mu         sync.Mutex
	watchlists map[int64]*watchlist.Store
	allowed    map[int64]bool // nil or empty = allow all
}

// newSessionManager creates a session manager.
// If allowedUserIDs is empty, all users are allowed.
func newSessionManager(allowedUserIDs []int64) *sessionManager {
	allowed := make(map[int64]bool, len(allowedUserIDs))
	for _, id := range allowedUserIDs {
		allowed[id] = true
	}
	return &sessionManager{
		watchlists: make(map[int64]*watchlist.Store),
		allowed:    allowed,
	}
}

// isAllowed checks if a user is authorized to use the bot.
func (sm *sessionManager) isAllowed(userID int64) bool {
	if len(sm.allowed) == 0 {
		return true
	}
	return sm.allowed[userID]
}

// watchlist returns the user's watchlist, creating an empty one on first use.
func (sm *sessionManager) watchlist(userID int64) *watchlist.Store {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if w, ok := sm.watchlists[userID]; ok {
		return w
	}
	w := watchlist.New()
	sm.watchlists[userID] = w
	return w
}

// reset drops a user's watchlist.
func (sm *sessionManager) reset(userID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.watchlists, userID)
}
