package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/vadimtrunov/reelview/internal/core"
)

// Load-more defaults.
const (
	DefaultLoadMoreDelay = 1500 * time.Millisecond
	DefaultLoadMoreBatch = 4
)

// ErrLoadInProgress is returned when More is called while a load is pending.
var ErrLoadInProgress = errors.New("load more already in progress")

// Pager simulates pagination for a single screen. It does not fetch: each
// call waits Delay and then re-issues the first BatchSize loaded movies
// under new IDs. The loading flag rejects overlapping calls.
type Pager struct {
	delay   time.Duration
	batch   int
	loading atomic.Bool
}

// NewPager creates a Pager. A non-positive batch falls back to DefaultLoadMoreBatch;
// a zero delay returns immediately.
func NewPager(delay time.Duration, batch int) *Pager {
	if batch <= 0 {
		batch = DefaultLoadMoreBatch
	}
	if delay < 0 {
		delay = 0
	}
	return &Pager{delay: delay, batch: batch}
}

// Loading reports whether a load is pending.
func (p *Pager) Loading() bool {
	return p.loading.Load()
}

// More returns the next simulated page for the already loaded movies.
// The caller appends the result to its list.
func (p *Pager) More(ctx context.Context, loaded []core.Movie) ([]core.Movie, error) {
	if !p.loading.CompareAndSwap(false, true) {
		return nil, ErrLoadInProgress
	}
	defer p.loading.Store(false)

	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return Duplicate(loaded, p.batch), nil
}

// Duplicate copies the first n movies with IDs of the form "<id>-more-<pos>",
// where pos is the index the copy will occupy once appended to loaded.
func Duplicate(loaded []core.Movie, n int) []core.Movie {
	n = max(0, min(n, len(loaded)))
	out := make([]core.Movie, 0, n)
	for i := range n {
		m := loaded[i]
		m.Genres = slices.Clone(m.Genres)
		m.ID = fmt.Sprintf("%s-more-%d", m.ID, len(loaded)+i)
		out = append(out, m)
	}
	return out
}
