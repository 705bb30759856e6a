package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadimtrunov/reelview/internal/core"
)

func fiveMovies() []core.Movie {
	return []core.Movie{
		{ID: "tt1", Title: "One", Genres: []string{"Drama"}},
		{ID: "tt2", Title: "Two"},
		{ID: "tt3", Title: "Three"},
		{ID: "tt4", Title: "Four"},
		{ID: "tt5", Title: "Five"},
	}
}

func TestDuplicate(t *testing.T) {
	loaded := fiveMovies()

	got := Duplicate(loaded, 4)

	assert.Equal(t, []string{"tt1-more-5", "tt2-more-6", "tt3-more-7", "tt4-more-8"}, ids(got))
	assert.Equal(t, "One", got[0].Title)

	got[0].Genres[0] = "changed"
	assert.Equal(t, "Drama", loaded[0].Genres[0], "copies must not share genre slices")
}

func TestDuplicate_FewerThanBatch(t *testing.T) {
	got := Duplicate([]core.Movie{{ID: "a"}}, 4)

	assert.Equal(t, []string{"a-more-1"}, ids(got))
	assert.Empty(t, Duplicate(nil, 4))
}

func TestPager_RepeatedLoadsHaveUniqueIDs(t *testing.T) {
	p := NewPager(0, 0)
	list := fiveMovies()

	for range 3 {
		more, err := p.More(context.Background(), list)
		require.NoError(t, err)
		list = append(list, more...)
	}

	require.Len(t, list, 5+3*DefaultLoadMoreBatch)
	seen := make(map[string]bool)
	for _, m := range list {
		assert.False(t, seen[m.ID], "duplicate id %s", m.ID)
		seen[m.ID] = true
	}
}

func TestPager_WaitsForDelay(t *testing.T) {
	p := NewPager(30*time.Millisecond, 2)

	start := time.Now()
	more, err := p.More(context.Background(), fiveMovies())

	require.NoError(t, err)
	assert.Len(t, more, 2)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	assert.False(t, p.Loading())
}

func TestPager_Canceled(t *testing.T) {
	p := NewPager(time.Hour, 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	more, err := p.More(ctx, fiveMovies())

	assert.True(t, errors.Is(err, context.Canceled))
	assert.Nil(t, more)
	assert.False(t, p.Loading(), "loading flag must reset after cancel")
}

func TestPager_RejectsOverlappingLoads(t *testing.T) {
	p := NewPager(time.Hour, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := p.More(ctx, fiveMovies())
		done <- err
	}()

	require.Eventually(t, p.Loading, time.Second, time.Millisecond)

	_, err := p.More(context.Background(), fiveMovies())
	assert.ErrorIs(t, err, ErrLoadInProgress)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
