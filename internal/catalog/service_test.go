package catalog

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadimtrunov/reelview/internal/imdb"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestService(t *testing.T, routes map[string]string) *Service {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return NewService(imdb.NewForTest(server.URL, discardLogger), discardLogger)
}

const listBody = `[
	{"id":"tt1","primaryTitle":"A","startYear":1999,"averageRating":1.1,"genres":["Horror"]},
	{"primaryTitle":"dropped"},
	{"id":"tt2","originalTitle":"B","averageRating":2.2}
]`

func TestService_LowestRated(t *testing.T) {
	svc := newTestService(t, map[string]string{"/imdb/lowest-rated-movies": listBody})

	movies, err := svc.LowestRated(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"tt1", "tt2"}, ids(movies))
	assert.Equal(t, UnknownYear, movies[1].Year)
	assert.Equal(t, PlaceholderPoster, movies[1].Image)
}

func TestService_TopRated(t *testing.T) {
	svc := newTestService(t, map[string]string{"/imdb/lowest-rated-movies": listBody})

	movies, err := svc.TopRated(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"tt2", "tt1"}, ids(movies))
}

func TestService_Home(t *testing.T) {
	svc := newTestService(t, map[string]string{"/imdb/lowest-rated-movies": listBody})

	s, err := svc.Home(context.Background())

	require.NoError(t, err)
	assert.Len(t, s.Popular, 2)
	assert.Empty(t, s.LowestRated)
}

func TestService_SearchKeepsMoviesOnly(t *testing.T) {
	svc := newTestService(t, map[string]string{"/imdb/search": `{"results":[
		{"id":"tt1","type":"movie","primaryTitle":"Dune"},
		{"id":"tt2","type":"tvSeries","primaryTitle":"Dune: Prophecy"},
		{"id":"tt3","primaryTitle":"Dune (untyped)"},
		{"id":"tt4","type":"Movie","primaryTitle":"Dune 1984"}
	]}`})

	movies, err := svc.Search(context.Background(), "dune")

	require.NoError(t, err)
	assert.Equal(t, []string{"tt1", "tt3", "tt4"}, ids(movies))
}

func TestService_ByGenre(t *testing.T) {
	svc := newTestService(t, map[string]string{"/imdb/lowest-rated-movies": listBody})

	movies, err := svc.ByGenre(context.Background(), "HORROR")

	require.NoError(t, err)
	assert.Equal(t, []string{"tt1"}, ids(movies))
}

func TestService_DetailsAndCredits(t *testing.T) {
	svc := newTestService(t, map[string]string{"/imdb/movie/details": `{
		"primaryTitle":"No ID Upstream","averageRating":6.5,
		"directors":[{"id":"nm1","name":"D"}],
		"writers":[{"id":"nm2","name":"W"}],
		"cast":[{"name":"C"}]
	}`})
	ctx := context.Background()

	details, err := svc.Details(ctx, "tt42")
	require.NoError(t, err)
	assert.Equal(t, "tt42", details.ID, "requested id fills a missing upstream id")
	assert.Equal(t, "tt42-cast-0", details.Cast[0].ID)

	rating, err := svc.Rating(ctx, "tt42")
	require.NoError(t, err)
	assert.Equal(t, "6.5", rating)

	cast, err := svc.Cast(ctx, "tt42")
	require.NoError(t, err)
	require.Len(t, cast, 1)
	assert.Equal(t, "C", cast[0].Name)

	directors, writers, err := svc.Crew(ctx, "tt42")
	require.NoError(t, err)
	assert.Equal(t, "D", directors[0].Name)
	assert.Equal(t, "W", writers[0].Name)
}

func TestService_FailureIsLoggedAndReturned(t *testing.T) {
	var buf bytes.Buffer
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)
	svc := NewService(imdb.NewForTest(server.URL, discardLogger), slog.New(slog.NewTextHandler(&buf, nil)))

	movies, err := svc.Search(context.Background(), "anything")

	assert.Nil(t, movies)
	assert.True(t, errors.Is(err, imdb.ErrFetchFailed))
	assert.True(t, strings.Contains(buf.String(), "operation=search"), "log: %s", buf.String())
	assert.True(t, strings.Contains(buf.String(), "level=ERROR"), "log: %s", buf.String())
}

func TestService_CanceledIsNotAnError(t *testing.T) {
	var buf bytes.Buffer
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	t.Cleanup(server.Close)
	svc := NewService(imdb.NewForTest(server.URL, discardLogger),
		slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.LowestRated(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, strings.Contains(buf.String(), "level=ERROR"), "log: %s", buf.String())
}
