package imdb

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewForTest(server.URL, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(body))
}

const lowestRatedBody = `[
	{"id": "tt1", "primaryTitle": "First", "startYear": 1999, "averageRating": 1.2, "genres": ["Drama"]},
	{"id": "tt2", "originalTitle": "Second", "startYear": "2004", "averageRating": null, "genres": ["Comedy", "Horror"]},
	{"id": "tt3", "primaryTitle": "Third", "averageRating": "2.5"}
]`

func TestLowestRated(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/imdb/lowest-rated-movies" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("X-RapidAPI-Key") != "test-key" {
			t.Errorf("missing api key header, got %q", r.Header.Get("X-RapidAPI-Key"))
		}
		if r.Header.Get("X-RapidAPI-Host") != "test-host" {
			t.Errorf("missing api host header, got %q", r.Header.Get("X-RapidAPI-Host"))
		}
		writeJSON(w, lowestRatedBody)
	}))

	titles, err := client.LowestRated(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(titles) != 3 {
		t.Fatalf("expected 3 titles, got %d", len(titles))
	}
	if titles[0].StartYear.String() != "1999" {
		t.Errorf("startYear = %q, want 1999", titles[0].StartYear.String())
	}
	if titles[1].StartYear.String() != "2004" {
		t.Errorf("string startYear = %q, want 2004", titles[1].StartYear.String())
	}
	if titles[1].AverageRating != "" {
		t.Errorf("null rating should decode empty, got %q", titles[1].AverageRating)
	}
	if titles[2].AverageRating.String() != "2.5" {
		t.Errorf("string rating = %q, want 2.5", titles[2].AverageRating.String())
	}
}

func TestTopRated_ReversesList(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, lowestRatedBody)
	}))

	titles, err := client.TopRated(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"tt3", "tt2", "tt1"}
	for i, id := range want {
		if titles[i].ID != id {
			t.Errorf("titles[%d].ID = %q, want %q", i, titles[i].ID, id)
		}
	}
}

func TestDetails(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/imdb/movie/details" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("id") != "tt0137523" {
			t.Errorf("unexpected id: %s", r.URL.Query().Get("id"))
		}
		writeJSON(w, `{
			"id": "tt0137523",
			"primaryTitle": "Fight Club",
			"startYear": 1999,
			"averageRating": 8.8,
			"runtimeMinutes": 139,
			"contentRating": "R",
			"releaseDate": "1999-10-15",
			"directors": [{"id": "nm0000399", "fullName": "David Fincher"}],
			"writers": [{"id": "nm0657333", "name": "Chuck Palahniuk"}],
			"cast": [{"id": "nm0000093", "fullName": "Brad Pitt", "characters": ["Tyler Durden"]}]
		}`)
	}))

	details, err := client.Details(context.Background(), "tt0137523")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if details.PrimaryTitle != "Fight Club" {
		t.Errorf("expected Fight Club, got %s", details.PrimaryTitle)
	}
	if details.RuntimeMinutes.String() != "139" {
		t.Errorf("expected runtime 139, got %s", details.RuntimeMinutes)
	}
	if len(details.Directors) != 1 || details.Directors[0].DisplayName() != "David Fincher" {
		t.Errorf("unexpected directors: %+v", details.Directors)
	}
	if len(details.Cast) != 1 || details.Cast[0].Characters[0] != "Tyler Durden" {
		t.Errorf("unexpected cast: %+v", details.Cast)
	}
}

func TestDetails_EmptyID(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		calls.Add(1)
	}))

	_, err := client.Details(context.Background(), "  ")
	if !errors.Is(err, ErrFetchFailed) {
		t.Errorf("expected ErrFetchFailed, got %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("expected no request for empty id, got %d", calls.Load())
	}
}

func TestCreditAccessors_EmptyWhenAbsent(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{"id": "tt1", "averageRating": 6.0}`)
	}))
	ctx := context.Background()

	directors, err := client.Directors(ctx, "tt1")
	if err != nil {
		t.Fatalf("Directors: %v", err)
	}
	if directors == nil || len(directors) != 0 {
		t.Errorf("expected empty non-nil directors, got %#v", directors)
	}

	writers, err := client.Writers(ctx, "tt1")
	if err != nil {
		t.Fatalf("Writers: %v", err)
	}
	if writers == nil || len(writers) != 0 {
		t.Errorf("expected empty non-nil writers, got %#v", writers)
	}

	cast, err := client.Cast(ctx, "tt1")
	if err != nil {
		t.Fatalf("Cast: %v", err)
	}
	if cast == nil || len(cast) != 0 {
		t.Errorf("expected empty non-nil cast, got %#v", cast)
	}

	rating, err := client.Rating(ctx, "tt1")
	if err != nil {
		t.Fatalf("Rating: %v", err)
	}
	if rating.String() != "6" {
		t.Errorf("rating = %q, want %q", rating.String(), "6")
	}
}

func TestSearch(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/imdb/search" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("query") != "dune part two" {
			t.Errorf("unexpected query: %s", r.URL.Query().Get("query"))
		}
		writeJSON(w, `{"results": [{"id": "tt15239678", "type": "movie", "primaryTitle": "Dune: Part Two"}]}`)
	}))

	titles, err := client.Search(context.Background(), "dune part two")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(titles) != 1 || titles[0].Type != "movie" {
		t.Fatalf("unexpected results: %+v", titles)
	}
}

func TestSearch_MissingResults(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{}`)
	}))

	titles, err := client.Search(context.Background(), "nothing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if titles == nil || len(titles) != 0 {
		t.Errorf("expected empty non-nil results, got %#v", titles)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("no request expected for empty query")
	}))

	if _, err := client.Search(context.Background(), ""); !errors.Is(err, ErrFetchFailed) {
		t.Errorf("expected ErrFetchFailed, got %v", err)
	}
}

func TestByGenre(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, lowestRatedBody)
	}))

	titles, err := client.ByGenre(context.Background(), "horror")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(titles) != 1 || titles[0].ID != "tt2" {
		t.Errorf("expected only tt2, got %+v", titles)
	}
}

func TestByGenre_FallbackWhenNoMatch(t *testing.T) {
	var list []Title
	for i := range 15 {
		list = append(list, Title{ID: "tt" + string(rune('a'+i)), Genres: []string{"Drama"}})
	}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(list)
	}))

	titles, err := client.ByGenre(context.Background(), "Western")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(titles) != 10 {
		t.Fatalf("expected fallback of 10 titles, got %d", len(titles))
	}
	// Fallback comes from the reversed (top-rated) list.
	if titles[0].ID != list[len(list)-1].ID {
		t.Errorf("first fallback title = %q, want %q", titles[0].ID, list[len(list)-1].ID)
	}
}

func TestAPIError(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message": "You are not subscribed to this API."}`))
	}))

	_, err := client.LowestRated(context.Background())
	if err == nil {
		t.Fatal("expected error for 403 response")
	}
	if !errors.Is(err, ErrFetchFailed) {
		t.Errorf("expected ErrFetchFailed, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected exactly one request, got %d", calls.Load())
	}
}

func TestDecodeError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{"not": "a list"}`)
	}))

	if _, err := client.LowestRated(context.Background()); !errors.Is(err, ErrFetchFailed) {
		t.Errorf("expected ErrFetchFailed, got %v", err)
	}
}

func TestNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewForTest(url, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if _, err := client.LowestRated(context.Background()); !errors.Is(err, ErrFetchFailed) {
		t.Errorf("expected ErrFetchFailed, got %v", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	c := New(Config{APIKey: "k"}, nil)
	if c.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", c.baseURL, DefaultBaseURL)
	}
	if c.apiHost != DefaultHost {
		t.Errorf("apiHost = %q, want %q", c.apiHost, DefaultHost)
	}

	c = New(Config{BaseURL: "http://localhost:9000/", APIKey: "k"}, nil)
	if c.baseURL != "http://localhost:9000" {
		t.Errorf("trailing slash not trimmed: %q", c.baseURL)
	}
}
