package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vadimtrunov/reelview/internal/core"
	"github.com/vadimtrunov/reelview/internal/imdb"
)

// Fetcher is the subset of the API client the service needs.
type Fetcher interface {
	LowestRated(ctx context.Context) ([]imdb.Title, error)
	TopRated(ctx context.Context) ([]imdb.Title, error)
	Search(ctx context.Context, query string) ([]imdb.Title, error)
	ByGenre(ctx context.Context, genre string) ([]imdb.Title, error)
	Details(ctx context.Context, id string) (*imdb.TitleDetails, error)
	Rating(ctx context.Context, id string) (imdb.Number, error)
	Cast(ctx context.Context, id string) ([]imdb.Credit, error)
	Directors(ctx context.Context, id string) ([]imdb.Credit, error)
	Writers(ctx context.Context, id string) ([]imdb.Credit, error)
}

// Service fetches raw records and hands back normalized ones.
// Failures are logged here once and returned to the frontend.
type Service struct {
	fetcher Fetcher
	logger  *slog.Logger
}

var _ core.MovieSource = (*Service)(nil)

// NewService creates a Service around a fetcher.
func NewService(fetcher Fetcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{fetcher: fetcher, logger: logger}
}

// LowestRated returns the normalized lowest-rated list.
func (s *Service) LowestRated(ctx context.Context) ([]core.Movie, error) {
	raws, err := s.fetcher.LowestRated(ctx)
	if err != nil {
		return nil, s.fail("lowest_rated", err)
	}
	return NormalizeMovies(raws), nil
}

// TopRated returns the normalized top-rated list.
func (s *Service) TopRated(ctx context.Context) ([]core.Movie, error) {
	raws, err := s.fetcher.TopRated(ctx)
	if err != nil {
		return nil, s.fail("top_rated", err)
	}
	return NormalizeMovies(raws), nil
}

// Home fetches the lowest-rated list once and splits it into home sections.
func (s *Service) Home(ctx context.Context) (Sections, error) {
	movies, err := s.LowestRated(ctx)
	if err != nil {
		return Sections{}, err
	}
	return HomeSections(movies), nil
}

// Search returns normalized search results. Results typed as anything other
// than a movie (series, episodes) are skipped; untyped results are kept.
func (s *Service) Search(ctx context.Context, query string) ([]core.Movie, error) {
	raws, err := s.fetcher.Search(ctx, query)
	if err != nil {
		return nil, s.fail("search", err, slog.String("query", query))
	}

	movies := make([]imdb.Title, 0, len(raws))
	for _, r := range raws {
		if r.Type == "" || strings.EqualFold(r.Type, "movie") {
			movies = append(movies, r)
		}
	}
	return NormalizeMovies(movies), nil
}

// ByGenre returns normalized movies for a genre.
func (s *Service) ByGenre(ctx context.Context, genre string) ([]core.Movie, error) {
	raws, err := s.fetcher.ByGenre(ctx, genre)
	if err != nil {
		return nil, s.fail("by_genre", err, slog.String("genre", genre))
	}
	return NormalizeMovies(raws), nil
}

// Details returns normalized details for a movie ID.
func (s *Service) Details(ctx context.Context, id string) (*core.MovieDetails, error) {
	raw, err := s.fetcher.Details(ctx, id)
	if err != nil {
		return nil, s.fail("details", err, slog.String("id", id))
	}
	if raw.ID == "" {
		raw.ID = id
	}
	details := NormalizeDetails(*raw)
	return &details, nil
}

// Rating returns the rating of a movie as text, "" when the movie has none.
func (s *Service) Rating(ctx context.Context, id string) (string, error) {
	n, err := s.fetcher.Rating(ctx, id)
	if err != nil {
		return "", s.fail("rating", err, slog.String("id", id))
	}
	return n.String(), nil
}

// Cast returns the normalized top-billed cast of a movie.
func (s *Service) Cast(ctx context.Context, id string) ([]core.CastMember, error) {
	credits, err := s.fetcher.Cast(ctx, id)
	if err != nil {
		return nil, s.fail("cast", err, slog.String("id", id))
	}
	return NormalizeCast(id, credits), nil
}

// Crew returns the directors and writers of a movie.
func (s *Service) Crew(ctx context.Context, id string) ([]core.Director, []core.Writer, error) {
	directors, err := s.fetcher.Directors(ctx, id)
	if err != nil {
		return nil, nil, s.fail("directors", err, slog.String("id", id))
	}
	writers, err := s.fetcher.Writers(ctx, id)
	if err != nil {
		return nil, nil, s.fail("writers", err, slog.String("id", id))
	}
	return NormalizeDirectors(directors), NormalizeWriters(writers), nil
}

// fail logs a failed operation and returns err wrapped with the operation name.
func (s *Service) fail(op string, err error, attrs ...any) error {
	args := append([]any{slog.String("operation", op), slog.String("error", err.Error())}, attrs...)
	if errors.Is(err, context.Canceled) {
		s.logger.Debug("request canceled", args...)
	} else {
		s.logger.Error("request failed", args...)
	}
	return fmt.Errorf("%s: %w", op, err)
}
