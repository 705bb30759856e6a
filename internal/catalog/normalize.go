// Package catalog turns raw API records into the movie records the
// frontends render, and implements the client-side list operations
// (sorting, genre filtering, home sections and simulated load-more).
package catalog

import (
	"fmt"
	"strings"

	"github.com/vadimtrunov/reelview/internal/core"
	"github.com/vadimtrunov/reelview/internal/imdb"
)

// Defaults substituted for fields missing from upstream records.
const (
	PlaceholderPoster  = "https://via.placeholder.com/300x450?text=No+Image"
	PlaceholderProfile = "https://via.placeholder.com/150x150?text=No+Image"
	UnknownYear        = "Unknown"
	UnknownTitle       = "Unknown Title"

	maxCast = 10
)

// NormalizeMovie maps a raw title to a Movie with every optional field defaulted.
func NormalizeMovie(raw imdb.Title) core.Movie {
	return core.Movie{
		ID:         raw.ID,
		Title:      firstNonEmpty(raw.PrimaryTitle, raw.OriginalTitle, UnknownTitle),
		Year:       firstNonEmpty(raw.StartYear.String(), UnknownYear),
		Image:      firstNonEmpty(raw.PrimaryImage, PlaceholderPoster),
		ImDbRating: raw.AverageRating.String(),
		Plot:       strings.TrimSpace(raw.Description),
		Genres:     cleanGenres(raw.Genres),
	}
}

// NormalizeMovies normalizes a list, dropping records without an ID.
func NormalizeMovies(raws []imdb.Title) []core.Movie {
	movies := make([]core.Movie, 0, len(raws))
	for _, raw := range raws {
		if strings.TrimSpace(raw.ID) == "" {
			continue
		}
		movies = append(movies, NormalizeMovie(raw))
	}
	return movies
}

// NormalizeDetails maps a raw details payload to MovieDetails.
// Cast is truncated to the first members; cast entries without an ID get a
// synthesized one derived from the movie ID.
func NormalizeDetails(raw imdb.TitleDetails) core.MovieDetails {
	return core.MovieDetails{
		Movie:         NormalizeMovie(raw.Title),
		ReleaseDate:   raw.ReleaseDate,
		ContentRating: raw.ContentRating,
		RuntimeMins:   raw.RuntimeMinutes.String(),
		Cast:          NormalizeCast(raw.ID, raw.Cast),
		Directors:     NormalizeDirectors(raw.Directors),
		Writers:       NormalizeWriters(raw.Writers),
	}
}

// NormalizeCast maps raw cast credits, keeping at most the top-billed members.
func NormalizeCast(movieID string, credits []imdb.Credit) []core.CastMember {
	cast := make([]core.CastMember, 0, min(len(credits), maxCast))
	for i, c := range credits {
		if i == maxCast {
			break
		}
		id := c.ID
		if id == "" {
			id = fmt.Sprintf("%s-cast-%d", movieID, i)
		}
		character := c.Character
		if character == "" && len(c.Characters) > 0 {
			character = strings.Join(c.Characters, " / ")
		}
		cast = append(cast, core.CastMember{
			ID:        id,
			Name:      c.DisplayName(),
			Image:     firstNonEmpty(c.Image, c.PrimaryImage, PlaceholderProfile),
			Character: character,
		})
	}
	return cast
}

// NormalizeDirectors maps raw director credits.
func NormalizeDirectors(credits []imdb.Credit) []core.Director {
	out := make([]core.Director, 0, len(credits))
	for _, c := range credits {
		out = append(out, core.Director{ID: c.ID, Name: c.DisplayName()})
	}
	return out
}

// NormalizeWriters maps raw writer credits.
func NormalizeWriters(credits []imdb.Credit) []core.Writer {
	out := make([]core.Writer, 0, len(credits))
	for _, c := range credits {
		out = append(out, core.Writer{ID: c.ID, Name: c.DisplayName()})
	}
	return out
}

func cleanGenres(genres []string) []string {
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
