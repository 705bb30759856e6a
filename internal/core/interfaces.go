package core

import "context"

// MovieSource provides normalized movie data to frontends.
// Implementations issue at most one upstream request per call and never retry.
type MovieSource interface {
	// LowestRated returns the lowest-rated movie list.
	LowestRated(ctx context.Context) ([]Movie, error)

	// TopRated returns the top-rated list (the lowest-rated list reversed).
	TopRated(ctx context.Context) ([]Movie, error)

	// Search returns movies matching a free-text query.
	Search(ctx context.Context, query string) ([]Movie, error)

	// ByGenre returns movies for a genre.
	ByGenre(ctx context.Context, genre string) ([]Movie, error)

	// Details returns full details for a movie ID.
	Details(ctx context.Context, id string) (*MovieDetails, error)
}

// Frontend defines the interface for user-facing frontends (CLI, Telegram)
type Frontend interface {
	// Start starts the frontend
	Start(ctx context.Context) error

	// Stop stops the frontend
	Stop(ctx context.Context) error

	// SendMessage sends a message to the user
	SendMessage(ctx context.Context, userID string, message string) error

	// Name returns the frontend name (e.g., "cli", "telegram")
	Name() string
}
