package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vadimtrunov/reelview/internal/catalog"
	"github.com/vadimtrunov/reelview/internal/core"
	"github.com/vadimtrunov/reelview/internal/watchlist"
)

// Catalog is the movie data the tools expose.
type Catalog interface {
	core.MovieSource
	Rating(ctx context.Context, id string) (string, error)
	Cast(ctx context.Context, id string) ([]core.CastMember, error)
	Crew(ctx context.Context, id string) ([]core.Director, []core.Writer, error)
}

// Deps holds dependencies for MCP tool handlers.
type Deps struct {
	Catalog   Catalog
	Watchlist *watchlist.Store
	Version   string
}

// Server wraps an MCP SDK server with reelview tool handlers.
type Server struct {
	server *mcpsdk.Server
	deps   Deps
	logger *slog.Logger
}

// NewServer creates an MCP server with all reelview tools registered.
func NewServer(deps Deps, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Watchlist == nil {
		deps.Watchlist = watchlist.New()
	}
	version := deps.Version
	if version == "" {
		version = "dev"
	}

	s := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "reelview",
			Version: version,
		},
		&mcpsdk.ServerOptions{Logger: logger},
	)

	srv := &Server{server: s, deps: deps, logger: logger}
	srv.registerTools()
	return srv
}

// ServeStdio runs the MCP server over stdin/stdout.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.server.Run(ctx, &mcpsdk.StdioTransport{})
}

// MCPServer returns the underlying MCP SDK server (for testing).
func (s *Server) MCPServer() *mcpsdk.Server {
	return s.server
}

func (s *Server) registerTools() {
	s.server.AddTool(lowestRatedTool(), s.handleLowestRated)
	s.server.AddTool(topRatedTool(), s.handleTopRated)
	s.server.AddTool(searchMoviesTool(), s.handleSearchMovies)
	s.server.AddTool(moviesByGenreTool(), s.handleMoviesByGenre)
	s.server.AddTool(getMovieDetailsTool(), s.handleGetMovieDetails)
	s.server.AddTool(getMovieCastTool(), s.handleGetMovieCast)
	s.server.AddTool(getMovieCrewTool(), s.handleGetMovieCrew)
	s.server.AddTool(getMovieRatingTool(), s.handleGetMovieRating)
	s.server.AddTool(listWatchlistTool(), s.handleListWatchlist)
	s.server.AddTool(addToWatchlistTool(), s.handleAddToWatchlist)
	s.server.AddTool(removeFromWatchlistTool(), s.handleRemoveFromWatchlist)
}

// Tool definitions.

func lowestRatedTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "lowest_rated_movies",
		Description: "List the lowest-rated movies on IMDb. Each entry has id, title, year, image, imDbRating and genres.",
		InputSchema: listSchema(),
	}
}

func topRatedTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "top_rated_movies",
		Description: "List the top-rated movies (the lowest-rated list in reverse order).",
		InputSchema: listSchema(),
	}
}

func searchMoviesTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "search_movies",
		Description: "Search movies by free text. Results can be narrowed to a genre and sorted by year, rating or title.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Free-text search, usually a title",
				},
				"sort": sortProperty(),
				"genre": map[string]any{
					"type":        "string",
					"description": "Optional genre to keep, matched case-insensitively",
				},
			},
			"required": []any{"query"},
		},
	}
}

func moviesByGenreTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "movies_by_genre",
		Description: "List top-rated movies of a genre, e.g. Drama or Comedy.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"genre": map[string]any{
					"type":        "string",
					"description": "Genre name",
				},
				"sort": sortProperty(),
			},
			"required": []any{"genre"},
		},
	}
}

func getMovieDetailsTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "get_movie_details",
		Description: "Get full details of a movie by IMDb id (tt...): plot, release date, runtime, content rating, cast, directors and writers.",
		InputSchema: idSchema("The IMDb id of the movie"),
	}
}

func getMovieCastTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "get_movie_cast",
		Description: "Get the top-billed cast of a movie by IMDb id.",
		InputSchema: idSchema("The IMDb id of the movie"),
	}
}

func getMovieCrewTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "get_movie_crew",
		Description: "Get the directors and writers of a movie by IMDb id.",
		InputSchema: idSchema("The IMDb id of the movie"),
	}
}

func getMovieRatingTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "get_movie_rating",
		Description: "Get the average IMDb rating of a movie.",
		InputSchema: idSchema("The IMDb id of the movie"),
	}
}

func listWatchlistTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "list_watchlist",
		Description: "List the movies on the watchlist of this session.",
		InputSchema: listSchema(),
	}
}

func addToWatchlistTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "add_to_watchlist",
		Description: "Look up a movie by IMDb id and add it to the watchlist.",
		InputSchema: idSchema("The IMDb id of the movie to add"),
	}
}

func removeFromWatchlistTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "remove_from_watchlist",
		Description: "Remove a movie from the watchlist by IMDb id.",
		InputSchema: idSchema("The IMDb id of the movie to remove"),
	}
}

func listSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"sort": sortProperty(),
		},
	}
}

func sortProperty() map[string]any {
	return map[string]any{
		"type":        "string",
		"enum":        []any{"year", "rating", "title"},
		"description": "Optional sort order; newest, highest rated or alphabetical first",
	}
}

func idSchema(desc string) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id": map[string]any{
				"type":        "string",
				"description": desc,
			},
		},
		"required": []any{"id"},
	}
}

// Tool handlers. Each parses arguments, calls the catalog and returns JSON text content.

func (s *Server) handleLowestRated(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Catalog == nil {
		return toolError("movie catalog not configured"), nil
	}
	return s.listTool(ctx, req, s.deps.Catalog.LowestRated)
}

func (s *Server) handleTopRated(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Catalog == nil {
		return toolError("movie catalog not configured"), nil
	}
	return s.listTool(ctx, req, s.deps.Catalog.TopRated)
}

func (s *Server) listTool(
	ctx context.Context,
	req *mcpsdk.CallToolRequest,
	fetch func(context.Context) ([]core.Movie, error),
) (*mcpsdk.CallToolResult, error) {
	var args struct {
		Sort string `json:"sort"`
	}
	if err := unmarshalArgs(req.Params.Arguments, &args); err != nil {
		return toolError(err.Error()), nil
	}

	movies, err := fetch(ctx)
	if err != nil {
		return toolError(fmt.Sprintf("fetch movies failed: %v", err)), nil
	}
	return sortedJSON(movies, args.Sort)
}

func (s *Server) handleSearchMovies(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Catalog == nil {
		return toolError("movie catalog not configured"), nil
	}

	var args struct {
		Query string `json:"query"`
		Sort  string `json:"sort"`
		Genre string `json:"genre"`
	}
	if err := unmarshalArgs(req.Params.Arguments, &args); err != nil {
		return toolError(err.Error()), nil
	}
	if args.Query == "" {
		return toolError("search_movies requires a 'query' string argument"), nil
	}

	movies, err := s.deps.Catalog.Search(ctx, args.Query)
	if err != nil {
		return toolError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if args.Genre != "" {
		movies = catalog.FilterByGenre(movies, args.Genre)
	}
	return sortedJSON(movies, args.Sort)
}

func (s *Server) handleMoviesByGenre(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Catalog == nil {
		return toolError("movie catalog not configured"), nil
	}

	var args struct {
		Genre string `json:"genre"`
		Sort  string `json:"sort"`
	}
	if err := unmarshalArgs(req.Params.Arguments, &args); err != nil {
		return toolError(err.Error()), nil
	}
	if args.Genre == "" {
		return toolError("movies_by_genre requires a 'genre' string argument"), nil
	}

	movies, err := s.deps.Catalog.ByGenre(ctx, args.Genre)
	if err != nil {
		return toolError(fmt.Sprintf("genre lookup failed: %v", err)), nil
	}
	return sortedJSON(movies, args.Sort)
}

func (s *Server) handleGetMovieDetails(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Catalog == nil {
		return toolError("movie catalog not configured"), nil
	}

	id, err := extractStringFromArgs(req.Params.Arguments, "id")
	if err != nil {
		return toolError(err.Error()), nil
	}

	details, err := s.deps.Catalog.Details(ctx, id)
	if err != nil {
		return toolError(fmt.Sprintf("get movie details failed: %v", err)), nil
	}
	return toolJSON(details)
}

func (s *Server) handleGetMovieCast(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Catalog == nil {
		return toolError("movie catalog not configured"), nil
	}

	id, err := extractStringFromArgs(req.Params.Arguments, "id")
	if err != nil {
		return toolError(err.Error()), nil
	}

	cast, err := s.deps.Catalog.Cast(ctx, id)
	if err != nil {
		return toolError(fmt.Sprintf("get cast failed: %v", err)), nil
	}
	return toolJSON(cast)
}

func (s *Server) handleGetMovieCrew(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Catalog == nil {
		return toolError("movie catalog not configured"), nil
	}

	id, err := extractStringFromArgs(req.Params.Arguments, "id")
	if err != nil {
		return toolError(err.Error()), nil
	}

	directors, writers, err := s.deps.Catalog.Crew(ctx, id)
	if err != nil {
		return toolError(fmt.Sprintf("get crew failed: %v", err)), nil
	}
	return toolJSON(map[string]any{
		"id":        id,
		"directors": directors,
		"writers":   writers,
	})
}

func (s *Server) handleGetMovieRating(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Catalog == nil {
		return toolError("movie catalog not configured"), nil
	}

	id, err := extractStringFromArgs(req.Params.Arguments, "id")
	if err != nil {
		return toolError(err.Error()), nil
	}

	rating, err := s.deps.Catalog.Rating(ctx, id)
	if err != nil {
		return toolError(fmt.Sprintf("get rating failed: %v", err)), nil
	}
	return toolJSON(map[string]any{
		"id":         id,
		"imDbRating": rating,
	})
}

func (s *Server) handleListWatchlist(_ context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	var args struct {
		Sort string `json:"sort"`
	}
	if err := unmarshalArgs(req.Params.Arguments, &args); err != nil {
		return toolError(err.Error()), nil
	}
	return sortedJSON(s.deps.Watchlist.List(), args.Sort)
}

func (s *Server) handleAddToWatchlist(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Catalog == nil {
		return toolError("movie catalog not configured"), nil
	}

	id, err := extractStringFromArgs(req.Params.Arguments, "id")
	if err != nil {
		return toolError(err.Error()), nil
	}

	details, err := s.deps.Catalog.Details(ctx, id)
	if err != nil {
		return toolError(fmt.Sprintf("get movie details failed: %v", err)), nil
	}

	added := s.deps.Watchlist.Add(details.Movie)
	s.logger.Debug("watchlist add",
		slog.String("id", details.ID),
		slog.Bool("added", added),
	)

	status := "added"
	if !added {
		status = "already_listed"
	}
	return toolJSON(map[string]any{
		"status": status,
		"id":     details.ID,
		"title":  details.Title,
		"size":   s.deps.Watchlist.Len(),
	})
}

func (s *Server) handleRemoveFromWatchlist(_ context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	id, err := extractStringFromArgs(req.Params.Arguments, "id")
	if err != nil {
		return toolError(err.Error()), nil
	}

	if err := s.deps.Watchlist.Remove(id); err != nil {
		if errors.Is(err, watchlist.ErrNotFound) {
			return toolError(fmt.Sprintf("%s is not on the watchlist", id)), nil
		}
		return toolError(fmt.Sprintf("remove failed: %v", err)), nil
	}

	return toolJSON(map[string]any{
		"status": "removed",
		"id":     id,
		"size":   s.deps.Watchlist.Len(),
	})
}

// Helper functions.

// sortedJSON sorts movies when an order is given and returns them as JSON.
func sortedJSON(movies []core.Movie, sort string) (*mcpsdk.CallToolResult, error) {
	if sort != "" {
		order, err := catalog.ParseSortOrder(sort)
		if err != nil {
			return toolError(err.Error()), nil
		}
		movies = catalog.Sort(movies, order)
	}
	if movies == nil {
		movies = []core.Movie{}
	}
	return toolJSON(movies)
}

// toolJSON marshals v to JSON and returns it as text content.
func toolJSON(v any) (*mcpsdk.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return toolError(fmt.Sprintf("marshal result: %v", err)), nil
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
	}, nil
}

// toolError returns a tool result indicating an error.
func toolError(msg string) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: msg}},
		IsError: true,
	}
}

// unmarshalArgs decodes raw JSON arguments into dst. Missing arguments are fine.
func unmarshalArgs(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// extractStringFromArgs extracts a string argument from raw JSON arguments.
func extractStringFromArgs(raw json.RawMessage, key string) (string, error) {
	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	val, ok := args[key]
	if !ok {
		return "", fmt.Errorf("%s is required", key)
	}

	s, ok := val.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%s must be a non-empty string", key)
	}
	return s, nil
}
