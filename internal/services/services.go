package services

import (
	"context"

	"github.com/abhiiee-sharma/yt-spotify/internal/models"
)

// SourceService defines the source-platform capability consumed by the
// conversion pipeline.
type SourceService interface {
	// FetchAll retrieves the complete, ordered track list of a playlist,
	// following pagination cursors until exhausted. The whole list is
	// accumulated before returning so downstream stages know the total
	// count up front.
	FetchAll(ctx context.Context, playlistID string) ([]models.TrackDescriptor, error)

	// Name returns the platform name (e.g. "YouTube")
	Name() string
}

// DestinationService defines the destination-platform capability consumed by
// the matcher and playlist builder.
type DestinationService interface {
	// SearchTracks issues one search call and returns up to limit candidates
	// for the given market.
	SearchTracks(ctx context.Context, query string, limit int, market string) ([]models.SearchCandidate, error)

	// CurrentUser retrieves the authenticated user's profile.
	CurrentUser(ctx context.Context) (*User, error)

	// CreatePlaylist creates a private, non-collaborative playlist owned by
	// the given user.
	CreatePlaylist(ctx context.Context, userID, name string) (*CreatedPlaylist, error)

	// AddTracks appends one batch of track URIs to a playlist, preserving
	// the order given.
	AddTracks(ctx context.Context, playlistID string, uris []string) error

	// Name returns the platform name (e.g. "Spotify")
	Name() string
}

// User represents the authenticated destination-platform user.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email,omitempty"`
}

// CreatedPlaylist represents a freshly created destination playlist.
type CreatedPlaylist struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
