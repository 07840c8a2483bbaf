// Package services implements the platform API clients for playlist conversion.
//
// # Contracts
//
// [SourceService] is the source-platform capability: it reads a playlist's
// full track list, transparently following pagination cursors and preserving
// order. [YouTubeService] implements it against the YouTube Data API v3.
//
// [DestinationService] is the destination-platform capability: track search,
// profile lookup, playlist creation, and batched track insertion.
// [SpotifyService] implements it against the Spotify Web API and also carries
// the OAuth2 authorization flow (auth URL, code exchange, token refresh).
//
// Both clients are context-aware on every network call and wrap failures in
// the shared error taxonomy so the orchestrator can classify them without
// inspecting transport details.
package services
