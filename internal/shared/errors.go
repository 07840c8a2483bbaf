package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Request validation errors, rejected before any network call
	ErrUnauthenticated      = fmt.Errorf("not authenticated")
	ErrInvalidInput         = fmt.Errorf("invalid input")
	ErrUnsupportedURL       = fmt.Errorf("unsupported playlist URL")
	ErrUnsupportedDirection = fmt.Errorf("unsupported conversion direction")
	ErrInvalidPlaylistURL   = fmt.Errorf("invalid playlist URL")

	// Pipeline errors
	ErrSourceFetch     = fmt.Errorf("source playlist fetch failed")  // fatal
	ErrSearchTransport = fmt.Errorf("search request failed")         // per-track, recoverable
	ErrPlaylistCreate  = fmt.Errorf("playlist creation failed")      // fatal
	ErrBatchAdd        = fmt.Errorf("adding track batch failed")     // recorded, non-fatal
	ErrTokenExchange   = fmt.Errorf("authorization exchange failed") // fatal

	// Infrastructure errors
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrSessionNotFound    = fmt.Errorf("session not found")
	ErrCacheUnavailable   = fmt.Errorf("cache unavailable")
)
