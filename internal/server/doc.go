// Package server provides HTTP middleware, server lifecycle management, and
// the OAuth callback flow used by the CLI login command.
//
// # Middleware
//
// [Middleware] wraps handlers in the standard Go pattern. [Logging] records
// each request, [CORS] allows the configured frontend origin, and
// [Instrument] records Prometheus request metrics keyed by route template.
//
// # Server
//
// [Server] wraps an [net/http.Server] with graceful shutdown driven by
// context cancellation. The web API handler is built separately in
// internal/web and passed in.
//
// # OAuth Callback
//
// [CallbackHandler] implements the OAuth2 authorization code callback.
// It validates the state parameter, exchanges the authorization code for
// tokens, and sends the result through a channel. Only the first callback
// is processed. [AwaitCallback] wraps the handler in a temporary server at
// the redirect URI for CLI logins.
package server
