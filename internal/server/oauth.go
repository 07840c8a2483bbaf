package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// TokenExchanger exchanges an authorization code for an OAuth2 token.
type TokenExchanger interface {
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
}

// CallbackResult carries the outcome of an OAuth authorization flow.
type CallbackResult struct {
	Token *oauth2.Token
	err   error
}

func (c CallbackResult) Error() error {
	return c.err
}

// CallbackHandler receives the OAuth2 authorization code callback during a
// CLI login. It validates the state parameter, exchanges the code, and
// delivers the result through a channel. Only the first callback is
// processed.
type CallbackHandler struct {
	exchanger  TokenExchanger
	state      string
	resultChan chan CallbackResult
	once       sync.Once
	mu         sync.Mutex
	done       bool
}

// NewCallbackHandler creates a callback handler expecting the given state
// token. The state should be random per login attempt.
func NewCallbackHandler(exchanger TokenExchanger, state string) *CallbackHandler {
	return &CallbackHandler{
		exchanger:  exchanger,
		state:      state,
		resultChan: make(chan CallbackResult, 1),
	}
}

// Result returns the channel that receives exactly one result before closing.
func (h *CallbackHandler) Result() <-chan CallbackResult {
	return h.resultChan
}

func (h *CallbackHandler) send(result CallbackResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.done {
		h.mu.Unlock()
		http.Error(w, "callback already processed", http.StatusBadRequest)
		return
	}
	h.done = true
	h.mu.Unlock()

	if state := r.URL.Query().Get("state"); state != h.state {
		h.send(CallbackResult{err: fmt.Errorf("invalid state parameter")})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		errParam := r.URL.Query().Get("error")
		h.send(CallbackResult{err: fmt.Errorf("authorization denied: %s", errParam)})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	token, err := h.exchanger.Exchange(r.Context(), code)
	if err != nil {
		h.send(CallbackResult{err: err})
		http.Error(w, "Token exchange failed", http.StatusInternalServerError)
		return
	}

	h.send(CallbackResult{Token: token})

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<!DOCTYPE html>
<html>
<head><title>Login Successful</title></head>
<body style="font-family: sans-serif; text-align: center; padding-top: 4rem;">
  <h1>Login successful</h1>
  <p>You can close this window and return to the terminal.</p>
</body>
</html>
`)
}

// AwaitCallback runs a temporary HTTP server at the redirect URI's host and
// path, waits for a single OAuth callback, and returns the token. It shuts
// the server down before returning.
func AwaitCallback(ctx context.Context, exchanger TokenExchanger, redirectURI, state string) (*oauth2.Token, error) {
	parsed, err := url.Parse(redirectURI)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URI %q: %w", redirectURI, err)
	}

	path := parsed.Path
	if path == "" {
		path = "/"
	}

	handler := NewCallbackHandler(exchanger, state)

	mux := http.NewServeMux()
	mux.Handle(path, handler)

	srv := &http.Server{
		Addr:              parsed.Host,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	select {
	case result := <-handler.Result():
		if result.Error() != nil {
			return nil, result.Error()
		}
		return result.Token, nil
	case err := <-errChan:
		return nil, fmt.Errorf("callback server failed: %w", err)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
