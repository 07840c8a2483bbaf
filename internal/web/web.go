// Package web implements the JSON API consumed by the frontend: Spotify
// login, the OAuth callback, and the conversion endpoint.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/oauth2"

	"github.com/abhiiee-sharma/yt-spotify/internal/models"
	"github.com/abhiiee-sharma/yt-spotify/internal/server"
	"github.com/abhiiee-sharma/yt-spotify/internal/shared"
	"github.com/abhiiee-sharma/yt-spotify/internal/store"
	"github.com/abhiiee-sharma/yt-spotify/internal/tasks"
)

// SessionHeader identifies the session on authenticated requests.
const SessionHeader = "X-Session-ID"

// loginStateTTL bounds how long a pending login's state token stays valid.
const loginStateTTL = 10 * time.Minute

// Authenticator covers the OAuth operations the API needs from the
// destination platform.
type Authenticator interface {
	GetAuthURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
}

// Converter runs a conversion. Satisfied by [tasks.ConversionEngine].
type Converter interface {
	Run(ctx context.Context, progress chan<- tasks.ProgressUpdate, req tasks.ConversionRequest) (*models.ConversionResult, error)
}

// API holds the handlers and dependencies for the JSON endpoints.
type API struct {
	auth        Authenticator
	destFactory tasks.DestinationFactory
	engine      Converter
	sessions    store.Store
	frontendURL string
	logger      *log.Logger

	mu            sync.Mutex
	pendingStates map[string]time.Time
	now           func() time.Time
}

// APIOpts configures a new API.
type APIOpts struct {
	Auth        Authenticator
	DestFactory tasks.DestinationFactory
	Engine      Converter
	Sessions    store.Store
	FrontendURL string
	Logger      *log.Logger
}

// NewAPI creates the API with the given dependencies.
func NewAPI(opts APIOpts) *API {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &API{
		auth:          opts.Auth,
		destFactory:   opts.DestFactory,
		engine:        opts.Engine,
		sessions:      opts.Sessions,
		frontendURL:   opts.FrontendURL,
		logger:        opts.Logger,
		pendingStates: make(map[string]time.Time),
		now:           time.Now,
	}
}

// Router builds the HTTP routes with logging, CORS, and metrics middleware.
func (a *API) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(
		mux.MiddlewareFunc(server.Logging(a.logger)),
		mux.MiddlewareFunc(server.CORS(a.frontendURL)),
		mux.MiddlewareFunc(server.Instrument()),
	)

	r.HandleFunc("/health", a.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/login", a.handleLogin).Methods(http.MethodGet)
	r.HandleFunc("/callback", a.handleCallback).Methods(http.MethodGet)
	r.HandleFunc("/convert", a.handleConvert).Methods(http.MethodPost, http.MethodOptions)

	return r
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// statusFor maps error taxonomy to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrUnauthenticated), errors.Is(err, shared.ErrSessionNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrUnsupportedURL),
		errors.Is(err, shared.ErrUnsupportedDirection),
		errors.Is(err, shared.ErrInvalidPlaylistURL):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrSourceFetch),
		errors.Is(err, shared.ErrPlaylistCreate),
		errors.Is(err, shared.ErrTokenExchange):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleLogin issues the Spotify authorization URL with a fresh state token.
func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	state := shared.GenerateID()

	a.mu.Lock()
	for s, issued := range a.pendingStates {
		if a.now().Sub(issued) > loginStateTTL {
			delete(a.pendingStates, s)
		}
	}
	a.pendingStates[state] = a.now()
	a.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"url": a.auth.GetAuthURL(state)})
}

func (a *API) consumeState(state string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	issued, ok := a.pendingStates[state]
	if !ok {
		return false
	}
	delete(a.pendingStates, state)
	return a.now().Sub(issued) <= loginStateTTL
}

// handleCallback completes the OAuth flow: exchanges the code, resolves the
// user's profile, stores a session, and redirects back to the frontend with
// the session id.
func (a *API) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if errParam := query.Get("error"); errParam != "" {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("authorization denied: %s", errParam))
		return
	}

	if !a.consumeState(query.Get("state")) {
		writeError(w, http.StatusBadRequest, "invalid or expired state parameter")
		return
	}

	code := query.Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	token, err := a.auth.Exchange(r.Context(), code)
	if err != nil {
		a.logger.Error("token exchange failed", "error", err)
		writeError(w, statusFor(err), "token exchange failed")
		return
	}

	dest, err := a.destFactory(r.Context(), token.AccessToken)
	if err != nil {
		a.logger.Error("destination client setup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to initialize destination client")
		return
	}

	user, err := dest.CurrentUser(r.Context())
	if err != nil {
		a.logger.Error("profile lookup failed", "error", err)
		writeError(w, http.StatusBadGateway, "failed to load user profile")
		return
	}

	sessionID := shared.GenerateID()
	session := store.Session{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		UserID:       user.ID,
		DisplayName:  user.DisplayName,
		Email:        user.Email,
	}
	if err := a.sessions.Put(r.Context(), sessionID, session); err != nil {
		a.logger.Error("session store failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store session")
		return
	}

	a.logger.Info("user logged in", "user", user.ID)
	http.Redirect(w, r, fmt.Sprintf("%s/?session_id=%s", a.frontendURL, sessionID), http.StatusFound)
}

type convertRequest struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// handleConvert runs a full conversion for the calling session and returns
// the result document.
func (a *API) handleConvert(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(SessionHeader)
	if sessionID == "" {
		writeError(w, http.StatusUnauthorized, "Please login with Spotify first")
		return
	}

	session, err := a.sessions.Get(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, shared.ErrSessionNotFound) {
			writeError(w, http.StatusUnauthorized, "Please login with Spotify first")
			return
		}
		a.logger.Error("session lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "session lookup failed")
		return
	}

	var body convertRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := a.engine.Run(r.Context(), nil, tasks.ConversionRequest{
		URL:         body.URL,
		Name:        body.Name,
		AccessToken: session.AccessToken,
	})
	if err != nil {
		a.logger.Error("conversion failed", "error", err)
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}
