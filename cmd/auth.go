package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"

	"github.com/abhiiee-sharma/yt-spotify/internal/server"
	"github.com/abhiiee-sharma/yt-spotify/internal/services"
	"github.com/abhiiee-sharma/yt-spotify/internal/shared"
)

// saveToken persists the OAuth token next to the user's config.
func (r *Runner) saveToken(token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.tokenPath), 0755); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	if err := os.WriteFile(r.tokenPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

// loadToken reads the stored OAuth token, if any.
func (r *Runner) loadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(r.tokenPath)
	if err != nil {
		return nil, fmt.Errorf("%w: no stored credential, run 'yt-spotify auth login'", shared.ErrUnauthenticated)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("%w: corrupt token file %s", shared.ErrUnauthenticated, r.tokenPath)
	}

	return &token, nil
}

func (r *Runner) newSpotifyService() (*services.SpotifyService, error) {
	creds := r.config.Credentials.Spotify
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, fmt.Errorf("%w: Spotify client_id and client_secret must be set in config.toml", shared.ErrMissingCredentials)
	}
	return services.NewSpotifyService(creds.Map())
}

// AuthLogin performs the OAuth2 authorization code flow.
//
// Starts a local HTTP server at the redirect URI, opens the browser for user
// authorization, exchanges the code, and stores the token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.newSpotifyService()
	if err != nil {
		return err
	}

	state := shared.GenerateID()
	authURL := svc.GetAuthURL(state)

	if cmd.Bool("no-browser") {
		r.writePlain("Open this URL to authorize:\n%s\n", authURL)
	} else {
		r.writePlain("Opening browser for Spotify authorization...\n")
		if err := shared.OpenBrowser(authURL); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
			r.writePlain("Open this URL to authorize:\n%s\n", authURL)
		}
	}

	redirectURI := r.config.Credentials.Spotify.RedirectURI
	if redirectURI == "" {
		redirectURI = svc.OAuthConfig().RedirectURL
	}

	token, err := server.AwaitCallback(ctx, svc, redirectURI, state)
	if err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}

	if err := r.saveToken(token); err != nil {
		return err
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Token saved to %s\n\n", r.tokenPath)
	r.writePlain("You can now run: yt-spotify convert --url <playlist> --name <name>\n")

	return nil
}

// AuthStatus verifies the stored credential against the Spotify profile
// endpoint, refreshing it when expired.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	token, err := r.loadToken()
	if err != nil {
		return r.writePlain("✗ Not authenticated: %v\n", err)
	}

	svc, err := r.newSpotifyService()
	if err != nil {
		return err
	}

	if err := svc.Authenticate(ctx, map[string]string{"access_token": token.AccessToken}); err != nil {
		return err
	}

	user, err := svc.CurrentUser(ctx)
	if err != nil && token.RefreshToken != "" {
		r.logger.Info("access token rejected, refreshing")
		refreshed, refreshErr := svc.Refresh(ctx, token.RefreshToken)
		if refreshErr != nil {
			return fmt.Errorf("credential expired and refresh failed: %w", refreshErr)
		}
		if err := r.saveToken(refreshed); err != nil {
			return err
		}
		if err := svc.Authenticate(ctx, map[string]string{"access_token": refreshed.AccessToken}); err != nil {
			return err
		}
		user, err = svc.CurrentUser(ctx)
	}
	if err != nil {
		return fmt.Errorf("credential check failed: %w", err)
	}

	r.writePlain("✓ Authenticated as %s", user.DisplayName)
	if user.Email != "" {
		r.writePlain(" (%s)", user.Email)
	}
	return r.writePlain("\n")
}

// AuthLogout removes the stored credential.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := os.Remove(r.tokenPath); err != nil {
		if os.IsNotExist(err) {
			return r.writePlain("No stored credential\n")
		}
		return fmt.Errorf("failed to remove token file: %w", err)
	}

	r.logger.Info("credential removed", "path", r.tokenPath)
	return r.writePlain("✓ Logged out\n")
}
