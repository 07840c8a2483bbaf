package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/abhiiee-sharma/yt-spotify/internal/server"
	"github.com/abhiiee-sharma/yt-spotify/internal/shared"
	"github.com/abhiiee-sharma/yt-spotify/internal/store"
	"github.com/abhiiee-sharma/yt-spotify/internal/web"
)

// newSessionStore picks Redis when configured, falling back to an in-memory
// store suitable for single-instance deployments.
func (r *Runner) newSessionStore(ctx context.Context) (store.Store, error) {
	ttl := time.Duration(r.config.Sessions.TTLMinutes) * time.Minute

	if addr := r.config.Sessions.RedisAddr; addr != "" {
		redisStore, err := store.NewRedisStore(ctx, addr, ttl)
		if err != nil {
			return nil, err
		}
		r.logger.Info("using redis session store", "addr", addr)
		return redisStore, nil
	}

	r.logger.Info("using in-memory session store")
	return store.NewMemoryStore(ttl), nil
}

// Serve runs the JSON API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	spotify, err := r.newSpotifyService()
	if err != nil {
		return err
	}

	engine, err := r.buildEngine()
	if err != nil {
		return err
	}

	sessions, err := r.newSessionStore(ctx)
	if err != nil {
		return err
	}

	api := web.NewAPI(web.APIOpts{
		Auth:        spotify,
		DestFactory: r.spotifyDestFactory,
		Engine:      engine,
		Sessions:    sessions,
		FrontendURL: r.config.Server.FrontendURL,
		Logger:      shared.WithLogger(r.logger, "component", "web"),
	})

	host := r.config.Server.Host
	if flagHost := cmd.String("host"); flagHost != "" {
		host = flagHost
	}
	port := r.config.Server.Port
	if flagPort := cmd.Int("port"); flagPort != 0 {
		port = int(flagPort)
	}

	srv := server.New(host, port, api.Router(), r.logger)
	return srv.Run(ctx)
}
