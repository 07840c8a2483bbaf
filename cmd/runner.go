package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/abhiiee-sharma/yt-spotify/internal/cache"
	"github.com/abhiiee-sharma/yt-spotify/internal/match"
	"github.com/abhiiee-sharma/yt-spotify/internal/models"
	"github.com/abhiiee-sharma/yt-spotify/internal/services"
	"github.com/abhiiee-sharma/yt-spotify/internal/shared"
	"github.com/abhiiee-sharma/yt-spotify/internal/tasks"
)

// converter abstracts the conversion engine for command actions.
type converter interface {
	Run(ctx context.Context, progress chan<- tasks.ProgressUpdate, req tasks.ConversionRequest) (*models.ConversionResult, error)
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	logger     *log.Logger
	output     io.Writer
	httpClient *http.Client
	engine     converter
	tokenPath  string
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Logger     *log.Logger
	Output     io.Writer
	HTTPClient *http.Client
	Engine     converter
	TokenPath  string
}

// NewRunner creates a new Runner with the provided configuration.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.TokenPath == "" {
		opts.TokenPath = defaultTokenPath()
	}

	return &Runner{
		config:     opts.Config,
		logger:     opts.Logger,
		output:     opts.Output,
		httpClient: opts.HTTPClient,
		engine:     opts.Engine,
		tokenPath:  opts.TokenPath,
	}
}

func defaultTokenPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "token.json"
	}
	return filepath.Join(homeDir, ".yt-spotify", "token.json")
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, convertCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// spotifyDestFactory builds a destination client bound to one access token.
func (r *Runner) spotifyDestFactory(ctx context.Context, accessToken string) (services.DestinationService, error) {
	svc, err := services.NewSpotifyService(r.config.Credentials.Spotify.Map())
	if err != nil {
		return nil, err
	}
	if err := svc.Authenticate(ctx, map[string]string{"access_token": accessToken}); err != nil {
		return nil, err
	}
	return svc, nil
}

// buildEngine assembles the conversion engine from configuration. The engine
// is cached on the runner after the first build.
func (r *Runner) buildEngine() (converter, error) {
	if r.engine != nil {
		return r.engine, nil
	}

	source, err := services.NewYouTubeService(r.config.Credentials.YouTube.APIKey, r.httpClient)
	if err != nil {
		return nil, fmt.Errorf("youtube credentials: %w", err)
	}

	scorer, err := match.NewScorer(r.config.Matcher.Version)
	if err != nil {
		return nil, err
	}

	var cacheStore match.CacheStore
	if r.config.Cache.Path != "" {
		searchCache, err := cache.Open(r.config.Cache.Path, r.config.Cache.MaxOpenConns, r.config.Cache.MaxIdleConns)
		if err != nil {
			r.logger.Warn("search cache unavailable, continuing without it", "error", err)
		} else {
			cacheStore = searchCache
		}
	}

	r.engine = tasks.NewConversionEngine(tasks.EngineOpts{
		Source:      source,
		DestFactory: r.spotifyDestFactory,
		Scorer:      scorer,
		Market:      r.config.Matcher.Market,
		Cache:       cacheStore,
		Logger:      r.logger,
	})
	return r.engine, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
