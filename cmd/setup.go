package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/abhiiee-sharma/yt-spotify/internal/shared"
)

// Setup writes a configuration file template for the user to fill in.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err == nil {
		r.logger.Info("config file already exists", "path", configPath)
		return r.writePlain("Config file already exists at %s\n", configPath)
	}

	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", configPath)

	r.writePlain("✓ Created %s\n", configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Add your Spotify client_id and client_secret under [credentials.spotify]\n")
	r.writePlain("2. Add your YouTube Data API key under [credentials.youtube]\n")
	r.writePlain("3. Run 'yt-spotify auth login' to authorize with Spotify\n")

	return nil
}
