package main

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/abhiiee-sharma/yt-spotify/internal/formatter"
	"github.com/abhiiee-sharma/yt-spotify/internal/shared"
	"github.com/abhiiee-sharma/yt-spotify/internal/tasks"
)

// Convert runs a one-shot YouTube to Spotify conversion and prints a report.
func (r *Runner) Convert(ctx context.Context, cmd *cli.Command) error {
	accessToken := cmd.String("token")
	if accessToken == "" {
		token, err := r.loadToken()
		if err != nil {
			return err
		}
		accessToken = token.AccessToken
	}

	if version := cmd.String("matcher"); version != "" {
		r.config.Matcher.Version = version
	}

	engine, err := r.buildEngine()
	if err != nil {
		return err
	}

	quiet := cmd.Bool("quiet")
	if quiet {
		shared.SetLogLevel(r.logger, log.WarnLevel)
	}

	var progress chan tasks.ProgressUpdate
	var wg sync.WaitGroup
	if !quiet {
		progress = make(chan tasks.ProgressUpdate, 64)
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.printProgress(progress)
		}()
	}

	result, err := engine.Run(ctx, progress, tasks.ConversionRequest{
		URL:         cmd.String("url"),
		Name:        cmd.String("name"),
		AccessToken: accessToken,
	})
	if progress != nil {
		close(progress)
		wg.Wait()
	}
	if err != nil {
		return err
	}

	format := formatter.Format(cmd.String("format"))
	if outputPath := cmd.String("output"); outputPath != "" {
		written, err := formatter.WriteFile(result, format, outputPath)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Report written to %s\n", written)
	}

	return formatter.Write(r.output, result, format)
}

// printProgress drains the progress channel, logging each phase transition
// and per-track matching steps.
func (r *Runner) printProgress(progress <-chan tasks.ProgressUpdate) {
	var lastPhase tasks.Phase = -1
	for update := range progress {
		if update.Phase == tasks.Matching {
			r.logger.Info(update.Message, "step", update.Step, "total", update.Total)
			continue
		}
		if update.Phase != lastPhase {
			lastPhase = update.Phase
			r.logger.Info(update.Message, "phase", update.Phase.String())
		}
	}
}
