package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abhiiee-sharma/yt-spotify/internal/match"
	"github.com/abhiiee-sharma/yt-spotify/internal/metrics"
	"github.com/abhiiee-sharma/yt-spotify/internal/models"
	"github.com/abhiiee-sharma/yt-spotify/internal/services"
	"github.com/abhiiee-sharma/yt-spotify/internal/shared"
	"github.com/charmbracelet/log"
)

// addBatchSize is the destination platform's ceiling on tracks per add call.
// Not tunable at call time.
const addBatchSize = 50

// ConversionRequest carries one conversion's inputs. The access token is a
// per-call credential: concurrent runs never share client state.
type ConversionRequest struct {
	URL         string
	Name        string
	AccessToken string
}

// Direction classifies which way a conversion would run.
type Direction int

const (
	DirectionUnknown Direction = iota
	DirectionYouTubeToSpotify
	DirectionSpotifyToYouTube
)

// ClassifyURL determines the conversion direction from hostname tokens.
func ClassifyURL(rawURL string) Direction {
	lowered := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lowered, "youtube.com"), strings.Contains(lowered, "youtu.be"):
		return DirectionYouTubeToSpotify
	case strings.Contains(lowered, "spotify.com"):
		return DirectionSpotifyToYouTube
	default:
		return DirectionUnknown
	}
}

// DestinationFactory builds a destination client bound to one caller's
// credential. Invoked once per conversion run.
type DestinationFactory func(ctx context.Context, accessToken string) (services.DestinationService, error)

// ConversionEngine orchestrates conversion runs. All per-run state (outcome
// sequence, matched-URI accumulator) is owned by the run itself, so one
// engine serves concurrent requests.
type ConversionEngine struct {
	source      services.SourceService
	destFactory DestinationFactory
	scorer      match.Scorer
	market      string
	cache       match.CacheStore
	pacer       Pacer
	logger      *log.Logger
}

// EngineOpts contains configuration options for creating a ConversionEngine.
type EngineOpts struct {
	Source      services.SourceService
	DestFactory DestinationFactory
	Scorer      match.Scorer
	Market      string
	Cache       match.CacheStore
	Pacer       Pacer
	Logger      *log.Logger
}

// NewConversionEngine creates a ConversionEngine with the provided options.
func NewConversionEngine(opts EngineOpts) *ConversionEngine {
	if opts.Scorer == nil {
		opts.Scorer = match.ContainmentScorer{}
	}
	if opts.Market == "" {
		opts.Market = "US"
	}
	if opts.Pacer == nil {
		opts.Pacer = NewPacer(DefaultTrackInterval)
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &ConversionEngine{
		source:      opts.Source,
		destFactory: opts.DestFactory,
		scorer:      opts.Scorer,
		market:      opts.Market,
		cache:       opts.Cache,
		pacer:       opts.Pacer,
		logger:      opts.Logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *ConversionEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// validate rejects a request before any network call is made.
func (e *ConversionEngine) validate(req ConversionRequest) error {
	if strings.TrimSpace(req.AccessToken) == "" {
		return fmt.Errorf("%w: please login with Spotify first", shared.ErrUnauthenticated)
	}
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: please provide a name for your playlist", shared.ErrInvalidInput)
	}
	if strings.TrimSpace(req.URL) == "" {
		return fmt.Errorf("%w: please provide a playlist URL", shared.ErrInvalidInput)
	}

	switch ClassifyURL(req.URL) {
	case DirectionYouTubeToSpotify:
		return nil
	case DirectionSpotifyToYouTube:
		return fmt.Errorf("%w: Spotify to YouTube conversion is not implemented yet", shared.ErrUnsupportedDirection)
	default:
		return fmt.Errorf("%w: please provide a valid YouTube playlist URL", shared.ErrUnsupportedURL)
	}
}

// Run performs one full conversion.
//
// Fatal errors (validation, source fetch, playlist creation) return a nil
// result. Per-track search failures and add-batch failures are recorded on
// the result instead.
func (e *ConversionEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, req ConversionRequest) (*models.ConversionResult, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: source service not initialized", shared.ErrServiceUnavailable)
	}
	if e.destFactory == nil {
		return nil, fmt.Errorf("%w: destination service not initialized", shared.ErrServiceUnavailable)
	}

	started := time.Now()
	result, err := e.run(ctx, progress, req)
	if err != nil {
		metrics.ConversionsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	metrics.ConversionsTotal.WithLabelValues("completed").Inc()
	metrics.ConversionDuration.Observe(time.Since(started).Seconds())
	return result, nil
}

func (e *ConversionEngine) run(ctx context.Context, progress chan<- ProgressUpdate, req ConversionRequest) (*models.ConversionResult, error) {
	if err := e.validate(req); err != nil {
		return nil, err
	}

	playlistID, err := services.ExtractPlaylistID(req.URL)
	if err != nil {
		return nil, err
	}

	logger := e.logger.With("playlist", playlistID, "name", req.Name)

	e.sendProgress(progress, fetchingSourceUpdate())
	tracks, err := e.source.FetchAll(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	logger.Info("fetched source playlist", "tracks", len(tracks))
	e.sendProgress(progress, fetchedSourceUpdate(len(tracks)))

	dest, err := e.destFactory(ctx, req.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrUnauthenticated, err)
	}

	outcomes, matchedURIs := e.matchTracks(ctx, progress, logger, dest, tracks)

	result, err := e.buildDestination(ctx, progress, logger, dest, req.Name, matchedURIs)
	if err != nil {
		return nil, err
	}

	result.Summary = models.Summarize(outcomes)
	result.Outcomes = outcomes

	metrics.TracksMatchedTotal.Add(float64(result.Summary.Matched))
	metrics.TracksUnmatchedTotal.Add(float64(result.Summary.Unmatched))

	e.sendProgress(progress, doneUpdate(result.Summary))
	logger.Info("conversion complete", "matched", result.Summary.Matched, "unmatched", result.Summary.Unmatched)

	return result, nil
}

// matchTracks resolves every source track sequentially, pacing between
// search calls. One track's failure never aborts the rest: transport errors
// become unmatched outcomes with a populated message.
func (e *ConversionEngine) matchTracks(
	ctx context.Context,
	progress chan<- ProgressUpdate,
	logger *log.Logger,
	dest services.DestinationService,
	tracks []models.TrackDescriptor,
) ([]models.TrackOutcome, []string) {
	opts := []match.Option{match.WithMarket(e.market)}
	if e.cache != nil {
		opts = append(opts, match.WithCache(e.cache))
	}
	matcher := match.NewMatcher(dest, e.scorer, opts...)

	outcomes := make([]models.TrackOutcome, 0, len(tracks))
	var matchedURIs []string

	for i, track := range tracks {
		e.sendProgress(progress, matchTrackUpdate(i+1, len(tracks), track))

		if err := e.pacer.Wait(ctx); err != nil {
			outcomes = append(outcomes, models.TrackOutcome{
				Source:       track,
				ErrorMessage: err.Error(),
			})
			continue
		}

		matchResult, err := matcher.Match(ctx, track)
		switch {
		case err != nil:
			logger.Warn("track search failed", "title", track.Title, "err", err)
			metrics.TrackSearchErrors.Inc()
			outcomes = append(outcomes, models.TrackOutcome{
				Source:       track,
				ErrorMessage: err.Error(),
			})
		case matchResult == nil:
			logger.Debug("no match", "title", track.Title, "artist", track.Artist)
			outcomes = append(outcomes, models.TrackOutcome{Source: track})
		default:
			matchedURIs = append(matchedURIs, matchResult.Candidate.URI)
			outcomes = append(outcomes, models.TrackOutcome{
				Source:  track,
				Matched: true,
				Destination: &models.DestinationTrack{
					Title:      matchResult.Candidate.Title,
					Artist:     matchResult.Candidate.PrimaryArtist(),
					URI:        matchResult.Candidate.URI,
					MatchScore: matchResult.Score,
					DurationMS: matchResult.Candidate.DurationMS,
				},
			})
		}
	}

	return outcomes, matchedURIs
}

// buildDestination creates the playlist and adds matched URIs in batches.
// An empty accumulator still produces a valid, empty playlist; a failed
// batch is recorded and later batches are still attempted.
func (e *ConversionEngine) buildDestination(
	ctx context.Context,
	progress chan<- ProgressUpdate,
	logger *log.Logger,
	dest services.DestinationService,
	name string,
	matchedURIs []string,
) (*models.ConversionResult, error) {
	user, err := dest.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrPlaylistCreate, err)
	}

	e.sendProgress(progress, createPlaylistUpdate(name))
	playlist, err := dest.CreatePlaylist(ctx, user.ID, name)
	if err != nil {
		return nil, err
	}
	logger.Info("created destination playlist", "id", playlist.ID)
	e.sendProgress(progress, createdPlaylistUpdate(playlist))

	result := &models.ConversionResult{
		PlaylistURL: playlist.URL,
		PlaylistID:  playlist.ID,
	}

	totalBatches := (len(matchedURIs) + addBatchSize - 1) / addBatchSize
	for i := 0; i < len(matchedURIs); i += addBatchSize {
		end := i + addBatchSize
		if end > len(matchedURIs) {
			end = len(matchedURIs)
		}
		batchNum := i/addBatchSize + 1
		e.sendProgress(progress, addBatchUpdate(batchNum, totalBatches))

		if err := dest.AddTracks(ctx, playlist.ID, matchedURIs[i:end]); err != nil {
			batchErr := fmt.Errorf("%w: batch %d/%d: %v", shared.ErrBatchAdd, batchNum, totalBatches, err)
			logger.Warn("batch add failed", "batch", batchNum, "err", err)
			metrics.BatchAddFailures.Inc()
			result.BatchErrors = append(result.BatchErrors, batchErr.Error())
		}
	}

	return result, nil
}
