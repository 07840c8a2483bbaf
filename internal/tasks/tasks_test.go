package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/abhiiee-sharma/yt-spotify/internal/models"
	"github.com/abhiiee-sharma/yt-spotify/internal/services"
	"github.com/abhiiee-sharma/yt-spotify/internal/shared"
	testutil "github.com/abhiiee-sharma/yt-spotify/internal/testing"
)

const playlistURL = "https://www.youtube.com/playlist?list=PLtest"

// countingSource wraps a mock source and records fetch calls.
type countingSource struct {
	testutil.MockSource
	calls int
}

func (c *countingSource) FetchAll(ctx context.Context, playlistID string) ([]models.TrackDescriptor, error) {
	c.calls++
	return c.MockSource.FetchAll(ctx, playlistID)
}

func newEngine(source services.SourceService, dest services.DestinationService) *ConversionEngine {
	return NewConversionEngine(EngineOpts{
		Source: source,
		DestFactory: func(ctx context.Context, accessToken string) (services.DestinationService, error) {
			return dest, nil
		},
		Pacer: NopPacer{},
	})
}

func validRequest() ConversionRequest {
	return ConversionRequest{
		URL:         playlistURL,
		Name:        "My Mix",
		AccessToken: "token",
	}
}

func TestClassifyURL(t *testing.T) {
	cases := []struct {
		url  string
		want Direction
	}{
		{"https://www.youtube.com/playlist?list=PL1", DirectionYouTubeToSpotify},
		{"https://youtu.be/abc", DirectionYouTubeToSpotify},
		{"https://open.spotify.com/playlist/xyz", DirectionSpotifyToYouTube},
		{"https://soundcloud.com/someone", DirectionUnknown},
		{"", DirectionUnknown},
	}

	for _, tc := range cases {
		if got := ClassifyURL(tc.url); got != tc.want {
			t.Errorf("ClassifyURL(%q) = %v, want %v", tc.url, got, tc.want)
		}
	}
}

func TestValidation(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*ConversionRequest)
		wantErr error
	}{
		{"Missing Token", func(r *ConversionRequest) { r.AccessToken = "" }, shared.ErrUnauthenticated},
		{"Missing Name", func(r *ConversionRequest) { r.Name = "  " }, shared.ErrInvalidInput},
		{"Missing URL", func(r *ConversionRequest) { r.URL = "" }, shared.ErrInvalidInput},
		{"Reverse Direction", func(r *ConversionRequest) { r.URL = "https://open.spotify.com/playlist/x" }, shared.ErrUnsupportedDirection},
		{"Unrecognized URL", func(r *ConversionRequest) { r.URL = "https://soundcloud.com/x" }, shared.ErrUnsupportedURL},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			source := &countingSource{}
			engine := newEngine(source, &testutil.MockDestination{})

			req := validRequest()
			tc.mutate(&req)

			result, err := engine.Run(context.Background(), nil, req)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
			if result != nil {
				t.Error("expected nil result on validation failure")
			}
			if source.calls != 0 {
				t.Error("validation failures must not reach the network")
			}
		})
	}

	t.Run("Reverse Direction Message", func(t *testing.T) {
		engine := newEngine(&countingSource{}, &testutil.MockDestination{})

		req := validRequest()
		req.URL = "https://open.spotify.com/playlist/x"

		_, err := engine.Run(context.Background(), nil, req)
		if err == nil || !strings.Contains(err.Error(), "Spotify to YouTube conversion is not implemented yet") {
			t.Errorf("unexpected error message: %v", err)
		}
	})
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("Matched And Unmatched Tracks", func(t *testing.T) {
		source := &countingSource{MockSource: testutil.MockSource{Tracks: []models.TrackDescriptor{
			{Title: "Found Song", Artist: "Artist A", SourceID: "v1"},
			{Title: "Obscure Song", Artist: "Artist B", SourceID: "v2"},
		}}}
		dest := &testutil.MockDestination{
			SearchResults: map[string][]models.SearchCandidate{
				"artist:Artist A track:Found Song": {
					{URI: "spotify:track:1", Title: "Found Song", Artists: []string{"Artist A"}, DurationMS: 180000},
				},
			},
			User:     services.User{ID: "user1"},
			Playlist: services.CreatedPlaylist{ID: "pl1", URL: "https://open.spotify.com/playlist/pl1"},
		}
		engine := newEngine(source, dest)

		result, err := engine.Run(ctx, nil, validRequest())
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}

		if len(result.Outcomes) != 2 {
			t.Fatalf("expected one outcome per source track, got %d", len(result.Outcomes))
		}
		if result.Outcomes[0].Source.SourceID != "v1" || result.Outcomes[1].Source.SourceID != "v2" {
			t.Error("outcomes must preserve source order")
		}

		first := result.Outcomes[0]
		if !first.Matched || first.Destination == nil {
			t.Fatalf("expected first track matched: %+v", first)
		}
		if first.Destination.URI != "spotify:track:1" || first.Destination.MatchScore != 1.0 {
			t.Errorf("unexpected destination %+v", first.Destination)
		}

		second := result.Outcomes[1]
		if second.Matched || second.Destination != nil || second.ErrorMessage != "" {
			t.Errorf("expected plain unmatched outcome: %+v", second)
		}

		if result.Summary.Total != 2 || result.Summary.Matched != 1 || result.Summary.Unmatched != 1 {
			t.Errorf("unexpected summary %+v", result.Summary)
		}
		if result.Summary.AverageMatchScore == nil || *result.Summary.AverageMatchScore != 1.0 {
			t.Errorf("unexpected average score %v", result.Summary.AverageMatchScore)
		}

		if result.PlaylistID != "pl1" {
			t.Errorf("unexpected playlist id %q", result.PlaylistID)
		}
		if len(dest.CreatedNames) != 1 || dest.CreatedNames[0] != "My Mix" {
			t.Errorf("unexpected playlist creation calls %v", dest.CreatedNames)
		}
		if len(dest.AddedBatches) != 1 || len(dest.AddedBatches[0]) != 1 {
			t.Errorf("unexpected add batches %v", dest.AddedBatches)
		}
	})

	t.Run("Empty Playlist Still Created", func(t *testing.T) {
		source := &countingSource{}
		dest := &testutil.MockDestination{
			User:     services.User{ID: "user1"},
			Playlist: services.CreatedPlaylist{ID: "empty", URL: "https://open.spotify.com/playlist/empty"},
		}
		engine := newEngine(source, dest)

		result, err := engine.Run(ctx, nil, validRequest())
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}

		if len(dest.CreatedNames) != 1 {
			t.Error("playlist must be created even with zero matches")
		}
		if len(dest.AddedBatches) != 0 {
			t.Errorf("no batches expected, got %v", dest.AddedBatches)
		}
		if result.Summary.Total != 0 || result.Summary.AverageMatchScore != nil {
			t.Errorf("unexpected summary %+v", result.Summary)
		}
	})

	t.Run("Search Failure Isolated Per Track", func(t *testing.T) {
		source := &countingSource{MockSource: testutil.MockSource{Tracks: []models.TrackDescriptor{
			{Title: "Broken Song", Artist: "Artist A", SourceID: "v1"},
			{Title: "Found Song", Artist: "Artist B", SourceID: "v2"},
		}}}
		dest := &testutil.MockDestination{
			SearchErrByQuery: map[string]error{
				"artist:Artist A track:Broken Song": fmt.Errorf("%w: upstream 500", shared.ErrSearchTransport),
			},
			SearchResults: map[string][]models.SearchCandidate{
				"artist:Artist B track:Found Song": {
					{URI: "spotify:track:2", Title: "Found Song", Artists: []string{"Artist B"}},
				},
			},
			User:     services.User{ID: "user1"},
			Playlist: services.CreatedPlaylist{ID: "pl1"},
		}
		engine := newEngine(source, dest)

		result, err := engine.Run(ctx, nil, validRequest())
		if err != nil {
			t.Fatalf("per-track failures must not abort the run: %v", err)
		}

		if len(result.Outcomes) != 2 {
			t.Fatalf("expected one outcome per source track, got %d", len(result.Outcomes))
		}
		if result.Outcomes[0].Source.SourceID != "v1" || result.Outcomes[1].Source.SourceID != "v2" {
			t.Error("outcomes must preserve source order")
		}

		failed := result.Outcomes[0]
		if failed.Matched || failed.ErrorMessage == "" {
			t.Errorf("expected unmatched outcome with error message: %+v", failed)
		}

		matched := result.Outcomes[1]
		if !matched.Matched || matched.Destination == nil || matched.Destination.URI != "spotify:track:2" {
			t.Errorf("tracks after a failed one must still match: %+v", matched)
		}

		if result.Summary.Total != 2 || result.Summary.Matched != 1 || result.Summary.Unmatched != 1 {
			t.Errorf("unexpected summary %+v", result.Summary)
		}
		if len(dest.AddedBatches) != 1 || len(dest.AddedBatches[0]) != 1 || dest.AddedBatches[0][0] != "spotify:track:2" {
			t.Errorf("only the matched track should be added, got %v", dest.AddedBatches)
		}
	})

	t.Run("All Searches Failing Still Creates Playlist", func(t *testing.T) {
		source := &countingSource{MockSource: testutil.MockSource{Tracks: []models.TrackDescriptor{
			{Title: "Song One", Artist: "A", SourceID: "v1"},
			{Title: "Song Two", Artist: "B", SourceID: "v2"},
		}}}
		dest := &testutil.MockDestination{
			SearchErr: fmt.Errorf("%w: upstream 500", shared.ErrSearchTransport),
			User:      services.User{ID: "user1"},
			Playlist:  services.CreatedPlaylist{ID: "pl1"},
		}
		engine := newEngine(source, dest)

		result, err := engine.Run(ctx, nil, validRequest())
		if err != nil {
			t.Fatalf("per-track failures must not abort the run: %v", err)
		}

		for i, outcome := range result.Outcomes {
			if outcome.Matched || outcome.ErrorMessage == "" {
				t.Errorf("outcome %d should carry an error: %+v", i, outcome)
			}
		}
		if len(dest.CreatedNames) != 1 {
			t.Error("playlist must be created even when every search fails")
		}
		if len(dest.AddedBatches) != 0 {
			t.Errorf("no batches expected, got %v", dest.AddedBatches)
		}
	})

	t.Run("Source Fetch Failure Is Fatal", func(t *testing.T) {
		source := &countingSource{MockSource: testutil.MockSource{
			Err: fmt.Errorf("%w: upstream 403", shared.ErrSourceFetch),
		}}
		engine := newEngine(source, &testutil.MockDestination{})

		result, err := engine.Run(ctx, nil, validRequest())
		if !errors.Is(err, shared.ErrSourceFetch) {
			t.Errorf("expected source fetch error, got %v", err)
		}
		if result != nil {
			t.Error("expected nil result")
		}
	})

	t.Run("Playlist Create Failure Is Fatal", func(t *testing.T) {
		source := &countingSource{MockSource: testutil.MockSource{Tracks: []models.TrackDescriptor{
			{Title: "Song", Artist: "A", SourceID: "v1"},
		}}}
		dest := &testutil.MockDestination{
			User:      services.User{ID: "user1"},
			CreateErr: fmt.Errorf("%w: upstream 503", shared.ErrPlaylistCreate),
		}
		engine := newEngine(source, dest)

		if _, err := engine.Run(ctx, nil, validRequest()); !errors.Is(err, shared.ErrPlaylistCreate) {
			t.Errorf("expected playlist create error, got %v", err)
		}
	})

	t.Run("Profile Failure Is Fatal", func(t *testing.T) {
		source := &countingSource{}
		dest := &testutil.MockDestination{UserErr: errors.New("401")}
		engine := newEngine(source, dest)

		if _, err := engine.Run(ctx, nil, validRequest()); !errors.Is(err, shared.ErrPlaylistCreate) {
			t.Errorf("expected playlist create error wrap, got %v", err)
		}
	})

	t.Run("Destination Factory Failure", func(t *testing.T) {
		engine := NewConversionEngine(EngineOpts{
			Source: &countingSource{},
			DestFactory: func(ctx context.Context, accessToken string) (services.DestinationService, error) {
				return nil, errors.New("bad token")
			},
			Pacer: NopPacer{},
		})

		if _, err := engine.Run(ctx, nil, validRequest()); !errors.Is(err, shared.ErrUnauthenticated) {
			t.Errorf("expected unauthenticated wrap, got %v", err)
		}
	})

	t.Run("Uninitialized Engine", func(t *testing.T) {
		engine := NewConversionEngine(EngineOpts{})
		if _, err := engine.Run(ctx, nil, validRequest()); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected service unavailable, got %v", err)
		}
	})
}

func TestBatching(t *testing.T) {
	ctx := context.Background()

	// 120 matched tracks split into batches of 50, 50, and 20.
	tracks := make([]models.TrackDescriptor, 120)
	searchResults := make(map[string][]models.SearchCandidate, 120)
	for i := range tracks {
		title := fmt.Sprintf("Song %03d", i)
		tracks[i] = models.TrackDescriptor{Title: title, Artist: "Artist", SourceID: fmt.Sprintf("v%03d", i)}
		searchResults[fmt.Sprintf("artist:Artist track:%s", title)] = []models.SearchCandidate{
			{URI: fmt.Sprintf("spotify:track:%03d", i), Title: title, Artists: []string{"Artist"}},
		}
	}

	t.Run("Splits Into Platform Sized Batches", func(t *testing.T) {
		source := &countingSource{MockSource: testutil.MockSource{Tracks: tracks}}
		dest := &testutil.MockDestination{
			SearchResults: searchResults,
			User:          services.User{ID: "user1"},
			Playlist:      services.CreatedPlaylist{ID: "pl1"},
		}
		engine := newEngine(source, dest)

		result, err := engine.Run(ctx, nil, validRequest())
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}

		if len(dest.AddedBatches) != 3 {
			t.Fatalf("expected 3 batches, got %d", len(dest.AddedBatches))
		}
		sizes := []int{len(dest.AddedBatches[0]), len(dest.AddedBatches[1]), len(dest.AddedBatches[2])}
		if sizes[0] != 50 || sizes[1] != 50 || sizes[2] != 20 {
			t.Errorf("unexpected batch sizes %v", sizes)
		}
		if dest.AddedBatches[0][0] != "spotify:track:000" {
			t.Error("batches must preserve match order")
		}
		if len(result.BatchErrors) != 0 {
			t.Errorf("unexpected batch errors %v", result.BatchErrors)
		}
	})

	t.Run("Failed Batch Recorded Later Batches Continue", func(t *testing.T) {
		source := &countingSource{MockSource: testutil.MockSource{Tracks: tracks}}
		dest := &testutil.MockDestination{
			SearchResults: searchResults,
			User:          services.User{ID: "user1"},
			Playlist:      services.CreatedPlaylist{ID: "pl1"},
			AddFailSlots:  map[int]error{0: errors.New("upstream 500")},
		}
		engine := newEngine(source, dest)

		result, err := engine.Run(ctx, nil, validRequest())
		if err != nil {
			t.Fatalf("batch failures must not abort the run: %v", err)
		}

		if len(dest.AddedBatches) != 3 {
			t.Errorf("remaining batches must still be attempted, got %d", len(dest.AddedBatches))
		}
		if len(result.BatchErrors) != 1 {
			t.Fatalf("expected 1 recorded batch error, got %v", result.BatchErrors)
		}
		if !strings.Contains(result.BatchErrors[0], "batch 1/3") {
			t.Errorf("batch error should identify the batch: %q", result.BatchErrors[0])
		}
	})
}

func TestProgressUpdates(t *testing.T) {
	source := &countingSource{MockSource: testutil.MockSource{Tracks: []models.TrackDescriptor{
		{Title: "Song", Artist: "Artist", SourceID: "v1"},
	}}}
	dest := &testutil.MockDestination{
		SearchResults: map[string][]models.SearchCandidate{
			"artist:Artist track:Song": {{URI: "spotify:track:1", Title: "Song", Artists: []string{"Artist"}}},
		},
		User:     services.User{ID: "user1"},
		Playlist: services.CreatedPlaylist{ID: "pl1"},
	}
	engine := newEngine(source, dest)

	progress := make(chan ProgressUpdate, 64)
	if _, err := engine.Run(context.Background(), progress, validRequest()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	close(progress)

	seen := make(map[Phase]bool)
	for update := range progress {
		seen[update.Phase] = true
	}

	for _, phase := range []Phase{FetchingSource, Matching, BuildingDestination, AddingTracks, Done} {
		if !seen[phase] {
			t.Errorf("missing progress phase %s", phase)
		}
	}
}

func TestProgressNonBlocking(t *testing.T) {
	source := &countingSource{MockSource: testutil.MockSource{Tracks: []models.TrackDescriptor{
		{Title: "Song", Artist: "Artist", SourceID: "v1"},
	}}}
	dest := &testutil.MockDestination{
		User:     services.User{ID: "user1"},
		Playlist: services.CreatedPlaylist{ID: "pl1"},
	}
	engine := newEngine(source, dest)

	// Unbuffered channel with no reader: sends must be dropped, not block.
	progress := make(chan ProgressUpdate)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := engine.Run(context.Background(), progress, validRequest()); err != nil {
			t.Errorf("run failed: %v", err)
		}
	}()

	<-done
}

func TestPhaseString(t *testing.T) {
	cases := map[Phase]string{
		Validating:          "validating",
		FetchingSource:      "fetching_source",
		Matching:            "matching",
		BuildingDestination: "building_destination",
		AddingTracks:        "adding_tracks",
		Done:                "done",
	}
	for phase, want := range cases {
		if got := phase.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", phase, got, want)
		}
	}
}
