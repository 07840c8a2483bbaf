package tasks

import (
	"fmt"

	"github.com/abhiiee-sharma/yt-spotify/internal/models"
	"github.com/abhiiee-sharma/yt-spotify/internal/services"
)

// ProgressUpdate represents a progress event during a conversion run.
//
// Used to send real-time updates to the CLI or web layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Pipeline phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced consumers
}

// Phase enumerates the conversion pipeline states.
type Phase int

const (
	Validating Phase = iota
	FetchingSource
	Matching
	BuildingDestination
	AddingTracks
	Done
)

func (p Phase) String() string {
	switch p {
	case Validating:
		return "validating"
	case FetchingSource:
		return "fetching_source"
	case Matching:
		return "matching"
	case BuildingDestination:
		return "building_destination"
	case AddingTracks:
		return "adding_tracks"
	case Done:
		return "done"
	default:
		return ""
	}
}

func fetchingSourceUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchingSource,
		Step:    1,
		Total:   1,
		Message: "Fetching playlist from YouTube...",
	}
}

func fetchedSourceUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchingSource,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetched %d tracks from YouTube", total),
	}
}

func matchTrackUpdate(step, total int, track models.TrackDescriptor) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Matching,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, track.Artist, track.Title),
	}
}

func createPlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BuildingDestination,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Creating Spotify playlist %q...", name),
	}
}

func createdPlaylistUpdate(playlist *services.CreatedPlaylist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BuildingDestination,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist created (ID: %s)", playlist.ID),
		Data:    playlist,
	}
}

func addBatchUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddingTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Adding batch %d/%d...", step, total),
	}
}

func doneUpdate(summary models.ConversionSummary) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Done,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Done: %d/%d tracks matched", summary.Matched, summary.Total),
		Data:    summary,
	}
}
