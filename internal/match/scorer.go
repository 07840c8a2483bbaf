package match

import (
	"fmt"
	"strings"

	"github.com/abhiiee-sharma/yt-spotify/internal/models"
	"github.com/abhiiee-sharma/yt-spotify/internal/shared"
)

const (
	titleWeight  = 0.7
	artistWeight = 0.3
)

// Scorer computes a similarity score in [0,1] between a source track and a
// destination candidate.
type Scorer interface {
	Score(track models.TrackDescriptor, candidate models.SearchCandidate) float64

	// Version identifies the scoring strategy ("v1", "v2").
	Version() string
}

// NewScorer returns the scorer for the given strategy version. An empty
// version selects v1.
func NewScorer(version string) (Scorer, error) {
	switch version {
	case "", VersionContainment:
		return ContainmentScorer{}, nil
	case VersionFuzzy:
		return FuzzyScorer{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown matcher version %q", shared.ErrInvalidConfig, version)
	}
}

// VersionContainment identifies the default containment scorer.
const VersionContainment = "v1"

// ContainmentScorer is the default scoring strategy: binary containment tests
// on normalized strings, weighted 0.7 for title and 0.3 for artist. Scores
// are therefore discrete: {0, 0.3, 0.7, 1.0}. Containment, not edit
// distance, drives matching.
type ContainmentScorer struct{}

func (ContainmentScorer) Version() string { return VersionContainment }

func (ContainmentScorer) Score(track models.TrackDescriptor, candidate models.SearchCandidate) float64 {
	sourceTitle := shared.NormalizeString(track.Title)
	sourceArtist := shared.NormalizeString(track.Artist)
	candidateTitle := shared.NormalizeString(candidate.Title)

	var score float64

	if strings.Contains(sourceTitle, candidateTitle) || strings.Contains(candidateTitle, sourceTitle) {
		score += titleWeight
	}

	for _, artist := range candidate.Artists {
		if strings.Contains(sourceArtist, shared.NormalizeString(artist)) {
			score += artistWeight
			break
		}
	}

	return score
}
