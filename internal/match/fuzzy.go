package match

import (
	"github.com/abhiiee-sharma/yt-spotify/internal/models"
	"github.com/abhiiee-sharma/yt-spotify/internal/shared"
	"github.com/xrash/smetrics"
)

// VersionFuzzy identifies the opt-in edit-distance scorer.
const VersionFuzzy = "v2"

// FuzzyScorer is an explicitly versioned alternative to [ContainmentScorer]
// that scores by Wagner-Fischer edit distance instead of containment. It
// produces continuous scores in [0,1] under the same 0.7/0.3 weighting and
// the same acceptance threshold. Never used unless selected in configuration.
type FuzzyScorer struct{}

func (FuzzyScorer) Version() string { return VersionFuzzy }

func (FuzzyScorer) Score(track models.TrackDescriptor, candidate models.SearchCandidate) float64 {
	titleScore := similarity(track.Title, candidate.Title)

	var artistScore float64
	for _, artist := range candidate.Artists {
		if s := similarity(track.Artist, artist); s > artistScore {
			artistScore = s
		}
	}

	return titleWeight*titleScore + artistWeight*artistScore
}

// similarity returns 1 - normalizedEditDistance over normalized strings.
func similarity(a, b string) float64 {
	a, b = shared.NormalizeString(a), shared.NormalizeString(b)

	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1
	}

	distance := smetrics.WagnerFischer(a, b, 1, 1, 2)
	if distance > maxLen {
		return 0
	}
	return 1 - float64(distance)/float64(maxLen)
}
