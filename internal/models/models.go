package models

// UnknownArtist is the sentinel used when the source provides no artist metadata.
const UnknownArtist = "Unknown Artist"

// TrackDescriptor represents a single track read from the source playlist.
type TrackDescriptor struct {
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	SourceID string `json:"id"`
}

// SearchCandidate represents a destination-platform search result considered
// for matching one source track. Transient: it exists only while that track
// is being matched.
type SearchCandidate struct {
	URI        string
	Title      string
	Artists    []string
	DurationMS int
	PreviewURL string
}

// PrimaryArtist returns the first listed artist, or the empty string.
func (c SearchCandidate) PrimaryArtist() string {
	if len(c.Artists) == 0 {
		return ""
	}
	return c.Artists[0]
}

// MatchResult is the best-scoring candidate for one TrackDescriptor that
// cleared the acceptance threshold. At most one per track.
type MatchResult struct {
	Candidate SearchCandidate
	Score     float64
}

// DestinationTrack describes the matched destination track inside a TrackOutcome.
type DestinationTrack struct {
	Title      string  `json:"title"`
	Artist     string  `json:"artist"`
	URI        string  `json:"uri"`
	MatchScore float64 `json:"matchScore"`
	DurationMS int     `json:"duration"`
}

// TrackOutcome is the per-track audit record. The outcome sequence preserves
// source playlist order and its length always equals the source track count.
type TrackOutcome struct {
	Source       TrackDescriptor   `json:"source"`
	Matched      bool              `json:"matched"`
	Destination  *DestinationTrack `json:"destination,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// ConversionSummary holds aggregate counts derived from a TrackOutcome
// sequence. AverageMatchScore is nil when no tracks matched.
type ConversionSummary struct {
	Total             int      `json:"total"`
	Matched           int      `json:"matched"`
	Unmatched         int      `json:"unmatched"`
	AverageMatchScore *float64 `json:"averageMatchScore"`
}

// Summarize derives a ConversionSummary from an outcome sequence.
//
// Matched + Unmatched == Total always holds. The average is the arithmetic
// mean of matched outcomes' scores and is absent (nil) when nothing matched.
func Summarize(outcomes []TrackOutcome) ConversionSummary {
	summary := ConversionSummary{Total: len(outcomes)}

	var scoreSum float64
	for _, outcome := range outcomes {
		if outcome.Matched && outcome.Destination != nil {
			summary.Matched++
			scoreSum += outcome.Destination.MatchScore
		}
	}
	summary.Unmatched = summary.Total - summary.Matched

	if summary.Matched > 0 {
		avg := scoreSum / float64(summary.Matched)
		summary.AverageMatchScore = &avg
	}

	return summary
}

// ConversionResult is the terminal artifact of one conversion run.
//
// BatchErrors records add-batch failures that left the playlist partially
// populated; the result is still complete and the playlist still exists.
type ConversionResult struct {
	PlaylistURL string            `json:"playlistUrl"`
	PlaylistID  string            `json:"playlistId"`
	Summary     ConversionSummary `json:"summary"`
	Outcomes    []TrackOutcome    `json:"tracks"`
	BatchErrors []string          `json:"batchErrors,omitempty"`
}
