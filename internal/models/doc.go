// Package models defines the domain entities for the playlist conversion service.
//
// The package contains value objects only; every entity is owned by the
// conversion run that created it and none is mutated after construction:
//
//   - [TrackDescriptor] : a track read from the source (YouTube) playlist
//   - [SearchCandidate] : a destination (Spotify) search result under consideration
//   - [MatchResult] : the accepted candidate for one source track with its score
//   - [TrackOutcome] : the per-track audit record, one per source track in order
//   - [ConversionSummary] : aggregate counts derived from the outcome sequence
//   - [ConversionResult] : the terminal artifact returned to the caller
package models
