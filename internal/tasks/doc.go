// Package tasks implements the playlist conversion pipeline.
//
// The core abstraction is [ConversionEngine], which drives one conversion
// run: validate the request, fetch the full source track list, resolve each
// track sequentially through the candidate matcher with inter-call pacing,
// create the destination playlist, and add matched tracks in fixed-size
// batches. Operations emit progress updates via channels for non-blocking
// status reporting to CLI/web layers.
//
// Per-track failure isolation is the resilience contract of the matching
// stage: a search transport failure is recorded on that track's outcome and
// never aborts the run. Playlist creation failure is fatal; add-batch
// failures leave the playlist partially populated and are attached to the
// result rather than discarded.
package tasks
