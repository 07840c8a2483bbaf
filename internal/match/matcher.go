// package match resolves source tracks to destination-platform candidates.
//
// A [Matcher] runs a cascade of decreasingly specific search strategies,
// filters out remixes, scores the remaining candidates, and selects the best
// one above the acceptance threshold. "No match" is a normal outcome, not an
// error; only transport failures propagate.
package match

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/abhiiee-sharma/yt-spotify/internal/metrics"
	"github.com/abhiiee-sharma/yt-spotify/internal/models"
	"github.com/abhiiee-sharma/yt-spotify/internal/shared"
)

const (
	// searchLimit bounds the candidate count per search call.
	searchLimit = 50

	// acceptanceThreshold is the score a candidate must strictly exceed.
	// Artist-only matches (0.3) fall below it; title matches (0.7) clear it.
	acceptanceThreshold = 0.5
)

// Strategy identifies one step of the query cascade.
type Strategy string

const (
	StrategyStrict      Strategy = "strict"
	StrategyTitleArtist Strategy = "title-artist"
	StrategyTitleOnly   Strategy = "title-only"
)

var (
	noisePattern      = regexp.MustCompile(`(?i)(official\s*)?(music\s*)?video`)
	remixParenPattern = regexp.MustCompile(`(?i)\(.*?remix.*?\)`)
	parenPattern      = regexp.MustCompile(`\(.*?\)`)
	bracketPattern    = regexp.MustCompile(`\[.*?\]`)
	featPattern       = regexp.MustCompile(`(?i)(ft\.|feat\.)`)
	remixPattern      = regexp.MustCompile(`(?i)remix`)
)

// CleanTitle strips "(Official) (Music) Video" noise tokens, parenthesized
// and bracketed annotations (remix annotations first), and ft./feat. markers
// from a source title. The cleaned title drives every search strategy; the
// original is retained for scoring and reporting.
func CleanTitle(title string) string {
	title = noisePattern.ReplaceAllString(title, "")
	title = remixParenPattern.ReplaceAllString(title, "")
	title = parenPattern.ReplaceAllString(title, "")
	title = bracketPattern.ReplaceAllString(title, "")
	title = featPattern.ReplaceAllString(title, "")
	return strings.TrimSpace(title)
}

type searchQuery struct {
	query    string
	strategy Strategy
}

// buildCascade returns the query cascade in decreasing specificity:
// artist-qualified hits are preferred before falling back to ambiguous
// title-only search.
func buildCascade(track models.TrackDescriptor, cleanTitle string) []searchQuery {
	return []searchQuery{
		{query: fmt.Sprintf("artist:%s track:%s", track.Artist, cleanTitle), strategy: StrategyStrict},
		{query: fmt.Sprintf("%s %s", cleanTitle, track.Artist), strategy: StrategyTitleArtist},
		{query: cleanTitle, strategy: StrategyTitleOnly},
	}
}

// Searcher is the destination search capability the matcher consumes.
type Searcher interface {
	SearchTracks(ctx context.Context, query string, limit int, market string) ([]models.SearchCandidate, error)
}

// CacheStore is an optional store of previously accepted matches, consulted
// before the cascade and written on acceptance.
type CacheStore interface {
	Get(ctx context.Context, key string) (*models.MatchResult, bool, error)
	Put(ctx context.Context, key string, result models.MatchResult) error
}

// Matcher resolves one TrackDescriptor at a time against a [Searcher].
type Matcher struct {
	searcher Searcher
	scorer   Scorer
	market   string
	cache    CacheStore
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithCache attaches a search-result cache.
func WithCache(cache CacheStore) Option {
	return func(m *Matcher) { m.cache = cache }
}

// WithMarket overrides the search market (defaults to "US").
func WithMarket(market string) Option {
	return func(m *Matcher) {
		if market != "" {
			m.market = market
		}
	}
}

// NewMatcher creates a Matcher over the given searcher and scorer.
func NewMatcher(searcher Searcher, scorer Scorer, opts ...Option) *Matcher {
	m := &Matcher{
		searcher: searcher,
		scorer:   scorer,
		market:   "US",
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Matcher) cacheKey(track models.TrackDescriptor) string {
	return fmt.Sprintf("%s|%s|%s", shared.NormalizeTrackKey(track.Title, track.Artist), m.market, m.scorer.Version())
}

// Match resolves a single track. Returns (nil, nil) when no strategy yields
// an accepted candidate; returns an error only on transport-level failure.
func (m *Matcher) Match(ctx context.Context, track models.TrackDescriptor) (*models.MatchResult, error) {
	if m.cache != nil {
		if cached, ok, err := m.cache.Get(ctx, m.cacheKey(track)); err == nil && ok {
			return cached, nil
		}
	}

	cleanTitle := CleanTitle(track.Title)

	for _, sq := range buildCascade(track, cleanTitle) {
		candidates, err := m.searcher.SearchTracks(ctx, sq.query, searchLimit, m.market)
		if err != nil {
			return nil, err
		}

		result := m.selectBest(track, candidates)
		if result == nil {
			continue
		}

		if m.cache != nil {
			// Cache write failures never fail a match.
			_ = m.cache.Put(ctx, m.cacheKey(track), *result)
		}
		metrics.SearchStrategyHits.WithLabelValues(string(sq.strategy)).Inc()
		return result, nil
	}

	return nil, nil
}

// selectBest filters remixes, scores every candidate, and returns the
// highest-scoring one above the acceptance threshold. Ties keep the earlier
// search result.
func (m *Matcher) selectBest(track models.TrackDescriptor, candidates []models.SearchCandidate) *models.MatchResult {
	var best *models.MatchResult

	for _, candidate := range candidates {
		// Remix titles are systematically not-a-match for the original,
		// regardless of score.
		if remixPattern.MatchString(candidate.Title) {
			continue
		}

		score := m.scorer.Score(track, candidate)
		if score <= acceptanceThreshold {
			continue
		}

		if best == nil || score > best.Score {
			best = &models.MatchResult{Candidate: candidate, Score: score}
		}
	}

	return best
}
