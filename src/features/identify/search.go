package identify

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"chronotune/src/music"

	"github.com/gosimple/unidecode"
)

const (
	searchResultLimit   = 15
	similarityThreshold = 0.35
	maxQueryLength      = 100
	minQueryLength      = 3
)

// Noise removed from titles and artists before any search attempt: live
// markers, featured-artist tails, handles, bracketed text and edition junk.
var searchNoisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\(ao vivo\)`),
	regexp.MustCompile(`(?i)\(live\)`),
	regexp.MustCompile(`(?i)DVD.*`),
	regexp.MustCompile(`(?i)feat\.?.*`),
	regexp.MustCompile(`(?i)ft\.?.*`),
	regexp.MustCompile(`@\w+`),
	regexp.MustCompile(`\[.*?\]`),
	regexp.MustCompile(`(?i)Deluxe`),
	regexp.MustCompile(`(?i)Transcende.*`),
	regexp.MustCompile(`(?i)Ao Vivo.*`),
}

var nonWordPattern = regexp.MustCompile(`[^\w\s]`)

var releaseYearPattern = regexp.MustCompile(`\d{4}`)

// queryStrategy builds one (artist, title) query attempt from the cleaned
// input pair, or reports that its preconditions are not met. Strategies are
// pure so each can be tested independently; a single loop evaluates them in
// order.
type queryStrategy struct {
	name  string
	build func(title, artist string) (qTitle, qArtist string, ok bool)
}

// searchStrategies are tried in this fixed order, progressively loosening
// the query; the first acceptable match wins.
var searchStrategies = []queryStrategy{
	{
		name: "artist and title",
		build: func(title, artist string) (string, string, bool) {
			return title, artist, title != "" && artist != ""
		},
	},
	{
		name: "title only",
		build: func(title, artist string) (string, string, bool) {
			return title, "", title != ""
		},
	},
	{
		name: "first artist and title",
		build: func(title, artist string) (string, string, bool) {
			if artist == "" || !strings.Contains(artist, " ") {
				return "", "", false
			}
			return title, firstArtist(artist), true
		},
	},
	{
		name: "artist and short title",
		build: func(title, artist string) (string, string, bool) {
			words := strings.Fields(title)
			if artist == "" || len(words) <= 3 {
				return "", "", false
			}
			return strings.Join(words[:3], " "), artist, true
		},
	},
	{
		name: "very short title",
		build: func(title, artist string) (string, string, bool) {
			words := strings.Fields(title)
			if len(words) < 2 {
				return "", "", false
			}
			return strings.Join(words[:2], " "), artist, true
		},
	},
}

// Engine resolves a release year from a remote track-search capability by
// trying a sequence of progressively looser queries and scoring candidates
// with token-set similarity.
type Engine struct {
	searcher TrackSearcher
}

// NewEngine creates a new search strategy engine.
func NewEngine(searcher TrackSearcher) *Engine {
	return &Engine{searcher: searcher}
}

// Search tries all strategies in order and returns the first year accepted.
func (e *Engine) Search(ctx context.Context, title, artist string) (int, bool) {
	cleanTitle, cleanArtist := cleanSearchTerms(title, artist)
	slog.Debug("Cleaned search terms", "title", cleanTitle, "artist", cleanArtist)

	for _, strategy := range searchStrategies {
		qTitle, qArtist, ok := strategy.build(cleanTitle, cleanArtist)
		if !ok {
			continue
		}
		if year, found := e.trySearch(ctx, qTitle, qArtist, strategy.name); found {
			return year, true
		}
	}

	slog.Debug("No strategy produced a year", "title", cleanTitle)
	return 0, false
}

// trySearch runs one query attempt. Capability errors and malformed
// candidates abort only this attempt, never the engine.
func (e *Engine) trySearch(ctx context.Context, title, artist, strategyName string) (int, bool) {
	query := buildQuery(title, artist)
	if len(query) < minQueryLength {
		return 0, false
	}
	slog.Debug("Searching", "strategy", strategyName, "query", query)

	candidates, err := e.searcher.SearchTracks(ctx, query, searchResultLimit)
	if err != nil {
		slog.Debug("Search attempt failed", "strategy", strategyName, "error", err)
		return 0, false
	}

	var best *music.Candidate
	bestScore := 0.0
	for i := range candidates {
		score := Similarity(title, candidates[i].Title)
		if artist != "" {
			score = score*0.7 + Similarity(artist, candidates[i].Artist)*0.3
		}
		if score > bestScore {
			bestScore = score
			best = &candidates[i]
		}
	}

	if best == nil || bestScore <= similarityThreshold {
		return 0, false
	}

	year, ok := yearFromReleaseDate(best.ReleaseDate)
	if !ok {
		return 0, false
	}
	slog.Debug("Accepted candidate", "strategy", strategyName, "title", best.Title, "year", year, "score", bestScore)
	return year, true
}

// cleanSearchTerms strips noise tokens from both fields and truncates the
// title at the first | or /.
func cleanSearchTerms(title, artist string) (string, string) {
	for _, pattern := range searchNoisePatterns {
		title = pattern.ReplaceAllString(title, "")
		artist = pattern.ReplaceAllString(artist, "")
	}

	if idx := strings.IndexAny(title, "|/"); idx >= 0 {
		title = title[:idx]
	}

	return collapseWhitespace(title), collapseWhitespace(artist)
}

// buildQuery assembles the query string sent to the search capability:
// accent-folded, non-word characters mapped to spaces, whitespace collapsed,
// truncated to the maximum length.
func buildQuery(title, artist string) string {
	query := title
	if artist != "" {
		query = artist + " " + title
	}
	query = unidecode.Unidecode(query)
	query = nonWordPattern.ReplaceAllString(query, " ")
	query = collapseWhitespace(query)
	if len(query) > maxQueryLength {
		query = strings.TrimSpace(query[:maxQueryLength])
	}
	return query
}

// firstArtist keeps only the first name of a multi-artist credit.
func firstArtist(artist string) string {
	first := strings.SplitN(artist, "&", 2)[0]
	first = strings.SplitN(first, ",", 2)[0]
	return strings.TrimSpace(first)
}

// yearFromReleaseDate extracts the first 4-digit token of a release date.
func yearFromReleaseDate(releaseDate string) (int, bool) {
	m := releaseYearPattern.FindString(releaseDate)
	if m == "" {
		return 0, false
	}
	year, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return year, true
}
