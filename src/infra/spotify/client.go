// Package spotify provides a track searcher backed by the Spotify Web API.
package spotify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"chronotune/src/features/config"
	"chronotune/src/music"
)

// Client wraps the Spotify API client with the search method the
// identification engine needs. It uses the client-credentials flow: no user
// account is involved, only catalog search.
type Client struct {
	api     *spotify.Client
	timeout time.Duration
	retries int
}

// NewClient authenticates against the Spotify API using the configured
// client credentials.
func NewClient(ctx context.Context, cfg *config.Manager) (*Client, error) {
	spotifyConfig := cfg.Get().Spotify

	if spotifyConfig.ClientID == "" || spotifyConfig.ClientSecret == "" {
		return nil, fmt.Errorf("spotify client credentials are not configured")
	}

	credentials := &clientcredentials.Config{
		ClientID:     spotifyConfig.ClientID,
		ClientSecret: spotifyConfig.ClientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}

	token, err := credentials.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate with spotify: %w", err)
	}

	httpClient := spotifyauth.New().Client(ctx, token)
	slog.Info("Spotify client initialized")

	return &Client{
		api:     spotify.New(httpClient),
		timeout: time.Duration(spotifyConfig.TimeoutSeconds) * time.Second,
		retries: spotifyConfig.Retries,
	}, nil
}

// SearchTracks runs a catalog track search and returns the candidates in API
// order. Each attempt gets its own timeout; transient failures are retried.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]music.Candidate, error) {
	var lastErr error

	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			slog.Debug("Retrying spotify search", "query", query, "attempt", attempt)
		}

		result, err := c.search(ctx, query, limit)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}

	return nil, fmt.Errorf("spotify search failed: %w", lastErr)
}

func (c *Client) search(ctx context.Context, query string, limit int) ([]music.Candidate, error) {
	searchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.api.Search(searchCtx, query, spotify.SearchTypeTrack, spotify.Limit(limit))
	if err != nil {
		return nil, err
	}
	if result.Tracks == nil {
		return nil, nil
	}

	return candidatesFromTracks(result.Tracks.Tracks), nil
}

// candidatesFromTracks maps API tracks to search candidates, taking the
// first listed artist and the album release date.
func candidatesFromTracks(tracks []spotify.FullTrack) []music.Candidate {
	candidates := make([]music.Candidate, 0, len(tracks))
	for _, track := range tracks {
		candidate := music.Candidate{
			Title:       track.Name,
			ReleaseDate: track.Album.ReleaseDate,
		}
		if len(track.Artists) > 0 {
			candidate.Artist = track.Artists[0].Name
		}
		candidates = append(candidates, candidate)
	}
	return candidates
}
