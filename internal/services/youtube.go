// YouTube Data API v3 [SourceService] implementation
//
// Response types based on https://developers.google.com/youtube/v3/docs/playlistItems/list
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"

	"github.com/abhiiee-sharma/yt-spotify/internal/models"
	"github.com/abhiiee-sharma/yt-spotify/internal/shared"
)

const defaultYouTubeBaseURL = "https://www.googleapis.com/youtube/v3"

// youtubePageSize is the maximum page size the playlistItems endpoint allows.
const youtubePageSize = 50

var playlistIDPattern = regexp.MustCompile(`[?&]list=([^&]+)`)

// ExtractPlaylistID parses the playlist id from a YouTube playlist URL.
//
// The id is the value of the "list" query parameter; a URL without one is an
// error, never a silent empty result.
func ExtractPlaylistID(playlistURL string) (string, error) {
	match := playlistIDPattern.FindStringSubmatch(playlistURL)
	if match == nil {
		return "", fmt.Errorf("%w: no list parameter in %q", shared.ErrInvalidPlaylistURL, playlistURL)
	}
	return match[1], nil
}

type youtubeResourceID struct {
	VideoID string `json:"videoId"`
}

type youtubeSnippet struct {
	Title                  string            `json:"title"`
	VideoOwnerChannelTitle string            `json:"videoOwnerChannelTitle"`
	ResourceID             youtubeResourceID `json:"resourceId"`
}

// YouTubePlaylistItem represents one entry of a playlistItems.list response.
type YouTubePlaylistItem struct {
	Snippet youtubeSnippet `json:"snippet"`
}

// YouTubePlaylistItemsPage represents one page of a playlistItems.list response.
type YouTubePlaylistItemsPage struct {
	Items         []YouTubePlaylistItem `json:"items"`
	NextPageToken string                `json:"nextPageToken"`
}

// YouTubeService implements [SourceService] against the YouTube Data API v3
// using API key authentication.
type YouTubeService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewYouTubeService creates a new YouTube service instance.
func NewYouTubeService(apiKey string, client *http.Client) (*YouTubeService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: missing YouTube API key", shared.ErrMissingCredentials)
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &YouTubeService{
		apiKey:     apiKey,
		baseURL:    defaultYouTubeBaseURL,
		httpClient: client,
	}, nil
}

// Name returns the service name.
func (y *YouTubeService) Name() string {
	return "YouTube"
}

func (y *YouTubeService) listPage(ctx context.Context, playlistID, pageToken string) (*YouTubePlaylistItemsPage, error) {
	params := url.Values{}
	params.Set("key", y.apiKey)
	params.Set("part", "snippet")
	params.Set("playlistId", playlistID)
	params.Set("maxResults", fmt.Sprintf("%d", youtubePageSize))
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	apiURL := y.baseURL + "/playlistItems?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error.Message != "" {
			return nil, fmt.Errorf("youtube API error (status %d): %s", resp.StatusCode, errResp.Error.Message)
		}
		return nil, fmt.Errorf("youtube API error: status %d", resp.StatusCode)
	}

	var page YouTubePlaylistItemsPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &page, nil
}

// FetchAll retrieves every item of the playlist, following nextPageToken
// cursors until exhausted and preserving source order.
func (y *YouTubeService) FetchAll(ctx context.Context, playlistID string) ([]models.TrackDescriptor, error) {
	var tracks []models.TrackDescriptor
	pageToken := ""

	for {
		page, err := y.listPage(ctx, playlistID, pageToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrSourceFetch, err)
		}

		for _, item := range page.Items {
			artist := item.Snippet.VideoOwnerChannelTitle
			if artist == "" {
				artist = models.UnknownArtist
			}
			tracks = append(tracks, models.TrackDescriptor{
				Title:    item.Snippet.Title,
				Artist:   artist,
				SourceID: item.Snippet.ResourceID.VideoID,
			})
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	return tracks, nil
}
