// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/abhiiee-sharma/yt-spotify/internal/models"
	"github.com/abhiiee-sharma/yt-spotify/internal/services"
)

// MockSource is a test double for [services.SourceService] returning a
// canned track list.
type MockSource struct {
	Tracks []models.TrackDescriptor
	Err    error
}

func (m *MockSource) FetchAll(ctx context.Context, playlistID string) ([]models.TrackDescriptor, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Tracks, nil
}

func (m *MockSource) Name() string { return "mock-source" }

// MockDestination is a test double for [services.DestinationService].
// Search results are keyed by query; calls are recorded for assertions.
type MockDestination struct {
	SearchResults    map[string][]models.SearchCandidate
	SearchErr        error
	SearchErrByQuery map[string]error
	User             services.User
	UserErr          error
	Playlist         services.CreatedPlaylist
	CreateErr        error
	AddErr           error

	Queries       []string
	CreatedNames  []string
	AddedBatches  [][]string
	AddFailSlots  map[int]error
	addCallsSoFar int
}

func (m *MockDestination) SearchTracks(ctx context.Context, query string, limit int, market string) ([]models.SearchCandidate, error) {
	m.Queries = append(m.Queries, query)
	if err, ok := m.SearchErrByQuery[query]; ok {
		return nil, err
	}
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	return m.SearchResults[query], nil
}

func (m *MockDestination) CurrentUser(ctx context.Context) (*services.User, error) {
	if m.UserErr != nil {
		return nil, m.UserErr
	}
	user := m.User
	return &user, nil
}

func (m *MockDestination) CreatePlaylist(ctx context.Context, userID, name string) (*services.CreatedPlaylist, error) {
	m.CreatedNames = append(m.CreatedNames, name)
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	playlist := m.Playlist
	return &playlist, nil
}

func (m *MockDestination) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	call := m.addCallsSoFar
	m.addCallsSoFar++
	m.AddedBatches = append(m.AddedBatches, uris)
	if err, ok := m.AddFailSlots[call]; ok {
		return err
	}
	return m.AddErr
}

func (m *MockDestination) Name() string { return "mock-destination" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
