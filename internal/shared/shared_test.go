package shared

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestLoggerHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	child := WithLogger(logger, "component", "web")
	child.Info("listening")
	if !strings.Contains(buf.String(), "component=web") {
		t.Errorf("expected child fields in output: %q", buf.String())
	}

	SetLogLevel(child, log.WarnLevel)
	child.Info("suppressed")
	if strings.Contains(buf.String(), "suppressed") {
		t.Errorf("info entries should be dropped at warn level: %q", buf.String())
	}
}

func TestNormalizeString(t *testing.T) {
	tc := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercases", in: "SoNg TiTlE", want: "song title"},
		{name: "strips punctuation", in: "Don't Stop (Me) Now!", want: "dont stop me now"},
		{name: "collapses whitespace", in: "  Song   Title  ", want: "song title"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeString(tt.in); got != tt.want {
				t.Errorf("NormalizeString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeTrackKey(t *testing.T) {
	tc := []struct {
		name   string
		title  string
		artist string
		want   string
	}{
		{
			name:   "basic normalization",
			title:  "Song Title",
			artist: "Artist Name",
			want:   "song title|artist name",
		},
		{
			name:   "extra whitespace",
			title:  "  Song   Title  ",
			artist: "  Artist   Name  ",
			want:   "song title|artist name",
		},
		{
			name:   "punctuation stripped",
			title:  "Song: Title",
			artist: "Artist & Name",
			want:   "song title|artist name",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTrackKey(tt.title, tt.artist)
			if got != tt.want {
				t.Errorf("NormalizeTrackKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tc := []struct {
		ms   int
		want string
	}{
		{0, "0:00"},
		{59000, "0:59"},
		{60000, "1:00"},
		{185000, "3:05"},
		{3600000, "60:00"},
	}

	for _, tt := range tc {
		if got := FormatDuration(tt.ms); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == "" || b == "" {
		t.Fatal("expected non-empty IDs")
	}
	if a == b {
		t.Error("expected unique IDs")
	}
}
