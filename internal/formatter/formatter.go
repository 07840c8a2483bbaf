// package formatter renders conversion results to various formats (JSON, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/abhiiee-sharma/yt-spotify/internal/models"
	"github.com/abhiiee-sharma/yt-spotify/internal/shared"
)

// Format identifies an output rendering.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// Render converts a result to the requested format.
func Render(result *models.ConversionResult, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return ToJSON(result)
	case FormatCSV:
		return ToCSV(result)
	case FormatMarkdown:
		return ToMarkdown(result)
	case FormatText, "":
		return ToText(result)
	default:
		return nil, fmt.Errorf("%w: unknown output format %q", shared.ErrInvalidInput, format)
	}
}

// ToJSON renders the full result document as indented JSON.
func ToJSON(result *models.ConversionResult) ([]byte, error) {
	return shared.MarshalJSON(result, true)
}

// ToCSV renders the per-track audit trail with columns:
// Source Title, Source Artist, Matched, Destination Title, Destination Artist, URI, Score, Error
func ToCSV(result *models.ConversionResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Source Title", "Source Artist", "Matched", "Destination Title", "Destination Artist", "URI", "Score", "Error"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, outcome := range result.Outcomes {
		record := []string{
			outcome.Source.Title,
			outcome.Source.Artist,
			strconv.FormatBool(outcome.Matched),
			"", "", "", "",
			outcome.ErrorMessage,
		}
		if outcome.Destination != nil {
			record[3] = outcome.Destination.Title
			record[4] = outcome.Destination.Artist
			record[5] = outcome.Destination.URI
			record[6] = strconv.FormatFloat(outcome.Destination.MatchScore, 'f', 2, 64)
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ToMarkdown renders a conversion report with summary and track tables.
func ToMarkdown(result *models.ConversionResult) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Conversion Report\n\n")
	buf.WriteString(fmt.Sprintf("**Playlist**: %s\n", result.PlaylistURL))
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n", result.Summary.Total))
	buf.WriteString(fmt.Sprintf("**Matched**: %d\n", result.Summary.Matched))
	buf.WriteString(fmt.Sprintf("**Unmatched**: %d\n", result.Summary.Unmatched))
	if result.Summary.AverageMatchScore != nil {
		buf.WriteString(fmt.Sprintf("**Average score**: %.2f\n", *result.Summary.AverageMatchScore))
	}
	buf.WriteString("\n")

	if len(result.BatchErrors) > 0 {
		buf.WriteString("## Warnings\n\n")
		for _, batchErr := range result.BatchErrors {
			buf.WriteString(fmt.Sprintf("- %s\n", batchErr))
		}
		buf.WriteString("\n")
	}

	buf.WriteString("## Tracks\n\n")
	buf.WriteString("| # | Source | Matched To | Score |\n")
	buf.WriteString("|---|--------|------------|-------|\n")
	for i, outcome := range result.Outcomes {
		source := fmt.Sprintf("%s - %s", outcome.Source.Artist, outcome.Source.Title)
		matched := "*no match*"
		score := ""
		if outcome.Destination != nil {
			matched = fmt.Sprintf("%s - %s", outcome.Destination.Artist, outcome.Destination.Title)
			score = fmt.Sprintf("%.2f", outcome.Destination.MatchScore)
		}
		if outcome.ErrorMessage != "" {
			matched = fmt.Sprintf("*error: %s*", outcome.ErrorMessage)
		}
		buf.WriteString(fmt.Sprintf("| %d | %s | %s | %s |\n", i+1, source, matched, score))
	}

	return buf.Bytes(), nil
}

// ToText renders a terminal-friendly summary.
func ToText(result *models.ConversionResult) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", result.PlaylistURL))
	buf.WriteString(fmt.Sprintf("Matched %d of %d tracks", result.Summary.Matched, result.Summary.Total))
	if result.Summary.AverageMatchScore != nil {
		buf.WriteString(fmt.Sprintf(" (average score %.2f)", *result.Summary.AverageMatchScore))
	}
	buf.WriteString("\n\n")

	for i, outcome := range result.Outcomes {
		switch {
		case outcome.ErrorMessage != "":
			buf.WriteString(fmt.Sprintf("%d. %s - %s [error: %s]\n", i+1, outcome.Source.Artist, outcome.Source.Title, outcome.ErrorMessage))
		case outcome.Destination != nil:
			buf.WriteString(fmt.Sprintf("%d. %s - %s -> %s - %s [%s]\n",
				i+1,
				outcome.Source.Artist, outcome.Source.Title,
				outcome.Destination.Artist, outcome.Destination.Title,
				shared.FormatDuration(outcome.Destination.DurationMS)))
		default:
			buf.WriteString(fmt.Sprintf("%d. %s - %s [no match]\n", i+1, outcome.Source.Artist, outcome.Source.Title))
		}
	}

	if len(result.BatchErrors) > 0 {
		buf.WriteString("\nWarnings:\n")
		for _, batchErr := range result.BatchErrors {
			buf.WriteString(fmt.Sprintf("  - %s\n", batchErr))
		}
	}

	return buf.Bytes(), nil
}

// Write renders the result and writes the report to w in a single call.
func Write(w io.Writer, result *models.ConversionResult, format Format) error {
	data, err := Render(result, format)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// WriteFile renders the result and writes it to path. An empty path derives
// one from the playlist id and format.
func WriteFile(result *models.ConversionResult, format Format, path string) (string, error) {
	if path == "" {
		ext := string(format)
		if format == FormatMarkdown {
			ext = "md"
		}
		if format == FormatText || format == "" {
			ext = "txt"
		}
		path = fmt.Sprintf("%s_conversion.%s", result.PlaylistID, ext)
	}

	data, err := Render(result, format)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write output file: %w", err)
	}

	return path, nil
}
