package formatter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/ytscribe/internal/models"
	th "github.com/desertthunder/ytscribe/internal/testing"
)

func sampleResult() *models.ResolutionResult {
	transcript := "welcome back to the channel"
	return &models.ResolutionResult{
		Items: []models.ResolvedItem{
			{
				VideoMetadata: models.VideoMetadata{
					ID:           "dQw4w9WgXcQ",
					URL:          "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
					Title:        "First Video",
					ChannelTitle: "Some Creator",
					PublishedAt:  "2024-01-15T10:00:00Z",
					Duration:     "PT3M33S",
				},
				Transcript: &transcript,
			},
			{
				VideoMetadata: models.VideoMetadata{
					ID:           "jNQXAC9IVRw",
					URL:          "https://www.youtube.com/watch?v=jNQXAC9IVRw",
					Title:        "Second Video",
					ChannelTitle: "Some Creator",
					PublishedAt:  "2024-02-01T09:30:00Z",
					Duration:     "PT1H2M10S",
				},
				TranscriptError: "transcript-fetch-failed",
			},
		},
		Errors: []models.ResolutionError{
			{Ref: "missing00ID", Kind: models.KindMetadataNotFound, Message: "no video found"},
		},
	}
}

func sampleExport() *models.ChannelExport {
	result := sampleResult()
	return &models.ChannelExport{
		ChannelID:       "UCabcdefghijklmnopqrstuv",
		ChannelTitle:    "Some Creator",
		TotalVideos:     3,
		ProcessedVideos: 2,
		Data:            *result,
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		iso  string
		want string
	}{
		{"PT3M33S", "3:33"},
		{"PT1H2M10S", "1:02:10"},
		{"PT45S", "0:45"},
		{"PT2H", "2:00:00"},
		{"P1DT2H", "P1DT2H"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := FormatDuration(tc.iso); got != tc.want {
			t.Errorf("FormatDuration(%q) = %q, want %q", tc.iso, got, tc.want)
		}
	}
}

func TestExportToCSV(t *testing.T) {
	data, err := ExportToCSV(sampleResult())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 records, got %d lines", len(lines))
	}
	if lines[0] != "ID,URL,Title,Channel,Published,Duration,Transcript" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "welcome back to the channel") {
		t.Errorf("expected transcript column populated: %s", lines[1])
	}
	if !strings.HasSuffix(lines[2], ",") {
		t.Errorf("expected empty transcript column for failed fetch: %s", lines[2])
	}
}

func TestExportToMarkdown(t *testing.T) {
	data, err := ExportToMarkdown(sampleExport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	md := string(data)

	t.Run("includes channel heading", func(t *testing.T) {
		if !strings.Contains(md, "# Some Creator") {
			t.Errorf("missing channel heading:\n%s", md)
		}
	})

	t.Run("lists videos with formatted durations", func(t *testing.T) {
		if !strings.Contains(md, "[First Video](https://www.youtube.com/watch?v=dQw4w9WgXcQ) [3:33] (transcript)") {
			t.Errorf("missing video entry:\n%s", md)
		}
		if !strings.Contains(md, "[1:02:10]") {
			t.Errorf("missing hour-long duration:\n%s", md)
		}
	})

	t.Run("lists failures", func(t *testing.T) {
		if !strings.Contains(md, "## Failures") || !strings.Contains(md, "missing00ID") {
			t.Errorf("missing failures section:\n%s", md)
		}
	})
}

func TestExportToText(t *testing.T) {
	data, err := ExportToText(sampleResult())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := string(data)

	if !strings.Contains(text, "Resolved: 2") || !strings.Contains(text, "Failed: 1") {
		t.Errorf("missing counts:\n%s", text)
	}
	if !strings.Contains(text, "1. Some Creator - First Video [3:33]") {
		t.Errorf("missing video line:\n%s", text)
	}
}

func TestWriteCSVExport(t *testing.T) {
	dir := t.TempDir()

	t.Run("writes videos csv and errors json", func(t *testing.T) {
		base := filepath.Join(dir, "export")
		out, err := WriteCSVExport(sampleResult(), base)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := os.Stat(out.VideosFile); err != nil {
			t.Errorf("videos file not written: %v", err)
		}
		if out.ErrorsFile == "" {
			t.Fatal("expected errors file")
		}
		errorsData, err := os.ReadFile(out.ErrorsFile)
		if err != nil {
			t.Fatalf("errors file not written: %v", err)
		}
		if !strings.Contains(string(errorsData), "metadata-not-found") {
			t.Errorf("unexpected errors payload: %s", errorsData)
		}
	})

	t.Run("defaults the base filename in the working directory", func(t *testing.T) {
		wd := th.MustGetwd(t)
		th.MustChdir(t, t.TempDir())
		defer th.MustChdir(t, wd)

		out, err := WriteCSVExport(sampleResult(), "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.VideosFile != "resolution_videos.csv" {
			t.Errorf("unexpected videos file %s", out.VideosFile)
		}
		th.AssertFileExists(t, out.VideosFile)
		th.AssertFileExists(t, "resolution_errors.json")
	})

	t.Run("skips errors file when nothing failed", func(t *testing.T) {
		result := sampleResult()
		result.Errors = nil

		out, err := WriteCSVExport(result, filepath.Join(dir, "clean"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.ErrorsFile != "" {
			t.Errorf("expected no errors file, got %s", out.ErrorsFile)
		}
	})
}

func TestWriteMarkdownExport(t *testing.T) {
	t.Run("writes readme and transcript files", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "channel")
		out, err := WriteMarkdownExport(sampleExport(), dir, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := os.Stat(filepath.Join(dir, "README.md")); err != nil {
			t.Errorf("README not written: %v", err)
		}
		transcriptFile := filepath.Join(dir, "transcripts", "dQw4w9WgXcQ.txt")
		data, err := os.ReadFile(transcriptFile)
		if err != nil {
			t.Fatalf("transcript not written: %v", err)
		}
		if strings.TrimSpace(string(data)) != "welcome back to the channel" {
			t.Errorf("unexpected transcript contents: %s", data)
		}
		if len(out.Files) != 2 {
			t.Errorf("expected 2 files, got %v", out.Files)
		}
	})

	t.Run("omits transcripts when not requested", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "channel")
		out, err := WriteMarkdownExport(sampleExport(), dir, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out.Files) != 1 {
			t.Errorf("expected README only, got %v", out.Files)
		}
	})
}

func TestWriteTextExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary")

	written, err := WriteTextExport(sampleResult(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if written != path+".txt" {
		t.Errorf("expected .txt suffix appended, got %s", written)
	}
	if _, err := os.Stat(written); err != nil {
		t.Errorf("text file not written: %v", err)
	}
}
