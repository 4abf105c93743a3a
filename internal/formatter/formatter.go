// package formatter provides functions to export resolution results to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/desertthunder/ytscribe/internal/models"
	"github.com/desertthunder/ytscribe/internal/shared"
)

var isoDurationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// FormatDuration renders an ISO-8601 video duration (PT1H2M10S) as a
// clock string (1:02:10). Unparseable input is returned unchanged.
func FormatDuration(iso string) string {
	match := isoDurationPattern.FindStringSubmatch(iso)
	if match == nil {
		return iso
	}

	hours, _ := strconv.Atoi(match[1])
	minutes, _ := strconv.Atoi(match[2])
	seconds, _ := strconv.Atoi(match[3])

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// ExportToCSV converts a ResolutionResult to CSV format with columns: ID, URL, Title, Channel, Published, Duration, Transcript
func ExportToCSV(result *models.ResolutionResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "URL", "Title", "Channel", "Published", "Duration", "Transcript"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range result.Items {
		transcript := ""
		if item.Transcript != nil {
			transcript = *item.Transcript
		}
		record := []string{
			item.ID,
			item.URL,
			item.Title,
			item.ChannelTitle,
			item.PublishedAt,
			item.Duration,
			transcript,
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

// ExportToMarkdown converts a ChannelExport to Markdown format with a video
// listing and a failures section when any inputs could not be resolved.
func ExportToMarkdown(export *models.ChannelExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", export.ChannelTitle))
	buf.WriteString(fmt.Sprintf("**Channel ID**: %s\n", export.ChannelID))
	buf.WriteString(fmt.Sprintf("**Videos**: %d collected, %d resolved\n\n", export.TotalVideos, export.ProcessedVideos))

	buf.WriteString("## Videos\n\n")
	for i, item := range export.Data.Items {
		captioned := ""
		if item.Transcript != nil {
			captioned = " (transcript)"
		}
		buf.WriteString(fmt.Sprintf("%d. [%s](%s) [%s]%s\n", i+1, item.Title, item.URL, FormatDuration(item.Duration), captioned))
	}

	if len(export.Data.Errors) > 0 {
		buf.WriteString("\n## Failures\n\n")
		for _, resErr := range export.Data.Errors {
			buf.WriteString(fmt.Sprintf("- `%s` (%s): %s\n", resErr.Ref, resErr.Kind, resErr.Message))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a ResolutionResult to plain text format
func ExportToText(result *models.ResolutionResult) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Resolved: %d\n", len(result.Items)))
	buf.WriteString(fmt.Sprintf("Failed: %d\n\n", len(result.Errors)))

	for i, item := range result.Items {
		buf.WriteString(fmt.Sprintf("%d. %s - %s [%s]\n", i+1, item.ChannelTitle, item.Title, FormatDuration(item.Duration)))
	}

	if len(result.Errors) > 0 {
		buf.WriteString("\nFailures:\n")
		for _, resErr := range result.Errors {
			buf.WriteString(fmt.Sprintf("- %s (%s): %s\n", resErr.Ref, resErr.Kind, resErr.Message))
		}
	}

	return buf.Bytes(), nil
}

// ToErrorsJSON generates a JSON representation of the per-input failures only
func ToErrorsJSON(result *models.ResolutionResult) ([]byte, error) {
	return shared.MarshalJSON(result.Errors, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	VideosFile string
	ErrorsFile string
}

// WriteCSVExport exports a resolution result to CSV format with an
// accompanying errors JSON file when any input failed.
//
// Creates {base}_videos.csv and, if needed, {base}_errors.json
func WriteCSVExport(result *models.ResolutionResult, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = "resolution"
	}

	csvData, err := ExportToCSV(result)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	videosFile := baseFilepath + "_videos.csv"
	if err := os.WriteFile(videosFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	out := &CSVExportResult{VideosFile: videosFile}

	if len(result.Errors) > 0 {
		errorsJSON, err := ToErrorsJSON(result)
		if err != nil {
			return nil, fmt.Errorf("failed to generate errors JSON: %w", err)
		}

		errorsFile := baseFilepath + "_errors.json"
		if err := os.WriteFile(errorsFile, errorsJSON, 0644); err != nil {
			return nil, fmt.Errorf("failed to write errors file: %w", err)
		}
		out.ErrorsFile = errorsFile
	}

	return out, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
}

// WriteMarkdownExport exports a channel to Markdown format in a dedicated directory.
//
// Directory name defaults to the channel ID.
// Creates {dir}/README.md and, when writeTranscripts is set, one
// {dir}/transcripts/{id}.txt file per captioned video.
func WriteMarkdownExport(export *models.ChannelExport, outputDir string, writeTranscripts bool) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = export.ChannelID
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	mdData, err := ExportToMarkdown(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}
	result.Files = append(result.Files, mdFile)

	if writeTranscripts {
		transcriptDir := fmt.Sprintf("%s/transcripts", outputDir)
		for _, item := range export.Data.Items {
			if item.Transcript == nil {
				continue
			}
			if err := os.MkdirAll(transcriptDir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create transcripts directory: %w", err)
			}
			transcriptFile := fmt.Sprintf("%s/%s.txt", transcriptDir, item.ID)
			if err := os.WriteFile(transcriptFile, []byte(*item.Transcript+"\n"), 0644); err != nil {
				return nil, fmt.Errorf("failed to write transcript file: %w", err)
			}
			result.Files = append(result.Files, transcriptFile)
		}
	}

	return result, nil
}

// WriteTextExport exports a resolution result to plain text format.
//
// Defaults to resolution.txt as the filename.
func WriteTextExport(result *models.ResolutionResult, filepath string) (string, error) {
	if filepath == "" {
		filepath = "resolution.txt"
	}
	if !strings.HasSuffix(filepath, ".txt") {
		filepath += ".txt"
	}

	textData, err := ExportToText(result)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}
