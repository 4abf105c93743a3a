package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/ytscribe/internal/formatter"
	"github.com/desertthunder/ytscribe/internal/models"
	"github.com/desertthunder/ytscribe/internal/shared"
	"github.com/desertthunder/ytscribe/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Resolve fetches metadata and transcripts for explicit video references.
func (r *Runner) Resolve(ctx context.Context, cmd *cli.Command) error {
	refs := append([]string{}, cmd.Args().Slice()...)

	if inputPath := cmd.String("input"); inputPath != "" {
		content, err := os.ReadFile(inputPath)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
		refs = append(refs, tasks.ParseBulkInput(string(content), contentTypeFor(inputPath))...)
	}

	if len(refs) == 0 {
		return fmt.Errorf("%w: provide references as arguments or via --input", shared.ErrMissingArgument)
	}

	if cmd.Bool("tui") {
		return r.runTUI(ctx, refs, "", tasks.ChannelOpts{})
	}

	r.logger.Info("resolving references", "count", len(refs))

	progress := make(chan tasks.ProgressUpdate, 50)
	go r.logProgress(progress)

	result, err := r.engine.Resolve(ctx, progress, refs)
	close(progress)
	if err != nil {
		return fmt.Errorf("resolution failed: %w", err)
	}

	return r.writeResult(result, cmd.String("format"), cmd.String("output"), cmd.Bool("pretty"))
}

// writeResult renders a resolution result to stdout or a file.
func (r *Runner) writeResult(result *models.ResolutionResult, format, outputPath string, pretty bool) error {
	switch format {
	case "json":
		if outputPath != "" {
			data, err := shared.MarshalJSON(result, pretty)
			if err != nil {
				return fmt.Errorf("failed to marshal result: %w", err)
			}
			if err := os.WriteFile(outputPath, data, 0644); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			r.logger.Info("result written", "path", outputPath)
			return nil
		}
		return r.writeJSON(result, pretty)

	case "csv":
		if outputPath != "" {
			base := strings.TrimSuffix(outputPath, filepath.Ext(outputPath))
			out, err := formatter.WriteCSVExport(result, base)
			if err != nil {
				return err
			}
			r.logger.Info("result written", "path", out.VideosFile)
			if out.ErrorsFile != "" {
				r.logger.Warn("some references failed", "path", out.ErrorsFile)
			}
			return nil
		}
		data, err := formatter.ExportToCSV(result)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)

	case "text":
		if outputPath != "" {
			written, err := formatter.WriteTextExport(result, outputPath)
			if err != nil {
				return err
			}
			r.logger.Info("result written", "path", written)
			return nil
		}
		data, err := formatter.ExportToText(result)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)

	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
}

// contentTypeFor guesses a reference file's format from its extension.
func contentTypeFor(path string) string {
	switch filepath.Ext(path) {
	case ".json":
		return "application/json"
	case ".csv":
		return "text/csv"
	default:
		return "text/plain"
	}
}
