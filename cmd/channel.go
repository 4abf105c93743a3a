package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/ytscribe/internal/formatter"
	"github.com/desertthunder/ytscribe/internal/shared"
	"github.com/desertthunder/ytscribe/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Channel resolves every upload of a channel.
func (r *Runner) Channel(ctx context.Context, cmd *cli.Command) error {
	channel := cmd.Args().First()
	if channel == "" {
		return fmt.Errorf("%w: a channel URL, @handle, or UC id is required", shared.ErrMissingArgument)
	}

	opts := tasks.ChannelOpts{
		IncludeTranscripts: cmd.Bool("transcripts"),
		MaxVideos:          cmd.Int("max"),
	}

	if cmd.Bool("tui") {
		return r.runTUI(ctx, nil, channel, opts)
	}

	r.logger.Info("resolving channel", "channel", channel, "transcripts", opts.IncludeTranscripts)

	progress := make(chan tasks.ProgressUpdate, 50)
	go r.logProgress(progress)

	export, err := r.engine.ResolveChannel(ctx, progress, channel, opts)
	close(progress)
	if err != nil {
		return fmt.Errorf("channel resolution failed: %w", err)
	}

	r.logger.Info("channel resolved",
		"channel", export.ChannelTitle,
		"videos", export.ProcessedVideos,
		"errors", len(export.Data.Errors),
	)

	format := cmd.String("format")
	outputPath := cmd.String("output")

	switch format {
	case "json":
		if outputPath != "" {
			data, err := shared.MarshalJSON(export, cmd.Bool("pretty"))
			if err != nil {
				return fmt.Errorf("failed to marshal export: %w", err)
			}
			if err := os.WriteFile(outputPath, data, 0644); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			r.logger.Info("export written", "path", outputPath)
			return nil
		}
		return r.writeJSON(export, cmd.Bool("pretty"))

	case "csv":
		base := outputPath
		if base == "" {
			base = export.ChannelID
		}
		base = strings.TrimSuffix(base, filepath.Ext(base))
		out, err := formatter.WriteCSVExport(&export.Data, base)
		if err != nil {
			return err
		}
		r.writePlain("✓ Export written to %s\n", out.VideosFile)
		if out.ErrorsFile != "" {
			r.writePlain("Some videos failed, see %s\n", out.ErrorsFile)
		}
		return nil

	case "markdown", "md":
		out, err := formatter.WriteMarkdownExport(export, outputPath, opts.IncludeTranscripts)
		if err != nil {
			return err
		}
		r.writePlain("✓ Export written to %s (%d files)\n", out.Directory, len(out.Files))
		return nil

	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
}
