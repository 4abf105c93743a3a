package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytscribe/internal/shared"
	"github.com/desertthunder/ytscribe/internal/tasks"
	"github.com/desertthunder/ytscribe/internal/ui"
)

// runTUI launches the interactive terminal UI for a resolution run.
//
// Either inputs or channel is set, never both.
func (r *Runner) runTUI(ctx context.Context, inputs []string, channel string, opts tasks.ChannelOpts) error {
	if r.engine == nil {
		return fmt.Errorf("%w: resolution engine not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/ytscribe-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	var model *ui.Model
	if channel != "" {
		model = ui.NewChannelModel(ctx, r.engine, channel, opts)
	} else {
		model = ui.NewModel(ctx, r.engine, inputs)
	}

	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
