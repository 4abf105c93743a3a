package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytscribe/internal/formatter"
	"github.com/desertthunder/ytscribe/internal/models"
	"github.com/desertthunder/ytscribe/internal/shared"
	"github.com/desertthunder/ytscribe/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	RunningView ViewState = iota
	BrowseView
)

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	view   ViewState
	engine tasks.ResolveEngine

	inputs      []string
	channel     string
	channelOpts tasks.ChannelOpts

	width  int
	height int

	spinner      spinner.Model
	progressChan chan tasks.ProgressUpdate
	done         chan resolveCompleteMsg
	progress     tasks.ProgressUpdate

	itemList list.Model
	result   *models.ResolutionResult
	export   *models.ChannelExport
	err      error

	help help.Model
	keys keyMap
}

// videoItem wraps [models.ResolvedItem] to implement list.Item.
type videoItem struct {
	item models.ResolvedItem
}

func (i videoItem) FilterValue() string { return i.item.Title }
func (i videoItem) Title() string       { return i.item.Title }
func (i videoItem) Description() string {
	desc := i.item.ChannelTitle
	if i.item.Duration != "" {
		desc = fmt.Sprintf("%s • %s", desc, formatter.FormatDuration(i.item.Duration))
	}
	if i.item.Transcript != nil {
		desc = fmt.Sprintf("%s • transcript", desc)
	}
	return desc
}

type progressUpdateMsg tasks.ProgressUpdate

type resolveCompleteMsg struct {
	result *models.ResolutionResult
	export *models.ChannelExport
	err    error
}

// NewModel creates a TUI model that resolves an explicit reference list.
func NewModel(ctx context.Context, engine tasks.ResolveEngine, inputs []string) *Model {
	return &Model{
		ctx:     ctx,
		view:    RunningView,
		engine:  engine,
		inputs:  inputs,
		spinner: newSpinner(),
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// NewChannelModel creates a TUI model that resolves a whole channel.
func NewChannelModel(ctx context.Context, engine tasks.ResolveEngine, channel string, opts tasks.ChannelOpts) *Model {
	return &Model{
		ctx:         ctx,
		view:        RunningView,
		engine:      engine,
		channel:     channel,
		channelOpts: opts,
		spinner:     newSpinner(),
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

func newSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.title
	return s
}

// Init kicks off the resolution run.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.startRun(), m.spinner.Tick)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.itemList.Width() != 0 {
			m.itemList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case RunningView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		case BrowseView:
			return m.handleBrowseKeys(msg)
		}

	case spinner.TickMsg:
		if m.view != RunningView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case resolveCompleteMsg:
		m.result = msg.result
		m.export = msg.export
		m.err = msg.err
		m.progressChan = nil
		m.view = BrowseView
		if m.result != nil {
			items := make([]list.Item, len(m.result.Items))
			for i, item := range m.result.Items {
				items[i] = videoItem{item: item}
			}
			m.itemList = list.New(items, list.NewDefaultDelegate(), 0, 0)
			m.itemList.Title = m.listTitle()
			m.itemList.SetSize(m.width-4, m.height-8)
		}
		return m, nil
	}

	if m.view == BrowseView && m.result != nil {
		var cmd tea.Cmd
		m.itemList, cmd = m.itemList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case RunningView:
		return m.renderRunning()
	case BrowseView:
		return m.renderBrowse()
	default:
		return ""
	}
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.restart):
		m.view = RunningView
		m.result = nil
		m.export = nil
		m.err = nil
		m.progress = tasks.ProgressUpdate{}
		return m, tea.Batch(m.startRun(), m.spinner.Tick)
	case key.Matches(msg, m.keys.enter):
		if selected, ok := m.itemList.SelectedItem().(videoItem); ok {
			shared.OpenBrowser(selected.item.URL)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.itemList, cmd = m.itemList.Update(msg)
	return m, cmd
}

func (m *Model) startRun() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	progress := m.progressChan

	done := make(chan resolveCompleteMsg, 1)
	go func() {
		var msg resolveCompleteMsg
		if m.channel != "" {
			export, err := m.engine.ResolveChannel(m.ctx, progress, m.channel, m.channelOpts)
			msg.export = export
			msg.err = err
			if export != nil {
				msg.result = &export.Data
			}
		} else {
			msg.result, msg.err = m.engine.Resolve(m.ctx, progress, m.inputs)
		}
		done <- msg
		close(progress)
	}()
	m.done = done

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress := m.progressChan
	done := m.done
	return func() tea.Msg {
		if progress == nil {
			return nil
		}
		update, ok := <-progress
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) listTitle() string {
	if m.export != nil {
		return fmt.Sprintf("%s (%d videos)", m.export.ChannelTitle, len(m.result.Items))
	}
	return fmt.Sprintf("Resolved Videos (%d)", len(m.result.Items))
}

func (m *Model) renderRunning() string {
	title := styles.title.Render("Resolving")

	var phase string
	switch m.progress.Phase {
	case tasks.Normalize:
		phase = "Normalizing references..."
	case tasks.ResolveChannelRef:
		phase = "Resolving channel..."
	case tasks.EnumerateChannel:
		phase = fmt.Sprintf("Enumerating channel (page %d)", m.progress.Step)
	case tasks.FetchMetadata:
		phase = fmt.Sprintf("Fetching metadata (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.FetchTranscripts:
		phase = fmt.Sprintf("Fetching transcripts (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.MergeResults:
		phase = "Merging results..."
	default:
		phase = "Starting..."
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.quit})
	return fmt.Sprintf("%s\n\n%s %s\n%s\n\n%s", title, m.spinner.View(), phase, m.progress.Message, helpView)
}

func (m *Model) renderBrowse() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Resolution failed: %v\n\nPress r to retry, q to quit", m.err))
	}
	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to retry, q to quit")
	}

	summary := styles.ok.Render(fmt.Sprintf("✓ Resolved %d videos", len(m.result.Items)))
	if n := len(m.result.Errors); n > 0 {
		summary += styles.warn.Render(fmt.Sprintf("  (%d failed)", n))
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n\n%s\n\n%s", summary, m.itemList.View(), helpView)
}
