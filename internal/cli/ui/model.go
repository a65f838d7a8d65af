// Package ui implements the interactive terminal view of a batch run:
// a scrollable item list with per-item status, a spinner, and a summary
// footer.
package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hanzikit/zhconv/internal/cli/hooks"
	"github.com/hanzikit/zhconv/pkg/converter"
)

const listHeightMargin = 4

// Model is the bubbletea state for one batch run.
type Model struct {
	list        list.Model
	spinner     spinner.Model
	width       int
	height      int
	initialized bool

	items    []listItem
	itemIdx  map[string]int
	started  map[string]time.Time
	summary  Summary
	phase    string
	fatalMsg string
	quitting bool

	appVersion    string
	config        string
	debounceTimer *time.Timer
}

type listItem struct {
	path     string
	status   converter.Status
	message  string
	duration time.Duration
}

// Summary holds the counts rendered in the footer.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Skipped   int
	StartTime time.Time
}

// NewModel creates the initial TUI model.
func NewModel(appVersion, config string) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)
	delegate.ShowDescription = true
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(colorNormalFg).Padding(0, 0, 0, 1)
	delegate.Styles.NormalDesc = delegate.Styles.NormalDesc.Foreground(colorNormalDescFg).Padding(0, 0, 0, 1)
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(colorSelectedFg).Bold(true).Padding(0, 0, 0, 1)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(colorNormalDescFg).Padding(0, 0, 0, 1)

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowTitle(false)
	l.SetShowFilter(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return &Model{
		list:       l,
		spinner:    s,
		itemIdx:    make(map[string]int),
		started:    make(map[string]time.Time),
		summary:    Summary{StartTime: time.Now()},
		phase:      "Scanning...",
		appVersion: appVersion,
		config:     config,
	}
}

func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		listHeight := m.height - listHeightMargin
		if listHeight < 1 {
			listHeight = 1
		}
		m.list.SetSize(m.width, listHeight)
		m.initialized = true

	case tea.KeyMsg:
		if m.quitting {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)

	case spinner.TickMsg:
		if m.quitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case hooks.ItemDiscoveredMsg:
		if _, exists := m.itemIdx[msg.Path]; !exists {
			m.items = append(m.items, listItem{path: msg.Path, status: converter.StatusPending})
			m.itemIdx[msg.Path] = len(m.items) - 1
			m.summary.Total++
			cmds = append(cmds, m.debounceListUpdate())
		}

	case hooks.ItemStatusUpdateMsg:
		cmds = append(cmds, m.applyStatus(msg))
		if m.phase == "Scanning..." && msg.Status == converter.StatusProcessing {
			m.phase = "Converting..."
		}

	case hooks.RunCompleteMsg:
		m.phase = "Complete"
		m.summary.Succeeded = msg.Report.Summary.Succeeded
		m.summary.Failed = msg.Report.Summary.Failed
		if len(msg.Report.Summary.FatalErrors) > 0 {
			m.fatalMsg = msg.Report.Summary.FatalErrors[0]
		}

	case updateListMsg:
		items := make([]list.Item, len(m.items))
		for i, it := range m.items {
			items[i] = it
		}
		cmds = append(cmds, m.list.SetItems(items))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) applyStatus(msg hooks.ItemStatusUpdateMsg) tea.Cmd {
	idx, ok := m.itemIdx[msg.Path]
	if !ok {
		m.items = append(m.items, listItem{path: msg.Path})
		idx = len(m.items) - 1
		m.itemIdx[msg.Path] = idx
		m.summary.Total++
	}
	item := &m.items[idx]

	switch {
	case msg.Status == converter.StatusProcessing:
		m.started[msg.Path] = time.Now()
	case isFinalStatus(msg.Status):
		if !isFinalStatus(item.status) {
			switch msg.Status {
			case converter.StatusSuccess:
				m.summary.Succeeded++
			case converter.StatusFailed:
				m.summary.Failed++
			case converter.StatusSkipped:
				m.summary.Skipped++
			}
		}
		if msg.Duration > 0 {
			item.duration = msg.Duration
		} else if start, found := m.started[msg.Path]; found {
			item.duration = time.Since(start)
		}
		delete(m.started, msg.Path)
	}

	item.status = msg.Status
	item.message = msg.Message
	return m.debounceListUpdate()
}

func (m *Model) View() string {
	if m.quitting {
		return "Exiting...\n"
	}
	if !m.initialized {
		return "Initializing..."
	}

	headerLeft := fmt.Sprintf("zhconv v%s (%s)", m.appVersion, m.config)
	headerRight := m.phase
	if m.phase != "Complete" {
		headerRight = m.spinner.View() + " " + m.phase
	}
	header := headerStyle.Width(m.width).Render(joinEdges(m.width, headerLeft, headerRight))

	elapsed := time.Since(m.summary.StartTime).Round(time.Millisecond)
	footerLeft := fmt.Sprintf("Done: %d | Failed: %d | Skipped: %d | Total: %d | %s",
		m.summary.Succeeded, m.summary.Failed, m.summary.Skipped, m.summary.Total, elapsed)
	footer := footerStyle.Width(m.width).Render(joinEdges(m.width, footerLeft, "q: quit"))

	errorView := ""
	if m.fatalMsg != "" {
		errorView = statusStyleFailed.Render(m.fatalMsg) + "\n"
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, m.list.View(), errorView, footer)
}

func joinEdges(width int, left, right string) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	center := ""
	if gap > 0 {
		center = lipgloss.PlaceHorizontal(gap, lipgloss.Center, " ")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, center, right)
}

func isFinalStatus(status converter.Status) bool {
	return status == converter.StatusSuccess ||
		status == converter.StatusFailed ||
		status == converter.StatusSkipped
}

// list.Item implementation.

func (i listItem) FilterValue() string { return i.path }
func (i listItem) Title() string       { return i.path }

func (i listItem) Description() string {
	var style lipgloss.Style
	icon := " "
	switch i.status {
	case converter.StatusSuccess:
		style, icon = statusStyleSuccess, "✓"
	case converter.StatusFailed:
		style, icon = statusStyleFailed, "✗"
	case converter.StatusSkipped:
		style, icon = statusStyleSkipped, "-"
	case converter.StatusProcessing:
		style, icon = statusStyleProcessing, "…"
	default:
		style = statusStylePending
	}

	details := ""
	switch i.status {
	case converter.StatusFailed, converter.StatusSkipped:
		details = i.message
	case converter.StatusSuccess:
		details = formatDuration(i.duration)
	}
	return fmt.Sprintf("%s %s", style.Render("["+icon+"]"), details)
}

func formatDuration(d time.Duration) string {
	switch {
	case d == 0:
		return ""
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}

// updateListMsg triggers a bulk refresh of the list component.
type updateListMsg struct{}

const listUpdateDebounce = 50 * time.Millisecond

// debounceListUpdate coalesces rapid status changes into one list
// refresh per debounce window.
func (m *Model) debounceListUpdate() tea.Cmd {
	if m.debounceTimer != nil {
		m.debounceTimer.Stop()
	}
	m.debounceTimer = time.NewTimer(listUpdateDebounce)
	timer := m.debounceTimer
	return func() tea.Msg {
		<-timer.C
		return updateListMsg{}
	}
}

// Styles.

const (
	colorHeaderFg = lipgloss.Color("252")
	colorHeaderBg = lipgloss.Color("62")
	colorFooterFg = lipgloss.Color("252")
	colorFooterBg = lipgloss.Color("56")

	colorNormalFg     = lipgloss.Color("250")
	colorNormalDescFg = lipgloss.Color("244")
	colorSelectedFg   = lipgloss.Color("255")

	colorSuccess    = lipgloss.Color("40")
	colorFailed     = lipgloss.Color("196")
	colorSkipped    = lipgloss.Color("214")
	colorPending    = lipgloss.Color("244")
	colorProcessing = lipgloss.Color("205")
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorHeaderFg).Background(colorHeaderBg).Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(colorFooterFg).Background(colorFooterBg).Padding(0, 1)

	spinnerStyle = lipgloss.NewStyle().Foreground(colorProcessing)

	statusStyleSuccess    = lipgloss.NewStyle().Foreground(colorSuccess)
	statusStyleFailed     = lipgloss.NewStyle().Foreground(colorFailed)
	statusStyleSkipped    = lipgloss.NewStyle().Foreground(colorSkipped)
	statusStylePending    = lipgloss.NewStyle().Foreground(colorPending)
	statusStyleProcessing = lipgloss.NewStyle().Foreground(colorProcessing)
)
