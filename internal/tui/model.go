package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vramcounter/internal/estimator"
)

type Model struct {
	updates      <-chan estimator.ProgressUpdate
	started      time.Time
	width        int
	packages     int
	packagesDone int
	files        int
	scanned      int
	images       int
	skipped      int
	quitting     bool
	cancel       func()
}

type doneMsg struct{}

type updateMsg estimator.ProgressUpdate

func NewModel(updates <-chan estimator.ProgressUpdate) Model {
	return Model{updates: updates, started: time.Now()}
}

// WithCancel makes ctrl+c call cancel before the view exits.
func (m Model) WithCancel(cancel func()) Model {
	m.cancel = cancel
	return m
}

func (m Model) Init() tea.Cmd {
	return listenForUpdates(m.updates)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case updateMsg:
		m.packages += msg.PackagesDelta
		m.packagesDone += msg.PackagesDoneDelta
		m.files += msg.FilesDelta
		m.scanned += msg.ScannedDelta
		m.images += msg.ImagesDelta
		m.skipped += msg.SkippedDelta
		return m, listenForUpdates(m.updates)
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			if m.cancel != nil {
				m.cancel()
			}
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	width := 40
	if m.width > 0 {
		width = min(60, max(20, m.width-16))
	}

	elapsed := time.Since(m.started).Round(time.Millisecond)
	lines := []string{
		titleStyle.Render("VRAM Counter") + dimStyle.Render("  "+elapsed.String()),
		renderBar("mods ", width, m.packagesDone, m.packages),
		renderBar("files", width, m.scanned, m.files),
		labelStyle.Render(fmt.Sprintf("Images: %d", m.images)) + dimStyle.Render(fmt.Sprintf("  skipped:%d", m.skipped)),
	}
	return strings.Join(lines, "\n")
}

func listenForUpdates(updates <-chan estimator.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return doneMsg{}
		}
		return updateMsg(update)
	}
}

// renderBar draws "label [####....] done/total".
func renderBar(label string, width, done, total int) string {
	filled := 0
	if total > 0 {
		filled = int(math.Round(float64(width) * float64(done) / float64(total)))
		filled = min(width, max(0, filled))
	}
	bar := barStyle.Render(strings.Repeat("#", filled)) + dimStyle.Render(strings.Repeat(".", width-filled))
	return labelStyle.Render(label) + " [" + bar + "] " + labelStyle.Render(fmt.Sprintf("%d/%d", done, total))
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	labelStyle = lipgloss.NewStyle().Foreground(ColorInk)
	barStyle   = lipgloss.NewStyle().Foreground(ColorSuccess)
	dimStyle   = lipgloss.NewStyle().Foreground(ColorDim)
)
