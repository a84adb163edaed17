package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vramcounter/internal/config"
)

var ErrPromptAborted = errors.New("prompt aborted")

type promptItem struct {
	label string
	value bool
}

// PromptModel asks which GraphicsLib map kinds are enabled.
type PromptModel struct {
	items   []promptItem
	cursor  int
	done    bool
	aborted bool
}

func NewPromptModel(initial config.MapToggles) PromptModel {
	return PromptModel{items: []promptItem{
		{label: "Normal maps", value: initial.Normal},
		{label: "Material maps", value: initial.Material},
		{label: "Surface maps", value: initial.Surface},
	}}
}

func (m PromptModel) Init() tea.Cmd {
	return nil
}

func (m PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j", "tab":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case " ", "x":
		m.items[m.cursor].value = !m.items[m.cursor].value
	case "y":
		m.items[m.cursor].value = true
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "n":
		m.items[m.cursor].value = false
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter":
		m.done = true
		return m, tea.Quit
	case "ctrl+c", "esc", "q":
		m.aborted = true
		return m, tea.Quit
	}
	return m, nil
}

func (m PromptModel) View() string {
	if m.done || m.aborted {
		return ""
	}

	lines := []string{titleStyle.Render("GraphicsLib settings")}
	for i, item := range m.items {
		pointer := "  "
		if i == m.cursor {
			pointer = pointerStyle.Render("> ")
		}
		box := "[ ]"
		if item.value {
			box = checkStyle.Render("[x]")
		}
		lines = append(lines, fmt.Sprintf("%s%s %s", pointer, box, labelStyle.Render(item.label)))
	}
	lines = append(lines, dimStyle.Render("space: toggle  y/n: set  enter: confirm  esc: cancel"))
	return strings.Join(lines, "\n")
}

// Result returns the chosen toggles, or ErrPromptAborted.
func (m PromptModel) Result() (config.MapToggles, error) {
	if m.aborted || !m.done {
		return config.MapToggles{}, ErrPromptAborted
	}
	return config.MapToggles{
		Normal:   m.items[0].value,
		Material: m.items[1].value,
		Surface:  m.items[2].value,
	}, nil
}

// Prompter runs PromptModel as a bubbletea program.
type Prompter struct {
	Input  io.Reader
	Output io.Writer
}

func (p Prompter) PromptMaps(initial config.MapToggles) (config.MapToggles, error) {
	var opts []tea.ProgramOption
	if p.Input != nil {
		opts = append(opts, tea.WithInput(p.Input))
	}
	if p.Output != nil {
		opts = append(opts, tea.WithOutput(p.Output))
	}

	final, err := tea.NewProgram(NewPromptModel(initial), opts...).Run()
	if err != nil {
		return config.MapToggles{}, err
	}
	return final.(PromptModel).Result()
}

var (
	pointerStyle = lipgloss.NewStyle().Foreground(ColorAccentAlt)
	checkStyle   = lipgloss.NewStyle().Foreground(ColorSuccess)
)
