package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorInk       = lipgloss.Color("#ECEFF4")
	ColorDim       = lipgloss.Color("#6C7386")
	ColorAccent    = lipgloss.Color("#B48EAD")
	ColorAccentAlt = lipgloss.Color("#8FBCBB")
	ColorSuccess   = lipgloss.Color("#A3BE8C")
	ColorWarn      = lipgloss.Color("#EBCB8B")
)
