// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Palette for dark terminal backgrounds.
var (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorMuted     = lipgloss.Color("#6B7280")
	colorSuccess   = lipgloss.Color("#10B981")
	colorError     = lipgloss.Color("#EF4444")
	colorWarning   = lipgloss.Color("#F59E0B")
	colorHighlight = lipgloss.Color("#3B82F6")
	colorDetail    = lipgloss.Color("#9CA3AF")
)

// Styles shared by the root, inspect and keep commands.
var (
	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	SubtitleStyle = lipgloss.NewStyle().Foreground(colorMuted)
	SuccessStyle  = lipgloss.NewStyle().Foreground(colorSuccess)
	ErrorStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	WarningStyle  = lipgloss.NewStyle().Foreground(colorWarning)

	// LabelStyle marks field labels in inspect and dry-run output.
	LabelStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWarning)
	// HighlightStyle marks class names.
	HighlightStyle = lipgloss.NewStyle().Bold(true).Foreground(colorHighlight)
	// CmdStyle marks the optimizer command line.
	CmdStyle = lipgloss.NewStyle().Foreground(colorHighlight)
	// VerboseStyle marks entry metadata and manifest attribute keys.
	VerboseStyle = lipgloss.NewStyle().Foreground(colorDetail)
)
