package theme

import (
	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Title      lipgloss.Style
	ModePill   lipgloss.Style
	ActiveLine lipgloss.Style
	MetaLabel  lipgloss.Style
	MetaValue  lipgloss.Style
	StateIdle  lipgloss.Style
	StateWarn  lipgloss.Style
	StateLoad  lipgloss.Style
	ErrorText  lipgloss.Style

	CardTitle       lipgloss.Style
	CardTitleActive lipgloss.Style
	CardDate        lipgloss.Style

	ImageReady   lipgloss.Style
	ImagePending lipgloss.Style
	ImageNeutral lipgloss.Style

	PageActive   lipgloss.Style
	PageIdle     lipgloss.Style
	PageDisabled lipgloss.Style
}

func Default() Theme {
	cpMauve := lipgloss.Color("#cba6f7")
	cpRed := lipgloss.Color("#f38ba8")
	cpPeach := lipgloss.Color("#fab387")
	cpGreen := lipgloss.Color("#a6e3a1")
	cpTeal := lipgloss.Color("#94e2d5")
	cpLavender := lipgloss.Color("#b4befe")
	cpText := lipgloss.Color("#cdd6f4")
	cpSubtext0 := lipgloss.Color("#a6adc8")
	cpSubtext1 := lipgloss.Color("#bac2de")
	cpOverlay0 := lipgloss.Color("#6c7086")
	cpOverlay1 := lipgloss.Color("#7f849c")
	cpSurface0 := lipgloss.Color("#313244")
	cpNeutral := lipgloss.Color("#f8f9fa")

	return Theme{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		ModePill:   lipgloss.NewStyle().Foreground(cpLavender).Background(cpSurface0).Padding(0, 1),
		ActiveLine: lipgloss.NewStyle().Background(cpSurface0).Foreground(cpText),
		MetaLabel:  lipgloss.NewStyle().Foreground(cpOverlay1),
		MetaValue:  lipgloss.NewStyle().Foreground(cpSubtext1),
		StateIdle:  lipgloss.NewStyle().Foreground(cpGreen),
		StateWarn:  lipgloss.NewStyle().Foreground(cpRed),
		StateLoad:  lipgloss.NewStyle().Foreground(cpPeach),
		ErrorText:  lipgloss.NewStyle().Foreground(cpPeach).Bold(true),

		CardTitle:       lipgloss.NewStyle().Foreground(cpText),
		CardTitleActive: lipgloss.NewStyle().Bold(true).Foreground(cpLavender),
		CardDate:        lipgloss.NewStyle().Foreground(cpSubtext0),

		ImageReady:   lipgloss.NewStyle().Foreground(cpTeal),
		ImagePending: lipgloss.NewStyle().Foreground(cpOverlay0).Faint(true),
		ImageNeutral: lipgloss.NewStyle().Foreground(cpOverlay1).Background(cpNeutral),

		PageActive:   lipgloss.NewStyle().Bold(true).Foreground(cpSurface0).Background(cpMauve).Padding(0, 1),
		PageIdle:     lipgloss.NewStyle().Foreground(cpSubtext1).Padding(0, 1),
		PageDisabled: lipgloss.NewStyle().Foreground(cpOverlay0).Faint(true).Padding(0, 1),
	}
}

func (t Theme) StyleCardTitle(active bool, title string) string {
	if title == "" {
		return title
	}
	if active {
		return t.CardTitleActive.Render(title)
	}
	return t.CardTitle.Render(title)
}

func (t Theme) RenderActiveLine(active bool, line string) string {
	if !active {
		return line
	}
	return t.ActiveLine.Render(line)
}
