package content

import "github.com/charmbracelet/lipgloss"

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#b4befe"))
	quoteStyle   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#a6adc8"))
	quoteBar     = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
)

func (r renderer) style(lines []string, s lipgloss.Style) []string {
	if !r.opts.Styled {
		return lines
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			out = append(out, line)
			continue
		}
		out = append(out, s.Render(line))
	}
	return out
}

func (r renderer) styleOne(line string, s lipgloss.Style) string {
	if !r.opts.Styled {
		return line
	}
	return s.Render(line)
}

func (r renderer) quotePrefix() string {
	return r.styleOne("│ ", quoteBar)
}
