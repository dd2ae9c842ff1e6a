package view

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/glabrego/ideas-cli/internal/app"
	"github.com/glabrego/ideas-cli/internal/images"
	tuitheme "github.com/glabrego/ideas-cli/internal/tui/theme"
)

var reANSICodes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// LongDateLayout is the card and detail date format.
const LongDateLayout = "January 2, 2006"

type CardParams struct {
	Card   app.Card
	Now    time.Time
	Active bool
	Width  int
}

// RenderCard returns the CardHeight lines of one card: title, date and a
// blank separator.
func RenderCard(p CardParams, th tuitheme.Theme) []string {
	cursor := " "
	if p.Active {
		cursor = ">"
	}
	prefix := fmt.Sprintf(" %s ", cursor)
	badge := ImageBadge(p.Card.Image, th)

	title := strings.TrimSpace(p.Card.Idea.Title)
	if title == "" {
		title = "(untitled)"
	}
	available := max(1, p.Width-visibleLen(prefix)-visibleLen(badge)-1)
	title = truncateRunes(title, available)
	first := th.RenderActiveLine(p.Active, prefix+badge+" "+th.StyleCardTitle(p.Active, title))

	indent := strings.Repeat(" ", visibleLen(prefix)+visibleLen(badge)+1)
	second := indent + th.CardDate.Render(DateLabel(p.Now, p.Card.Idea.PublishedAt))

	return []string{first, second, ""}
}

// DateLabel renders a publish date as "May 20, 2024 (3 days ago)".
func DateLabel(now, then time.Time) string {
	if then.IsZero() {
		return "unknown date"
	}
	if now.IsZero() {
		now = time.Now()
	}
	return then.Format(LongDateLayout) + " (" + humanize.RelTime(then, now, "ago", "from now") + ")"
}

// ImageBadge shows where an image slot is in its load lifecycle.
func ImageBadge(el *images.Element, th tuitheme.Theme) string {
	switch {
	case el == nil || el.Neutral:
		return th.ImageNeutral.Render("▫")
	case el.Lazy:
		return th.ImagePending.Render("◌")
	default:
		return th.ImageReady.Render("▣")
	}
}

func truncateRunes(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return strings.Repeat(".", maxLen)
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}

func visibleLen(s string) int {
	return utf8.RuneCountInString(stripANSIText(s))
}

func stripANSIText(s string) string {
	return reANSICodes.ReplaceAllString(s, "")
}
