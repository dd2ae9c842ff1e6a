package view

import (
	"strconv"
	"strings"
	"time"

	"github.com/glabrego/ideas-cli/internal/app"
	"github.com/glabrego/ideas-cli/internal/pagination"
	tuitheme "github.com/glabrego/ideas-cli/internal/tui/theme"
)

type ListRenderInput struct {
	Cards  []app.Card
	Cursor int
	Offset int
	Height int
	Width  int
	Now    time.Time
	Error  string
}

// RenderListBody draws the lines [Offset, Offset+Height) of the card list,
// or the error message in place of the cards.
func RenderListBody(in ListRenderInput, th tuitheme.Theme) string {
	if in.Error != "" {
		return th.ErrorText.Render(in.Error) + "\n"
	}
	if len(in.Cards) == 0 {
		return ""
	}

	lines := make([]string, 0, len(in.Cards)*CardHeight)
	for i, card := range in.Cards {
		lines = append(lines, RenderCard(CardParams{
			Card:   card,
			Now:    in.Now,
			Active: i == in.Cursor,
			Width:  in.Width,
		}, th)...)
	}

	start := min(max(0, in.Offset), len(lines))
	end := len(lines)
	if in.Height > 0 {
		end = min(start+in.Height, end)
	}
	if start >= end {
		return ""
	}
	return strings.Join(lines[start:end], "\n") + "\n"
}

// ControlLabel is the text shown for one pagination control.
func ControlLabel(c pagination.Control) string {
	switch c.Kind {
	case pagination.KindFirst:
		return "«"
	case pagination.KindPrev:
		return "‹"
	case pagination.KindNext:
		return "›"
	case pagination.KindLast:
		return "»"
	case pagination.KindEllipsis:
		return "…"
	default:
		return strconv.Itoa(c.Page)
	}
}

// RenderPaginationBar draws a window as one line. An empty window draws
// nothing.
func RenderPaginationBar(w pagination.Window, th tuitheme.Theme) string {
	if len(w) == 0 {
		return ""
	}
	parts := make([]string, 0, len(w))
	for _, c := range w {
		label := ControlLabel(c)
		switch {
		case c.Active:
			parts = append(parts, th.PageActive.Render(label))
		case c.Disabled || c.Kind == pagination.KindEllipsis:
			parts = append(parts, th.PageDisabled.Render(label))
		default:
			parts = append(parts, th.PageIdle.Render(label))
		}
	}
	return strings.Join(parts, "")
}
