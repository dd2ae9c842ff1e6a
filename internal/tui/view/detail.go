package view

import (
	"strings"
	"time"

	"github.com/glabrego/ideas-cli/internal/ideas"
)

type WrapFunc func(string, int) []string

func DetailMetaLines(idea ideas.Idea, now time.Time, width int, wrap WrapFunc) []string {
	lines := make([]string, 0, 8)
	lines = append(lines, wrap(idea.Title, width)...)
	lines = append(lines, strings.Repeat("=", max(1, min(width, len(idea.Title)))))
	lines = append(lines, "")
	lines = append(lines, "Published: "+DateLabel(now, idea.PublishedAt))
	if img := idea.BestImageURL(); img != "" {
		lines = append(lines, wrap("Image: "+img, width)...)
	}
	return lines
}
