package view

import (
	"strings"
	"time"

	"github.com/glabrego/ideas-cli/internal/ideas"
	"github.com/glabrego/ideas-cli/internal/render/content"
)

const inlineImagePreviewAnchor = "__INLINE_IMAGE_PREVIEW_ANCHOR__"

type InlineImagePreviewState struct {
	Enabled bool
	Loading bool
	Raw     string
	Err     string
	// Placeholder is set when the image ended on the placeholder.
	Placeholder bool
}

func DetailLines(
	idea ideas.Idea,
	now time.Time,
	contentWidth int,
	horizontalMargin int,
	opts content.Options,
	wrap WrapFunc,
	preview InlineImagePreviewState,
) []string {
	lines := detailBaseLines(idea, now, contentWidth, opts, wrap)
	lines = appendInlineImagePreview(lines, preview, contentWidth)
	return leftPadLines(lines, horizontalMargin)
}

func DetailMaxTop(linesLen, bodyHeight int) int {
	maxTop := linesLen - bodyHeight
	if maxTop < 0 {
		return 0
	}
	return maxTop
}

func RenderDetailLines(lines []string, top, maxLines int) string {
	if len(lines) == 0 {
		return ""
	}
	if top < 0 {
		top = 0
	}
	if top > len(lines)-1 {
		top = len(lines) - 1
	}
	end := len(lines)
	if maxLines > 0 && top+maxLines < end {
		end = top + maxLines
	}
	return strings.Join(lines[top:end], "\n") + "\n"
}

func detailBaseLines(idea ideas.Idea, now time.Time, width int, opts content.Options, wrap WrapFunc) []string {
	lines := DetailMetaLines(idea, now, width, wrap)
	lines = append(lines, inlineImagePreviewAnchor)
	contentLines := content.LinesWithOptions(idea.Content, width, opts)
	if len(contentLines) > 0 {
		lines = append(lines, "")
		lines = append(lines, contentLines...)
	}
	return lines
}

func appendInlineImagePreview(lines []string, preview InlineImagePreviewState, contentWidth int) []string {
	previewLines := make([]string, 0, 3)
	if !preview.Enabled {
		return placePreview(lines, previewLines)
	}
	if preview.Placeholder {
		previewLines = append(previewLines, centerLines([]string{"[ Image not available ]"}, contentWidth)...)
	}
	if len(previewLines) == 0 && preview.Loading {
		previewLines = append(previewLines, "Loading image preview...")
	}
	if len(previewLines) == 0 {
		if previewRaw := strings.TrimSpace(preview.Raw); previewRaw != "" {
			if containsKittyGraphicsEscape(preview.Raw) {
				previewLines = append(previewLines, strings.TrimRight(preview.Raw, "\r\n"))
			} else {
				previewSplit := strings.Split(strings.TrimRight(preview.Raw, "\r\n"), "\n")
				previewLines = centerLines(previewSplit, contentWidth)
			}
		}
	}
	if len(previewLines) == 0 {
		if errMsg := strings.TrimSpace(preview.Err); errMsg != "" {
			previewLines = append(previewLines, "Image preview unavailable: "+errMsg)
		}
	}
	return placePreview(lines, previewLines)
}

// placePreview puts previewLines at the anchor line, or at the end when
// there is no anchor. The anchor itself is always dropped.
func placePreview(lines, previewLines []string) []string {
	anchored := false
	out := make([]string, 0, len(lines)+len(previewLines)+1)
	for _, line := range lines {
		if line != inlineImagePreviewAnchor {
			out = append(out, line)
			continue
		}
		anchored = true
		if len(previewLines) > 0 {
			out = append(out, "")
			out = append(out, previewLines...)
		}
	}
	if anchored {
		return out
	}
	if len(previewLines) == 0 {
		return lines
	}
	out = append(out, "")
	out = append(out, previewLines...)
	return out
}

func leftPadLines(lines []string, padding int) []string {
	if padding <= 0 || len(lines) == 0 {
		return lines
	}
	prefix := strings.Repeat(" ", padding)
	out := make([]string, len(lines))
	for i, line := range lines {
		if containsKittyGraphicsEscape(line) {
			out[i] = line
			continue
		}
		out[i] = prefix + line
	}
	return out
}

func centerLines(lines []string, width int) []string {
	if width <= 0 || len(lines) == 0 {
		return lines
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		visible := visibleLen(line)
		if visible >= width {
			out[i] = line
			continue
		}
		pad := (width - visible) / 2
		if pad < 0 {
			pad = 0
		}
		out[i] = strings.Repeat(" ", pad) + line
	}
	return out
}

func containsKittyGraphicsEscape(s string) bool {
	return strings.Contains(s, "\x1b_G")
}
