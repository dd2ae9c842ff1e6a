package view

import (
	"strings"
	"testing"
	"time"

	"github.com/glabrego/ideas-cli/internal/ideas"
	"github.com/glabrego/ideas-cli/internal/render/content"
)

func identityWrap(s string, _ int) []string { return []string{s} }

func testIdea() ideas.Idea {
	return ideas.Idea{
		ID:          7,
		Title:       "Shipping small and often",
		Content:     "<p>Keep <strong>changes</strong> small.</p>",
		PublishedAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		MediumImage: []ideas.Image{{URL: "https://assets.suitdev.com/storage/files/idea-7.png"}},
	}
}

func TestCenterLines(t *testing.T) {
	lines := centerLines([]string{"abc"}, 9)
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d", len(lines))
	}
	if lines[0] != "   abc" {
		t.Fatalf("expected centered line with padding, got %q", lines[0])
	}
}

func TestDetailLines_UsesMarginsAndPreview(t *testing.T) {
	now := time.Date(2024, 5, 4, 9, 0, 0, 0, time.UTC)
	lines := DetailLines(testIdea(), now, 60, 4, content.Options{}, identityWrap, InlineImagePreviewState{
		Enabled: true,
		Err:     "render failed",
	})
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "    Published: May 1, 2024 (3 days ago)") {
		t.Fatalf("expected publish date with margin, got %q", joined)
	}
	if !strings.Contains(joined, "Image preview unavailable: render failed") {
		t.Fatalf("expected preview fallback error line, got %q", joined)
	}
	if !strings.Contains(joined, "Keep changes small.") {
		t.Fatalf("expected sanitized content, got %q", joined)
	}
	if strings.Index(joined, "render failed") > strings.Index(joined, "Keep changes") {
		t.Fatal("expected preview above the content")
	}
	if strings.Contains(joined, inlineImagePreviewAnchor) {
		t.Fatal("anchor leaked into output")
	}
}

func TestDetailLines_PlaceholderAndDisabled(t *testing.T) {
	lines := DetailLines(testIdea(), time.Now(), 40, 0, content.Options{}, identityWrap, InlineImagePreviewState{
		Enabled:     true,
		Placeholder: true,
	})
	if !strings.Contains(strings.Join(lines, "\n"), "[ Image not available ]") {
		t.Fatalf("expected placeholder line, got %q", lines)
	}

	lines = DetailLines(testIdea(), time.Now(), 40, 0, content.Options{}, identityWrap, InlineImagePreviewState{})
	for _, line := range lines {
		if line == inlineImagePreviewAnchor {
			t.Fatal("anchor leaked into output with preview disabled")
		}
	}
}

func TestRenderDetailLines(t *testing.T) {
	lines := []string{"a", "b", "c", "d"}
	if got := RenderDetailLines(lines, 1, 2); got != "b\nc\n" {
		t.Fatalf("unexpected window: %q", got)
	}
	if got := DetailMaxTop(len(lines), 10); got != 0 {
		t.Fatalf("unexpected max top: %d", got)
	}
}
