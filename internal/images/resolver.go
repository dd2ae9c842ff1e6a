// Package images resolves card image URLs, recovers from load failures and
// defers loading until a card is near the visible part of the list.
package images

import (
	"fmt"
	"strings"
)

const (
	DefaultBlockedHost   = "assets.suitdev.com"
	DefaultAlternateHost = "suitmedia.static-assets.id"

	PlaceholderWidth  = 300
	PlaceholderHeight = 200

	// unavailableAlt replaces the alt text once an element falls back to the
	// placeholder.
	unavailableAlt = "Image not available"

	// maxSubstitutions bounds the resolution chain before the placeholder.
	maxSubstitutions = 2
)

// Outcome is the result of handling a load failure.
type Outcome int

const (
	// OutcomeRetry means Src now points at the alternate host and should be
	// loaded again.
	OutcomeRetry Outcome = iota
	// OutcomePlaceholder means Src was switched to the placeholder.
	OutcomePlaceholder
	// OutcomeSettled means the element was already on the placeholder.
	OutcomeSettled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRetry:
		return "retry"
	case OutcomePlaceholder:
		return "placeholder"
	case OutcomeSettled:
		return "settled"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Element is one image slot on screen.
type Element struct {
	ID  string
	// Line is the list line the element is drawn on; used for proximity
	// detection.
	Line int

	// Src is the live source. It stays empty while the element is lazy.
	Src string
	// PendingSrc is the resolved source waiting for visibility.
	PendingSrc string
	// Original is the raw URL from the data source.
	Original string
	Alt      string

	// Lazy marks an element that has not been shown yet.
	Lazy bool
	// Neutral marks the flat placeholder treatment.
	Neutral bool

	substitutions int
}

// Resolver maps raw image URLs to displayable ones.
type Resolver struct {
	BlockedHost   string
	AlternateHost string
}

// NewResolver returns a Resolver. Empty hosts use the defaults.
func NewResolver(blocked, alternate string) Resolver {
	if strings.TrimSpace(blocked) == "" {
		blocked = DefaultBlockedHost
	}
	if strings.TrimSpace(alternate) == "" {
		alternate = DefaultAlternateHost
	}
	return Resolver{BlockedHost: blocked, AlternateHost: alternate}
}

// PlaceholderURL returns the placeholder image of the given size. Sizes below
// one use the default 300x200.
func PlaceholderURL(width, height int) string {
	if width < 1 {
		width = PlaceholderWidth
	}
	if height < 1 {
		height = PlaceholderHeight
	}
	return fmt.Sprintf("https://via.placeholder.com/%dx%d/f8f9fa/999999?text=Image+Not+Available", width, height)
}

// IsPlaceholder reports whether src is a placeholder image URL.
func IsPlaceholder(src string) bool {
	return strings.HasPrefix(src, "https://via.placeholder.com/")
}

// ResolveDisplayURL returns the URL to display for raw. Applying it twice
// gives the same result as applying it once.
func (r Resolver) ResolveDisplayURL(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return PlaceholderURL(0, 0)
	}
	if r.BlockedHost == "" || !strings.Contains(raw, r.BlockedHost) {
		return raw
	}
	if r.AlternateHost != "" && strings.Contains(raw, r.AlternateHost) {
		return raw
	}
	return strings.Replace(raw, r.BlockedHost, r.AlternateHost, 1)
}

// NewElement builds a lazy element for raw. The element holds its resolved
// source in PendingSrc until it is made visible.
func (r Resolver) NewElement(id, raw, alt string, line int) *Element {
	return &Element{
		ID:         id,
		Line:       line,
		PendingSrc: r.ResolveDisplayURL(raw),
		Original:   raw,
		Alt:        alt,
		Lazy:       true,
	}
}

// OnLoadError moves el one step along the resolution chain. The chain ends on
// the placeholder after at most two substitutions.
func (r Resolver) OnLoadError(el *Element) Outcome {
	if el == nil || IsPlaceholder(el.Src) {
		return OutcomeSettled
	}
	if r.canSubstitute(el) {
		el.substitutions++
		el.Src = strings.Replace(el.Original, r.BlockedHost, r.AlternateHost, 1)
		return OutcomeRetry
	}

	el.Src = PlaceholderURL(0, 0)
	el.PendingSrc = ""
	el.Alt = unavailableAlt
	el.Neutral = true
	el.Lazy = false
	return OutcomePlaceholder
}

func (r Resolver) canSubstitute(el *Element) bool {
	if r.BlockedHost == "" || r.AlternateHost == "" {
		return false
	}
	if el.substitutions >= maxSubstitutions {
		return false
	}
	return strings.Contains(el.Original, r.BlockedHost) && !strings.Contains(el.Src, r.AlternateHost)
}
