package view

import (
	"github.com/glabrego/ideas-cli/internal/app"
	"github.com/glabrego/ideas-cli/internal/pagination"
	tuistate "github.com/glabrego/ideas-cli/internal/tui/state"
)

// CardHeight is the number of list lines one card occupies.
const CardHeight = 3

// Surface is the terminal list area. It is what the coordinator renders into
// and scrolls; the model draws it on every View call.
type Surface struct {
	cards   []app.Card
	window  pagination.Window
	summary app.Summary
	errMsg  string
	loading bool

	offset int
	height int
}

func NewSurface() *Surface {
	return &Surface{}
}

func (s *Surface) RenderLoading(loading bool) {
	s.loading = loading
}

// RenderCards replaces the card area and lays the cards' image elements out
// on their list lines.
func (s *Surface) RenderCards(cards []app.Card) {
	s.cards = cards
	s.errMsg = ""
	for i, card := range cards {
		if card.Image != nil {
			card.Image.Line = i * CardHeight
		}
	}
	s.offset = s.clamp(s.offset)
}

func (s *Surface) RenderPagination(w pagination.Window) {
	s.window = w
}

func (s *Surface) RenderSummary(sum app.Summary) {
	s.summary = sum
}

// RenderError replaces the card area with message.
func (s *Surface) RenderError(message string) {
	s.errMsg = message
	s.cards = nil
	s.offset = 0
}

func (s *Surface) ScrollTo(offsetY int, _ bool) {
	s.offset = s.clamp(offsetY)
}

func (s *Surface) ScrollOffset() int {
	return s.offset
}

// ScrollBy moves the offset by delta lines and returns the new offset.
func (s *Surface) ScrollBy(delta int) int {
	s.offset = s.clamp(s.offset + delta)
	return s.offset
}

// SetHeight sets the number of visible list lines.
func (s *Surface) SetHeight(height int) {
	s.height = max(0, height)
	s.offset = s.clamp(s.offset)
}

func (s *Surface) Height() int { return s.height }
func (s *Surface) Cards() []app.Card { return s.cards }
func (s *Surface) Window() pagination.Window { return s.window }
func (s *Surface) Summary() app.Summary { return s.summary }
func (s *Surface) Error() string { return s.errMsg }
func (s *Surface) Loading() bool { return s.loading }
func (s *Surface) TotalLines() int { return len(s.cards) * CardHeight }

func (s *Surface) clamp(offset int) int {
	if s.height <= 0 {
		return max(0, offset)
	}
	return tuistate.ClampOffset(offset, s.TotalLines(), s.height)
}
