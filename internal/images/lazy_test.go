package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lazyElements(r Resolver, lines ...int) []*Element {
	out := make([]*Element, 0, len(lines))
	for i, line := range lines {
		out = append(out, r.NewElement(string(rune('a'+i)), "https://assets.suitdev.com/img/"+string(rune('a'+i))+".jpg", "", line))
	}
	return out
}

func TestScheduler_ImmediateFallback(t *testing.T) {
	r := NewResolver("", "")
	var loaded []string
	s := NewScheduler(func(el *Element) { loaded = append(loaded, el.ID) }, nil)

	for _, el := range lazyElements(r, 0, 50, 100) {
		s.Observe(el)
		assert.False(t, el.Lazy)
		assert.Empty(t, el.PendingSrc)
		assert.Contains(t, el.Src, "suitmedia.static-assets.id")
	}
	assert.Equal(t, []string{"a", "b", "c"}, loaded)
	assert.Empty(t, s.watched)
}

func TestScheduler_ViewportRevealsNearbyOnce(t *testing.T) {
	r := NewResolver("", "")
	var loaded []string
	s := NewScheduler(func(el *Element) { loaded = append(loaded, el.ID) }, NewViewportObserver(2))

	els := lazyElements(r, 0, 6, 12, 30)
	for _, el := range els {
		s.Observe(el)
	}
	assert.Empty(t, loaded, "nothing is revealed before the viewport is known")
	assert.Len(t, s.watched, 4)

	s.Scroll(0, 10)
	assert.Equal(t, []string{"a", "b"}, loaded)
	assert.True(t, els[2].Lazy, "line 12 is outside [0-2, 10+2)")

	s.Scroll(4, 10)
	assert.Equal(t, []string{"a", "b", "c"}, loaded, "revealed elements do not fire twice")

	s.Scroll(25, 10)
	assert.Equal(t, []string{"a", "b", "c", "d"}, loaded)
	assert.Empty(t, s.watched)
}

func TestScheduler_ObserveAfterScrollRevealsVisible(t *testing.T) {
	r := NewResolver("", "")
	count := 0
	s := NewScheduler(func(*Element) { count++ }, NewViewportObserver(0))
	s.Scroll(0, 5)

	els := lazyElements(r, 1, 9)
	s.Observe(els[0])
	s.Observe(els[1])
	assert.Equal(t, 1, count)
	assert.False(t, els[0].Lazy)
	assert.True(t, els[1].Lazy)
}

func TestScheduler_ResetDropsPending(t *testing.T) {
	r := NewResolver("", "")
	count := 0
	s := NewScheduler(func(*Element) { count++ }, NewViewportObserver(0))

	for _, el := range lazyElements(r, 0, 1, 2) {
		s.Observe(el)
	}
	s.Reset()
	s.Scroll(0, 10)
	assert.Zero(t, count)
	assert.Empty(t, s.watched)
}

func TestScheduler_IgnoresSettledElements(t *testing.T) {
	count := 0
	s := NewScheduler(func(*Element) { count++ }, nil)
	s.Observe(&Element{ID: "x", Src: "https://cdn.example.com/x.jpg"})
	s.Observe(nil)
	assert.Zero(t, count)
}

func TestViewportObserver_Unobserve(t *testing.T) {
	var seen []*Element
	obs := NewViewportObserver(0)(func(el *Element) { seen = append(seen, el) })
	vo, ok := obs.(*ViewportObserver)
	require.True(t, ok)

	el := &Element{Line: 3, Lazy: true}
	vo.Observe(el)
	vo.Unobserve(el)
	vo.Scroll(0, 10)
	assert.Empty(t, seen)
	assert.Empty(t, vo.elements)
}
