package images

import "sort"

// Observer reports elements that come near the visible region.
type Observer interface {
	Observe(el *Element)
	Unobserve(el *Element)
}

// ObserverFactory builds an Observer that calls onVisible for each element
// it detects. A nil factory means no visibility detection is available.
type ObserverFactory func(onVisible func(*Element)) Observer

// ViewportObserver detects proximity over list lines. An element is visible
// when its line lies within margin lines of the viewport.
type ViewportObserver struct {
	margin    int
	onVisible func(*Element)
	elements  map[*Element]struct{}

	known       bool
	top, height int
}

// NewViewportObserver returns an ObserverFactory for a ViewportObserver with
// the given margin.
func NewViewportObserver(margin int) ObserverFactory {
	return func(onVisible func(*Element)) Observer {
		return &ViewportObserver{
			margin:    max(0, margin),
			onVisible: onVisible,
			elements:  make(map[*Element]struct{}),
		}
	}
}

func (o *ViewportObserver) Observe(el *Element) {
	if el == nil {
		return
	}
	o.elements[el] = struct{}{}
	if o.known && o.inRange(el) {
		o.onVisible(el)
	}
}

func (o *ViewportObserver) Unobserve(el *Element) {
	delete(o.elements, el)
}

// Scroll records the viewport and reports every observed element within
// range, in line order.
func (o *ViewportObserver) Scroll(top, height int) {
	o.known = true
	o.top = max(0, top)
	o.height = max(0, height)

	var hits []*Element
	for el := range o.elements {
		if o.inRange(el) {
			hits = append(hits, el)
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Line < hits[j].Line })
	for _, el := range hits {
		o.onVisible(el)
	}
}

func (o *ViewportObserver) inRange(el *Element) bool {
	return el.Line >= o.top-o.margin && el.Line < o.top+o.height+o.margin
}

// ImmediateObserver reports every element as soon as it is observed.
type ImmediateObserver struct {
	onVisible func(*Element)
}

func NewImmediateObserver(onVisible func(*Element)) Observer {
	return &ImmediateObserver{onVisible: onVisible}
}

func (o *ImmediateObserver) Observe(el *Element) {
	if el != nil {
		o.onVisible(el)
	}
}

func (o *ImmediateObserver) Unobserve(*Element) {}

// Scheduler defers loading element sources until they are near-visible.
type Scheduler struct {
	observer Observer
	onLoad   func(*Element)
	watched  map[*Element]struct{}
}

// NewScheduler returns a Scheduler that hands revealed elements to onLoad.
// When factory is nil every element loads as soon as it is observed.
func NewScheduler(onLoad func(*Element), factory ObserverFactory) *Scheduler {
	s := &Scheduler{
		onLoad:  onLoad,
		watched: make(map[*Element]struct{}),
	}
	if factory == nil {
		factory = NewImmediateObserver
	}
	s.observer = factory(s.reveal)
	return s
}

// Observe registers el. Elements that are not lazy are ignored.
func (s *Scheduler) Observe(el *Element) {
	if el == nil || !el.Lazy {
		return
	}
	s.watched[el] = struct{}{}
	s.observer.Observe(el)
}

// Scroll forwards the viewport to observers that track one.
func (s *Scheduler) Scroll(top, height int) {
	if v, ok := s.observer.(interface{ Scroll(top, height int) }); ok {
		v.Scroll(top, height)
	}
}

// Reset stops observing every pending element, as when the list re-renders.
func (s *Scheduler) Reset() {
	for el := range s.watched {
		s.observer.Unobserve(el)
	}
	clear(s.watched)
}

func (s *Scheduler) reveal(el *Element) {
	s.observer.Unobserve(el)
	delete(s.watched, el)
	if !el.Lazy {
		return
	}
	el.Src = el.PendingSrc
	el.PendingSrc = ""
	el.Lazy = false
	if s.onLoad != nil {
		s.onLoad(el)
	}
}
