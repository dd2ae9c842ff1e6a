// Package pagination computes which page controls to show for a list.
package pagination

// Kind identifies a pagination control.
type Kind string

const (
	KindFirst    Kind = "first"
	KindPrev     Kind = "prev"
	KindPage     Kind = "page"
	KindEllipsis Kind = "ellipsis"
	KindNext     Kind = "next"
	KindLast     Kind = "last"
)

// Control is one entry of a pagination bar. Page is the target page for
// navigation controls and the page number for page controls; it is zero for
// ellipses.
type Control struct {
	Kind     Kind
	Page     int
	Disabled bool
	Active   bool
}

// Window is an ordered pagination bar.
type Window []Control

// span is the number of pages shown around the current one on each side.
const span = 2

// Build returns the controls for page current of total. It returns nil when
// there is at most one page.
func Build(current, total int) Window {
	if total <= 1 {
		return nil
	}
	current = min(max(current, 1), total)

	start := max(1, current-span)
	end := min(total, current+span)
	if current <= span+1 {
		end = min(2*span+1, total)
	}
	if current >= total-span {
		start = max(1, total-2*span)
	}

	atStart := current == 1
	atEnd := current == total

	w := make(Window, 0, end-start+9)
	w = append(w,
		Control{Kind: KindFirst, Page: 1, Disabled: atStart},
		Control{Kind: KindPrev, Page: max(current-1, 1), Disabled: atStart},
	)

	if start > 1 {
		w = append(w, Control{Kind: KindPage, Page: 1})
		if start > 2 {
			w = append(w, Control{Kind: KindEllipsis})
		}
	}
	for p := start; p <= end; p++ {
		w = append(w, Control{Kind: KindPage, Page: p, Active: p == current})
	}
	if end < total {
		if end < total-1 {
			w = append(w, Control{Kind: KindEllipsis})
		}
		w = append(w, Control{Kind: KindPage, Page: total})
	}

	w = append(w,
		Control{Kind: KindNext, Page: min(current+1, total), Disabled: atEnd},
		Control{Kind: KindLast, Page: total, Disabled: atEnd},
	)
	return w
}
