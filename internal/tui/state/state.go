package state

// ClampCursor keeps cursor inside [0, size).
func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

// BodyHeight is the number of list lines left once chrome is drawn.
func BodyHeight(height, chromeLines int) int {
	if height <= 0 {
		return 20
	}
	return max(3, height-chromeLines)
}

// MaxOffset is the largest scroll offset that still fills the body.
func MaxOffset(totalLines, height int) int {
	return max(0, totalLines-height)
}

// ClampOffset keeps a scroll offset within [0, MaxOffset].
func ClampOffset(offset, totalLines, height int) int {
	return min(max(0, offset), MaxOffset(totalLines, height))
}

// RevealOffset returns the smallest change to offset that brings lines
// [top, top+span) into a body of the given height.
func RevealOffset(offset, top, span, height int) int {
	if height <= 0 {
		return offset
	}
	if top < offset {
		return top
	}
	if bottom := top + span; bottom > offset+height {
		return max(0, bottom-height)
	}
	return offset
}

// CardAtOffset maps a scroll offset to the first card it shows.
func CardAtOffset(offset, cardHeight, cards int) int {
	if cardHeight <= 0 {
		return 0
	}
	return ClampCursor(offset/cardHeight, cards)
}

// PageJump maps a digit key to a page number, or 0 when it is not one.
func PageJump(key string) int {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0
	}
	return int(key[0] - '0')
}
