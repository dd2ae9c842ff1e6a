// Package liststate owns the pagination and sort state of the ideas list and
// keeps it in step with the location query string.
package liststate

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/glabrego/ideas-cli/internal/ideas"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	DefaultSort     = "-published_at"

	// ScrollCheckpointKey is the session storage key of the scroll offset.
	ScrollCheckpointKey = "ideas.scroll_position"
)

// PageSizes lists the selectable page sizes in display order.
var PageSizes = []int{10, 20, 50}

// SortKeys lists the selectable sort keys in display order.
var SortKeys = []string{"-published_at", "published_at"}

// ListState is the pagination state of the list.
type ListState struct {
	Page       int
	PageSize   int
	Sort       string
	TotalItems int
	TotalPages int
}

// Location is the address bar the state is mirrored into.
type Location interface {
	Query() url.Values
	ReplaceQuery(q url.Values)
	String() string
}

// SessionStore is key/value storage scoped to the browsing session.
type SessionStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Controller is the single owner of ListState. All mutation goes through its
// methods so the location and the rendered view never disagree.
type Controller struct {
	state    ListState
	location Location
	session  SessionStore
	log      zerolog.Logger
}

func NewController(loc Location, session SessionStore, logger zerolog.Logger) *Controller {
	return &Controller{
		state:    defaultState(),
		location: loc,
		session:  session,
		log:      logger,
	}
}

func defaultState() ListState {
	return ListState{Page: DefaultPage, PageSize: DefaultPageSize, Sort: DefaultSort}
}

// State returns a snapshot of the current state.
func (c *Controller) State() ListState {
	return c.state
}

// LoadFromLocation replaces page, size and sort with the location's query
// parameters. Anything missing or malformed falls back to its default.
func (c *Controller) LoadFromLocation() ListState {
	q := c.location.Query()
	next := defaultState()
	next.TotalItems = c.state.TotalItems
	next.TotalPages = c.state.TotalPages

	if page, ok := parsePositive(q.Get("page")); ok {
		next.Page = page
	} else if q.Has("page") {
		c.log.Debug().Str("page", q.Get("page")).Msg("ignoring malformed page parameter")
	}
	if size, ok := parsePositive(q.Get("size")); ok && allowedSize(size) {
		next.PageSize = size
	} else if q.Has("size") {
		c.log.Debug().Str("size", q.Get("size")).Msg("ignoring malformed size parameter")
	}
	if sort := strings.TrimSpace(q.Get("sort")); allowedSort(sort) {
		next.Sort = sort
	} else if q.Has("sort") {
		c.log.Debug().Str("sort", q.Get("sort")).Msg("ignoring unknown sort parameter")
	}

	c.state = next
	return c.state
}

// WriteToLocation mirrors page, size and sort into the location query
// without adding a history entry.
func (c *Controller) WriteToLocation() {
	q := make(url.Values)
	q.Set("page", strconv.Itoa(c.state.Page))
	q.Set("size", strconv.Itoa(c.state.PageSize))
	q.Set("sort", c.state.Sort)
	c.location.ReplaceQuery(q)
}

// ShareableURL is the location as it would appear in the address bar.
func (c *Controller) ShareableURL() string {
	return c.location.String()
}

// SetPage moves to page n. Values below 1 are ignored; an upper bound is
// applied once totals are known.
func (c *Controller) SetPage(n int) bool {
	if n < 1 {
		return false
	}
	if c.state.TotalPages > 0 && n > c.state.TotalPages {
		return false
	}
	c.state.Page = n
	return true
}

// SetPageSize changes the page size and resets to the first page.
func (c *Controller) SetPageSize(n int) bool {
	if !allowedSize(n) {
		return false
	}
	c.state.PageSize = n
	c.state.Page = 1
	return true
}

// SetSort changes the sort key and resets to the first page.
func (c *Controller) SetSort(key string) bool {
	if !allowedSort(key) {
		return false
	}
	c.state.Sort = key
	c.state.Page = 1
	return true
}

// ApplyMeta refreshes totals from a list response. It reports whether the
// current page had to be pulled back inside the new page count.
func (c *Controller) ApplyMeta(meta ideas.PageMeta) bool {
	c.state.TotalItems = max(0, meta.Total)
	c.state.TotalPages = max(0, meta.LastPage)
	if limit := max(c.state.TotalPages, 1); c.state.Page > limit {
		c.state.Page = limit
		return true
	}
	return false
}

// Query translates the state into the list endpoint's query.
func (c *Controller) Query() ideas.ListQuery {
	return ideas.ListQuery{
		Page:     c.state.Page,
		PageSize: c.state.PageSize,
		Sort:     c.state.Sort,
		Append:   ideas.DefaultAppend,
	}
}

// SaveScrollCheckpoint records the scroll offset ahead of a page change.
func (c *Controller) SaveScrollCheckpoint(ctx context.Context, offsetY int) {
	if c.session == nil {
		return
	}
	if err := c.session.Set(ctx, ScrollCheckpointKey, strconv.Itoa(max(0, offsetY))); err != nil {
		c.log.Warn().Err(err).Msg("could not save scroll checkpoint")
	}
}

// ConsumeScrollCheckpoint returns the saved offset and deletes it. It only
// does so past the first page; on page 1 the view starts at the top and the
// checkpoint is left untouched.
func (c *Controller) ConsumeScrollCheckpoint(ctx context.Context) (int, bool) {
	if c.session == nil || c.state.Page <= 1 {
		return 0, false
	}
	raw, ok, err := c.session.Get(ctx, ScrollCheckpointKey)
	if err != nil {
		c.log.Warn().Err(err).Msg("could not read scroll checkpoint")
		return 0, false
	}
	if !ok {
		return 0, false
	}
	if err := c.session.Delete(ctx, ScrollCheckpointKey); err != nil {
		c.log.Warn().Err(err).Msg("could not clear scroll checkpoint")
	}
	offset, err := strconv.Atoi(raw)
	if err != nil || offset < 0 {
		return 0, false
	}
	return offset, true
}

func parsePositive(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func allowedSize(n int) bool {
	for _, s := range PageSizes {
		if s == n {
			return true
		}
	}
	return false
}

func allowedSort(key string) bool {
	for _, s := range SortKeys {
		if s == key {
			return true
		}
	}
	return false
}

// NextPageSize cycles through PageSizes.
func NextPageSize(current int) int {
	for i, s := range PageSizes {
		if s == current {
			return PageSizes[(i+1)%len(PageSizes)]
		}
	}
	return PageSizes[0]
}

// NextSort cycles through SortKeys.
func NextSort(current string) string {
	for i, s := range SortKeys {
		if s == current {
			return SortKeys[(i+1)%len(SortKeys)]
		}
	}
	return SortKeys[0]
}
