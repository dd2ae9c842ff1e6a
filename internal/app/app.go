package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/glabrego/ideas-cli/internal/ideas"
	"github.com/glabrego/ideas-cli/internal/images"
	"github.com/glabrego/ideas-cli/internal/liststate"
	"github.com/glabrego/ideas-cli/internal/metrics"
	"github.com/glabrego/ideas-cli/internal/pagination"
)

// FetchFailedMessage is shown in place of the cards when a fetch fails.
const FetchFailedMessage = "Failed to load ideas. Please try again."

type IdeasClient interface {
	ListIdeas(ctx context.Context, q ideas.ListQuery) (ideas.ListResponse, error)
}

// Card is the render descriptor of one idea.
type Card struct {
	Idea  ideas.Idea
	Image *images.Element
}

// Summary describes the visible range, as in "Showing 11 - 20 of 1,530".
type Summary struct {
	From  int
	To    int
	Total int
}

func (s Summary) String() string {
	return fmt.Sprintf("Showing %s - %s of %s",
		humanize.Comma(int64(s.From)),
		humanize.Comma(int64(s.To)),
		humanize.Comma(int64(s.Total)))
}

// Renderer draws what the coordinator hands it.
type Renderer interface {
	RenderLoading(loading bool)
	RenderCards(cards []Card)
	RenderPagination(w pagination.Window)
	RenderSummary(s Summary)
	RenderError(message string)
}

// Viewport is the scrollable list area.
type Viewport interface {
	ScrollTo(offsetY int, smooth bool)
	ScrollOffset() int
}

// Coordinator drives list fetches and rendering from the list state. It is
// not safe for concurrent use; only Fetch.Run may run off the UI goroutine.
type Coordinator struct {
	client   IdeasClient
	state    *liststate.Controller
	renderer Renderer
	viewport Viewport
	resolver images.Resolver
	metrics  *metrics.Metrics
	log      zerolog.Logger

	guard          *semaphore.Weighted
	loading        bool
	restorePending bool
	cards          []Card
}

type Options struct {
	Resolver images.Resolver
	Metrics  *metrics.Metrics
	Logger   zerolog.Logger
}

func NewCoordinator(client IdeasClient, state *liststate.Controller, renderer Renderer, viewport Viewport, opts Options) *Coordinator {
	resolver := opts.Resolver
	if resolver.BlockedHost == "" && resolver.AlternateHost == "" {
		resolver = images.NewResolver("", "")
	}
	return &Coordinator{
		client:   client,
		state:    state,
		renderer: renderer,
		viewport: viewport,
		resolver: resolver,
		metrics:  opts.Metrics,
		log:      opts.Logger,
		guard:    semaphore.NewWeighted(1),
	}
}

// Fetch is one list request. Run may be called from any goroutine.
type Fetch struct {
	ID    string
	Query ideas.ListQuery

	client IdeasClient
}

// Result is the outcome of a Fetch, handed back to Apply.
type Result struct {
	ID       string
	Query    ideas.ListQuery
	Response ideas.ListResponse
	Err      error
	Duration time.Duration
}

func (f *Fetch) Run(ctx context.Context) Result {
	started := time.Now()
	resp, err := f.client.ListIdeas(ctx, f.Query)
	return Result{
		ID:       f.ID,
		Query:    f.Query,
		Response: resp,
		Err:      err,
		Duration: time.Since(started),
	}
}

// Applied tells the host what to do after a result was rendered.
type Applied struct {
	// RestoreScroll asks the host to call RestoreScroll after the render pass.
	RestoreScroll bool
	// FollowUp is a fetch issued because the requested page no longer exists.
	FollowUp *Fetch
}

// State returns the current list state.
func (c *Coordinator) State() liststate.ListState {
	return c.state.State()
}

// Loading reports whether a fetch is in flight.
func (c *Coordinator) Loading() bool {
	return c.loading
}

// Cards returns the cards of the last successful fetch.
func (c *Coordinator) Cards() []Card {
	return c.cards
}

// ShareableURL is the location describing the current list.
func (c *Coordinator) ShareableURL() string {
	return c.state.ShareableURL()
}

// Start loads the state from the location, fetches it and writes the
// normalized state back. A saved scroll position is restored after the first
// successful render.
func (c *Coordinator) Start() *Fetch {
	c.state.LoadFromLocation()
	c.restorePending = true
	f := c.Refresh()
	c.state.WriteToLocation()
	return f
}

// Refresh starts a fetch of the current state. It returns nil when a fetch
// is already in flight.
func (c *Coordinator) Refresh() *Fetch {
	if !c.guard.TryAcquire(1) {
		c.metrics.FetchDropped()
		c.log.Debug().Msg("refresh dropped, fetch in flight")
		return nil
	}
	c.loading = true
	c.renderer.RenderLoading(true)

	f := &Fetch{
		ID:     uuid.NewString(),
		Query:  c.state.Query(),
		client: c.client,
	}
	c.log.Debug().
		Str("request_id", f.ID).
		Int("page", f.Query.Page).
		Int("size", f.Query.PageSize).
		Str("sort", f.Query.Sort).
		Msg("fetching ideas")
	return f
}

// Apply renders a fetch result. It always clears the loading flag and frees
// the in-flight guard.
func (c *Coordinator) Apply(res Result) Applied {
	c.metrics.ObserveFetch(res.Duration, res.Err)
	logger := c.log.With().Str("request_id", res.ID).Logger()

	if res.Err != nil {
		c.finish()
		if errors.Is(res.Err, context.Canceled) {
			logger.Debug().Msg("fetch cancelled")
			return Applied{}
		}
		ev := logger.Warn().Err(res.Err).Dur("duration", res.Duration)
		if fe, ok := ideas.IsFetchError(res.Err); ok {
			ev = ev.Int("status_code", fe.StatusCode)
		}
		ev.Msg("fetch ideas failed")
		c.renderer.RenderError(FetchFailedMessage)
		return Applied{}
	}

	if c.state.ApplyMeta(res.Response.Meta) {
		logger.Info().
			Int("requested", res.Query.Page).
			Int("page", c.state.State().Page).
			Msg("requested page out of range, clamped")
		c.finish()
		follow := c.Refresh()
		c.state.WriteToLocation()
		return Applied{FollowUp: follow}
	}

	st := c.state.State()
	c.cards = c.buildCards(res.Response.Data)
	c.renderer.RenderCards(c.cards)
	c.renderer.RenderPagination(pagination.Build(st.Page, st.TotalPages))
	c.renderer.RenderSummary(summarize(st))
	c.finish()

	logger.Debug().
		Int("count", len(c.cards)).
		Int("total", st.TotalItems).
		Dur("duration", res.Duration).
		Msg("ideas rendered")

	restore := c.restorePending
	c.restorePending = false
	return Applied{RestoreScroll: restore}
}

func (c *Coordinator) finish() {
	c.loading = false
	c.renderer.RenderLoading(false)
	c.guard.Release(1)
}

// RestoreScroll moves the viewport to the saved checkpoint, if any.
func (c *Coordinator) RestoreScroll(ctx context.Context) bool {
	offset, ok := c.state.ConsumeScrollCheckpoint(ctx)
	if !ok {
		return false
	}
	c.viewport.ScrollTo(offset, false)
	return true
}

// GoToPage moves to page n. Requests for the current page or outside
// [1, totalPages] are ignored and return nil.
func (c *Coordinator) GoToPage(ctx context.Context, n int) *Fetch {
	st := c.state.State()
	if n < 1 || n > st.TotalPages || n == st.Page {
		return nil
	}

	c.state.SaveScrollCheckpoint(ctx, c.viewport.ScrollOffset())
	if !c.state.SetPage(n) {
		return nil
	}
	f := c.Refresh()
	c.state.WriteToLocation()
	if n == 1 {
		c.viewport.ScrollTo(0, true)
	}
	return f
}

// ChangePageSize switches the page size and returns to the first page.
func (c *Coordinator) ChangePageSize(n int) *Fetch {
	if !c.state.SetPageSize(n) {
		return nil
	}
	f := c.Refresh()
	c.state.WriteToLocation()
	return f
}

// ChangeSort switches the sort key and returns to the first page.
func (c *Coordinator) ChangeSort(key string) *Fetch {
	if !c.state.SetSort(key) {
		return nil
	}
	f := c.Refresh()
	c.state.WriteToLocation()
	return f
}

func (c *Coordinator) buildCards(list []ideas.Idea) []Card {
	cards := make([]Card, 0, len(list))
	for i, idea := range list {
		el := c.resolver.NewElement(fmt.Sprintf("idea-%d", idea.ID), idea.SmallImageURL(), idea.Title, i)
		cards = append(cards, Card{Idea: idea, Image: el})
	}
	return cards
}

func summarize(st liststate.ListState) Summary {
	if st.TotalItems <= 0 {
		return Summary{}
	}
	return Summary{
		From:  (st.Page-1)*st.PageSize + 1,
		To:    min(st.Page*st.PageSize, st.TotalItems),
		Total: st.TotalItems,
	}
}
