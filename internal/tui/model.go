package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/glabrego/ideas-cli/internal/app"
	"github.com/glabrego/ideas-cli/internal/images"
	"github.com/glabrego/ideas-cli/internal/liststate"
	"github.com/glabrego/ideas-cli/internal/metrics"
	"github.com/glabrego/ideas-cli/internal/render/content"
	tuiactions "github.com/glabrego/ideas-cli/internal/tui/actions"
	tuiplatform "github.com/glabrego/ideas-cli/internal/tui/platform"
	tuistate "github.com/glabrego/ideas-cli/internal/tui/state"
	tuitheme "github.com/glabrego/ideas-cli/internal/tui/theme"
	tuiview "github.com/glabrego/ideas-cli/internal/tui/view"
)

// listChromeLines is the number of lines drawn around the card list:
// header, toolbar, blank, pagination, message and footer.
const listChromeLines = 6

const detailMargin = 2

type Options struct {
	Coordinator *app.Coordinator
	Surface     *tuiview.Surface
	Resolver    images.Resolver
	// Loader downloads list and detail images. Without one, revealed images
	// are never fetched.
	Loader *images.Loader
	// Observer decides when lazy images are revealed; nil loads immediately.
	Observer images.ObserverFactory
	Metrics  *metrics.Metrics
	Logger   zerolog.Logger
}

// revealQueue collects elements the scheduler revealed during one update so
// they can be turned into load commands.
type revealQueue struct {
	items []images.Element
}

func (q *revealQueue) push(el *images.Element) {
	q.items = append(q.items, *el)
}

type Model struct {
	coord     *app.Coordinator
	surface   *tuiview.Surface
	scheduler *images.Scheduler
	reveals   *revealQueue
	resolver  images.Resolver
	loader    *images.Loader
	metrics   *metrics.Metrics
	log       zerolog.Logger
	theme     tuitheme.Theme
	spinner   spinner.Model

	cursor    int
	inDetail  bool
	detailTop int
	width     int
	height    int
	status    string
	statusID  int

	openURLFn     func(string) error
	copyURLFn     func(string) error
	renderImageFn func([]byte, int) (string, error)
	nowFn         func() time.Time
	imagePreview  map[int64]tuiview.InlineImagePreviewState
}

func NewModel(opts Options) Model {
	th := tuitheme.Default()
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = th.StateLoad

	surface := opts.Surface
	if surface == nil {
		surface = tuiview.NewSurface()
	}
	reveals := &revealQueue{}
	return Model{
		coord:         opts.Coordinator,
		surface:       surface,
		scheduler:     images.NewScheduler(reveals.push, opts.Observer),
		reveals:       reveals,
		resolver:      opts.Resolver,
		loader:        opts.Loader,
		metrics:       opts.Metrics,
		log:           opts.Logger,
		theme:         th,
		spinner:       sp,
		openURLFn:     tuiplatform.OpenURLInBrowser,
		copyURLFn:     tuiplatform.CopyToClipboard,
		renderImageFn: tuiview.RenderInlineImagePreview,
		nowFn:         time.Now,
		imagePreview:  make(map[int64]tuiview.InlineImagePreviewState),
	}
}

func (m Model) Init() tea.Cmd {
	if m.coord == nil {
		return m.spinner.Tick
	}
	return tea.Batch(m.spinner.Tick, tuiactions.FetchCmd(m.coord.Start()))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.surface.SetHeight(m.listBodyHeight())
		m.syncViewport()
		return m, m.drainReveals()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if m.inDetail {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	case tuiactions.FetchResultMsg:
		return m.applyFetch(msg.Result)
	case tuiactions.RestoreScrollMsg:
		if m.coord != nil && m.coord.RestoreScroll(context.Background()) {
			m.cursor = tuistate.CardAtOffset(m.surface.ScrollOffset(), tuiview.CardHeight, len(m.surface.Cards()))
			m.syncViewport()
		}
		return m, m.drainReveals()
	case tuiactions.ImageLoadedMsg:
		m.applyImage(msg)
		return m, nil
	case tuiactions.DetailImageMsg:
		preview := tuiview.InlineImagePreviewState{Enabled: true, Raw: msg.Preview}
		switch {
		case msg.Element.Neutral || images.IsPlaceholder(msg.Element.Src):
			preview.Placeholder = true
		case msg.Err != nil:
			preview.Err = msg.Err.Error()
		}
		m.imagePreview[msg.IdeaID] = preview
		return m, nil
	case tuiactions.StatusMsg:
		m.status = msg.Status
		m.statusID++
		return m, tuiactions.ClearStatusCmd(m.statusID, 3*time.Second)
	case tuiactions.ActionErrorMsg:
		m.status = msg.Err.Error()
		m.statusID++
		return m, tuiactions.ClearStatusCmd(m.statusID, 4*time.Second)
	case tuiactions.ClearStatusMsg:
		if msg.ID == m.statusID {
			m.status = ""
		}
		return m, nil
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		m.moveCursorBy(-1)
		return m, m.drainReveals()
	case "down", "j":
		m.moveCursorBy(1)
		return m, m.drainReveals()
	case "pgup", "ctrl+b":
		m.scrollList(-m.surface.Height())
		return m, m.drainReveals()
	case "pgdown", "ctrl+f":
		m.scrollList(m.surface.Height())
		return m, m.drainReveals()
	case "enter":
		cards := m.surface.Cards()
		if len(cards) == 0 {
			return m, nil
		}
		m.inDetail = true
		m.detailTop = 0
		return m, m.ensureDetailImageCmd()
	case "y":
		if m.coord == nil {
			return m, nil
		}
		return m, tuiactions.CopyURLCmd(m.coord.ShareableURL(), m.copyURLFn)
	}

	if m.coord == nil {
		return m, nil
	}
	st := m.coord.State()
	switch key {
	case "left", "h":
		return m.goToPage(st.Page - 1)
	case "right", "l":
		return m.goToPage(st.Page + 1)
	case "g":
		return m.goToPage(1)
	case "G":
		return m.goToPage(st.TotalPages)
	case "z":
		return m, tuiactions.FetchCmd(m.coord.ChangePageSize(liststate.NextPageSize(st.PageSize)))
	case "o":
		return m, tuiactions.FetchCmd(m.coord.ChangeSort(liststate.NextSort(st.Sort)))
	case "r":
		return m, tuiactions.FetchCmd(m.coord.Refresh())
	}
	if n := tuistate.PageJump(key); n > 0 {
		return m.goToPage(n)
	}
	return m, nil
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc", "backspace":
		m.inDetail = false
		m.detailTop = 0
		return m, nil
	case "up", "k":
		if m.detailTop > 0 {
			m.detailTop--
		}
		return m, nil
	case "down", "j":
		maxTop := tuiview.DetailMaxTop(len(m.detailLines()), m.detailBodyHeight())
		if m.detailTop < maxTop {
			m.detailTop++
		}
		return m, nil
	case "[":
		if m.cursor > 0 {
			m.cursor--
			m.detailTop = 0
			m.revealCursor()
			return m, tea.Batch(m.ensureDetailImageCmd(), m.drainReveals())
		}
		return m, nil
	case "]":
		if m.cursor < len(m.surface.Cards())-1 {
			m.cursor++
			m.detailTop = 0
			m.revealCursor()
			return m, tea.Batch(m.ensureDetailImageCmd(), m.drainReveals())
		}
		return m, nil
	case "o":
		return m.openCurrentImage()
	case "y":
		if m.coord == nil {
			return m, nil
		}
		return m, tuiactions.CopyURLCmd(m.coord.ShareableURL(), m.copyURLFn)
	}
	return m, nil
}

func (m Model) goToPage(n int) (tea.Model, tea.Cmd) {
	f := m.coord.GoToPage(context.Background(), n)
	if f == nil {
		return m, nil
	}
	m.syncViewport()
	return m, tuiactions.FetchCmd(f)
}

func (m Model) applyFetch(res app.Result) (tea.Model, tea.Cmd) {
	if m.coord == nil {
		return m, nil
	}
	applied := m.coord.Apply(res)
	cmds := make([]tea.Cmd, 0, 3)
	if res.Err == nil && applied.FollowUp == nil {
		m.observeCards()
		if applied.RestoreScroll {
			cmds = append(cmds, tuiactions.RestoreScrollCmd(tuiactions.ScrollRestoreDelay))
		}
	}
	if res.Err != nil && m.surface.Error() != "" {
		m.scheduler.Reset()
		m.cursor = 0
		m.inDetail = false
	}
	cmds = append(cmds, tuiactions.FetchCmd(applied.FollowUp), m.drainReveals())
	return m, tea.Batch(cmds...)
}

// observeCards hands the freshly rendered cards to the scheduler and
// reveals those already near the viewport.
func (m *Model) observeCards() {
	m.scheduler.Reset()
	clear(m.imagePreview)
	cards := m.surface.Cards()
	m.cursor = tuistate.ClampCursor(tuistate.CardAtOffset(m.surface.ScrollOffset(), tuiview.CardHeight, len(cards)), len(cards))
	if m.inDetail && len(cards) == 0 {
		m.inDetail = false
	}
	for _, card := range cards {
		m.scheduler.Observe(card.Image)
	}
	m.syncViewport()
}

func (m *Model) applyImage(msg tuiactions.ImageLoadedMsg) {
	for _, o := range msg.Failures {
		m.metrics.ImageOutcome(o.String())
	}
	if !msg.Result.Placeholder {
		m.metrics.ImageOutcome("loaded")
	}
	if len(msg.Failures) > 0 {
		ev := m.log.Debug().
			Str("image", msg.Element.ID).
			Str("image_url", msg.Element.Src).
			Str("outcome", msg.Failures[len(msg.Failures)-1].String()).
			Int("attempts", msg.Result.Attempts)
		if le, ok := images.IsLoadError(msg.Err); ok && le.StatusCode != 0 {
			ev = ev.Int("status_code", le.StatusCode)
		}
		ev.Err(msg.Err).Msg("image load recovered")
	}
	for _, card := range m.surface.Cards() {
		el := card.Image
		if el == nil || el.Lazy || el.ID != msg.Element.ID || el.Original != msg.Element.Original {
			continue
		}
		*el = msg.Element
	}
}

func (m *Model) moveCursorBy(delta int) {
	cards := m.surface.Cards()
	if len(cards) == 0 {
		return
	}
	m.cursor = tuistate.ClampCursor(m.cursor+delta, len(cards))
	m.revealCursor()
}

func (m *Model) revealCursor() {
	offset := tuistate.RevealOffset(m.surface.ScrollOffset(), m.cursor*tuiview.CardHeight, tuiview.CardHeight, m.surface.Height())
	m.surface.ScrollTo(offset, false)
	m.syncViewport()
}

func (m *Model) scrollList(delta int) {
	if delta == 0 {
		return
	}
	offset := m.surface.ScrollBy(delta)
	m.cursor = tuistate.CardAtOffset(offset, tuiview.CardHeight, len(m.surface.Cards()))
	m.syncViewport()
}

func (m *Model) syncViewport() {
	height := m.surface.Height()
	if height <= 0 {
		height = m.listBodyHeight()
	}
	m.scheduler.Scroll(m.surface.ScrollOffset(), height)
}

func (m Model) drainReveals() tea.Cmd {
	if len(m.reveals.items) == 0 {
		return nil
	}
	items := m.reveals.items
	m.reveals.items = nil
	if m.loader == nil {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(items))
	for _, el := range items {
		cmds = append(cmds, tuiactions.ImageLoadCmd(m.resolver, m.loader, el))
	}
	return tea.Batch(cmds...)
}

func (m Model) currentCard() (app.Card, bool) {
	cards := m.surface.Cards()
	if len(cards) == 0 {
		return app.Card{}, false
	}
	return cards[tuistate.ClampCursor(m.cursor, len(cards))], true
}

func (m *Model) ensureDetailImageCmd() tea.Cmd {
	card, ok := m.currentCard()
	if !ok || m.loader == nil || m.renderImageFn == nil {
		return nil
	}
	id := card.Idea.ID
	if _, seen := m.imagePreview[id]; seen {
		return nil
	}
	raw := card.Idea.BestImageURL()
	el := images.Element{
		ID:       fmt.Sprintf("detail-%d", id),
		Src:      m.resolver.ResolveDisplayURL(raw),
		Original: raw,
		Alt:      card.Idea.Title,
	}
	m.imagePreview[id] = tuiview.InlineImagePreviewState{Enabled: true, Loading: true}
	return tuiactions.DetailImageCmd(id, m.resolver, m.loader, el, m.contentWidth(), m.renderImageFn)
}

func (m Model) openCurrentImage() (tea.Model, tea.Cmd) {
	card, ok := m.currentCard()
	if !ok {
		return m, nil
	}
	target, err := tuiplatform.ValidateURL(m.resolver.ResolveDisplayURL(card.Idea.BestImageURL()))
	if err != nil {
		m.status = "Image URL unavailable"
		return m, nil
	}
	return m, tuiactions.OpenURLCmd(target, m.openURLFn, m.copyURLFn)
}

func (m Model) View() string {
	var b strings.Builder
	location := ""
	if m.coord != nil {
		location = m.coord.ShareableURL()
	}
	b.WriteString(tuiview.Header(location, m.theme))
	b.WriteString("\n")
	b.WriteString(tuiview.Toolbar(m.inDetail))
	b.WriteString("\n")

	if m.inDetail {
		b.WriteString("\n")
		b.WriteString(tuiview.RenderDetailLines(m.detailLines(), m.detailTop, m.detailBodyHeight()))
		b.WriteString(m.messagePanel())
		b.WriteString("\n")
		return b.String()
	}

	switch {
	case m.surface.Loading() && len(m.surface.Cards()) == 0 && m.surface.Error() == "":
		b.WriteString(m.spinner.View() + " Loading ideas...\n")
	case m.surface.Error() == "" && len(m.surface.Cards()) == 0:
		b.WriteString("No ideas to show.\n")
	default:
		b.WriteString(tuiview.RenderListBody(tuiview.ListRenderInput{
			Cards:  m.surface.Cards(),
			Cursor: m.cursor,
			Offset: m.surface.ScrollOffset(),
			Height: m.surface.Height(),
			Width:  m.contentWidth(),
			Now:    m.nowFn(),
			Error:  m.surface.Error(),
		}, m.theme))
	}
	if bar := tuiview.RenderPaginationBar(m.surface.Window(), m.theme); bar != "" {
		b.WriteString(bar)
		b.WriteString("\n")
	}
	b.WriteString(m.messagePanel())
	b.WriteString("\n")
	if m.coord != nil {
		b.WriteString(tuiview.Footer(m.coord.State(), m.surface.Summary(), m.theme))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) messagePanel() string {
	msg := tuiview.Message(m.surface.Loading(), m.surface.Error(), m.status, m.theme)
	if m.surface.Loading() {
		return m.spinner.View() + " " + msg
	}
	return msg
}

func (m Model) detailLines() []string {
	card, ok := m.currentCard()
	if !ok {
		return []string{"No idea selected."}
	}
	return tuiview.DetailLines(
		card.Idea,
		m.nowFn(),
		m.contentWidth()-2*detailMargin,
		detailMargin,
		content.DefaultOptions,
		content.Wrap,
		m.imagePreview[card.Idea.ID],
	)
}

func (m Model) contentWidth() int {
	if m.width > 0 {
		return m.width - 1
	}
	return 100
}

func (m Model) listBodyHeight() int {
	return tuistate.BodyHeight(m.height, listChromeLines)
}

func (m Model) detailBodyHeight() int {
	return tuistate.BodyHeight(m.height, 4)
}

// Cursor is the index of the selected card.
func (m Model) Cursor() int {
	return m.cursor
}
