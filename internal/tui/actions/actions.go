package actions

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/ideas-cli/internal/app"
	"github.com/glabrego/ideas-cli/internal/images"
)

const (
	fetchTimeout = 10 * time.Second
	imageTimeout = 12 * time.Second

	// ScrollRestoreDelay lets the render pass settle before restoring.
	ScrollRestoreDelay = 100 * time.Millisecond
)

type FetchResultMsg struct {
	Result app.Result
}

type RestoreScrollMsg struct{}

// ImageLoadedMsg carries the element as it ended after walking the
// resolution chain. Failures lists the outcome of every failed attempt and
// Err is the last load error.
type ImageLoadedMsg struct {
	Element  images.Element
	Result   images.Result
	Failures []images.Outcome
	Err      error
}

type DetailImageMsg struct {
	IdeaID  int64
	Element images.Element
	Preview string
	Err     error
}

type StatusMsg struct {
	Status string
}

type ActionErrorMsg struct {
	Err error
}

type ClearStatusMsg struct {
	ID int
}

// FetchCmd runs f off the UI goroutine. A nil fetch yields no command.
func FetchCmd(f *app.Fetch) tea.Cmd {
	if f == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return FetchResultMsg{Result: f.Run(ctx)}
	}
}

func RestoreScrollCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return RestoreScrollMsg{}
	})
}

// ImageLoadCmd loads a copy of el so the UI goroutine keeps sole ownership
// of the original.
func ImageLoadCmd(resolver images.Resolver, loader *images.Loader, el images.Element) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), imageTimeout)
		defer cancel()

		var (
			failures []images.Outcome
			lastErr  error
		)
		res := resolver.LoadElement(ctx, loader, &el, func(err error, o images.Outcome) {
			failures = append(failures, o)
			lastErr = err
		})
		res.Data = nil
		return ImageLoadedMsg{Element: el, Result: res, Failures: failures, Err: lastErr}
	}
}

func DetailImageCmd(ideaID int64, resolver images.Resolver, loader *images.Loader, el images.Element, width int, renderFn func([]byte, int) (string, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), imageTimeout)
		defer cancel()

		res := resolver.LoadElement(ctx, loader, &el, nil)
		if res.Placeholder {
			return DetailImageMsg{IdeaID: ideaID, Element: el}
		}
		if renderFn == nil {
			return DetailImageMsg{IdeaID: ideaID, Element: el, Err: fmt.Errorf("no image renderer")}
		}
		preview, err := renderFn(res.Data, width)
		return DetailImageMsg{IdeaID: ideaID, Element: el, Preview: preview, Err: err}
	}
}

func OpenURLCmd(url string, openFn, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn != nil {
			if err := openFn(url); err == nil {
				return StatusMsg{Status: "Opened image in browser"}
			}
		}
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return StatusMsg{Status: "Could not open browser, URL copied to clipboard"}
			}
		}
		return ActionErrorMsg{Err: fmt.Errorf("could not open URL or copy to clipboard")}
	}
}

func CopyURLCmd(url string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return StatusMsg{Status: "Link copied to clipboard"}
			}
		}
		return ActionErrorMsg{Err: fmt.Errorf("could not copy link to clipboard")}
	}
}

func ClearStatusCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return ClearStatusMsg{ID: id}
	})
}
