package view

import (
	"fmt"
	"strings"

	"github.com/glabrego/ideas-cli/internal/app"
	"github.com/glabrego/ideas-cli/internal/liststate"
	tuitheme "github.com/glabrego/ideas-cli/internal/tui/theme"
)

func Toolbar(inDetail bool) string {
	if inDetail {
		return "j/k scroll | o open image | y copy link | esc back | q quit"
	}
	return "j/k move | h/l page | g/G first/last | 1-9 jump | z size | o sort | enter open | y copy link | r reload | q quit"
}

func Header(location string, th tuitheme.Theme) string {
	return th.Title.Render("Ideas") + " " + th.ModePill.Render(location)
}

// SortLabel names a sort key for display.
func SortLabel(key string) string {
	if key == "published_at" {
		return "oldest first"
	}
	return "newest first"
}

// Footer shows the visible range and the list settings, for example
// "Showing 11 - 20 of 1,530 • page 2/153 • size 10 • newest first".
func Footer(st liststate.ListState, sum app.Summary, th tuitheme.Theme) string {
	parts := []string{
		th.MetaValue.Render(sum.String()),
		th.MetaLabel.Render("page") + " " + th.MetaValue.Render(fmt.Sprintf("%d/%d", st.Page, max(1, st.TotalPages))),
		th.MetaLabel.Render("size") + " " + th.MetaValue.Render(fmt.Sprintf("%d", st.PageSize)),
		th.MetaValue.Render(SortLabel(st.Sort)),
	}
	return strings.Join(parts, " • ")
}

func Message(loading bool, errMsg, status string, th tuitheme.Theme) string {
	state := "idle"
	if loading {
		state = "loading"
	}
	if errMsg != "" {
		state = "error"
	}
	main := "Ready"
	if status != "" {
		main = status
	} else if errMsg != "" {
		main = errMsg
	}
	stateLabel := th.StateIdle.Render("state")
	switch state {
	case "error":
		stateLabel = th.StateWarn.Render("state")
	case "loading":
		stateLabel = th.StateLoad.Render("state")
	}
	return fmt.Sprintf("%s: %s | %s", stateLabel, state, th.MetaValue.Render(main))
}
