package liststate

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glabrego/ideas-cli/internal/ideas"
	"github.com/glabrego/ideas-cli/internal/location"
)

type memorySession struct {
	values map[string]string
	getErr error
	setErr error
}

func newMemorySession() *memorySession {
	return &memorySession{values: make(map[string]string)}
}

func (m *memorySession) Get(_ context.Context, key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memorySession) Set(_ context.Context, key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *memorySession) Delete(_ context.Context, key string) error {
	delete(m.values, key)
	return nil
}

func newController(raw string) (*Controller, *location.Bar, *memorySession) {
	bar := location.New(raw)
	session := newMemorySession()
	return NewController(bar, session, zerolog.Nop()), bar, session
}

func TestLoadFromLocation_ReadsParameters(t *testing.T) {
	c, _, _ := newController("/?page=3&size=20&sort=published_at")

	got := c.LoadFromLocation()
	assert.Equal(t, ListState{Page: 3, PageSize: 20, Sort: "published_at"}, got)
}

func TestLoadFromLocation_FallsBackToDefaults(t *testing.T) {
	inputs := []string{
		"",
		"/",
		"/?page=abc&size=xyz",
		"/?page=-4&size=-10",
		"/?page=0&size=0",
		"/?page=1.5&size=2e1",
		"/?size=13&sort=title",
		"/?page=&size=&sort=",
		"/?page=%zz&size=%%&sort=%",
		"/?garbage",
		"/?page=99999999999999999999999",
	}
	for _, raw := range inputs {
		t.Run(raw, func(t *testing.T) {
			c, _, _ := newController(raw)
			var got ListState
			require.NotPanics(t, func() { got = c.LoadFromLocation() })
			assert.Equal(t, defaultState(), got)
		})
	}
}

func TestWriteToLocation_ReplacesQuery(t *testing.T) {
	c, bar, _ := newController("/ideas?page=1&size=10&sort=-published_at&utm=x")
	c.LoadFromLocation()
	require.True(t, c.SetPage(1))
	require.True(t, c.SetPageSize(50))
	c.WriteToLocation()

	assert.Equal(t, "/ideas?page=1&size=50&sort=-published_at", bar.String())
	assert.Equal(t, bar.String(), c.ShareableURL())
}

func TestRoundTrip_LocationAndState(t *testing.T) {
	c, bar, _ := newController("")
	c.ApplyMeta(ideas.PageMeta{LastPage: 8, Total: 80})
	require.True(t, c.SetPage(5))
	c.WriteToLocation()

	other := NewController(location.New(bar.String()), nil, zerolog.Nop())
	got := other.LoadFromLocation()
	assert.Equal(t, 5, got.Page)
	assert.Equal(t, DefaultPageSize, got.PageSize)
	assert.Equal(t, DefaultSort, got.Sort)
}

func TestSetPageSize_ResetsPage(t *testing.T) {
	c, _, _ := newController("/?page=3&size=10")
	c.LoadFromLocation()
	c.ApplyMeta(ideas.PageMeta{LastPage: 10, Total: 100})

	require.True(t, c.SetPageSize(20))
	assert.Equal(t, 1, c.State().Page)
	assert.Equal(t, 20, c.State().PageSize)

	assert.False(t, c.SetPageSize(15), "sizes outside the allowed set are rejected")
	assert.Equal(t, 20, c.State().PageSize)
}

func TestSetSort_ResetsPage(t *testing.T) {
	c, _, _ := newController("/?page=4")
	c.LoadFromLocation()

	require.True(t, c.SetSort("published_at"))
	assert.Equal(t, 1, c.State().Page)
	assert.False(t, c.SetSort("title"))
	assert.Equal(t, "published_at", c.State().Sort)
}

func TestSetPage_Bounds(t *testing.T) {
	c, _, _ := newController("")
	assert.False(t, c.SetPage(0))
	assert.True(t, c.SetPage(7), "unknown totals do not cap the page")

	c.ApplyMeta(ideas.PageMeta{LastPage: 7})
	assert.False(t, c.SetPage(8))
	assert.True(t, c.SetPage(7))
}

func TestApplyMeta_ClampsPage(t *testing.T) {
	c, _, _ := newController("/?page=40")
	c.LoadFromLocation()

	assert.True(t, c.ApplyMeta(ideas.PageMeta{CurrentPage: 40, LastPage: 12, Total: 120}))
	assert.Equal(t, 12, c.State().Page)
	assert.Equal(t, 120, c.State().TotalItems)

	assert.False(t, c.ApplyMeta(ideas.PageMeta{LastPage: 12, Total: 120}))

	empty, _, _ := newController("/?page=2")
	empty.LoadFromLocation()
	assert.True(t, empty.ApplyMeta(ideas.PageMeta{}))
	assert.Equal(t, 1, empty.State().Page)
}

func TestQuery_TranslatesState(t *testing.T) {
	c, _, _ := newController("/?page=2&size=50&sort=published_at")
	c.LoadFromLocation()

	q := c.Query()
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, 50, q.PageSize)
	assert.Equal(t, "published_at", q.Sort)
	assert.Equal(t, []string{"small_image", "medium_image"}, q.Append)
}

func TestScrollCheckpoint_SingleUse(t *testing.T) {
	ctx := context.Background()
	c, _, session := newController("/?page=2")
	c.LoadFromLocation()

	c.SaveScrollCheckpoint(ctx, 37)
	assert.Equal(t, "37", session.values[ScrollCheckpointKey])

	offset, ok := c.ConsumeScrollCheckpoint(ctx)
	require.True(t, ok)
	assert.Equal(t, 37, offset)

	_, ok = c.ConsumeScrollCheckpoint(ctx)
	assert.False(t, ok, "checkpoint is discarded after the first read")
}

func TestScrollCheckpoint_NotConsumedOnFirstPage(t *testing.T) {
	ctx := context.Background()
	c, _, session := newController("/?page=1")
	c.LoadFromLocation()

	c.SaveScrollCheckpoint(ctx, 12)
	_, ok := c.ConsumeScrollCheckpoint(ctx)
	assert.False(t, ok)
	assert.Contains(t, session.values, ScrollCheckpointKey)
}

func TestScrollCheckpoint_StorageFailuresAreQuiet(t *testing.T) {
	ctx := context.Background()
	c, _, session := newController("/?page=3")
	c.LoadFromLocation()

	session.setErr = errors.New("disk full")
	c.SaveScrollCheckpoint(ctx, 5)

	session.getErr = errors.New("locked")
	_, ok := c.ConsumeScrollCheckpoint(ctx)
	assert.False(t, ok)

	session.getErr = nil
	session.values[ScrollCheckpointKey] = "not-a-number"
	_, ok = c.ConsumeScrollCheckpoint(ctx)
	assert.False(t, ok)
}

func TestCycleHelpers(t *testing.T) {
	assert.Equal(t, 20, NextPageSize(10))
	assert.Equal(t, 10, NextPageSize(50))
	assert.Equal(t, 10, NextPageSize(7))
	assert.Equal(t, "published_at", NextSort("-published_at"))
	assert.Equal(t, "-published_at", NextSort("published_at"))
}
