package mockapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glabrego/ideas-cli/internal/ideas"
)

func newTestServer(t *testing.T, total int) (*httptest.Server, *ideas.Client) {
	t.Helper()
	srv := httptest.NewServer(New(Options{Total: total, Logger: zerolog.Nop()}))
	t.Cleanup(srv.Close)
	return srv, ideas.NewClient(srv.URL+"/api", srv.Client())
}

func TestListIdeas_PagesAndMeta(t *testing.T) {
	_, client := newTestServer(t, 23)

	resp, err := client.ListIdeas(context.Background(), ideas.ListQuery{Page: 3, PageSize: 10, Sort: "-published_at"})
	require.NoError(t, err)

	assert.Len(t, resp.Data, 3)
	assert.Equal(t, ideas.PageMeta{CurrentPage: 3, LastPage: 3, Total: 23}, resp.Meta)
	assert.Equal(t, int64(21), resp.Data[0].ID)
}

func TestListIdeas_SortOrder(t *testing.T) {
	_, client := newTestServer(t, 5)

	desc, err := client.ListIdeas(context.Background(), ideas.ListQuery{Page: 1, PageSize: 10, Sort: "-published_at"})
	require.NoError(t, err)
	asc, err := client.ListIdeas(context.Background(), ideas.ListQuery{Page: 1, PageSize: 10, Sort: "published_at"})
	require.NoError(t, err)

	require.Len(t, desc.Data, 5)
	require.Len(t, asc.Data, 5)
	assert.True(t, desc.Data[0].PublishedAt.After(desc.Data[4].PublishedAt))
	assert.Equal(t, desc.Data[0].ID, asc.Data[4].ID)
}

func TestListIdeas_ImagesOnlyWhenAppended(t *testing.T) {
	_, client := newTestServer(t, 3)

	with, err := client.ListIdeas(context.Background(), ideas.ListQuery{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, "https://assets.suitdev.com/storage/files/idea-1.png", with.Data[0].SmallImageURL())

	without, err := client.ListIdeas(context.Background(), ideas.ListQuery{Page: 1, PageSize: 10, Append: []string{}})
	require.NoError(t, err)
	assert.Empty(t, without.Data[0].SmallImageURL())
}

func TestListIdeas_PageBeyondLastIsEmpty(t *testing.T) {
	_, client := newTestServer(t, 12)

	resp, err := client.ListIdeas(context.Background(), ideas.ListQuery{Page: 9, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, resp.Data)
	assert.Equal(t, 2, resp.Meta.LastPage)
}

func TestListIdeas_HugePageNumber(t *testing.T) {
	srv, _ := newTestServer(t, 12)

	resp, err := http.Get(srv.URL + "/api/ideas?page%5Bnumber%5D=9223372036854775807&page%5Bsize%5D=10")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data []json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Empty(t, body.Data)
}

func TestListIdeas_UnknownSort(t *testing.T) {
	_, client := newTestServer(t, 3)

	_, err := client.ListIdeas(context.Background(), ideas.ListQuery{Page: 1, PageSize: 10, Sort: "title"})
	fe, ok := ideas.IsFetchError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, fe.StatusCode)
}

func TestServeImage(t *testing.T) {
	srv, _ := newTestServer(t, 3)

	resp, err := http.Get(srv.URL + "/storage/files/idea-2.png")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	resp, err = http.Get(srv.URL + "/storage/files/idea-99.png")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
