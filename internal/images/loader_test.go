package images

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Load(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.jpg":
			_, _ = w.Write([]byte("jpeg-bytes"))
		case "/big.jpg":
			_, _ = w.Write([]byte(strings.Repeat("x", MaxImageBytes+10)))
		case "/empty.jpg":
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := NewLoader(srv.Client())
	ctx := context.Background()

	data, err := l.Load(ctx, srv.URL+"/ok.jpg")
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	data, err = l.Load(ctx, srv.URL+"/big.jpg")
	require.NoError(t, err)
	assert.Len(t, data, MaxImageBytes)

	_, err = l.Load(ctx, srv.URL+"/missing.jpg")
	le, ok := IsLoadError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, le.StatusCode)

	_, err = l.Load(ctx, srv.URL+"/empty.jpg")
	_, ok = IsLoadError(err)
	assert.True(t, ok)
}

func TestLoadElement_WalksChainToPlaceholder(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Host+r.URL.Path)
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	host := strings.TrimPrefix(srv.URL, "http://")
	r := Resolver{BlockedHost: "blocked.invalid", AlternateHost: host}
	el := r.NewElement("1", "http://blocked.invalid/img/a.jpg", "A", 0)
	el.Src = el.PendingSrc

	var outcomes []Outcome
	res := r.LoadElement(context.Background(), NewLoader(srv.Client()), el, func(_ error, o Outcome) {
		outcomes = append(outcomes, o)
	})

	assert.True(t, res.Placeholder)
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, []Outcome{OutcomePlaceholder}, outcomes)
	assert.Equal(t, []string{host + "/img/a.jpg"}, paths)
	assert.True(t, el.Neutral)
}

func TestLoadElement_RetriesOnAlternateHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("png"))
	}))
	defer srv.Close()

	host := strings.TrimPrefix(srv.URL, "http://")
	r := Resolver{BlockedHost: "blocked.invalid", AlternateHost: host}
	el := &Element{Original: "http://blocked.invalid/a.png", Src: "http://blocked.invalid/a.png"}

	res := r.LoadElement(context.Background(), NewLoader(srv.Client()), el, nil)
	assert.False(t, res.Placeholder)
	assert.Equal(t, 2, res.Attempts)
	assert.Equal(t, "png", string(res.Data))
	assert.Equal(t, srv.URL+"/a.png", el.Src)
}

func TestLoadElement_PlaceholderIsNotDownloaded(t *testing.T) {
	el := &Element{Src: PlaceholderURL(0, 0)}
	res := NewResolver("", "").LoadElement(context.Background(), NewLoader(nil), el, nil)
	assert.True(t, res.Placeholder)
	assert.Zero(t, res.Attempts)
}
