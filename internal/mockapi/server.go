// Package mockapi serves a local stand-in for the ideas list endpoint.
package mockapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/glabrego/ideas-cli/internal/ideas"
)

const (
	DefaultTotal     = 153
	DefaultImageBase = "https://assets.suitdev.com/storage/files"
	maxPageSize      = 100
)

type Options struct {
	Total int
	// ImageBase prefixes every image URL in the data set.
	ImageBase string
	// Epoch is the publish time of the newest idea.
	Epoch  time.Time
	Logger zerolog.Logger
}

type Server struct {
	ideas  []ideas.Idea
	log    zerolog.Logger
	router *mux.Router
}

func New(opts Options) *Server {
	if opts.Total < 0 {
		opts.Total = 0
	}
	if opts.ImageBase == "" {
		opts.ImageBase = DefaultImageBase
	}
	if opts.Epoch.IsZero() {
		opts.Epoch = time.Date(2024, time.May, 20, 9, 0, 0, 0, time.UTC)
	}

	s := &Server{
		ideas: generate(opts.Total, strings.TrimRight(opts.ImageBase, "/"), opts.Epoch),
		log:   opts.Logger,
	}

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/ideas", s.listIdeas).Methods(http.MethodGet)
	r.HandleFunc("/storage/files/{name}", s.serveImage).Methods(http.MethodGet)
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods(http.MethodGet)
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type listMeta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	From        int `json:"from,omitempty"`
	To          int `json:"to,omitempty"`
}

type listBody struct {
	Data []ideas.Idea `json:"data"`
	Meta listMeta     `json:"meta"`
}

func (s *Server) listIdeas(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := queryInt(q.Get("page[number]"), 1)
	size := min(queryInt(q.Get("page[size]"), 10), maxPageSize)

	sortKey := q.Get("sort")
	if sortKey == "" {
		sortKey = "-published_at"
	}
	list, ok := s.sorted(sortKey)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": fmt.Sprintf("unsupported sort %q", sortKey)})
		return
	}

	appends := make(map[string]bool)
	for _, a := range q["append[]"] {
		appends[a] = true
	}

	total := len(list)
	lastPage := max(1, (total+size-1)/size)
	start := min((min(page, lastPage+1)-1)*size, total)
	end := min(start+size, total)

	data := make([]ideas.Idea, 0, end-start)
	for _, idea := range list[start:end] {
		if !appends["small_image"] {
			idea.SmallImage = nil
		}
		if !appends["medium_image"] {
			idea.MediumImage = nil
		}
		data = append(data, idea)
	}

	meta := listMeta{CurrentPage: page, LastPage: lastPage, PerPage: size, Total: total}
	if len(data) > 0 {
		meta.From = start + 1
		meta.To = end
	}

	s.log.Debug().
		Int("page", page).
		Int("size", size).
		Str("sort", sortKey).
		Int("count", len(data)).
		Msg("list ideas")
	writeJSON(w, http.StatusOK, listBody{Data: data, Meta: meta})
}

func (s *Server) sorted(key string) ([]ideas.Idea, bool) {
	out := append([]ideas.Idea(nil), s.ideas...)
	switch key {
	case "-published_at":
		sort.SliceStable(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	case "published_at":
		sort.SliceStable(out, func(i, j int) bool { return out[i].PublishedAt.Before(out[j].PublishedAt) })
	default:
		return nil, false
	}
	return out, true
}

func (s *Server) serveImage(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	id, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "idea-"), ".png"))
	if err != nil || id < 1 || id > len(s.ideas) {
		http.NotFound(w, r)
		return
	}

	img := image.NewRGBA(image.Rect(0, 0, 32, 20))
	fill := color.RGBA{R: uint8(40 + id*37%200), G: uint8(80 + id*53%160), B: uint8(120 + id*29%120), A: 255}
	for y := 0; y < 20; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, fill)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		s.log.Error().Err(err).Msg("encode image")
		http.Error(w, "encode image", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}

func generate(total int, imageBase string, epoch time.Time) []ideas.Idea {
	out := make([]ideas.Idea, 0, total)
	for i := 1; i <= total; i++ {
		img := fmt.Sprintf("%s/idea-%d.png", imageBase, i)
		idea := ideas.Idea{
			ID:          int64(i),
			Title:       fmt.Sprintf("Idea %d: %s", i, topics[i%len(topics)]),
			Content:     fmt.Sprintf("<p>Notes on <strong>%s</strong>.</p><p>Entry %d of %d.</p>", topics[i%len(topics)], i, total),
			PublishedAt: epoch.Add(-time.Duration(i-1) * 36 * time.Hour),
			SmallImage:  []ideas.Image{{URL: img}},
			MediumImage: []ideas.Image{{URL: img}},
		}
		// every seventh idea has no image so the placeholder path is exercised
		if i%7 == 0 {
			idea.SmallImage = nil
			idea.MediumImage = nil
		}
		out = append(out, idea)
	}
	return out
}

var topics = []string{
	"Designing calmer dashboards",
	"Shipping small and often",
	"What makes onboarding stick",
	"Typography on tiny screens",
	"Writing release notes people read",
	"Measuring what matters",
	"Accessibility as a default",
	"Content that survives redesigns",
}

func queryInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
