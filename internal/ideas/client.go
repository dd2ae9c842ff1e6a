package ideas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Image is one entry of an idea's image variant list.
type Image struct {
	URL string `json:"url"`
}

// Idea is the subset of list endpoint fields required by the app.
type Idea struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	PublishedAt time.Time `json:"published_at"`
	SmallImage  []Image   `json:"small_image"`
	MediumImage []Image   `json:"medium_image"`
}

// SmallImageURL returns the first small variant, or "" when there is none.
func (i Idea) SmallImageURL() string {
	if len(i.SmallImage) == 0 {
		return ""
	}
	return i.SmallImage[0].URL
}

// BestImageURL prefers the first medium variant and falls back to the small one.
func (i Idea) BestImageURL() string {
	if len(i.MediumImage) > 0 && i.MediumImage[0].URL != "" {
		return i.MediumImage[0].URL
	}
	return i.SmallImageURL()
}

// PageMeta is the pagination block returned alongside a list.
type PageMeta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	Total       int `json:"total"`
}

// ListQuery is what the coordinator asks the list endpoint for.
type ListQuery struct {
	Page     int
	PageSize int
	Sort     string
	Append   []string
}

// DefaultAppend requests both image variant lists.
var DefaultAppend = []string{"small_image", "medium_image"}

// ListResponse is the decoded list endpoint body.
type ListResponse struct {
	Data []Idea   `json:"data"`
	Meta PageMeta `json:"meta"`
}

// FetchError reports a non-success status from the list endpoint.
type FetchError struct {
	StatusCode int
	Body       string
}

func (e *FetchError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("list ideas failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("list ideas failed with status %d: %s", e.StatusCode, e.Body)
}

// IsFetchError reports whether err carries a FetchError and returns it.
func IsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// EncodeQuery renders q in the endpoint's bracketed parameter form.
func EncodeQuery(q ListQuery) string {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 10
	}
	appends := q.Append
	if appends == nil {
		appends = DefaultAppend
	}

	v := make(url.Values)
	v.Set("page[number]", strconv.Itoa(q.Page))
	v.Set("page[size]", strconv.Itoa(q.PageSize))
	for _, a := range appends {
		v.Add("append[]", a)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	return v.Encode()
}

func (c *Client) ListIdeas(ctx context.Context, q ListQuery) (ListResponse, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/ideas?"+EncodeQuery(q))
	if err != nil {
		return ListResponse{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return ListResponse{}, fmt.Errorf("list ideas request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return ListResponse{}, &FetchError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var out ListResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return ListResponse{}, fmt.Errorf("decode ideas response: %w", err)
	}
	if out.Data == nil {
		out.Data = []Idea{}
	}
	return out, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}
