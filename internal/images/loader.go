package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// MaxImageBytes caps a single image download.
const MaxImageBytes = 5 * 1024 * 1024

// LoadError is a failed image download.
type LoadError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load image %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("load image %s: status %d", e.URL, e.StatusCode)
}

func (e *LoadError) Unwrap() error { return e.Err }

// IsLoadError reports whether err is a LoadError.
func IsLoadError(err error) (*LoadError, bool) {
	var le *LoadError
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}

// Loader downloads image bytes.
type Loader struct {
	httpClient *http.Client
}

func NewLoader(httpClient *http.Client) *Loader {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 8 * time.Second}
	}
	return &Loader{httpClient: httpClient}
}

// Load downloads src, reading at most MaxImageBytes.
func (l *Loader) Load(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, &LoadError{URL: src, Err: err}
	}
	req.Header.Set("Accept", "image/*")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, &LoadError{URL: src, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &LoadError{URL: src, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageBytes))
	if err != nil {
		return nil, &LoadError{URL: src, StatusCode: resp.StatusCode, Err: err}
	}
	if len(data) == 0 {
		return nil, &LoadError{URL: src, StatusCode: resp.StatusCode, Err: errors.New("empty body")}
	}
	return data, nil
}

// Result is the end state of loading one element through the chain.
type Result struct {
	Data []byte
	// Placeholder is set when the element ended on the placeholder image.
	Placeholder bool
	Attempts    int
}

// LoadElement loads el.Src and walks the resolution chain on failure until
// an attempt succeeds or the element settles on the placeholder. The
// placeholder itself is never downloaded. onError is called for every failed
// attempt and may be nil.
func (r Resolver) LoadElement(ctx context.Context, l *Loader, el *Element, onError func(error, Outcome)) Result {
	var res Result
	for {
		if el.Src == "" || IsPlaceholder(el.Src) {
			res.Placeholder = true
			return res
		}
		res.Attempts++
		data, err := l.Load(ctx, el.Src)
		if err == nil {
			res.Data = data
			return res
		}
		if ctx.Err() != nil {
			el.substitutions = maxSubstitutions
		}
		outcome := r.OnLoadError(el)
		if onError != nil {
			onError(err, outcome)
		}
		if outcome != OutcomeRetry {
			res.Placeholder = true
			return res
		}
	}
}
