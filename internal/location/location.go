// Package location models the address bar: a path and a query string that
// are replaced in place as the list state changes.
package location

import (
	"net/url"
	"strings"
)

const defaultPath = "/"

// Bar holds the current location.
type Bar struct {
	u url.URL
}

// New parses raw ("path?query", a full URL, or a bare "?query"). Unparsable
// input yields the default path with an empty query.
func New(raw string) *Bar {
	return &Bar{u: parse(raw)}
}

func parse(raw string) url.URL {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return url.URL{Path: defaultPath}
	}
	if u.Path == "" {
		u.Path = defaultPath
	}
	u.Fragment = ""
	return *u
}

// RawQuery is the current query string without the leading '?'.
func (b *Bar) RawQuery() string {
	return b.u.RawQuery
}

// Query returns the parsed current query. Malformed pairs are dropped.
func (b *Bar) Query() url.Values {
	v, _ := url.ParseQuery(b.RawQuery())
	return v
}

// ReplaceQuery swaps the query in place, keeping the path.
func (b *Bar) ReplaceQuery(q url.Values) {
	b.u.RawQuery = q.Encode()
}

// String renders the current location as path?query, or the full URL when
// the bar was created from one.
func (b *Bar) String() string {
	return b.u.String()
}
