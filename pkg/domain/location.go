package domain

import (
	"net/url"
	"regexp"
	"strings"
)

// Location is a resolved navigation target.
// It is immutable once built; the router owns it and transitions borrow it.
type Location struct {
	// Path is the path component as requested (without query string).
	Path string `json:"path"`

	// Pattern is the route pattern that matched Path.
	Pattern string `json:"pattern,omitempty"`

	// Params holds the named route parameters extracted by the matcher.
	Params map[string]string `json:"params,omitempty"`

	// Query holds the decoded query string. Repeated keys keep the first value.
	Query map[string]string `json:"query,omitempty"`

	// Matched is the chain of handlers, root to leaf, resolved for Path.
	Matched []*Handler `json:"-"`
}

// Handlers returns a copy of the matched handler chain.
func (l *Location) Handlers() []*Handler {
	if l == nil {
		return nil
	}
	out := make([]*Handler, len(l.Matched))
	copy(out, l.Matched)
	return out
}

// FullPath renders the path with its query string.
func (l *Location) FullPath() string {
	if l == nil {
		return ""
	}
	return l.Path + EncodeQuery(l.Query)
}

// Clone returns a deep copy of the location. The handlers themselves are shared.
func (l *Location) Clone() *Location {
	if l == nil {
		return nil
	}
	next := *l
	next.Params = cloneStrings(l.Params)
	next.Query = cloneStrings(l.Query)
	next.Matched = l.Handlers()
	return &next
}

func cloneStrings(src map[string]string) map[string]string {
	if src == nil {
		return nil
	}
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

var placeholderRe = regexp.MustCompile(`:([^/?#]+)|\{([^/{}]+)\}`)

// MapParams substitutes params into the placeholders of a path template and appends
// query as a query string. Both ":name" and "{name}" placeholders are recognized in
// the part before "?"; unknown placeholders collapse to an empty segment.
func MapParams(template string, params, query map[string]string) string {
	rest := ""
	if i := strings.IndexByte(template, '?'); i >= 0 {
		template, rest = template[:i], template[i:]
	}
	path := placeholderRe.ReplaceAllStringFunc(template, func(m string) string {
		sub := placeholderRe.FindStringSubmatch(m)
		key := sub[1]
		if key == "" {
			key = sub[2]
		}
		return url.PathEscape(params[key])
	}) + rest
	if len(query) == 0 {
		return path
	}
	if strings.Contains(path, "?") {
		return path + "&" + strings.TrimPrefix(EncodeQuery(query), "?")
	}
	return path + EncodeQuery(query)
}

// EncodeQuery renders a query map as "?k=v&..." with sorted keys, or "" when empty.
func EncodeQuery(query map[string]string) string {
	if len(query) == 0 {
		return ""
	}
	values := make(url.Values, len(query))
	for k, v := range query {
		values.Set(k, v)
	}
	return "?" + values.Encode()
}
