package helpers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Page count limits for the upstream events search.
const (
	DefaultNumPages = 1
	MaxNumPages     = 10
)

// ParseNumPages reads num_pages from the query string. A missing value yields
// DefaultNumPages; anything that is not an integer in [1, MaxNumPages] is an error.
func ParseNumPages(r *http.Request) (int, error) {
	s := strings.TrimSpace(r.URL.Query().Get("num_pages"))
	if s == "" {
		return DefaultNumPages, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 || v > MaxNumPages {
		return 0, fmt.Errorf("num_pages must be an integer between 1 and %d", MaxNumPages)
	}
	return v, nil
}

// ParseList splits a comma-separated query value, dropping blank entries.
// It returns nil when nothing remains.
func ParseList(r *http.Request, key string) []string {
	var out []string
	for _, part := range strings.Split(r.URL.Query().Get(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
