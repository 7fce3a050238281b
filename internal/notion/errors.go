package notion

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// RemoteStoreError carries status/body for non-2xx responses from the API
type RemoteStoreError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *RemoteStoreError) Error() string {
	return fmt.Sprintf("notion: %s %s status=%d body=%s", e.Method, e.URL, e.StatusCode, snippet(e.Body, 500))
}

func snippet(b []byte, max int) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}
