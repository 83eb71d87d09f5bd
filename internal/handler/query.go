package handler

import (
	"net/http"
	"strconv"
	"strings"
)

// pageParams reads the skip/limit query parameters. Unparseable values fall
// back to the defaults rather than failing the request.
func pageParams(r *http.Request) (int, int) {
	skip := intQuery(r, "skip", 0)
	limit := intQuery(r, "limit", 0)
	return skip, limit
}

func intQuery(r *http.Request, name string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
