package handler

import (
	"net/http"
	"strconv"
	"time"
)

// parsePage reads page/limit query parameters. Out-of-range values are left
// for the service layer to normalize.
func parsePage(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	return page, limit
}

// parseDate reads an RFC3339 or date-only query parameter. Unparseable
// values are ignored rather than rejected.
func parseDate(r *http.Request, name string) *time.Time {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t
	}
	return nil
}
