package httpx

import (
	"net/http"
	"strconv"

	"github.com/meridian-travel/meridian/internal/shared"
)

// QueryInt parses an integer query parameter, returning 0 when absent or
// malformed.
func QueryInt(r *http.Request, name string) int {
	v, _ := strconv.Atoi(r.URL.Query().Get(name))
	return v
}

// ParsePage reads the standard pagination parameters. Out-of-range values
// are caught later by input validation rather than silently clamped.
func ParsePage(r *http.Request) shared.PageRequest {
	return shared.PageRequest{
		Page:     QueryInt(r, "page"),
		PageSize: QueryInt(r, "pageSize"),
	}
}
