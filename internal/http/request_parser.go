package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"ricevute/internal/core"
)

// Session identity headers set by the auth proxy in front of the
// service. All are optional; empty values fall through the identity
// resolver's defaults.
const (
	headerUserID    = "X-User-Id"
	headerUserName  = "X-User-Name"
	headerUserEmail = "X-User-Email"
	headerSessionID = "X-Session-Id"
)

// viewParams are the query parameters shared by all read endpoints.
type viewParams struct {
	Period core.PeriodKey
	Sort   core.SortState
}

func parseSessionHint(r *http.Request) core.SessionHint {
	return core.SessionHint{
		UserID:   sanitizeInput(r.Header.Get(headerUserID)),
		UserName: sanitizeInput(r.Header.Get(headerUserName)),
		Email:    sanitizeInput(r.Header.Get(headerUserEmail)),
	}
}

func parseSessionID(r *http.Request) string {
	return sanitizeInput(r.Header.Get(headerSessionID))
}

// parseViewParams reads period and sort parameters. An absent period
// means the whole history; an invalid sort key is rejected rather
// than silently defaulted so clients notice typos.
func parseViewParams(r *http.Request) (viewParams, error) {
	q := r.URL.Query()

	params := viewParams{
		Period: core.PeriodKey(strings.TrimSpace(q.Get("period"))),
		Sort:   core.DefaultSortState(),
	}

	if v := strings.TrimSpace(q.Get("sort")); v != "" {
		key := core.SortKey(v)
		if !core.ValidSortKey(key) {
			return viewParams{}, fmt.Errorf("unknown sort key %q", v)
		}
		params.Sort = core.SortState{Key: key, Descending: false}
	}
	switch dir := strings.TrimSpace(q.Get("dir")); dir {
	case "":
	case "asc":
		params.Sort.Descending = false
	case "desc":
		params.Sort.Descending = true
	default:
		return viewParams{}, fmt.Errorf("unknown sort direction %q", dir)
	}

	return params, nil
}

// decodeJSONBody parses a small JSON request body into dst.
func decodeJSONBody(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(body) == 0 {
		return fmt.Errorf("empty body")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
