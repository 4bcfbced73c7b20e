package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrServer       = errors.New("server error")
)

// Error is a non-2xx response from the backend
type Error struct {
	StatusCode int
	Method     string
	Path       string
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

// Is matches the sentinel for the status class
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrBadRequest:
		return e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnprocessableEntity
	case ErrServer:
		return e.StatusCode >= 500
	}
	return false
}

// newError reads the FastAPI {"detail": ...} body; detail may be a string or a
// list of validation errors.
func newError(status int, method, path string, body []byte) *Error {
	e := &Error{StatusCode: status, Method: method, Path: path}

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		e.Detail = strings.TrimSpace(truncate(string(body), 200))
		return e
	}

	var s string
	if err := json.Unmarshal(payload.Detail, &s); err == nil {
		e.Detail = s
		return e
	}

	var items []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if len(it.Loc) > 0 {
				msgs = append(msgs, fmt.Sprintf("%v: %s", it.Loc[len(it.Loc)-1], it.Msg))
			} else {
				msgs = append(msgs, it.Msg)
			}
		}
		e.Detail = strings.Join(msgs, "; ")
		return e
	}

	e.Detail = string(payload.Detail)
	return e
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
