package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/zhubert/parley/internal/errors"
)

// Error is a non-2xx response from the backend.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

// Kind maps the status code onto the application's error kinds.
func (e *Error) Kind() errors.Kind {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return errors.KindUnauthorized
	case http.StatusNotFound:
		return errors.KindNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return errors.KindInvalid
	case http.StatusConflict:
		return errors.KindConflict
	default:
		return errors.KindAPI
	}
}

// DetailOr returns the server-provided detail carried by err, or fallback
// when there is none.
func DetailOr(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

func newError(method, path string, status int, body []byte) *Error {
	return &Error{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Detail:     parseDetail(body),
	}
}

// parseDetail extracts a human-readable message from an error body. It
// understands {"detail": "..."}, FastAPI validation arrays
// ({"detail": [{"msg": "..."}]}) and bare {"msg"} or {"message"} bodies.
func parseDetail(body []byte) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}
	if raw, ok := fields["detail"]; ok {
		if s := detailString(raw); s != "" {
			return s
		}
	}
	for _, key := range []string{"msg", "message"} {
		var s string
		if raw, ok := fields[key]; ok && json.Unmarshal(raw, &s) == nil && s != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func detailString(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return strings.TrimSpace(s)
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if json.Unmarshal(raw, &items) == nil {
		for _, item := range items {
			if item.Msg != "" {
				return item.Msg
			}
		}
		return ""
	}
	var obj struct {
		Msg     string `json:"msg"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		return firstNonEmpty(obj.Msg, obj.Message)
	}
	return ""
}
