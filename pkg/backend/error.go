package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"docchat-client/internal/dto"
)

// ErrMalformedResponse is a 2xx answer missing fields the client relies on.
var ErrMalformedResponse = errors.New("backend returned an incomplete response")

// Error is a non-2xx answer from the backend.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend error: status %d", e.Status)
	}
	return fmt.Sprintf("backend error: status %d: %s", e.Status, e.Detail)
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var be *Error
	return errors.As(err, &be) && be.Status == http.StatusNotFound
}

// IsRetryable is true for transport failures and 5xx answers. 4xx answers
// will not change on retry.
func IsRetryable(err error) bool {
	var be *Error
	if errors.As(err, &be) {
		return be.Status >= http.StatusInternalServerError
	}
	return true
}

// newError builds an Error from a response body. FastAPI reports either a
// string detail or a list of validation problems.
func newError(status int, body []byte) *Error {
	var payload dto.ErrorResponse
	if err := json.Unmarshal(body, &payload); err != nil || payload.Detail == nil {
		return &Error{Status: status, Detail: truncate(string(body), 200)}
	}

	switch d := payload.Detail.(type) {
	case string:
		return &Error{Status: status, Detail: d}
	case []interface{}:
		if len(d) > 0 {
			if first, ok := d[0].(map[string]interface{}); ok {
				if msg, ok := first["msg"].(string); ok {
					return &Error{Status: status, Detail: msg}
				}
			}
		}
	}
	raw, _ := json.Marshal(payload.Detail)
	return &Error{Status: status, Detail: string(raw)}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
