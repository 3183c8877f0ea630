package backend

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"cabinet-portal/internal/domain/repository"

	"github.com/goccy/go-json"
)

// StatusError is returned for every backend response with a status >= 400.
// It unwraps to one of the repository sentinels.
type StatusError struct {
	Status  int
	Message string
	kind    error
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend responded %d: %v", e.Status, e.kind)
	}
	return fmt.Sprintf("backend responded %d: %s", e.Status, e.Message)
}

func (e *StatusError) Unwrap() error {
	return e.kind
}

func newStatusError(status int, body []byte) *StatusError {
	return &StatusError{
		Status:  status,
		Message: extractMessage(body),
		kind:    kindForStatus(status),
	}
}

func kindForStatus(status int) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return repository.ErrUnauthorized
	case http.StatusNotFound:
		return repository.ErrNotFound
	case http.StatusConflict:
		return repository.ErrConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return repository.ErrRejected
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return repository.ErrUnavailable
	}
	return repository.ErrUnexpectedStatus
}

const maxMessageLen = 200

// extractMessage pulls a human readable message out of an error body.
func extractMessage(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ""
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"message", "error", "msg", "detail"} {
			if s, ok := payload[key].(string); ok && s != "" {
				return s
			}
		}
		return ""
	}

	return truncate(strings.TrimSpace(string(body)), maxMessageLen)
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
