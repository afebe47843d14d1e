package api

import (
	"encoding/json"
	"errors"
	"strings"
)

var (
	// ErrUnauthorized is returned by any authenticated call when server
	// rejected the token. Session is already gone when caller sees it.
	ErrUnauthorized = errors.New("session expired or invalid, please log in again")
	// ErrUnreachable is returned on transport level failures, actual cause
	// is only logged.
	ErrUnreachable = errors.New("cannot reach server")
)

// ServerError is a non-success response with server provided message.
type ServerError struct {
	Status int
	Detail string
}

func (e *ServerError) Error() string {
	return e.Detail
}

// parseDetail extracts human readable message from error response body.
// Server reports either {"detail": "message"} or validation failures as
// {"detail": [{"msg": "...", ...}, ...]}.
func parseDetail(body []byte, fallback string) string {
	var resp struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || len(resp.Detail) == 0 {
		return fallback
	}

	var text string
	if err := json.Unmarshal(resp.Detail, &text); err == nil {
		if text = strings.TrimSpace(text); len(text) > 0 {
			return text
		}
		return fallback
	}

	var list []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(resp.Detail, &list); err == nil {
		msgs := make([]string, 0, len(list))
		for _, item := range list {
			if m := strings.TrimSpace(item.Msg); len(m) > 0 {
				msgs = append(msgs, m)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	return fallback
}
