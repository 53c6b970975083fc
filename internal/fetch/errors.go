// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package fetch

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"
)

// Sentinel errors matched by StatusError.Is.
var (
	ErrNotFound    = errors.New("not found")
	ErrRateLimited = errors.New("rate limited")
)

// maxErrorBody caps how much of an error response is read for its message.
const maxErrorBody = 4096

// StatusError is returned for any non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
	// Message is the API's own explanation, when the body carried one.
	Message string

	rateLimited bool
}

func newStatusError(url string, resp *http.Response) *StatusError {
	e := &StatusError{
		URL:        url,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
	}

	// GitHub answers an exhausted quota with 403 and a zero remaining count.
	e.rateLimited = resp.StatusCode == http.StatusTooManyRequests ||
		(resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0")

	if body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)); err == nil {
		e.Message = gjson.GetBytes(body, "message").String()
	}

	return e
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("GET %s: %s: %s", e.URL, e.Status, e.Message)
	}
	return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
}

// Is lets errors.Is match ErrNotFound and ErrRateLimited.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrRateLimited:
		return e.rateLimited
	}
	return false
}
