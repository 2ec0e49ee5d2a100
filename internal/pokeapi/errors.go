// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package pokeapi

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned for a 404 response.
	ErrNotFound = errors.New("not found")

	// ErrRateLimited is returned for a 429 response.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrUnavailable is returned when no response could be obtained.
	ErrUnavailable = errors.New("catalog unavailable")

	// ErrInvalidResponse is returned when a body cannot be decoded.
	ErrInvalidResponse = errors.New("invalid response")
)

// APIError is any other non-2xx response.
type APIError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("unexpected status %s from %s", e.Status, e.URL)
}

// ErrorContext describes what was being attempted when an error occurred.
type ErrorContext struct {
	Operation string
	Resource  string
	Target    string
}

// Friendly wraps err with a message a user can act on. The original error
// stays in the chain so errors.Is keeps working.
func Friendly(err error, ec ErrorContext) error {
	if err == nil {
		return nil
	}

	what := ec.Resource
	if ec.Target != "" {
		what = fmt.Sprintf("%s %q", ec.Resource, ec.Target)
	}

	var apiErr *APIError
	switch {
	case errors.Is(err, ErrNotFound):
		return fmt.Errorf("%s: %s does not exist: %w", ec.Operation, what, err)
	case errors.Is(err, ErrRateLimited):
		return fmt.Errorf("%s: the catalog is throttling requests, try again shortly: %w", ec.Operation, err)
	case errors.Is(err, ErrUnavailable):
		return fmt.Errorf("%s: the catalog could not be reached, check the network or --base-url: %w", ec.Operation, err)
	case errors.As(err, &apiErr):
		return fmt.Errorf("%s: %s failed with HTTP %d: %w", ec.Operation, what, apiErr.StatusCode, err)
	default:
		return fmt.Errorf("%s: %s: %w", ec.Operation, what, err)
	}
}
