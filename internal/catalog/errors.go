package catalog

import (
	"errors"
	"fmt"
)

// ErrFetchFailed wraps every transport failure and non-success response.
var ErrFetchFailed = errors.New("catalog fetch failed")

// ErrUnauthorized indicates the API key was rejected.
var ErrUnauthorized = errors.New("catalog API key rejected")

// ErrEmptyQuery is returned for blank queries; callers are expected to short-circuit before this.
var ErrEmptyQuery = errors.New("search query is empty")

// ErrInvalidPage is returned for pages outside 1..MaxPage.
var ErrInvalidPage = errors.New("search page out of range")

// StatusError represents a non-2xx response from the catalog API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("catalog API error: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("catalog API error: HTTP %d: %s", e.StatusCode, e.Body)
}

// Is lets errors.Is match ErrFetchFailed for any status and ErrUnauthorized for 401.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrFetchFailed:
		return true
	case ErrUnauthorized:
		return e.StatusCode == 401
	}
	return false
}
