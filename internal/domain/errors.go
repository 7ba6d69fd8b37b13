package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrParse marks a malformed payload. No store mutation happens.
	ErrParse = errors.New("malformed payload")

	// ErrMixedCategory marks a payload whose records disagree on their category.
	ErrMixedCategory = fmt.Errorf("%w: records carry more than one category", ErrParse)

	// ErrStorageUnavailable means the database could not be opened. Fatal at startup.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrStorage wraps a failed statement or aborted transaction.
	ErrStorage = errors.New("storage error")

	// ErrRemoteUnavailable covers network errors and non-2xx responses from the remote.
	ErrRemoteUnavailable = errors.New("remote unavailable")

	ErrCategoryNotFound = errors.New("category not found in remote index")
)
