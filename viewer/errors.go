package viewer

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrFetchFailure = errors.New("slide fetch failed")
	ErrSuperseded   = errors.New("slide load superseded")
	ErrNoSlide      = errors.New("no slide")
)

// FetchError is a failed metadata fetch. It matches ErrFetchFailure.
type FetchError struct {
	SlideID string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch slide %s: %v", e.SlideID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailure
}
