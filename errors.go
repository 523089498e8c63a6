package asyncprops

import (
	"errors"
	"fmt"
)

// Sentinel errors for loading and hydration.
var (
	ErrNotFound          = errors.New("asyncprops: route not found")
	ErrEmptyChain        = errors.New("asyncprops: matched chain is empty")
	ErrSuperseded        = errors.New("asyncprops: generation superseded")
	ErrHydrationMismatch = errors.New("asyncprops: hydration payload does not match chain")
	ErrInvalidPayload    = errors.New("asyncprops: invalid hydration payload")
	ErrLoaderPanic       = errors.New("asyncprops: loader panicked")
	ErrNoResult          = errors.New("asyncprops: loader finished without a result")
)

// LoaderError records a failure reported by a route's loader.
//
// It is stored on the errored PropsEntry and handed to the component as
// Props.Err; sibling positions are unaffected.
type LoaderError struct {
	Route RouteID
	Err   error
}

func (e *LoaderError) Error() string {
	return fmt.Sprintf("asyncprops: loader for route %q failed: %v", string(e.Route), e.Err)
}

func (e *LoaderError) Unwrap() error {
	return e.Err
}

// IsNotFound checks if err is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsSuperseded checks if err reports a discarded stale generation.
func IsSuperseded(err error) bool {
	return errors.Is(err, ErrSuperseded)
}

// IsHydrationError checks if err is a hydration mismatch or a malformed payload.
func IsHydrationError(err error) bool {
	return errors.Is(err, ErrHydrationMismatch) || errors.Is(err, ErrInvalidPayload)
}

// IsLoaderError checks if err wraps a *LoaderError.
func IsLoaderError(err error) bool {
	var le *LoaderError
	return errors.As(err, &le)
}
