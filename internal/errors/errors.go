package errors

import (
	"errors"
	"fmt"
)

// Common error types for the stateless authentication flow
var (
	// Exchange errors
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrExchangeFailed    = errors.New("token exchange failed")
	ErrMissingIdentifier = errors.New("no user identifier in token response")

	// Provider errors
	ErrProviderReported = errors.New("identity provider reported an error")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New is a pass-through to the standard library so callers only import this package
func New(text string) error {
	return errors.New(text)
}
