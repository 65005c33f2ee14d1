package errors

import (
	"errors"
	"fmt"
)

// Error taxonomy for the sign-in bridge
var (
	// Lookup errors
	ErrNotFound = errors.New("not found")
	ErrExpired  = errors.New("expired")
	ErrParse    = errors.New("malformed record")

	// Boundary errors
	ErrProvider      = errors.New("identity provider error")
	ErrConfiguration = errors.New("configuration error")
	ErrContext       = errors.New("command must be used in a direct message")
)

// ProviderError carries the identity provider's error payload verbatim.
type ProviderError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *ProviderError) Error() string {
	msg := e.Code
	if msg == "" {
		msg = "Failed to exchange code for token"
	}
	if e.Description != "" {
		msg += ": " + e.Description
	}
	return msg
}

// Is makes errors.Is(err, ErrProvider) true for every ProviderError
func (e *ProviderError) Is(target error) bool {
	return target == ErrProvider
}

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
