package errors

import (
	"errors"
	"fmt"
)

// Common error types for the mock auth server
var (
	// Startup errors
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrKeyStore      = errors.New("key store could not be loaded")
	ErrContentRoot   = errors.New("static content root could not be resolved")
	ErrInvalidPolicy = errors.New("invalid tls policy")

	// Token errors
	ErrMalformedSequence = errors.New("malformed token sequence")
	ErrUnknownToken      = errors.New("unknown token prefix")
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
