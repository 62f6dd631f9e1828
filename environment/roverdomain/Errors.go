package roverdomain

import "errors"

// ConfigurationError reports an invalid environment setup. It is only
// returned from constructors and resets, never in the middle of an
// episode.
type ConfigurationError struct {
	Op  string
	Err error
}

// Error satisifes the error interface
func (e *ConfigurationError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ValidationError reports malformed runtime input such as an action of
// the wrong length or a non-finite coordinate.
type ValidationError struct {
	Op  string
	Err error
}

// Error satisifes the error interface
func (e *ValidationError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// InvalidStateError reports misuse of the episode lifecycle, such as
// stepping before the first reset or after the episode has ended.
// Calling Reset always recovers from an InvalidStateError.
type InvalidStateError struct {
	Op  string
	Err error
}

// Error satisifes the error interface
func (e *InvalidStateError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *InvalidStateError) Unwrap() error { return e.Err }

var (
	errNotReset     = errors.New("episode has not been reset")
	errEpisodeEnded = errors.New("episode has ended, reset before stepping")
)

// IsConfigurationError returns whether err is or wraps a
// ConfigurationError
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// IsValidationError returns whether err is or wraps a ValidationError
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsInvalidStateError returns whether err is or wraps an
// InvalidStateError
func IsInvalidStateError(err error) bool {
	var target *InvalidStateError
	return errors.As(err, &target)
}
