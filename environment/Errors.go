package environment

import "errors"

// Error implements errors unique to building and stepping environments
type Error struct {
	Op  string
	Err error
}

// Error satisifes the error interface
func (e *Error) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the cause of the Error
func (e *Error) Unwrap() error {
	return e.Err
}

// ErrInvalidConfig is the cause of all configuration errors. It is
// reported before any episode is generated.
var ErrInvalidConfig = errors.New("invalid configuration")

// ErrInvalidAction is the cause of errors reporting that an action
// outside the action space reached an environment. It indicates a bug
// in the caller rather than a modeled outcome.
var ErrInvalidAction = errors.New("invalid action")

// IsConfigError returns whether or not an error reports an invalid
// configuration
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

// IsInvalidAction returns whether or not an error reports an action
// outside of the action space
func IsInvalidAction(err error) bool {
	return errors.Is(err, ErrInvalidAction)
}
