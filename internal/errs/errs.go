package errs

import "fmt"

// ValidationError signals rejected input: an out-of-range rating or a
// feedback reference to a generation that was never recorded.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "validation error: " + e.Field + ": " + e.Message
	}
	return "validation error: " + e.Message
}

// PersistenceError wraps failures of the profile file or database.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ConfigurationError signals a misconfigured deployment, e.g. an empty
// engine profile set. Callers surface it instead of swallowing it.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Message
}

// SerializationError marks a corrupted stored payload. The cache recovers
// from it locally (delete entry, report miss) and never surfaces it.
type SerializationError struct {
	Key string
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialization error for key %s: %v", e.Key, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}
