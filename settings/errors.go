package settings

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by every *NotFoundError via errors.Is.
var ErrNotFound = errors.New("not found")

// ConfigLoadError reports that the settings source could not be read or
// parsed. The provider keeps serving defaults when it occurs.
type ConfigLoadError struct {
	Source string
	Err    error
}

func (e *ConfigLoadError) Error() string {
	return fmt.Sprintf("settings: load %s: %v", e.Source, e.Err)
}

func (e *ConfigLoadError) Unwrap() error { return e.Err }

// NotFoundError reports a lookup miss, e.g. an unknown post slug.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
