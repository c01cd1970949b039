package contact

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError maps form field names to user-facing messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid submission: " + strings.Join(names, ", ")
}

// SubmissionError reports that the relay to the form endpoint failed.
// Queued is true when the submission was stored for a later retry.
type SubmissionError struct {
	ID     string
	Err    error
	Queued bool
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("contact submission %s: %v", e.ID, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// StatusError is returned by Relay when the endpoint answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("form endpoint returned status %d", e.Code)
	}
	return fmt.Sprintf("form endpoint returned status %d: %s", e.Code, e.Body)
}
