package predictor

import (
	"errors"
	"fmt"
)

// Kind classifies why a prediction could not be produced.
type Kind string

const (
	KindLaunchFailure Kind = "launch_failure"
	KindRejection     Kind = "rejection"
	KindParseFailure  Kind = "parse_failure"
	KindTimeout       Kind = "timeout"
)

// Error is returned for every failed invocation.
type Error struct {
	Kind     Kind
	ExitCode int
	Stderr   string
	Err      error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("predictor %s", e.Kind)
	}
	return fmt.Sprintf("predictor %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the Kind carried by err, or "" when err is not a predictor error.
func KindOf(err error) Kind {
	var predErr *Error
	if errors.As(err, &predErr) {
		return predErr.Kind
	}
	return ""
}
