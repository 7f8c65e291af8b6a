package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrProposalNotFound = errors.New("proposal not found")
	ErrUnknownTemplate  = errors.New("unknown template type")
	ErrUnknownStatus    = errors.New("unknown proposal status")
)

// ValidationError rejects a single line-item input, e.g. a negative unit price
// passed to AddOrMergeCommercialItem.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// RenderError is returned by a document renderer when the proposal is missing
// structure that sanitization cannot repair.
type RenderError struct {
	Renderer string
	Reason   string
	Err      error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s renderer: %s: %v", e.Renderer, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s renderer: %s", e.Renderer, e.Reason)
}

func (e *RenderError) Unwrap() error { return e.Err }

// TransitionError reports a blocked status change together with the
// validation messages that blocked it.
type TransitionError struct {
	From   Status
	To     Status
	Errors []string
}

func (e *TransitionError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("cannot change status from %s to %s", e.From, e.To)
	}
	return fmt.Sprintf("cannot change status from %s to %s: %s", e.From, e.To, strings.Join(e.Errors, "; "))
}
