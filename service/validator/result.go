package validator

import "strings"

// Kind classifies a validation outcome
type Kind string

const (
	OK      Kind = "OK"
	Warning Kind = "WARNING" //cannot be checked until build parameters are known
	Error   Kind = "ERROR"
)

func (k Kind) severity() int {
	switch k {
	case Error:
		return 2
	case Warning:
		return 1
	}
	return 0
}

// Result represents a validation outcome with a user facing message
type Result struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message,omitempty"`
}

// IsOK returns true for OK results
func (r *Result) IsOK() bool {
	return r.Kind == OK
}

// IsError returns true for ERROR results
func (r *Result) IsError() bool {
	return r.Kind == Error
}

func (r *Result) String() string {
	if r.Message == "" {
		return string(r.Kind)
	}
	return string(r.Kind) + ": " + r.Message
}

func ok() *Result { return &Result{Kind: OK} }

func warning(message string) *Result { return &Result{Kind: Warning, Message: message} }

func failure(message string) *Result { return &Result{Kind: Error, Message: message} }

// formatList renders items as [a, b]
func formatList(items []string) string {
	return "[" + strings.Join(items, ", ") + "]"
}
