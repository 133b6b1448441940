// Package errors provides standardized error messaging for critnib and
// its supporting packages.
package errors

import (
	"fmt"
	"runtime"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryMemory   ErrorCategory = "MEMORY"
	CategoryExists   ErrorCategory = "EXISTS"
	CategoryNotFound ErrorCategory = "NOT_FOUND"
)

// StandardError provides a consistent error format
type StandardError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Context  map[string]interface{}
	Caller   string
}

// Error implements the error interface
func (e *StandardError) Error() string {
	return fmt.Sprintf("[%s:%s] %s (caller: %s)", e.Category, e.Code, e.Message, e.Caller)
}

// NewStandardError creates a new standardized error
func NewStandardError(category ErrorCategory, code, message string, context map[string]interface{}) *StandardError {
	pc, _, _, ok := runtime.Caller(1)
	caller := "unknown"
	if ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			caller = fn.Name()
		}
	}

	return &StandardError{
		Category: category,
		Code:     code,
		Message:  message,
		Context:  context,
		Caller:   caller,
	}
}

// Common error constructors
func KeyExists(key uint64) *StandardError {
	return NewStandardError(CategoryExists, "KEY_EXISTS",
		fmt.Sprintf("key %d already present", key),
		map[string]interface{}{"key": key})
}

func KeyNotFound(key uint64) *StandardError {
	return NewStandardError(CategoryNotFound, "KEY_NOT_FOUND",
		fmt.Sprintf("key %d not present", key),
		map[string]interface{}{"key": key})
}

func OutOfMemory(context string) *StandardError {
	return NewStandardError(CategoryMemory, "OUT_OF_MEMORY",
		fmt.Sprintf("allocation failed in %s", context),
		map[string]interface{}{"context": context})
}
