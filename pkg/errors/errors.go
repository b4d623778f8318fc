// Package errors provides typed errors for agent-loop
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType int

const (
	// ErrConfig indicates a configuration error
	ErrConfig ErrorType = iota
	// ErrAgent indicates an agent runtime execution error
	ErrAgent
	// ErrTool indicates a tool invocation error
	ErrTool
	// ErrCacheKey indicates a cache key derivation error
	ErrCacheKey
	// ErrValidation indicates an input validation error
	ErrValidation
	// ErrTimeout indicates a timeout occurred
	ErrTimeout
	// ErrBudget indicates budget limit exceeded
	ErrBudget
)

// LoopError is the base error type for all agent-loop errors
type LoopError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error returns the error message
func (e *LoopError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", errorTypeString(e.Type), e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", errorTypeString(e.Type), e.Message)
}

// Unwrap returns the underlying cause
func (e *LoopError) Unwrap() error {
	return e.Cause
}

// New creates a new LoopError
func New(errType ErrorType, message string, cause error) *LoopError {
	return &LoopError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds context to the error
func (e *LoopError) WithContext(key string, value interface{}) *LoopError {
	e.Context[key] = value
	return e
}

// ConfigError creates a configuration error
func ConfigError(message string, cause error) *LoopError {
	return New(ErrConfig, message, cause)
}

// AgentError creates an agent runtime error
func AgentError(message string, cause error) *LoopError {
	return New(ErrAgent, message, cause)
}

// ToolError creates a tool invocation error
func ToolError(message string, cause error) *LoopError {
	return New(ErrTool, message, cause)
}

// CacheKeyError creates a cache key derivation error
func CacheKeyError(message string, cause error) *LoopError {
	return New(ErrCacheKey, message, cause)
}

// ValidationError creates a validation error
func ValidationError(message string, cause error) *LoopError {
	return New(ErrValidation, message, cause)
}

// TimeoutError creates a timeout error
func TimeoutError(message string, cause error) *LoopError {
	return New(ErrTimeout, message, cause)
}

// BudgetError creates a budget-exceeded error
func BudgetError(message string, cause error) *LoopError {
	return New(ErrBudget, message, cause)
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	var loopErr *LoopError
	if err == nil {
		return false
	}
	if errors.As(err, &loopErr) {
		return loopErr.Type == errType
	}
	return false
}

// IsRetryable returns true if the error is transient and retryable
func IsRetryable(err error) bool {
	var loopErr *LoopError
	if !errors.As(err, &loopErr) {
		return false
	}

	switch loopErr.Type {
	case ErrTimeout:
		return true
	case ErrAgent:
		// Retry only for rate limits and timeouts
		return loopErr.Message == "rate_limit_exceeded" || loopErr.Message == "timeout"
	default:
		return false
	}
}

func errorTypeString(et ErrorType) string {
	switch et {
	case ErrConfig:
		return "CONFIG"
	case ErrAgent:
		return "AGENT"
	case ErrTool:
		return "TOOL"
	case ErrCacheKey:
		return "CACHE_KEY"
	case ErrValidation:
		return "VALIDATION"
	case ErrTimeout:
		return "TIMEOUT"
	case ErrBudget:
		return "BUDGET"
	default:
		return "UNKNOWN"
	}
}
