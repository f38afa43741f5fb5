package model

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingSession is matched by MissingSessionError
	ErrMissingSession = errors.New("session token missing")

	// ErrAuthFailed is matched by AuthError
	ErrAuthFailed = errors.New("authentication failed")
)

// ValidationError represents validation failures
type ValidationError struct {
	Field   string
	Value   interface{}
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != nil && e.Value != "" {
		return fmt.Sprintf("validation failed on %s: %s (value=%v, rule=%s)", e.Field, e.Message, e.Value, e.Rule)
	}
	return fmt.Sprintf("validation failed on %s: %s (rule=%s)", e.Field, e.Message, e.Rule)
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, rule, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Rule:    rule,
		Message: message,
	}
}

// MissingSessionError is raised locally, before any network call, when a
// business operation is invoked without a session token.
type MissingSessionError struct {
	Operation string
}

func (e *MissingSessionError) Error() string {
	return fmt.Sprintf("%s: session token missing, login must run first", e.Operation)
}

// Is matches ErrMissingSession
func (e *MissingSessionError) Is(target error) bool {
	return target == ErrMissingSession
}

// NewMissingSessionError creates a new missing session error
func NewMissingSessionError(operation string) *MissingSessionError {
	return &MissingSessionError{Operation: operation}
}

// AuthError represents a login that returned no session token
type AuthError struct {
	ReturnCode string
	Message    string
}

func (e *AuthError) Error() string {
	if e.ReturnCode != "" {
		return fmt.Sprintf("login failed [%s]: %s", e.ReturnCode, e.Message)
	}
	return fmt.Sprintf("login failed: %s", e.Message)
}

// Is matches ErrAuthFailed
func (e *AuthError) Is(target error) bool {
	return target == ErrAuthFailed
}

// NewAuthError creates a new auth error
func NewAuthError(returnCode, message string) *AuthError {
	return &AuthError{
		ReturnCode: returnCode,
		Message:    message,
	}
}

// TransportError wraps failures of the HTTP collaborator
type TransportError struct {
	URL        string
	StatusCode int
	Message    string
	Cause      error
}

func (e *TransportError) Error() string {
	msg := fmt.Sprintf("transport error [%s]: %s", e.URL, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("transport error [%s, status %d]: %s", e.URL, e.StatusCode, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s (%v)", msg, e.Cause)
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// NewTransportError creates a new transport error
func NewTransportError(url string, statusCode int, message string, cause error) *TransportError {
	return &TransportError{
		URL:        url,
		StatusCode: statusCode,
		Message:    message,
		Cause:      cause,
	}
}

// DecodeError represents malformed base64 or JSON content
type DecodeError struct {
	Stage string // base64 or json
	Cause error
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("decode failed [%s]: %v", e.Stage, e.Cause)
	}
	return fmt.Sprintf("decode failed [%s]", e.Stage)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// NewDecodeError creates a new decode error
func NewDecodeError(stage string, cause error) *DecodeError {
	return &DecodeError{
		Stage: stage,
		Cause: cause,
	}
}

// RemoteBusinessError is a non-success returnCode from the clearance API.
// It is normally carried as data on a decoded result, not returned.
type RemoteBusinessError struct {
	ReturnCode string
	Message    string
}

func (e *RemoteBusinessError) Error() string {
	return fmt.Sprintf("remote error [%s]: %s", e.ReturnCode, e.Message)
}

// NewRemoteBusinessError creates a new remote business error
func NewRemoteBusinessError(returnCode, message string) *RemoteBusinessError {
	return &RemoteBusinessError{
		ReturnCode: returnCode,
		Message:    message,
	}
}
