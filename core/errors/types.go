// ABOUTME: Custom error types for the core business logic
// ABOUTME: Provides structured errors for better error handling and reporting

package errors

import (
	"errors"
	"fmt"
)

// NotFoundError represents a missing persisted artifact
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// TransportError represents a failed network fetch
type TransportError struct {
	URL        string
	StatusCode int
	Message    string
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport error fetching %s: %d - %s", e.URL, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("transport error fetching %s: %s", e.URL, e.Message)
}

// ExtractionError represents a fatal extraction failure, such as an
// offer page without any image element
type ExtractionError struct {
	URL     string
	Message string
}

// Error implements the error interface
func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error on %s: %s", e.URL, e.Message)
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsTransport checks if an error is a TransportError
func IsTransport(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// IsExtraction checks if an error is an ExtractionError
func IsExtraction(err error) bool {
	var extractionErr *ExtractionError
	return errors.As(err, &extractionErr)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
