// Package ledgererror defines the error taxonomy shared by the classification
// engine, the journal writer and the integrity checker. Low-level IO and parse
// errors are wrapped into one of these types at the component boundary instead
// of being leaked raw.
package ledgererror

import "fmt"

// FileIntegrityError represents a missing or malformed file (rule document or
// journal) where presence and well-formedness are required.
type FileIntegrityError struct {
	Path   string
	Reason string
	Err    error
}

func (e *FileIntegrityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("file integrity error for %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("file integrity error for %s: %s", e.Path, e.Reason)
}

func (e *FileIntegrityError) Unwrap() error {
	return e.Err
}

// ClassificationError represents unparseable feedback text or a feedback
// target category that does not exist in the rule document.
type ClassificationError struct {
	Description string
	Reason      string
}

func (e *ClassificationError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("classification error for '%s': %s", e.Description, e.Reason)
	}
	return fmt.Sprintf("classification error: %s", e.Reason)
}

// ValidationError represents a structural problem found in a journal file
// during integrity checking. Validation errors are accumulated, never fatal
// to the checker itself.
type ValidationError struct {
	FilePath string
	Line     int
	Reason   string
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("validation failed for %s:%d: %s", e.FilePath, e.Line, e.Reason)
	}
	return fmt.Sprintf("validation failed for %s: %s", e.FilePath, e.Reason)
}

// APIConnectionError represents a failure talking to a network-backed
// classification source such as the Gemini API.
type APIConnectionError struct {
	Service string
	Err     error
}

func (e *APIConnectionError) Error() string {
	return fmt.Sprintf("API connection error (%s): %v", e.Service, e.Err)
}

func (e *APIConnectionError) Unwrap() error {
	return e.Err
}
