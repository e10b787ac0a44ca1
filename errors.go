package main

import "errors"

// Sentinel errors for go-doctrans.
//
// Usage pattern: wrap sentinels with context at call site using fmt.Errorf:
//
//	return fmt.Errorf("cannot read %q: %w", path, ErrFileNotFound)
//
// This preserves errors.Is() compatibility while adding context.
// The exitCode() function in main.go maps these to exit codes.

// --- Setup errors (ExitSetup = 3) ---
// Environment errors that prevent the tool from running.

var (
	// ErrAPIKeyMissing indicates OPENAI_API_KEY environment variable is not set.
	ErrAPIKeyMissing = errors.New("OPENAI_API_KEY environment variable not set")
)

// --- Validation errors (ExitValidation = 4) ---
// Input validation errors that indicate incorrect usage.

var (
	// ErrFileNotFound indicates the specified input file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrUnsupportedFormat indicates an input file has an unsupported extension.
	// Wrap with the format: fmt.Errorf("unsupported format %s: %w", ext, ErrUnsupportedFormat)
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrOutputExists indicates the output file already exists.
	// Wrap with the path: fmt.Errorf("output file already exists: %s: %w", path, ErrOutputExists)
	ErrOutputExists = errors.New("output file already exists")

	// ErrInvalidBudget indicates a non-positive token budget was specified.
	ErrInvalidBudget = errors.New("token budget must be positive")
)

// --- Translation errors (ExitTranslation = 5) ---
// API and network errors during translation.

var (
	// ErrRateLimit indicates the API rate limit was exceeded.
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrQuotaExceeded indicates the API quota was exceeded (billing issue).
	// Different from ErrRateLimit - it requires user action (check billing).
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrTimeout indicates a request timed out.
	ErrTimeout = errors.New("request timeout")

	// ErrAuthFailed indicates API authentication failed (invalid key).
	ErrAuthFailed = errors.New("authentication failed")
)

// --- Server errors ---

var (
	// ErrRunActive indicates a translation run is already in flight.
	// One document is processed end to end per run; there is no queueing.
	ErrRunActive = errors.New("a translation run is already active")
)
