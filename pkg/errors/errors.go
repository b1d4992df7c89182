// Package errors defines the error taxonomy shared by the installation
// pipeline. Components return these sentinels (usually wrapped with context)
// so that callers can classify failures with errors.Is instead of matching
// message strings.
package errors

import "fmt"

// Common error types.
var (
	// Fetch errors.
	ErrDirectoryCreate = fmt.Errorf("failed to create destination directory")
	ErrHTTPStatus      = fmt.Errorf("unexpected HTTP status")
	ErrHashMismatch    = fmt.Errorf("content hash mismatch")
	ErrReplaceFailed   = fmt.Errorf("failed to replace destination file")
	ErrTimeout         = fmt.Errorf("operation timed out")
	ErrCancelled       = fmt.Errorf("operation cancelled")

	// Manifest errors.
	ErrManifestMalformed    = fmt.Errorf("malformed manifest")
	ErrManifestMissingField = fmt.Errorf("manifest is missing a required field")

	// Layout errors.
	ErrUnknownResourceCategory = fmt.Errorf("unknown resource category")
	ErrUnknownHashAlgorithm    = fmt.Errorf("unknown hash algorithm")
	ErrInvalidPath             = fmt.Errorf("invalid path")

	// Install errors.
	ErrRunActive     = fmt.Errorf("an installation is already running for this profile")
	ErrRunFailed     = fmt.Errorf("installation failed")
	ErrHookScript    = fmt.Errorf("hook script error")
	ErrHookExecute   = fmt.Errorf("error executing hook")
	ErrPackArchive   = fmt.Errorf("invalid modpack archive")
	ErrNotConfigured = fmt.Errorf("collaborator is not configured")

	// Config errors.
	ErrEmptyConfigPath = fmt.Errorf("config file path cannot be empty")
	ErrConfigParse     = fmt.Errorf("failed to parse config")
	ErrConfigEncode    = fmt.Errorf("failed to encode config")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
