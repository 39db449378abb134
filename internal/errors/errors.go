// Package errors defines the sentinel error kinds shared across the
// papers-modkit commands, along with the process exit codes they map to.
package errors

import "errors"

// Sentinel kinds. Errors raised by this tool's own checks wrap one of
// these via fmt.Errorf("...: %w", Kind), so callers can classify failures
// with errors.Is without parsing message text; errors passed through
// unwrapped (such as raw write errors) carry none, see ExitCode.
var (
	ErrInputError        = errors.New("input error")
	ErrMalformedInput    = errors.New("malformed input")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrIntegrityError    = errors.New("integrity error")
	ErrIoError           = errors.New("io error")
)

// Process exit codes. main maps a returned error to one of these via
// errors.Is against the sentinels above.
const (
	ExitOK                = 0
	ExitInputError        = 1
	ExitMalformedInput    = 2
	ExitUnsupportedFormat = 3
	ExitIntegrityError    = 4
	ExitIoError           = 5
)

// ExitCode maps err to the process exit code it should produce. An
// unrecognized error defaults to ExitIoError since most unclassified
// failures in this tool originate from the filesystem.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrInputError):
		return ExitInputError
	case errors.Is(err, ErrMalformedInput):
		return ExitMalformedInput
	case errors.Is(err, ErrUnsupportedFormat):
		return ExitUnsupportedFormat
	case errors.Is(err, ErrIntegrityError):
		return ExitIntegrityError
	default:
		return ExitIoError
	}
}
