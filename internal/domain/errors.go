package domain

import "errors"

// Error kinds surfaced by a run. Concrete errors wrap one of these so callers
// can classify failures with errors.Is.
var (
	ErrFetch        = errors.New("fetch dwml")
	ErrParse        = errors.New("parse dwml")
	ErrNoTimestamps = errors.New("no timestamps found in DWML")
	ErrUpload       = errors.New("upload artifact")
)

// ErrorKind maps an error to a short label used in responses and metrics.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrFetch):
		return "fetch"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrNoTimestamps):
		return "empty"
	case errors.Is(err, ErrUpload):
		return "upload"
	default:
		return "internal"
	}
}
