package history

import "errors"

var (
	// ErrSourceNotFound means the Chrome History database does not exist at
	// the expected path for this platform.
	ErrSourceNotFound = errors.New("chrome history database not found")

	// ErrUnsupportedPlatform means the host OS has no known Chrome profile
	// path convention.
	ErrUnsupportedPlatform = errors.New("unsupported operating system")

	// ErrMalformedURL means a visit URL could not be parsed.
	ErrMalformedURL = errors.New("malformed url")
)

// WriteError wraps an I/O failure during export.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string { return "write " + e.Path + ": " + e.Err.Error() }
func (e *WriteError) Unwrap() error { return e.Err }
