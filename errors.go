package docgrab

import "errors"

// Sentinel errors returned by the library.
var (
	// ErrClosed is returned when attempting to use a closed [Fetcher].
	ErrClosed = errors.New("docgrab: fetcher is closed")

	// ErrViewerTimeout is returned when the document viewer never appears
	// within the navigation timeout. The run produces no artifacts.
	ErrViewerTimeout = errors.New("docgrab: document viewer did not load")
)
