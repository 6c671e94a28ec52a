package render

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Renderer lifecycle errors.
var (
	// ErrRendererClosed is returned when a render is attempted on a
	// renderer that has been closed.
	ErrRendererClosed = errors.New("renderer is closed")

	// ErrAcquireFailed is returned by Managed when the renderer factory
	// cannot produce a working session. This is a fatal setup error for
	// the crawl that triggered it.
	ErrAcquireFailed = errors.New("failed to acquire renderer session")
)

// ErrorKind classifies a page render failure.
// The taxonomy matches what the crawler needs: all three kinds are
// recovered the same way (skip the page), but reports and logs
// distinguish them.
type ErrorKind string

const (
	// KindTimeout marks a render that exceeded the per-page timeout.
	KindTimeout ErrorKind = "timeout"

	// KindNetwork marks a connection-level failure (DNS, refused,
	// reset) before any document was received.
	KindNetwork ErrorKind = "network"

	// KindNavigation marks a failure after the connection succeeded:
	// bad redirect, aborted navigation, or a document that never
	// reached the requested ready state.
	KindNavigation ErrorKind = "navigation"
)

// RenderError is the error type returned by renderer implementations.
// It carries the failure kind and the URL that triggered it so the
// crawler can log a useful skip message.
type RenderError struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// URL is the page URL whose render failed.
	URL string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %s failure: %v", e.URL, e.Kind, e.Err)
}

// Unwrap returns the underlying cause for errors.Is/As chains.
func (e *RenderError) Unwrap() error {
	return e.Err
}

// newRenderError wraps err with the given kind and URL.
func newRenderError(kind ErrorKind, url string, err error) *RenderError {
	return &RenderError{Kind: kind, URL: url, Err: err}
}

// classifyError maps a low-level fetch error onto the render error
// taxonomy. Context deadline hits are timeouts, net-level failures are
// network errors, everything else is a navigation failure.
func classifyError(url string, err error) *RenderError {
	switch {
	case isTimeoutError(err):
		return newRenderError(KindTimeout, url, err)
	case isNetError(err):
		return newRenderError(KindNetwork, url, err)
	default:
		return newRenderError(KindNavigation, url, err)
	}
}

// isTimeoutError reports whether err is a deadline or transport timeout.
func isTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// isNetError reports whether err is a network-level failure.
func isNetError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// IsTimeout reports whether err is a render timeout.
func IsTimeout(err error) bool {
	var re *RenderError
	return errors.As(err, &re) && re.Kind == KindTimeout
}
