package render

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Factory creates a new Renderer instance. Managed calls it whenever
// the current renderer is missing or fails its health check.
type Factory func(ctx context.Context) (Renderer, error)

// Managed wraps a Renderer and replaces it when it becomes unhealthy.
// A headless browser can die mid-crawl (OOM kill, crashed tab pool);
// Managed recovers by discarding the dead instance and acquiring a
// fresh one from the factory before the next page.
//
// Design decision: Recovery happens on the NEXT Render call, not as a
// retry of the failing one, because:
//  1. A page that crashed the browser once may crash it again
//  2. The crawler already treats per-page failures as skippable
//  3. Retry policy belongs to the caller, not the transport
type Managed struct {
	// factory builds replacement renderers.
	factory Factory

	// mu guards current and closed.
	mu sync.Mutex

	// current is the active renderer, nil until first use.
	current Renderer

	// closed is set once Close has been called.
	closed bool
}

// NewManaged creates a Managed renderer backed by factory. The factory
// is not invoked until the first Render call.
func NewManaged(factory Factory) *Managed {
	return &Managed{factory: factory}
}

// Render acquires a healthy renderer and delegates to it.
func (m *Managed) Render(ctx context.Context, pageURL string) (*Result, error) {
	r, err := m.acquire(ctx)
	if err != nil {
		return nil, newRenderError(KindNavigation, pageURL, err)
	}
	return r.Render(ctx, pageURL)
}

// acquire returns the current renderer, replacing it first if it is
// missing or unhealthy.
func (m *Managed) acquire(ctx context.Context) (Renderer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrRendererClosed
	}

	if m.current != nil && m.current.Healthy(ctx) {
		return m.current, nil
	}

	if m.current != nil {
		// Best effort: a dead browser may error on Close too.
		_ = m.current.Close()
		m.current = nil
	}

	r, err := m.factory(ctx)
	if err != nil {
		return nil, errors.Join(ErrAcquireFailed, err)
	}
	m.current = r
	return r, nil
}

// Healthy reports whether the wrapper can serve renders. It returns
// true while open even if the underlying renderer is currently dead,
// since the next Render will replace it.
func (m *Managed) Healthy(_ context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.closed
}

// Close shuts down the current renderer and prevents reacquisition.
func (m *Managed) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	if m.current == nil {
		return nil
	}
	if err := m.current.Close(); err != nil {
		return fmt.Errorf("close renderer: %w", err)
	}
	m.current = nil
	return nil
}
