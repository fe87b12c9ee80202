// Package render drives a headless browser to turn composed HTML documents
// into PDF fragments. The browser is a crash-prone external process, so the
// package splits into a thin capability interface (Engine/Handle/Tab), a
// Chrome implementation of it, and a Renderer that owns the retry and
// liveness protocol around both.
package render

import "context"

// PDFOptions controls one rasterization. Margins are millimeters.
type PDFOptions struct {
	MarginTopMM    float64
	MarginRightMM  float64
	MarginBottomMM float64
	MarginLeftMM   float64
	// HeaderHTML, when non-empty, is repeated in the reserved top margin of
	// every page.
	HeaderHTML string
}

// Tab is one rendering context inside an engine process. Tabs are not
// replaceable mid-request: once one dies, the request is lost.
type Tab interface {
	// SetContent injects a full HTML document and waits for the load event.
	SetContent(ctx context.Context, html string) error
	// Rasterize produces the PDF bytes for the current content.
	Rasterize(ctx context.Context, opts PDFOptions) ([]byte, error)
	IsAlive() bool
	Close()
}

// Handle is an exclusive claim on one engine process.
type Handle interface {
	NewTab(ctx context.Context) (Tab, error)
	IsAlive() bool
	Close()
}

// Engine acquires rendering processes. Implementations must make Acquire
// safe for concurrent requests; each returned Handle belongs to exactly one
// request.
type Engine interface {
	Acquire(ctx context.Context) (Handle, error)
}
