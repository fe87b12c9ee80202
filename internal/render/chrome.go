package render

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

// A4 paper size in inches; chromedp's PrintToPDF takes inches.
const (
	a4WidthIn  = 8.27
	a4HeightIn = 11.69

	viewportWidth  = 1200
	viewportHeight = 800
)

func mmToInches(mm float64) float64 { return mm / 25.4 }

// ChromeEngine launches headless Chrome processes over the DevTools
// protocol. One Acquire call is one dedicated browser process.
type ChromeEngine struct {
	execPath string
	cfg      Config
	log      zerolog.Logger
}

// NewChromeEngine creates a ChromeEngine. execPath may be empty, in which
// case chromedp resolves the browser from PATH.
func NewChromeEngine(execPath string, cfg Config, log zerolog.Logger) *ChromeEngine {
	return &ChromeEngine{execPath: execPath, cfg: cfg, log: log}
}

// Acquire launches one browser process and blocks until it answers on the
// protocol or the launch timeout expires. Single attempt; the Renderer owns
// retry.
func (e *ChromeEngine) Acquire(ctx context.Context) (Handle, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("no-zygote", true),
		chromedp.Flag("disable-web-security", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("disable-background-timer-throttling", true),
		chromedp.Flag("disable-backgrounding-occluded-windows", true),
		chromedp.Flag("disable-hang-monitor", true),
		chromedp.Flag("disable-component-update", true),
		chromedp.Flag("disable-domain-reliability", true),
		chromedp.Flag("run-all-compositor-stages-before-draw", true),
		chromedp.Flag("disable-new-content-rendering-timeout", true),
	)
	if e.execPath != "" {
		opts = append(opts, chromedp.ExecPath(e.execPath))
	}

	// The allocator is rooted in Background on purpose: the browser must
	// not die with the HTTP request context. A client disconnect does not
	// abort an in-flight render; cleanup is the Renderer's job.
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithErrorf(func(format string, args ...interface{}) {
			e.log.Error().Msgf("chromedp: "+format, args...)
		}),
	)
	cancelAll := func() {
		browserCancel()
		allocCancel()
	}

	// The first Run starts the process. Bound it explicitly; a wedged
	// launch would otherwise hang the request forever.
	done := make(chan error, 1)
	go func() { done <- chromedp.Run(browserCtx) }()

	select {
	case err := <-done:
		if err != nil {
			cancelAll()
			return nil, fmt.Errorf("launch chrome: %w", err)
		}
	case <-time.After(e.cfg.LaunchTimeout):
		cancelAll()
		return nil, fmt.Errorf("launch chrome: no protocol response within %s", e.cfg.LaunchTimeout)
	case <-ctx.Done():
		cancelAll()
		return nil, ctx.Err()
	}

	return &chromeHandle{
		browserCtx:  browserCtx,
		cancel:      browserCancel,
		allocCancel: allocCancel,
		cfg:         e.cfg,
	}, nil
}

type chromeHandle struct {
	browserCtx  context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	cfg         Config
}

func (h *chromeHandle) NewTab(ctx context.Context) (Tab, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tabCtx, tabCancel := chromedp.NewContext(h.browserCtx)
	// Materialize the tab and pin the viewport before any content goes in.
	if err := chromedp.Run(tabCtx, chromedp.EmulateViewport(viewportWidth, viewportHeight)); err != nil {
		tabCancel()
		return nil, fmt.Errorf("open tab: %w", err)
	}
	return &chromeTab{ctx: tabCtx, cancel: tabCancel, cfg: h.cfg}, nil
}

func (h *chromeHandle) IsAlive() bool {
	if h.browserCtx.Err() != nil {
		return false
	}
	c := chromedp.FromContext(h.browserCtx)
	return c != nil && c.Browser != nil
}

func (h *chromeHandle) Close() {
	h.cancel()
	h.allocCancel()
}

type chromeTab struct {
	ctx    context.Context
	cancel context.CancelFunc
	cfg    Config
}

func (t *chromeTab) SetContent(ctx context.Context, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// Derived timeout aborts the protocol calls without killing the tab.
	runCtx, cancel := context.WithTimeout(t.ctx, t.cfg.ContentTimeout)
	defer cancel()

	return chromedp.Run(runCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

func (t *chromeTab) Rasterize(ctx context.Context, opts PDFOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	runCtx, cancel := context.WithTimeout(t.ctx, t.cfg.RasterTimeout)
	defer cancel()

	var buf []byte
	err := chromedp.Run(runCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		params := page.PrintToPDF().
			WithPrintBackground(true).
			WithPreferCSSPageSize(true).
			WithPaperWidth(a4WidthIn).
			WithPaperHeight(a4HeightIn).
			WithMarginTop(mmToInches(opts.MarginTopMM)).
			WithMarginRight(mmToInches(opts.MarginRightMM)).
			WithMarginBottom(mmToInches(opts.MarginBottomMM)).
			WithMarginLeft(mmToInches(opts.MarginLeftMM))
		if opts.HeaderHTML != "" {
			params = params.
				WithDisplayHeaderFooter(true).
				WithHeaderTemplate(opts.HeaderHTML).
				WithFooterTemplate("<div></div>")
		}
		data, _, err := params.Do(ctx)
		if err != nil {
			return err
		}
		buf = data
		return nil
	}))
	if err != nil {
		return nil, fmt.Errorf("print to pdf: %w", err)
	}
	return buf, nil
}

func (t *chromeTab) IsAlive() bool {
	return t.ctx.Err() == nil
}

func (t *chromeTab) Close() {
	t.cancel()
}
