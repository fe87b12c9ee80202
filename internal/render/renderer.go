package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/avaliafacil/pdf-service/internal/metrics"
)

var (
	// ErrEngineUnavailable means the engine process could not be acquired
	// after all launch attempts.
	ErrEngineUnavailable = errors.New("render engine unavailable")
	// ErrEngineDied means a liveness checkpoint found the process or a tab
	// dead mid-request. Never retried: tabs are not replaceable once the
	// request is underway.
	ErrEngineDied = errors.New("render engine died")
)

// RetryPolicy bounds one retried pipeline step.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// Config tunes the render protocol. All waits exist because the engine is an
// external process with no reliable readiness signal; the settle delays are
// a deliberate simplicity trade-off over active layout polling.
type Config struct {
	LaunchAttempts    int
	LaunchRetryDelay  time.Duration
	LaunchTimeout     time.Duration
	LaunchSettle      time.Duration
	TabSettle         time.Duration
	ContentAttempts   int
	ContentRetryDelay time.Duration
	ContentTimeout    time.Duration
	RasterTimeout     time.Duration
	SettleDelay       time.Duration
}

// DefaultConfig mirrors the production defaults: 3 attempts with 2s backoff
// for launch and content injection, minutes-scale step timeouts, 5s settle
// before rasterization.
func DefaultConfig() Config {
	return Config{
		LaunchAttempts:    3,
		LaunchRetryDelay:  2 * time.Second,
		LaunchTimeout:     5 * time.Minute,
		LaunchSettle:      3 * time.Second,
		TabSettle:         2 * time.Second,
		ContentAttempts:   3,
		ContentRetryDelay: 2 * time.Second,
		ContentTimeout:    3 * time.Minute,
		RasterTimeout:     3 * time.Minute,
		SettleDelay:       5 * time.Second,
	}
}

// ─── Per-step retry state machine ───────────────────────────────────────────

type stepState int

const (
	stateIdle stepState = iota
	stateAttempting
	stateSucceeded
	stateFailedRetryable
	stateFailedFatal
)

// step tracks one retried protocol step. A step ends Succeeded or
// FailedFatal; FailedRetryable is the transient state between attempts.
type step struct {
	name    string
	policy  RetryPolicy
	state   stepState
	attempt int
	lastErr error
}

func newStep(name string, policy RetryPolicy) *step {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &step{name: name, policy: policy}
}

// run drives fn through the state machine. An ErrEngineDied from fn is fatal
// immediately regardless of remaining attempts.
func (s *step) run(ctx context.Context, log zerolog.Logger, fn func() error) error {
	for {
		s.state = stateAttempting
		s.attempt++

		err := fn()
		if err == nil {
			s.state = stateSucceeded
			return nil
		}
		s.lastErr = err

		if errors.Is(err, ErrEngineDied) || s.attempt >= s.policy.MaxAttempts {
			s.state = stateFailedFatal
			return err
		}

		s.state = stateFailedRetryable
		metrics.RenderRetries.WithLabelValues(s.name).Inc()
		log.Warn().
			Err(err).
			Str("step", s.name).
			Int("attempt", s.attempt).
			Int("max_attempts", s.policy.MaxAttempts).
			Msg("render step failed, retrying")

		if err := sleep(ctx, s.policy.Delay); err != nil {
			s.state = stateFailedFatal
			return err
		}
	}
}

// ─── Renderer ───────────────────────────────────────────────────────────────

// Document is one composed HTML document plus its rasterization options.
type Document struct {
	HTML    string
	Options PDFOptions
}

// Renderer runs the full two-document render protocol against an Engine:
// bounded acquisition retry, liveness checkpoints, content-injection retry,
// settle delays, strictly sequential cover-then-questions rendering, and
// unconditional cleanup.
type Renderer struct {
	engine Engine
	cfg    Config
	log    zerolog.Logger
}

// NewRenderer creates a Renderer over the given engine.
func NewRenderer(engine Engine, cfg Config, log zerolog.Logger) *Renderer {
	return &Renderer{engine: engine, cfg: cfg, log: log}
}

// Render rasterizes the cover document and then the questions document
// inside one engine process, returning the two PDF fragments. The cover is
// always fully rendered before questions work begins. All resources are
// closed before Render returns, success or not; close failures are logged
// and never replace the primary error.
func (r *Renderer) Render(ctx context.Context, cover, questions Document) (coverPDF, questionsPDF []byte, err error) {
	handle, err := r.acquire(ctx)
	if err != nil {
		return nil, nil, err
	}

	var tabs []Tab
	defer func() {
		for _, t := range tabs {
			r.closeQuietly("tab", t.Close)
		}
		r.closeQuietly("engine", handle.Close)
	}()

	// Give the fresh process a moment before opening tabs.
	if err := sleep(ctx, r.cfg.LaunchSettle); err != nil {
		return nil, nil, err
	}
	if !handle.IsAlive() {
		return nil, nil, fmt.Errorf("%w: process gone after launch", ErrEngineDied)
	}

	coverPDF, coverTab, err := r.renderDocument(ctx, handle, "cover", cover)
	if coverTab != nil {
		tabs = append(tabs, coverTab)
	}
	if err != nil {
		return nil, nil, err
	}

	questionsPDF, questionsTab, err := r.renderDocument(ctx, handle, "questions", questions)
	if questionsTab != nil {
		tabs = append(tabs, questionsTab)
	}
	if err != nil {
		return nil, nil, err
	}

	return coverPDF, questionsPDF, nil
}

// acquire launches the engine with bounded retry and fixed backoff.
func (r *Renderer) acquire(ctx context.Context) (Handle, error) {
	st := newStep("acquire", RetryPolicy{MaxAttempts: r.cfg.LaunchAttempts, Delay: r.cfg.LaunchRetryDelay})

	var handle Handle
	err := st.run(ctx, r.log, func() error {
		r.log.Info().Int("attempt", st.attempt).Int("max_attempts", st.policy.MaxAttempts).Msg("acquiring render engine")
		h, err := r.engine.Acquire(ctx)
		if err != nil {
			return err
		}
		handle = h
		return nil
	})
	if err != nil {
		metrics.RenderFailures.WithLabelValues("acquire").Inc()
		return nil, fmt.Errorf("%w after %d attempts: %v", ErrEngineUnavailable, st.attempt, err)
	}
	r.log.Info().Msg("render engine acquired")
	return handle, nil
}

// renderDocument opens a tab, injects the document with retry, waits for
// layout to settle, and rasterizes it. The tab is returned even on failure
// so the caller can close it in the final cleanup phase.
func (r *Renderer) renderDocument(ctx context.Context, handle Handle, name string, doc Document) ([]byte, Tab, error) {
	if !handle.IsAlive() {
		return nil, nil, fmt.Errorf("%w: before opening %s tab", ErrEngineDied, name)
	}

	tab, err := handle.NewTab(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s tab: %w", name, err)
	}
	if err := sleep(ctx, r.cfg.TabSettle); err != nil {
		return nil, tab, err
	}

	st := newStep(name+" content", RetryPolicy{MaxAttempts: r.cfg.ContentAttempts, Delay: r.cfg.ContentRetryDelay})
	err = st.run(ctx, r.log, func() error {
		// Liveness checkpoint before every injection attempt. A dead tab
		// or process fails the request outright.
		if !tab.IsAlive() || !handle.IsAlive() {
			return fmt.Errorf("%w: before %s content injection", ErrEngineDied, name)
		}
		return tab.SetContent(ctx, doc.HTML)
	})
	if err != nil {
		metrics.RenderFailures.WithLabelValues("content").Inc()
		return nil, tab, fmt.Errorf("set %s content (attempt %d/%d): %w", name, st.attempt, st.policy.MaxAttempts, err)
	}

	// Fixed grace period so asynchronous layout and image decoding finish.
	// There is no "layout done" signal worth trusting here.
	if err := sleep(ctx, r.cfg.SettleDelay); err != nil {
		return nil, tab, err
	}

	if !tab.IsAlive() || !handle.IsAlive() {
		metrics.RenderFailures.WithLabelValues("liveness").Inc()
		return nil, tab, fmt.Errorf("%w: before %s rasterization", ErrEngineDied, name)
	}

	pdf, err := tab.Rasterize(ctx, doc.Options)
	if err != nil {
		metrics.RenderFailures.WithLabelValues("rasterize").Inc()
		return nil, tab, fmt.Errorf("rasterize %s: %w", name, err)
	}

	r.log.Info().Str("document", name).Int("bytes", len(pdf)).Msg("fragment rendered")
	return pdf, tab, nil
}

// closeQuietly runs a close function, swallowing and logging anything it
// throws. Cleanup must never mask the primary error or crash the request.
func (r *Renderer) closeQuietly(what string, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Warn().Interface("panic", rec).Str("resource", what).Msg("ignored failure while closing render resource")
		}
	}()
	fn()
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
