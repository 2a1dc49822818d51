// internal/browser/session.go

// Package browser is the live deployment surface: it owns the Chrome
// process, opens target pages, injects packaged scripts and relays the
// injected engine's progress back over a CDP binding.
package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/hfadhel/tawseel-cli/internal/config"
)

// Session owns one browser process and the allocator it was launched from.
// Pages for individual deployments are derived from it as tabs.
type Session struct {
	cfg    config.BrowserConfig
	logger *zap.Logger

	allocCtx    context.Context
	allocCancel context.CancelFunc
	browserCtx  context.Context
	browserStop context.CancelFunc
}

// NewSession launches a browser per the configuration. The parent context
// bounds the whole browser lifetime.
func NewSession(parent context.Context, cfg config.BrowserConfig, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("browser")

	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if !cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if cfg.IgnoreTLSErrors {
		opts = append(opts, chromedp.Flag("ignore-certificate-errors", true))
	}
	for _, arg := range cfg.Args {
		key, value, found := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if found {
			opts = append(opts, chromedp.Flag(key, value))
		} else {
			opts = append(opts, chromedp.Flag(key, true))
		}
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, opts...)
	browserCtx, browserStop := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			logger.Debug(fmt.Sprintf(format, args...))
		}),
		chromedp.WithErrorf(func(format string, args ...interface{}) {
			logger.Warn(fmt.Sprintf(format, args...))
		}),
	)

	// Start the browser now so launch failures surface here, not on the
	// first deployment.
	if err := chromedp.Run(browserCtx); err != nil {
		browserStop()
		allocCancel()
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	logger.Debug("Browser session started.", zap.Bool("headless", cfg.Headless))
	return &Session{
		cfg:         cfg,
		logger:      logger,
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		browserCtx:  browserCtx,
		browserStop: browserStop,
	}, nil
}

// NewPage opens a fresh tab and returns its chromedp context. The caller
// owns the cancel.
func (s *Session) NewPage() (context.Context, context.CancelFunc) {
	return chromedp.NewContext(s.browserCtx)
}

// Config returns the browser configuration the session was built with.
func (s *Session) Config() config.BrowserConfig { return s.cfg }

// Logger returns the session's named logger.
func (s *Session) Logger() *zap.Logger { return s.logger }

// Close shuts the browser down.
func (s *Session) Close() {
	s.browserStop()
	s.allocCancel()
	s.logger.Debug("Browser session closed.")
}

// Navigate loads targetURL in the page, bounded by timeout and by the
// operational context.
func Navigate(ctx, page context.Context, targetURL string, timeout time.Duration) error {
	combined, cancel := CombineContext(page, ctx)
	defer cancel()
	navCtx, cancelNav := context.WithTimeout(combined, timeout)
	defer cancelNav()
	if err := chromedp.Run(navCtx, chromedp.Navigate(targetURL)); err != nil {
		return fmt.Errorf("navigating to %s: %w", targetURL, err)
	}
	return nil
}

// CombineContext derives a context from the chromedp context cdpCtx that is
// additionally canceled when op is. CDP target information travels in
// context values, so operational deadlines must be layered onto the CDP
// context rather than the other way around.
func CombineContext(cdpCtx, op context.Context) (context.Context, context.CancelFunc) {
	combined, cancel := context.WithCancel(cdpCtx)
	go func() {
		select {
		case <-op.Done():
			cancel()
		case <-combined.Done():
		}
	}()
	return combined, cancel
}
