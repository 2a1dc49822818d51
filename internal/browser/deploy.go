// internal/browser/deploy.go
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hfadhel/tawseel-cli/api/schemas"
)

// ErrInjectionDenied marks a script injection that failed inside the target
// page. Unlike a cross-origin iframe during discovery, this is the primary
// path the feature depends on, so it is a reported failure rather than a
// silent skip.
var ErrInjectionDenied = errors.New("browser: script injection failed")

// DeployResult is what came back from one injected script run.
type DeployResult struct {
	WindowName  string
	FilledCount int
	FoundCount  int
	Fields      []string
	Messages    []schemas.ProgressMessage
}

// Deployer opens target pages and runs packaged scripts in them.
type Deployer struct {
	session *Session
	logger  *zap.Logger
}

// NewDeployer creates a deployer over a running session.
func NewDeployer(session *Session) *Deployer {
	return &Deployer{
		session: session,
		logger:  session.Logger().Named("deployer"),
	}
}

// Deploy opens the target URL in a fresh named window, waits for it to
// become ready, injects the packaged script after the configured settle
// delay and then waits for the injected engine to report completion.
//
// Readiness is polled on the configured interval up to the configured
// ceiling; the settle delay absorbs post-load async rendering before
// injection. Every wait is bounded so a dead page cannot hang the caller.
func (d *Deployer) Deploy(ctx context.Context, targetURL, source string) (*DeployResult, error) {
	cfg := d.session.Config()
	windowName := "tawseel-" + uuid.NewString()
	logger := d.logger.With(zap.String("window", windowName))

	pageCtx, cancelPage := d.session.NewPage()
	defer cancelPage()
	runCtx, cancelRun := CombineContext(pageCtx, ctx)
	defer cancelRun()

	messages := make(chan schemas.ProgressMessage, 64)
	chromedp.ListenTarget(runCtx, func(ev interface{}) {
		binding, ok := ev.(*runtime.EventBindingCalled)
		if !ok || binding.Name != relayBinding {
			return
		}
		msg, ok := decodeProgress(binding.Payload, logger)
		if !ok {
			return
		}
		select {
		case messages <- msg:
		default:
			logger.Debug("Progress buffer full, dropping message.",
				zap.String("type", string(msg.Type)))
		}
	})

	navCtx, cancelNav := context.WithTimeout(runCtx, cfg.NavigationTimeout)
	defer cancelNav()
	err := chromedp.Run(navCtx,
		chromedp.ActionFunc(func(c context.Context) error {
			return runtime.AddBinding(relayBinding).Do(c)
		}),
		chromedp.ActionFunc(func(c context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument("window.name = " + jsEncode(windowName) + ";").Do(c)
			return err
		}),
		chromedp.Navigate(targetURL),
	)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", targetURL, err)
	}

	if err := d.waitReady(runCtx); err != nil {
		return nil, err
	}

	logger.Debug("Page ready, settling before injection.",
		zap.Duration("settle", cfg.SettleDelay))
	select {
	case <-time.After(cfg.SettleDelay):
	case <-runCtx.Done():
		return nil, runCtx.Err()
	}

	if err := d.inject(runCtx, source); err != nil {
		return nil, err
	}

	result := &DeployResult{WindowName: windowName}
	if err := d.await(runCtx, messages, result); err != nil {
		return result, err
	}

	logger.Info("Deployment complete.",
		zap.Int("filled", result.FilledCount),
		zap.Int("found", result.FoundCount))
	return result, nil
}

// waitReady polls document.readyState until the page reports complete.
func (d *Deployer) waitReady(ctx context.Context) error {
	cfg := d.session.Config()
	deadline := time.Now().Add(cfg.ReadyTimeout)
	for {
		var state string
		if err := chromedp.Run(ctx, chromedp.Evaluate("document.readyState", &state)); err != nil {
			return fmt.Errorf("reading page state: %w", err)
		}
		if state == "complete" {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("page did not become ready within %s", cfg.ReadyTimeout)
		}
		select {
		case <-time.After(cfg.ReadyPollInterval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// inject appends a <script> element carrying the packaged source to the
// target document's head.
func (d *Deployer) inject(ctx context.Context, source string) error {
	injection := fmt.Sprintf(`(function () {
		var el = document.createElement('script');
		el.textContent = %s;
		(document.head || document.documentElement).appendChild(el);
		return true;
	})()`, jsEncode(source))

	var ok bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(injection, &ok)); err != nil {
		return fmt.Errorf("%w: %v", ErrInjectionDenied, err)
	}
	if !ok {
		return ErrInjectionDenied
	}
	return nil
}

// await drains progress messages until the injected engine reports
// completion or an error, or the ready ceiling elapses.
func (d *Deployer) await(ctx context.Context, messages <-chan schemas.ProgressMessage, result *DeployResult) error {
	cfg := d.session.Config()
	deadline := time.NewTimer(cfg.ReadyTimeout)
	defer deadline.Stop()

	for {
		select {
		case msg := <-messages:
			result.Messages = append(result.Messages, msg)
			switch msg.Type {
			case schemas.MessageSimulationComplete:
				result.FilledCount = msg.FilledCount
				result.FoundCount = msg.FoundCount
				result.Fields = msg.Fields
				return nil
			case schemas.MessageSimulationError:
				return fmt.Errorf("injected script failed: %s", msg.Error)
			}
		case <-deadline.C:
			return fmt.Errorf("no completion report within %s", cfg.ReadyTimeout)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func jsEncode(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return `""`
	}
	return string(data)
}
