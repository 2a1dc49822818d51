// internal/fill/watcher.go
package fill

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hfadhel/tawseel-cli/internal/dom"
)

// Watch re-runs candidate discovery on an interval and invokes onChange
// whenever the number of discovered fields differs from the previous
// snapshot. Host pages frequently render their form after initial load, so a
// one-shot discovery at injection time would miss late fields.
//
// The discover function is supplied by the caller so the same watcher serves
// a parsed document and a live browser page alike. The returned stop
// function halts observation; it is idempotent and blocks until the watch
// goroutine has exited.
func Watch(discover func() []*dom.Field, interval time.Duration, onChange func([]*dom.Field), logger *zap.Logger) (stop func()) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("watcher")

	done := make(chan struct{})
	finished := make(chan struct{})
	var once sync.Once

	// The baseline snapshot is taken before the goroutine starts, so a
	// change landing between Watch returning and the first tick is still
	// reported rather than absorbed into the baseline.
	previous := len(discover())

	go func() {
		defer close(finished)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fields := discover()
				if len(fields) == previous {
					continue
				}
				logger.Debug("Candidate set changed.",
					zap.Int("was", previous),
					zap.Int("now", len(fields)))
				previous = len(fields)
				onChange(fields)
			}
		}
	}()

	return func() {
		once.Do(func() { close(done) })
		<-finished
	}
}

// WatchDocument is the document-bound convenience form of Watch.
func WatchDocument(doc *dom.Document, interval time.Duration, onChange func([]*dom.Field), logger *zap.Logger) (stop func()) {
	return Watch(func() []*dom.Field { return dom.Discover(doc) }, interval, onChange, logger)
}
