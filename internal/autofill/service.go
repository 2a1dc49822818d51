// internal/autofill/service.go
package autofill

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hfadhel/tawseel-cli/api/schemas"
	"github.com/hfadhel/tawseel-cli/internal/browser"
	"github.com/hfadhel/tawseel-cli/internal/config"
	"github.com/hfadhel/tawseel-cli/internal/dom"
	"github.com/hfadhel/tawseel-cli/internal/fill"
	"github.com/hfadhel/tawseel-cli/internal/profile"
	"github.com/hfadhel/tawseel-cli/internal/script"
)

// Service ties the pieces together: profile lookup, script packaging, and
// the two fill surfaces (in-process documents and live browser pages).
type Service struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   *profile.Store
	builder *script.Builder

	mu      sync.Mutex
	session *browser.Session
}

// NewService builds a service without a browser session. A session is
// opened lazily on the first live deployment.
func NewService(cfg *config.Config, store *profile.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cfg:     cfg,
		logger:  logger.Named("autofill"),
		store:   store,
		builder: script.NewBuilder(logger),
	}
}

// Job is one live deployment: a target order form and the record to fill
// into it. An empty ProfileID means the generic heuristic engine.
type Job struct {
	TargetURL string
	ProfileID string
	Record    schemas.Record
	Options   script.Options
}

// BuildScript packages the fill script for a record. With a profile ID the
// profile decides between a hinted generic script and a custom template;
// without one the generic heuristic engine is packaged.
func (s *Service) BuildScript(profileID string, record schemas.Record, opts script.Options) (script.Build, error) {
	if profileID == "" {
		return s.builder.Generic(record, opts)
	}
	prof, err := s.profileByID(profileID)
	if err != nil {
		return script.Build{}, err
	}
	return s.builder.ForProfile(prof, record, opts)
}

// Bookmarklet packages the fill script as a javascript: URI ready to be
// saved as a browser bookmark.
func (s *Service) Bookmarklet(profileID string, record schemas.Record, opts script.Options) (string, error) {
	build, err := s.BuildScript(profileID, record, opts)
	if err != nil {
		return "", err
	}
	return script.Bookmarklet(build.Source), nil
}

// FillDocument runs the in-process engine over a parsed HTML document. The
// origin scopes frame access the same way a browser would.
func (s *Service) FillDocument(r io.Reader, origin string, record schemas.Record, profileID string) (fill.Summary, error) {
	doc, err := dom.Parse(r, origin)
	if err != nil {
		return fill.Summary{}, fmt.Errorf("parsing document: %w", err)
	}
	orch := fill.NewOrchestrator(s.logger)
	if profileID == "" {
		return orch.Run(doc, record), nil
	}
	prof, err := s.profileByID(profileID)
	if err != nil {
		return fill.Summary{}, err
	}
	return orch.RunWithProfile(doc, record, prof), nil
}

// Deploy opens a page for the job's target, injects the packaged script and
// waits for its completion report.
func (s *Service) Deploy(ctx context.Context, job Job) (*browser.DeployResult, error) {
	target := job.TargetURL
	if job.ProfileID != "" {
		prof, err := s.profileByID(job.ProfileID)
		if err != nil {
			return nil, err
		}
		if target == "" {
			target = prof.FormURL
		}
	}
	if target == "" {
		return nil, fmt.Errorf("job has no target URL")
	}

	build, err := s.BuildScript(job.ProfileID, job.Record, job.Options)
	if err != nil {
		return nil, fmt.Errorf("packaging fill script: %w", err)
	}

	sess, err := s.ensureSession()
	if err != nil {
		return nil, err
	}
	return browser.NewDeployer(sess).Deploy(ctx, target, build.Source)
}

// DeployAll runs the jobs concurrently, each in its own page, at most limit
// at a time. The first failure cancels the remaining jobs; results of the
// jobs that did finish are returned alongside the error.
func (s *Service) DeployAll(ctx context.Context, jobs []Job, limit int) ([]*browser.DeployResult, error) {
	if limit <= 0 {
		limit = 1
	}
	results := make([]*browser.DeployResult, len(jobs))

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			res, err := s.Deploy(groupCtx, job)
			if err != nil {
				return fmt.Errorf("job %d (%s): %w", i+1, job.TargetURL, err)
			}
			results[i] = res
			return nil
		})
	}
	err := g.Wait()
	return results, err
}

// profileByID resolves a profile, tolerating a service built without a
// profile store.
func (s *Service) profileByID(id string) (schemas.CompanyProfile, error) {
	if s.store == nil {
		return schemas.CompanyProfile{}, fmt.Errorf("profile %q requested but no profiles file is loaded", id)
	}
	return s.store.Get(id)
}

// ensureSession opens the shared browser session on first use.
func (s *Service) ensureSession() (*browser.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		return s.session, nil
	}
	// The session outlives individual jobs, so it hangs off the
	// background context rather than any one job's.
	sess, err := browser.NewSession(context.Background(), s.cfg.Browser, s.logger)
	if err != nil {
		return nil, fmt.Errorf("starting browser: %w", err)
	}
	s.session = sess
	return sess, nil
}

// Close shuts the browser session down if one was opened.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		s.session.Close()
		s.session = nil
	}
}
