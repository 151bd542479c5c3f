package runner

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"social-driver/internal/actions"
	"social-driver/internal/auth"
	"social-driver/internal/browser"
	"social-driver/internal/config"
	"social-driver/internal/diag"
	"social-driver/internal/selector"
)

// ItemResult correlates one outcome to its work item: either a Result or an
// error record, never both.
type ItemResult struct {
	ItemIndex int             `json:"item_index"`
	Result    *actions.Result `json:"result,omitempty"`
	Err       string          `json:"error,omitempty"`
}

// Batch processes a list of work items against one shared session. Items run
// strictly sequentially: the page is a single mutable resource and cannot be
// driven concurrently.
type Batch struct {
	cfg *config.Config
	log *zap.Logger
}

func New(cfg *config.Config, log *zap.Logger) *Batch {
	return &Batch{cfg: cfg, log: log.Named("runner")}
}

// Run establishes the session, authenticates once, and executes all
// requests. The session is released exactly once on every path out of here.
// With continueOnFail, per-item failures become error records and the batch
// keeps going; otherwise the first failure aborts.
func (b *Batch) Run(ctx context.Context, requests []actions.Request, continueOnFail bool) ([]ItemResult, error) {
	browserCfg := browser.DefaultConfig()
	browserCfg.Headless = b.cfg.Credentials.Headless
	browserCfg.Timeout = b.cfg.Runtime.ElementTimeout
	if b.cfg.Credentials.PersistCookies {
		browserCfg.ProfileDir = b.cfg.Runtime.ProfileDir
	}

	sess, err := browser.NewSession(browserCfg)
	if err != nil {
		return nil, fmt.Errorf("session setup failed: %w", err)
	}
	defer sess.Close()

	return b.RunWithSession(ctx, sess, requests, continueOnFail)
}

// RunWithSession runs the batch against an already-created session. The
// caller keeps ownership of the session.
func (b *Batch) RunWithSession(ctx context.Context, sess *browser.Session, requests []actions.Request, continueOnFail bool) ([]ItemResult, error) {
	res := selector.NewResolver(b.cfg.Runtime.ElementTimeout, b.log)
	nav := browser.NewNavigator(b.cfg.Runtime.NavAttempts, b.cfg.Runtime.NavTimeout, b.log)
	sink := diag.NewSink(b.cfg.Runtime.SnapshotDir, b.log)

	establisher := auth.NewEstablisher(b.cfg.Credentials, b.cfg.Runtime, res, nav, sink, b.log)
	if !establisher.IsAuthenticated(sess) {
		if err := establisher.Login(ctx, sess); err != nil {
			return nil, err
		}
	}

	exec := actions.NewExecutor(b.cfg.Runtime, res, nav, sink, b.log)

	results := make([]ItemResult, 0, len(requests))
	for i, req := range requests {
		if req.ItemIndex == 0 {
			req.ItemIndex = i
		}
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result, err := exec.Do(ctx, sess, req)
		if err != nil {
			if !continueOnFail {
				return results, fmt.Errorf("item %d (%s.%s): %w", req.ItemIndex, req.Resource, req.Operation, err)
			}
			results = append(results, ItemResult{ItemIndex: req.ItemIndex, Err: err.Error()})
			continue
		}
		r := result
		results = append(results, ItemResult{ItemIndex: req.ItemIndex, Result: &r})
	}
	return results, nil
}
