package actions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"social-driver/internal/auth"
	"social-driver/internal/browser"
	"social-driver/internal/config"
	"social-driver/internal/diag"
	"social-driver/internal/selector"
)

// Executor runs per-resource operations against one established session.
// Every operation follows the same protocol: navigate, resolve the target,
// verify the precondition, mutate, wait a fixed settle interval, verify the
// postcondition, emit a Result.
type Executor struct {
	rt   config.Runtime
	res  *selector.Resolver
	nav  *browser.Navigator
	sink *diag.Sink
	log  *zap.Logger
}

func NewExecutor(rt config.Runtime, res *selector.Resolver, nav *browser.Navigator, sink *diag.Sink, log *zap.Logger) *Executor {
	return &Executor{
		rt:   rt,
		res:  res,
		nav:  nav,
		sink: sink,
		log:  log.Named("actions"),
	}
}

// Do dispatches one request. On failure the page state is captured to the
// diagnostic sink and the reference travels back on the Result.
func (x *Executor) Do(ctx context.Context, sess *browser.Session, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	start := time.Now()
	result, err := x.dispatch(sess, req)
	if err != nil {
		result.SnapshotRef = x.sink.Capture(sess.Page(), fmt.Sprintf("%s_%s", req.Resource, req.Operation))
		x.log.Error("operation failed",
			zap.String("resource", string(req.Resource)),
			zap.String("operation", req.Operation),
			zap.Int("item", req.ItemIndex),
			zap.Duration("took", time.Since(start)),
			zap.Error(err))
		return result, err
	}

	x.log.Info("operation completed",
		zap.String("action", result.Action),
		zap.Int("item", req.ItemIndex),
		zap.Duration("took", time.Since(start)))
	return result, nil
}

func (x *Executor) dispatch(sess *browser.Session, req Request) (Result, error) {
	switch req.Resource {
	case ResourcePost:
		switch req.Operation {
		case "like":
			return x.LikePost(sess, req.URL)
		case "comment":
			return x.CommentOnPost(sess, req.URL, req.Param("comment"))
		case "share":
			return x.SharePost(sess, req.URL, req.Param("text"))
		}
	case ResourceProfile:
		switch req.Operation {
		case "connect":
			return x.ConnectWithProfile(sess, req.URL, req.Param("message"))
		case "follow":
			return x.FollowProfile(sess, req.URL)
		case "info":
			return x.GetProfileInfo(sess, req.URL)
		}
	case ResourceFeed:
		if req.Operation == "list" {
			return x.ListFeedPosts(sess, req.URL, req.Param("count"))
		}
	}
	return Result{}, fmt.Errorf("%w: unknown operation %s.%s", ErrBadRequest, req.Resource, req.Operation)
}

// open navigates to url with the default (network settled) wait strategy
// and fails the operation when navigation or the session is unusable.
func (x *Executor) open(sess *browser.Session, url string) error {
	if err := browser.ValidateURL(url); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if !x.nav.Goto(sess.Page(), url) {
		return fmt.Errorf("page did not load: %s", url)
	}
	return x.checkAuthWall(sess)
}

// openProfile uses the looser DOM-ready wait: profile pages render usable
// content before their network traffic settles.
func (x *Executor) openProfile(sess *browser.Session, url string) error {
	if err := browser.ValidateURL(url); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if !x.nav.GotoDOMReady(sess.Page(), url) {
		return fmt.Errorf("profile page did not load: %s", url)
	}
	return x.checkAuthWall(sess)
}

// checkAuthWall distinguishes session loss from UI drift: landing on a
// login surface mid-batch is always fatal.
func (x *Executor) checkAuthWall(sess *browser.Session) error {
	if auth.IsAuthWallURL(sess.CurrentURL()) {
		return fmt.Errorf("%w (url: %s)", ErrAuthWall, sess.CurrentURL())
	}
	if x.res.Has(sess.Page(), selector.LoginSecret) {
		return fmt.Errorf("%w (login form on page %s)", ErrAuthWall, sess.CurrentURL())
	}
	return nil
}

func (x *Executor) settle() {
	time.Sleep(x.rt.SettleDelay)
}

// pageText reads the rendered body text for best-effort indicator checks.
func (x *Executor) pageText(sess *browser.Session) string {
	body, err := sess.Page().Timeout(x.rt.ElementTimeout).Element("body")
	if err != nil {
		return ""
	}
	text, err := body.CancelTimeout().Text()
	if err != nil {
		return ""
	}
	return strings.ToLower(text)
}
