package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"social-driver/internal/browser"
	"social-driver/internal/config"
	"social-driver/internal/diag"
	"social-driver/internal/selector"
)

var (
	// ErrConfiguration marks a fatal credential/config mismatch; it is never
	// retried.
	ErrConfiguration = errors.New("configuration error")

	// ErrCheckpointUnresolved means the verification flow could not be passed
	// within the depth and grace budgets.
	ErrCheckpointUnresolved = errors.New("security checkpoint unresolved")

	ErrLoginFailed = errors.New("login failed")
)

// State names for the session-establishment machine.
type State string

const (
	StateStart                State = "start"
	StateCredentialsSubmitted State = "credentials_submitted"
	StateTwoFactorPending     State = "two_factor_pending"
	StateSecurityCheckpoint   State = "security_checkpoint"
	StateAuthenticated        State = "authenticated"
	StateFailed               State = "failed"
)

// checkpointContext is the transient, recursive state carried through nested
// verification pages. It exists for diagnostics only.
type checkpointContext struct {
	url            string
	attemptedTexts []string
	attemptedFills int
	depth          int
}

// Establisher drives credential submission, two-factor and checkpoint
// branches, and certifies a logged-in state. One Establisher serves one set
// of Credentials; a Session is never shared across different Credentials.
type Establisher struct {
	creds config.Credentials
	rt    config.Runtime
	res   *selector.Resolver
	nav   *browser.Navigator
	sink  *diag.Sink
	log   *zap.Logger
}

func NewEstablisher(creds config.Credentials, rt config.Runtime, res *selector.Resolver, nav *browser.Navigator, sink *diag.Sink, log *zap.Logger) *Establisher {
	return &Establisher{
		creds: creds,
		rt:    rt,
		res:   res,
		nav:   nav,
		sink:  sink,
		log:   log.Named("auth"),
	}
}

// Login runs the state machine to Authenticated or returns the terminal
// failure. The attempted-resolution trail travels inside the error message.
func (e *Establisher) Login(ctx context.Context, sess *browser.Session) error {
	state := StateStart
	page := sess.Page()

	// Start -> CredentialsSubmitted
	loginURL := e.rt.BaseURL + "/login"
	if !e.nav.Goto(page, loginURL) {
		return fmt.Errorf("%w: login page did not load: %s", ErrLoginFailed, loginURL)
	}

	if err := e.submitCredentials(page); err != nil {
		e.sink.Capture(page, "login_submit")
		return err
	}
	state = StateCredentialsSubmitted
	e.log.Info("credentials submitted", zap.String("url", sess.CurrentURL()))

	// CredentialsSubmitted -> TwoFactorPending
	if e.res.Has(page, selector.TwoFactorInput) {
		state = StateTwoFactorPending
		if err := e.submitTwoFactor(page); err != nil {
			e.sink.Capture(page, "two_factor")
			return err
		}
		e.log.Info("two-factor code submitted", zap.String("url", sess.CurrentURL()))
	}

	// -> SecurityCheckpoint
	if IsCheckpointURL(sess.CurrentURL()) || e.res.Has(page, selector.ChallengeInput) {
		state = StateSecurityCheckpoint
		e.log.Info("security checkpoint detected", zap.String("url", sess.CurrentURL()))
		if err := e.resolveCheckpoint(ctx, sess, 0); err != nil {
			e.sink.Capture(page, "checkpoint")
			return err
		}
	}

	// -> Authenticated | Failed
	if e.IsAuthenticated(sess) {
		e.log.Info("session authenticated",
			zap.String("url", sess.CurrentURL()),
			zap.String("from_state", string(state)))
		return nil
	}

	e.sink.Capture(page, "login_failed")
	return fmt.Errorf("%w: not on an authenticated surface after %s (url: %s)",
		ErrLoginFailed, state, sess.CurrentURL())
}

// IsAuthenticated certifies a logged-in state without re-running login:
// either the URL matches a known authenticated surface or the feed landmark
// is on screen.
func (e *Establisher) IsAuthenticated(sess *browser.Session) bool {
	if IsAuthenticatedURL(sess.CurrentURL()) {
		return true
	}
	return e.res.Has(sess.Page(), selector.FeedLandmark)
}

func (e *Establisher) submitCredentials(page *rod.Page) error {
	identifier, ok := e.res.Resolve(page, selector.LoginIdentifier)
	if !ok {
		return fmt.Errorf("%w: identifier field not found (tried: %s)",
			ErrLoginFailed, selector.LoginIdentifier.Trail())
	}
	if err := fillField(identifier, e.creds.Identifier); err != nil {
		return fmt.Errorf("%w: cannot fill identifier: %v", ErrLoginFailed, err)
	}

	secret, ok := e.res.Resolve(page, selector.LoginSecret)
	if !ok {
		return fmt.Errorf("%w: secret field not found (tried: %s)",
			ErrLoginFailed, selector.LoginSecret.Trail())
	}
	if err := fillField(secret, e.creds.Secret); err != nil {
		return fmt.Errorf("%w: cannot fill secret: %v", ErrLoginFailed, err)
	}

	var trigger func() error
	if submit, ok := e.res.Resolve(page, selector.LoginSubmit); ok {
		trigger = func() error { return submit.Click(proto.InputMouseButtonLeft, 1) }
	} else {
		// No recognizable submit control; the form still reacts to Enter.
		trigger = func() error { return secret.Input("\r") }
	}
	if err := e.submitAndSettle(page, trigger); err != nil {
		return fmt.Errorf("%w: credential submit failed: %v", ErrLoginFailed, err)
	}
	return nil
}

func (e *Establisher) submitTwoFactor(page *rod.Page) error {
	if !e.creds.TwoFactorEnabled || e.creds.TwoFactorCode == "" {
		return fmt.Errorf("%w: two-factor prompt shown but no code supplied", ErrConfiguration)
	}

	input, ok := e.res.Resolve(page, selector.TwoFactorInput)
	if !ok {
		return fmt.Errorf("%w: two-factor field vanished (tried: %s)",
			ErrLoginFailed, selector.TwoFactorInput.Trail())
	}
	if err := fillField(input, e.creds.TwoFactorCode); err != nil {
		return fmt.Errorf("%w: cannot fill two-factor code: %v", ErrLoginFailed, err)
	}

	var trigger func() error
	if submit, ok := e.res.Resolve(page, selector.TwoFactorSubmit); ok {
		trigger = func() error { return submit.Click(proto.InputMouseButtonLeft, 1) }
	} else {
		trigger = func() error { return input.Input("\r") }
	}
	if err := e.submitAndSettle(page, trigger); err != nil {
		return fmt.Errorf("%w: two-factor submit failed: %v", ErrLoginFailed, err)
	}
	return nil
}

// resolveCheckpoint works through one verification page and recurses while
// the URL keeps changing but still indicates a checkpoint. Progress is
// URL change; a stuck URL means the page wants something we cannot supply.
func (e *Establisher) resolveCheckpoint(ctx context.Context, sess *browser.Session, depth int) error {
	if depth >= e.rt.CheckpointDepth {
		return fmt.Errorf("%w: gave up after %d nested checkpoint pages", ErrCheckpointUnresolved, depth)
	}

	page := sess.Page()
	cc := checkpointContext{url: sess.CurrentURL(), depth: depth}
	log := e.log.With(zap.Int("depth", depth), zap.String("url", cc.url))

	// 1. Fill whatever text inputs are on screen with the account
	// identifier; most checkpoints just re-ask who you are.
	cc.attemptedFills = e.fillTextInputs(page)

	// 2. Scan for a button carrying an affirmative verb; fall back to the
	// first enabled button from the generic chain.
	btn, ok := e.res.FirstByText(page, `button, [role="button"]`, selector.AffirmativeVerbs)
	if !ok {
		btn, ok = e.res.Resolve(page, selector.GenericButton)
	}

	clicked := false
	if ok {
		if text, err := btn.Text(); err == nil {
			cc.attemptedTexts = append(cc.attemptedTexts, strings.TrimSpace(text))
		}
		err := e.submitAndSettle(page, func() error {
			return btn.Click(proto.InputMouseButtonLeft, 1)
		})
		clicked = err == nil
	} else {
		time.Sleep(e.rt.SettleDelay)
	}

	log.Info("checkpoint attempt",
		zap.Int("inputs_filled", cc.attemptedFills),
		zap.Strings("buttons", cc.attemptedTexts),
		zap.Bool("clicked", clicked))

	postURL := sess.CurrentURL()

	if !IsCheckpointURL(postURL) && !e.res.Has(page, selector.ChallengeInput) {
		log.Info("checkpoint resolved", zap.String("post_url", postURL))
		return nil
	}

	// 4. URL moved but still a checkpoint: a nested verification page.
	if postURL != cc.url {
		return e.resolveCheckpoint(ctx, sess, depth+1)
	}

	// 5. Stuck on the same checkpoint page.
	if sess.Headless() {
		return fmt.Errorf("%w: checkpoint requires manual verification; rerun with BROWSER_HEADLESS=false and complete it in the visible browser", ErrCheckpointUnresolved)
	}

	log.Warn("waiting for manual checkpoint resolution",
		zap.Duration("grace", e.rt.CheckpointGrace))
	select {
	case <-time.After(e.rt.CheckpointGrace):
	case <-ctx.Done():
		return ctx.Err()
	}

	if !IsCheckpointURL(sess.CurrentURL()) {
		log.Info("checkpoint resolved manually", zap.String("post_url", sess.CurrentURL()))
		return nil
	}
	return fmt.Errorf("%w: still on checkpoint after %s manual grace period", ErrCheckpointUnresolved, e.rt.CheckpointGrace)
}

// fillTextInputs fills every visible, enabled free-text input with the
// account identifier and reports how many it touched.
func (e *Establisher) fillTextInputs(page *rod.Page) int {
	els, err := page.Elements(`input[type="text"], input[type="email"], input:not([type])`)
	if err != nil {
		return 0
	}
	filled := 0
	for _, el := range els {
		if !selector.Inspect(el).Interactable() {
			continue
		}
		if err := fillField(el, e.creds.Identifier); err == nil {
			filled++
		}
	}
	return filled
}

// submitAndSettle arms a navigation waiter before firing the trigger, so a
// fast post-submit navigation is not missed. A navigation that never fires
// is tolerated: the waiter gives up at the nav timeout and the page is
// simply left to settle.
func (e *Establisher) submitAndSettle(page *rod.Page, trigger func() error) error {
	scoped := page.Timeout(e.rt.NavTimeout)
	wait := scoped.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	if err := trigger(); err != nil {
		scoped.CancelTimeout()
		return err
	}
	wait()
	scoped.CancelTimeout()
	time.Sleep(e.rt.SettleDelay)
	return nil
}

func fillField(el *rod.Element, text string) error {
	if err := el.SelectAllText(); err == nil {
		_ = el.Input("")
	}
	return el.Input(text)
}
