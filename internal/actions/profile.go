package actions

import (
	"fmt"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"social-driver/internal/browser"
	"social-driver/internal/selector"
)

// ConnectWithProfile sends a connection request, optionally with a note.
// The connect control is looked up through three tiers: the structural
// chain, a free-text button scan, and only as a last resort the generic
// button chain.
func (x *Executor) ConnectWithProfile(sess *browser.Session, url, message string) (Result, error) {
	if err := x.openProfile(sess, url); err != nil {
		return Result{}, err
	}
	page := sess.Page()

	btn, tier := x.findConnectControl(page)
	if btn == nil {
		return Result{}, fmt.Errorf("%w: connect button not found (tried: %s, then text scan %v)",
			ErrUIDrift, selector.ConnectButton.Trail(), selector.ConnectTexts)
	}
	x.log.Debug("connect control resolved", zap.String("tier", tier))

	if err := btn.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return Result{}, fmt.Errorf("connect click failed: %w", err)
	}
	x.settle()

	// A note dialog may or may not appear; fill it only when a message was
	// supplied and the dialog is actually on screen.
	if message != "" {
		if noteBtn, ok := x.res.Resolve(page, selector.ConnectNoteButton); ok {
			if err := noteBtn.Click(proto.InputMouseButtonLeft, 1); err == nil {
				x.settle()
			}
		}
		if box, ok := x.res.Resolve(page, selector.ConnectNoteBox); ok {
			if err := typeInto(box, message); err != nil {
				return Result{}, fmt.Errorf("connect note input failed: %w", err)
			}
		}
	}

	if send, ok := x.res.Resolve(page, selector.ConnectSend); ok {
		if err := send.Click(proto.InputMouseButtonLeft, 1); err != nil {
			return Result{}, fmt.Errorf("connect send click failed: %w", err)
		}
		x.settle()
	}

	// Best-effort postcondition; absence of the indicator is not a failure.
	text := x.pageText(sess)
	pending := strings.Contains(text, "pending") || strings.Contains(text, "sent") ||
		strings.Contains(text, "invitation")

	return Result{
		Success: true,
		Action:  "connected",
		URL:     url,
		Data: map[string]any{
			"with_note":         message != "",
			"pending_indicator": pending,
		},
	}, nil
}

func (x *Executor) findConnectControl(page *rod.Page) (*rod.Element, string) {
	if btn, ok := x.res.Resolve(page, selector.ConnectButton); ok {
		return btn, "structural"
	}
	if btn, ok := x.res.FirstByText(page, `button, [role="button"]`, selector.ConnectTexts); ok {
		return btn, "text-scan"
	}
	if btn, ok := x.res.Resolve(page, selector.GenericButton); ok {
		return btn, "generic"
	}
	return nil, ""
}

// FollowProfile follows a profile. A missing follow control is fatal.
func (x *Executor) FollowProfile(sess *browser.Session, url string) (Result, error) {
	if err := x.openProfile(sess, url); err != nil {
		return Result{}, err
	}

	btn, ok := x.res.Resolve(sess.Page(), selector.FollowButton)
	if !ok {
		return Result{}, fmt.Errorf("%w: follow button (tried: %s)", ErrUIDrift, selector.FollowButton.Trail())
	}
	if err := btn.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return Result{}, fmt.Errorf("follow click failed: %w", err)
	}
	x.settle()

	return Result{
		Success: true,
		Action:  "followed",
		URL:     url,
	}, nil
}

// GetProfileInfo extracts the visible profile fields. Read-only: an
// auth-wall page is fatal, but a plausibly-right page with missing fields
// degrades to an annotated partial result.
func (x *Executor) GetProfileInfo(sess *browser.Session, url string) (Result, error) {
	if err := x.openProfile(sess, url); err != nil {
		return Result{}, err
	}
	page := sess.Page()

	if _, ok := x.res.Resolve(page, selector.ProfileLandmark); !ok {
		return Result{}, fmt.Errorf("%w: profile landmark (tried: %s)", ErrUIDrift, selector.ProfileLandmark.Trail())
	}

	rawHTML := ""
	if card, ok := x.res.Resolve(page, selector.ProfileTopCard); ok {
		if h, err := card.HTML(); err == nil {
			rawHTML = h
		}
	}
	if rawHTML == "" {
		if h, err := page.HTML(); err == nil {
			rawHTML = h
		}
	}

	info := parseProfileInfo(rawHTML)
	data := map[string]any{
		"name":     info.Name,
		"headline": info.Headline,
		"location": info.Location,
		"about":    info.About,
	}
	if info.Name == "" && info.Headline == "" && info.Location == "" {
		data["note"] = "limited view: profile fields not visible to this account"
	}

	return Result{
		Success: true,
		Action:  "profile_info",
		URL:     url,
		Data:    data,
	}, nil
}
