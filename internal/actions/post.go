package actions

import (
	"fmt"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"social-driver/internal/browser"
	"social-driver/internal/selector"
)

// LikePost likes a post. Idempotent: a target already marked liked
// short-circuits as success without a second mutation.
func (x *Executor) LikePost(sess *browser.Session, url string) (Result, error) {
	if err := x.open(sess, url); err != nil {
		return Result{}, err
	}

	btn, ok := x.res.Resolve(sess.Page(), selector.LikeButton)
	if !ok {
		return Result{}, fmt.Errorf("%w: like button (tried: %s)", ErrUIDrift, selector.LikeButton.Trail())
	}

	if likePressed(btn) {
		return Result{
			Success: true,
			Action:  "liked",
			URL:     url,
			Data:    map[string]any{"already_liked": true},
		}, nil
	}

	if err := btn.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return Result{}, fmt.Errorf("like click failed: %w", err)
	}
	x.settle()

	// The control re-renders after the click, so resolve it again instead of
	// trusting the stale handle.
	btn, ok = x.res.Resolve(sess.Page(), selector.LikeButton)
	if !ok {
		return Result{}, fmt.Errorf("%w: like button gone after click", ErrUIDrift)
	}
	if !likePressed(btn) {
		return Result{}, fmt.Errorf("like did not register on %s", url)
	}

	return Result{
		Success: true,
		Action:  "liked",
		URL:     url,
		Data:    map[string]any{"already_liked": false},
	}, nil
}

// CommentOnPost opens the comment panel, types the text and submits it.
func (x *Executor) CommentOnPost(sess *browser.Session, url, text string) (Result, error) {
	if text == "" {
		return Result{}, fmt.Errorf("%w: comment text is required", ErrBadRequest)
	}
	if err := x.open(sess, url); err != nil {
		return Result{}, err
	}
	page := sess.Page()

	trigger, ok := x.res.Resolve(page, selector.CommentTrigger)
	if !ok {
		return Result{}, fmt.Errorf("%w: comment trigger (tried: %s)", ErrUIDrift, selector.CommentTrigger.Trail())
	}
	if err := trigger.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return Result{}, fmt.Errorf("comment trigger click failed: %w", err)
	}
	x.settle()

	box, ok := x.res.Resolve(page, selector.CommentBox)
	if !ok {
		return Result{}, fmt.Errorf("%w: comment box missing after opening panel (tried: %s)", ErrUIDrift, selector.CommentBox.Trail())
	}
	if err := typeInto(box, text); err != nil {
		return Result{}, fmt.Errorf("comment input failed: %w", err)
	}

	submit, ok := x.res.Resolve(page, selector.CommentSubmit)
	if !ok {
		return Result{}, fmt.Errorf("%w: comment submit missing after opening panel (tried: %s)", ErrUIDrift, selector.CommentSubmit.Trail())
	}
	if err := submit.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return Result{}, fmt.Errorf("comment submit click failed: %w", err)
	}
	x.settle()

	return Result{
		Success: true,
		Action:  "commented",
		URL:     url,
		Data:    map[string]any{"comment": text},
	}, nil
}

// SharePost reposts a post, optionally with text.
func (x *Executor) SharePost(sess *browser.Session, url, text string) (Result, error) {
	if err := x.open(sess, url); err != nil {
		return Result{}, err
	}
	page := sess.Page()

	trigger, ok := x.res.Resolve(page, selector.ShareTrigger)
	if !ok {
		return Result{}, fmt.Errorf("%w: share trigger (tried: %s)", ErrUIDrift, selector.ShareTrigger.Trail())
	}
	if err := trigger.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return Result{}, fmt.Errorf("share trigger click failed: %w", err)
	}
	x.settle()

	if text != "" {
		if box, ok := x.res.Resolve(page, selector.ShareBox); ok {
			if err := typeInto(box, text); err != nil {
				return Result{}, fmt.Errorf("share text input failed: %w", err)
			}
		}
	}

	submit, ok := x.res.Resolve(page, selector.ShareSubmit)
	if !ok {
		return Result{}, fmt.Errorf("%w: share dialog missing (tried: %s)", ErrUIDrift, selector.ShareSubmit.Trail())
	}
	if err := submit.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return Result{}, fmt.Errorf("share submit click failed: %w", err)
	}
	x.settle()

	return Result{
		Success: true,
		Action:  "shared",
		URL:     url,
		Data:    map[string]any{"with_text": text != ""},
	}, nil
}

// likePressed reads the observable pressed state instead of trusting the
// click to have landed.
func likePressed(el *rod.Element) bool {
	if pressed, err := el.Attribute("aria-pressed"); err == nil && pressed != nil && strings.EqualFold(*pressed, "true") {
		return true
	}
	if class, err := el.Attribute("class"); err == nil && class != nil {
		c := strings.ToLower(*class)
		if strings.Contains(c, "active") || strings.Contains(c, "reacted") {
			return true
		}
	}
	return false
}

func typeInto(el *rod.Element, text string) error {
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return err
	}
	if err := el.SelectAllText(); err == nil {
		_ = el.Input("")
	}
	return el.Input(text)
}
