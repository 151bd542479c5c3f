package selector

import (
	"strings"
	"time"

	"github.com/go-rod/rod"
	"go.uber.org/zap"
)

// Spec is an ordered list of candidate locators for one logical UI target.
// Order encodes preference: the first candidate whose element is present,
// visible and enabled wins. A Spec is never empty.
type Spec struct {
	Name       string
	Candidates []string
}

// Trail renders the attempted candidates for diagnostics.
func (s Spec) Trail() string {
	return strings.Join(s.Candidates, " | ")
}

// ElementState is derived synchronously at resolution time. An element that
// is present but not interactable counts as not found.
type ElementState struct {
	Present bool
	Visible bool
	Enabled bool
}

func (st ElementState) Interactable() bool {
	return st.Present && st.Visible && st.Enabled
}

// Resolver turns a Spec into a concrete element or a not-found outcome.
// Not-found is a normal return value, not an error: it means "this UI
// variant is not currently on screen" and callers compose fallback tiers
// on top of it. The Resolver never retries; retry policy belongs to callers.
type Resolver struct {
	timeout time.Duration
	log     *zap.Logger
}

func NewResolver(timeout time.Duration, log *zap.Logger) *Resolver {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Resolver{
		timeout: timeout,
		log:     log.Named("resolver"),
	}
}

// Resolve iterates the candidates in order and returns the first one whose
// element is present, visible and enabled. The bool result is false when the
// whole chain is exhausted.
func (r *Resolver) Resolve(page *rod.Page, spec Spec) (*rod.Element, bool) {
	for _, candidate := range spec.Candidates {
		el, err := r.lookup(page, candidate)
		if err != nil {
			continue
		}
		state := Inspect(el)
		if !state.Interactable() {
			r.log.Debug("candidate matched but not interactable",
				zap.String("target", spec.Name),
				zap.String("candidate", candidate),
				zap.Bool("visible", state.Visible),
				zap.Bool("enabled", state.Enabled))
			continue
		}
		r.log.Debug("target resolved",
			zap.String("target", spec.Name),
			zap.String("candidate", candidate))
		return el, true
	}
	r.log.Debug("target not found", zap.String("target", spec.Name), zap.String("trail", spec.Trail()))
	return nil, false
}

// Has reports whether the spec resolves without handing the element back.
func (r *Resolver) Has(page *rod.Page, spec Spec) bool {
	_, ok := r.Resolve(page, spec)
	return ok
}

// FirstByText scans elements matched by scopeSel for the first visible,
// enabled one whose trimmed text contains any of the given phrases
// (case-insensitive). Used for free-text button scans where no structural
// locator is stable enough.
func (r *Resolver) FirstByText(page *rod.Page, scopeSel string, phrases []string) (*rod.Element, bool) {
	els, err := page.Timeout(r.timeout).Elements(scopeSel)
	if err != nil {
		return nil, false
	}
	for _, el := range els {
		el = el.CancelTimeout()
		state := Inspect(el)
		if !state.Interactable() {
			continue
		}
		text, err := el.Text()
		if err != nil {
			continue
		}
		text = strings.ToLower(strings.TrimSpace(text))
		if text == "" {
			continue
		}
		for _, phrase := range phrases {
			if strings.Contains(text, phrase) {
				r.log.Debug("text scan matched",
					zap.String("scope", scopeSel),
					zap.String("text", text),
					zap.String("phrase", phrase))
				return el, true
			}
		}
	}
	return nil, false
}

// Inspect derives the ElementState of an already-located element.
func Inspect(el *rod.Element) ElementState {
	state := ElementState{Present: true}

	visible, err := el.Visible()
	if err != nil || !visible {
		return state
	}
	state.Visible = true

	if disabled, err := el.Attribute("disabled"); err == nil && disabled != nil {
		return state
	}
	if aria, err := el.Attribute("aria-disabled"); err == nil && aria != nil && strings.EqualFold(*aria, "true") {
		return state
	}
	state.Enabled = true
	return state
}

func (r *Resolver) lookup(page *rod.Page, candidate string) (*rod.Element, error) {
	scoped := page.Timeout(r.timeout)

	var el *rod.Element
	var err error
	if isXPath(candidate) {
		el, err = scoped.ElementX(strings.TrimPrefix(candidate, "xpath="))
	} else {
		el, err = scoped.Element(candidate)
	}
	if err != nil {
		return nil, err
	}
	return el.CancelTimeout(), nil
}

func isXPath(selector string) bool {
	return strings.HasPrefix(selector, "/") ||
		strings.HasPrefix(selector, "(") ||
		strings.HasPrefix(selector, "xpath=")
}
