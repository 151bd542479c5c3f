package browser

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

var (
	ErrSessionClosed = errors.New("browser session is closed")
	ErrInvalidURL    = errors.New("invalid url: only http and https are allowed")
)

// Config holds the launch parameters for one browser session.
type Config struct {
	Headless   bool
	SlowMotion time.Duration
	Timeout    time.Duration
	NoSandbox  bool
	ProfileDir string
}

func DefaultConfig() Config {
	return Config{
		Headless:   true,
		SlowMotion: 0,
		Timeout:    10 * time.Second,
		NoSandbox:  false,
	}
}

// Session owns one browser and one page for the lifetime of a batch run.
// It is exclusively owned by the caller that created it and must be released
// with Close on every exit path; Close is safe to call more than once.
type Session struct {
	browser       *rod.Browser
	launcher      *launcher.Launcher
	page          *rod.Page
	establishedAt time.Time
	timeout       time.Duration
	headless      bool

	closeOnce sync.Once
	closed    bool
}

func NewSession(cfg Config) (*Session, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox).
		Delete("use-mock-keychain").
		Set("disable-setuid-sandbox")

	// Keeping the profile dir keeps cookies, so a rerun can skip the
	// login flow entirely when the stored session is still valid.
	if cfg.ProfileDir != "" {
		l = l.UserDataDir(cfg.ProfileDir)
	}

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().ControlURL(url)
	if cfg.SlowMotion > 0 {
		b = b.SlowMotion(cfg.SlowMotion)
	}
	if err := b.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = b.Close()
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &Session{
		browser:       b,
		launcher:      l,
		page:          page,
		establishedAt: time.Now(),
		timeout:       cfg.Timeout,
		headless:      cfg.Headless,
	}, nil
}

func (s *Session) Page() *rod.Page          { return s.page }
func (s *Session) Timeout() time.Duration   { return s.timeout }
func (s *Session) Headless() bool           { return s.headless }
func (s *Session) EstablishedAt() time.Time { return s.establishedAt }

func (s *Session) IsReady() bool {
	return !s.closed && s.browser != nil
}

// CurrentURL reads the page URL without waiting.
func (s *Session) CurrentURL() string {
	if s.closed {
		return ""
	}
	info, err := s.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

// Close releases the browser and kills the launched process exactly once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed = true
		if s.browser != nil {
			_ = s.browser.Close()
		}
		if s.launcher != nil {
			s.launcher.Kill()
			s.launcher.Cleanup()
		}
	})
}

// ValidateURL rejects anything that is not plain http(s), mirroring the
// navigation guard the driver applies before every page load.
func ValidateURL(url string) error {
	if url == "" {
		return ErrInvalidURL
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return ErrInvalidURL
	}
	return nil
}
