package browser

import (
	"time"

	"github.com/go-rod/rod"
	"go.uber.org/zap"
)

// Navigator wraps page loads with bounded retries. It reports success as a
// boolean rather than an error so callers decide whether a dead navigation
// is fatal for their operation.
type Navigator struct {
	attempts int
	timeout  time.Duration
	delay    time.Duration
	log      *zap.Logger
}

func NewNavigator(attempts int, timeout time.Duration, log *zap.Logger) *Navigator {
	if attempts <= 0 {
		attempts = 3
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Navigator{
		attempts: attempts,
		timeout:  timeout,
		delay:    2 * time.Second,
		log:      log.Named("navigator"),
	}
}

// Goto loads url and waits for the network to settle. Retries up to the
// configured attempt count with a fixed delay between attempts.
func (n *Navigator) Goto(page *rod.Page, url string) bool {
	return n.navigate(page, url, true)
}

// GotoDOMReady loads url but only waits for the load event, not network
// idle. Profile pages render usable content long before their background
// traffic settles, so the looser wait avoids burning the whole nav timeout.
func (n *Navigator) GotoDOMReady(page *rod.Page, url string) bool {
	return n.navigate(page, url, false)
}

func (n *Navigator) navigate(page *rod.Page, url string, waitIdle bool) bool {
	if err := ValidateURL(url); err != nil {
		n.log.Warn("navigation rejected", zap.String("url", url), zap.Error(err))
		return false
	}

	for attempt := 1; attempt <= n.attempts; attempt++ {
		scoped := page.Timeout(n.timeout)
		err := scoped.Navigate(url)
		if err == nil {
			err = scoped.WaitLoad()
		}
		scoped.CancelTimeout()
		if err == nil {
			if waitIdle {
				// Best effort: a page that never goes idle is still usable.
				_ = page.WaitIdle(n.timeout)
			}
			return true
		}

		n.log.Warn("navigation attempt failed",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", n.attempts),
			zap.Error(err))
		if attempt < n.attempts {
			time.Sleep(n.delay)
		}
	}
	return false
}
