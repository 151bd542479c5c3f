package diag

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"social-driver/internal/browser"
)

func newSinkSession(t *testing.T) *browser.Session {
	t.Helper()
	cfg := browser.DefaultConfig()
	cfg.Headless = true
	cfg.Timeout = 2 * time.Second

	sess, err := browser.NewSession(cfg)
	require.NoError(t, err)
	t.Cleanup(sess.Close)
	return sess
}

func TestCapture_WritesScreenshotAndHTML(t *testing.T) {
	dir := t.TempDir()
	sink := NewSink(dir, zap.NewNop())
	sess := newSinkSession(t)

	base := sink.Capture(sess.Page(), "login failed")
	require.NotEmpty(t, base)
	assert.Contains(t, base, "login_failed")

	for _, ext := range []string{".jpg", ".html"} {
		_, err := os.Stat(filepath.Join(dir, base+ext))
		assert.NoError(t, err, base+ext)
	}
}

func TestCapture_NilPage(t *testing.T) {
	sink := NewSink(t.TempDir(), zap.NewNop())
	assert.Empty(t, sink.Capture(nil, "anything"))
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"post like", "post_like"},
		{"profile/connect!", "profile_connect"},
		{"___", "operation"},
		{"", "operation"},
		{"ok-name_1", "ok-name_1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitize(tt.in), tt.in)
	}
}
