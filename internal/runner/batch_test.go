package runner

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"social-driver/internal/actions"
	"social-driver/internal/browser"
	"social-driver/internal/config"
)

const loginPage = `<!DOCTYPE html>
<html><body>
	<form method="post" action="/login-submit">
		<input id="username" name="session_key" type="text" />
		<input id="password" name="session_password" type="password" />
		<button type="submit">Sign in</button>
	</form>
</body></html>`

const feedPage = `<!DOCTYPE html>
<html><body>
	<div id="global-nav">nav</div>
	<main>feed content</main>
</body></html>`

const likePage = `<!DOCTYPE html>
<html><body>
	<button aria-label="React Like" aria-pressed="false"
		onclick="this.setAttribute('aria-pressed','true')">Like</button>
</body></html>`

// batchServer serves a minimal login flow plus one likeable and one drifted
// post surface.
func batchServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var loginHits atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		loginHits.Add(1)
		fmt.Fprint(w, loginPage)
	})
	mux.HandleFunc("/login-submit", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/feed", http.StatusFound)
	})
	mux.HandleFunc("/feed", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feedPage)
	})
	mux.HandleFunc("/posts/1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, likePage)
	})
	mux.HandleFunc("/posts/drifted", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<!DOCTYPE html><html><body><p>no controls here</p></body></html>`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &loginHits
}

func newBatch(t *testing.T, baseURL string) *Batch {
	t.Helper()
	rt := config.DefaultRuntime()
	rt.BaseURL = baseURL
	rt.NavTimeout = 5 * time.Second
	rt.NavAttempts = 1
	rt.ElementTimeout = 500 * time.Millisecond
	rt.SettleDelay = 200 * time.Millisecond
	rt.SnapshotDir = t.TempDir()

	cfg := &config.Config{
		Credentials: config.Credentials{
			Identifier: "user@example.test",
			Secret:     "secret",
			Headless:   true,
		},
		Runtime: rt,
	}
	return New(cfg, zap.NewNop())
}

func newBatchSession(t *testing.T) *browser.Session {
	t.Helper()
	cfg := browser.DefaultConfig()
	cfg.Headless = true
	cfg.Timeout = 2 * time.Second

	sess, err := browser.NewSession(cfg)
	require.NoError(t, err)
	t.Cleanup(sess.Close)
	return sess
}

func TestRunWithSession_LoginThenExecute(t *testing.T) {
	server, loginHits := batchServer(t)
	sess := newBatchSession(t)
	b := newBatch(t, server.URL)

	requests := []actions.Request{
		{Resource: actions.ResourcePost, Operation: "like", URL: server.URL + "/posts/1"},
	}

	results, err := b.RunWithSession(context.Background(), sess, requests, false)
	require.NoError(t, err)

	assert.Equal(t, int32(1), loginHits.Load())
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].ItemIndex)
	assert.Empty(t, results[0].Err)
	require.NotNil(t, results[0].Result)
	assert.True(t, results[0].Result.Success)
	assert.Equal(t, "liked", results[0].Result.Action)
}

func TestRunWithSession_SkipsLoginWhenAlreadyAuthenticated(t *testing.T) {
	server, loginHits := batchServer(t)
	sess := newBatchSession(t)
	b := newBatch(t, server.URL)

	nav := browser.NewNavigator(1, 5*time.Second, zap.NewNop())
	require.True(t, nav.Goto(sess.Page(), server.URL+"/feed"))

	results, err := b.RunWithSession(context.Background(), sess, nil, false)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, int32(0), loginHits.Load())
}

func TestRunWithSession_ContinueOnFailRecordsAndKeepsGoing(t *testing.T) {
	server, _ := batchServer(t)
	sess := newBatchSession(t)
	b := newBatch(t, server.URL)

	requests := []actions.Request{
		{Resource: actions.ResourcePost, Operation: "like", URL: server.URL + "/posts/drifted"},
		{Resource: actions.ResourcePost, Operation: "like", URL: server.URL + "/posts/1", ItemIndex: 1},
	}

	results, err := b.RunWithSession(context.Background(), sess, requests, true)
	require.NoError(t, err, "continue-on-fail must not surface per-item failures")
	require.Len(t, results, 2)

	assert.NotEmpty(t, results[0].Err)
	assert.Contains(t, results[0].Err, "like button")
	assert.Nil(t, results[0].Result)

	assert.Empty(t, results[1].Err)
	require.NotNil(t, results[1].Result)
	assert.True(t, results[1].Result.Success, "the session must stay usable after a failed item")
}

func TestRunWithSession_AbortsOnFirstFailureByDefault(t *testing.T) {
	server, _ := batchServer(t)
	sess := newBatchSession(t)
	b := newBatch(t, server.URL)

	requests := []actions.Request{
		{Resource: actions.ResourcePost, Operation: "like", URL: server.URL + "/posts/drifted"},
		{Resource: actions.ResourcePost, Operation: "like", URL: server.URL + "/posts/1", ItemIndex: 1},
	}

	results, err := b.RunWithSession(context.Background(), sess, requests, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, actions.ErrUIDrift)
	assert.Contains(t, err.Error(), "item 0")
	assert.Empty(t, results)
}

func TestRunWithSession_LoginFailureAbortsBatch(t *testing.T) {
	// The login form never leaves the login surface: certification fails and
	// no items may run.
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, loginPage)
	})
	mux.HandleFunc("/login-submit", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusFound)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	sess := newBatchSession(t)
	b := newBatch(t, server.URL)

	requests := []actions.Request{
		{Resource: actions.ResourcePost, Operation: "like", URL: server.URL + "/posts/1"},
	}

	results, err := b.RunWithSession(context.Background(), sess, requests, true)
	require.Error(t, err)
	assert.Nil(t, results)
}
