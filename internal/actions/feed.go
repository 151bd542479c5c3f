package actions

import (
	"strconv"

	"github.com/go-rod/rod"
	"go.uber.org/zap"

	"social-driver/internal/browser"
	"social-driver/internal/selector"
)

const (
	feedMaxIterations  = 12
	feedDefaultCount   = 10
	feedScrollIncrJS   = `() => window.scrollBy(0, window.innerHeight)`
	feedPostCountLimit = 100
)

// ListFeedPosts scrolls the feed until the requested number of posts is on
// screen, the iteration budget runs out, or the count stops growing between
// two consecutive iterations. Loop exhaustion with zero items is reported in
// the result, not raised.
func (x *Executor) ListFeedPosts(sess *browser.Session, url, countParam string) (Result, error) {
	if url == "" {
		url = x.rt.BaseURL + "/feed"
	}
	if err := x.open(sess, url); err != nil {
		return Result{}, err
	}
	page := sess.Page()

	desired := feedDefaultCount
	if countParam != "" {
		if n, err := strconv.Atoi(countParam); err == nil && n > 0 {
			desired = n
		}
	}
	if desired > feedPostCountLimit {
		desired = feedPostCountLimit
	}

	containers := x.scrollAndPoll(page, desired)

	posts := make([]map[string]any, 0, len(containers))
	for i, el := range containers {
		if i >= desired {
			break
		}
		html, err := el.HTML()
		if err != nil {
			continue
		}
		post := parseFeedPost(html)
		posts = append(posts, map[string]any{
			"author":    post.Author,
			"text":      post.Text,
			"permalink": post.Permalink,
		})
	}

	result := Result{
		Success: len(posts) > 0,
		Action:  "feed_listed",
		URL:     url,
		Data: map[string]any{
			"count": len(posts),
			"posts": posts,
		},
	}
	if len(posts) == 0 {
		result.Data["note"] = "no posts collected before the scroll budget ran out"
	}
	return result, nil
}

// scrollAndPoll is the bounded growth loop: scroll a fixed increment, let
// content settle, recount. Terminates on desired count, budget exhaustion,
// or a stalled count, whichever comes first.
func (x *Executor) scrollAndPoll(page *rod.Page, desired int) rod.Elements {
	var containers rod.Elements
	prev := -1

	for iter := 0; iter < feedMaxIterations; iter++ {
		containers = x.countPosts(page)
		count := len(containers)
		x.log.Debug("feed poll",
			zap.Int("iteration", iter),
			zap.Int("count", count),
			zap.Int("desired", desired))

		if count >= desired {
			break
		}
		if count == prev {
			x.log.Debug("feed growth stalled", zap.Int("count", count))
			break
		}
		prev = count

		if _, err := page.Eval(feedScrollIncrJS); err != nil {
			break
		}
		x.settle()
	}
	return containers
}

// countPosts counts post containers using the first chain candidate that
// matches anything on this page variant.
func (x *Executor) countPosts(page *rod.Page) rod.Elements {
	for _, candidate := range selector.PostContainer.Candidates {
		els, err := page.Elements(candidate)
		if err != nil {
			continue
		}
		if len(els) > 0 {
			return els
		}
	}
	return nil
}
