package actions

import (
	"strings"

	"golang.org/x/net/html"
)

// Extraction works on parsed HTML instead of evaluating ad-hoc script in the
// page context: the same fallback philosophy as the selector chains, but for
// read paths. Field matchers look for class-name fragments because the full
// class lists churn constantly while the fragments survive redesigns.

type ProfileInfo struct {
	Name     string
	Headline string
	Location string
	About    string
}

type FeedPost struct {
	Author    string
	Text      string
	Permalink string
}

func parseProfileInfo(rawHTML string) ProfileInfo {
	root, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return ProfileInfo{}
	}

	var info ProfileInfo
	walk(root, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch {
		case info.Name == "" && n.Data == "h1":
			info.Name = textContent(n)
		case info.Headline == "" && hasClassFragment(n, "headline", "text-body-medium"):
			info.Headline = textContent(n)
		case info.Location == "" && hasClassFragment(n, "location", "text-body-small"):
			info.Location = textContent(n)
		case info.About == "" && hasClassFragment(n, "about", "summary"):
			info.About = textContent(n)
		}
	})
	return info
}

func parseFeedPost(rawHTML string) FeedPost {
	root, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return FeedPost{}
	}

	var post FeedPost
	walk(root, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch {
		case post.Author == "" && hasClassFragment(n, "actor__name", "actor-name", "author"):
			post.Author = textContent(n)
		case post.Text == "" && hasClassFragment(n, "update-components-text", "feed-shared-text", "description"):
			post.Text = textContent(n)
		case post.Permalink == "" && n.Data == "a":
			href := attrValue(n, "href")
			if strings.Contains(href, "/posts/") || strings.Contains(href, "/feed/update") {
				post.Permalink = href
			}
		}
	})

	// A post without a recognizable text block still has readable content;
	// fall back to the whole rendered text, truncated.
	if post.Text == "" {
		full := textContent(root)
		if len(full) > 500 {
			full = full[:500]
		}
		post.Text = full
	}
	return post
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClassFragment(n *html.Node, fragments ...string) bool {
	class := strings.ToLower(attrValue(n, "class"))
	if class == "" {
		return false
	}
	for _, f := range fragments {
		if strings.Contains(class, f) {
			return true
		}
	}
	return false
}
