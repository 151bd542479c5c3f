package actions

import "errors"

type Resource string

const (
	ResourcePost    Resource = "post"
	ResourceProfile Resource = "profile"
	ResourceFeed    Resource = "feed"
)

// Request is one work item from the host runtime.
type Request struct {
	Resource  Resource          `json:"resource"`
	Operation string            `json:"operation"`
	URL       string            `json:"url,omitempty"`
	Params    map[string]string `json:"params,omitempty"`
	ItemIndex int               `json:"item_index"`
}

// Param returns a named operation parameter or "".
func (r Request) Param(key string) string {
	if r.Params == nil {
		return ""
	}
	return r.Params[key]
}

// Result is the structured outcome of one Request. It is never partially
// populated: Success is true only when both the mutating interaction and its
// post-condition verification succeeded.
type Result struct {
	Success     bool           `json:"success"`
	Action      string         `json:"action"`
	URL         string         `json:"url,omitempty"`
	Data        map[string]any `json:"data,omitempty"`
	SnapshotRef string         `json:"snapshot_ref,omitempty"`
}

var (
	// ErrUIDrift means an expected target was not resolvable through any
	// fallback tier. The error message carries the attempted selector trail.
	ErrUIDrift = errors.New("ui drift: target not resolvable")

	// ErrAuthWall means a login wall appeared during a supposedly
	// authenticated operation: the session is lost, not the markup.
	ErrAuthWall = errors.New("auth wall detected: session lost")

	// ErrBadRequest marks an invalid or incomplete work item.
	ErrBadRequest = errors.New("invalid action request")
)
