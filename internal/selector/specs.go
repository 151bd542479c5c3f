package selector

// Fallback chains for every logical target the driver touches. The target
// markup is unversioned and mutates; these are isolated here so a drift fix
// is a one-line edit. Order matters: most specific first, broadest last.

// Login surface.
var (
	LoginIdentifier = Spec{Name: "login identifier field", Candidates: []string{
		`#username`,
		`input[name="session_key"]`,
		`input[autocomplete="username"]`,
		`input[type="email"]`,
	}}

	LoginSecret = Spec{Name: "login secret field", Candidates: []string{
		`#password`,
		`input[name="session_password"]`,
		`input[autocomplete="current-password"]`,
		`input[type="password"]`,
	}}

	LoginSubmit = Spec{Name: "login submit button", Candidates: []string{
		`button[data-litms-control-urn="login-submit"]`,
		`button[aria-label*="Sign in" i]`,
		`form button[type="submit"]`,
	}}
)

// Two-factor and checkpoint surfaces.
var (
	TwoFactorInput = Spec{Name: "two-factor code field", Candidates: []string{
		`input[name="pin"]`,
		`#input__phone_verification_pin`,
		`input[autocomplete="one-time-code"]`,
	}}

	TwoFactorSubmit = Spec{Name: "two-factor submit button", Candidates: []string{
		`#two-step-submit-button`,
		`button[aria-label*="Submit" i]`,
		`form button[type="submit"]`,
	}}

	ChallengeInput = Spec{Name: "challenge text field", Candidates: []string{
		`input[name*="challenge"]`,
		`input[id*="challenge"]`,
		`input[name*="verification"]`,
		`form input[type="text"]`,
	}}

	GenericButton = Spec{Name: "generic enabled button", Candidates: []string{
		`form button[type="submit"]`,
		`button[type="submit"]`,
		`button`,
	}}
)

// Authenticated-surface landmarks.
var (
	FeedLandmark = Spec{Name: "feed landmark", Candidates: []string{
		`#global-nav`,
		`.feed-identity-module`,
		`main[aria-label*="feed" i]`,
	}}
)

// Post operations.
var (
	LikeButton = Spec{Name: "like button", Candidates: []string{
		`button[aria-label*="React Like" i]`,
		`button.react-button__trigger`,
		`button[aria-label*="Like" i]`,
		`button[data-control-name="like"]`,
	}}

	CommentTrigger = Spec{Name: "comment trigger", Candidates: []string{
		`button[aria-label*="Comment" i]`,
		`button[data-control-name="comment"]`,
	}}

	CommentBox = Spec{Name: "comment box", Candidates: []string{
		`.ql-editor[contenteditable="true"]`,
		`div[contenteditable="true"][role="textbox"]`,
		`textarea[name="comment"]`,
	}}

	CommentSubmit = Spec{Name: "comment submit button", Candidates: []string{
		`button.comments-comment-box__submit-button`,
		`button[data-control-name="comment.post"]`,
		`button[aria-label*="Post comment" i]`,
	}}

	ShareTrigger = Spec{Name: "share trigger", Candidates: []string{
		`button[aria-label*="Repost" i]`,
		`button[aria-label*="Share" i]`,
		`button[data-control-name="share"]`,
	}}

	ShareBox = Spec{Name: "share text box", Candidates: []string{
		`div[role="dialog"] .ql-editor[contenteditable="true"]`,
		`div[role="dialog"] div[contenteditable="true"]`,
	}}

	ShareSubmit = Spec{Name: "share submit button", Candidates: []string{
		`div[role="dialog"] button.share-actions__primary-action`,
		`div[role="dialog"] button[aria-label*="Post" i]`,
		`div[role="dialog"] button[type="submit"]`,
	}}
)

// Profile operations.
var (
	ConnectButton = Spec{Name: "connect button", Candidates: []string{
		`button[aria-label*="Invite" i][aria-label*="connect" i]`,
		`button[aria-label*="Connect" i]`,
		`main button[data-control-name="connect"]`,
	}}

	ConnectNoteButton = Spec{Name: "add-a-note button", Candidates: []string{
		`button[aria-label*="Add a note" i]`,
	}}

	ConnectNoteBox = Spec{Name: "connect note field", Candidates: []string{
		`#custom-message`,
		`textarea[name="message"]`,
		`div[role="dialog"] textarea`,
	}}

	ConnectSend = Spec{Name: "connect send button", Candidates: []string{
		`button[aria-label*="Send now" i]`,
		`button[aria-label*="Send invitation" i]`,
		`button[aria-label*="Send" i]`,
		`div[role="dialog"] button[type="submit"]`,
	}}

	FollowButton = Spec{Name: "follow button", Candidates: []string{
		`button[aria-label*="Follow" i]`,
		`button[data-control-name="follow"]`,
	}}

	ProfileLandmark = Spec{Name: "profile landmark", Candidates: []string{
		`h1.text-heading-xlarge`,
		`section.pv-top-card h1`,
		`main h1`,
	}}

	ProfileTopCard = Spec{Name: "profile top card", Candidates: []string{
		`section.pv-top-card`,
		`main section`,
	}}
)

// Feed listing.
var (
	PostContainer = Spec{Name: "feed post container", Candidates: []string{
		`div.feed-shared-update-v2`,
		`main article`,
	}}
)

// AffirmativeVerbs is the fixed vocabulary scanned for on checkpoint pages.
var AffirmativeVerbs = []string{
	"continue", "verify", "next", "submit", "confirm",
	"allow", "proceed", "sign in", "send code",
}

// ConnectTexts is the free-text fallback tier for the connect control.
var ConnectTexts = []string{"connect"}
