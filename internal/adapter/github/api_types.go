package github

import "github.com/mfinn/llmreview/internal/domain"

// GitHub REST API types for pull requests and reviews.
// See: https://docs.github.com/en/rest/pulls

// ReviewEvent is the action taken when submitting a review.
type ReviewEvent string

const (
	// EventComment submits the review without an approval signal.
	EventComment ReviewEvent = "COMMENT"

	// EventApprove approves the pull request.
	EventApprove ReviewEvent = "APPROVE"

	// EventRequestChanges requests changes on the pull request.
	EventRequestChanges ReviewEvent = "REQUEST_CHANGES"
)

// EventFor maps a review verdict to the GitHub review event.
func EventFor(verdict domain.Verdict) ReviewEvent {
	switch verdict {
	case domain.VerdictRequestChanges:
		return EventRequestChanges
	case domain.VerdictCommentOnly:
		return EventComment
	default:
		return EventApprove
	}
}

// PullRequest is the subset of GET /repos/{owner}/{repo}/pulls/{number}
// the reviewer needs.
type PullRequest struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	State  string `json:"state"`
	Head   Ref    `json:"head"`
	Base   Ref    `json:"base"`
}

// Ref is one side of a pull request.
type Ref struct {
	SHA string `json:"sha"`
	Ref string `json:"ref"`
}

// CreateReviewRequest is the body for
// POST /repos/{owner}/{repo}/pulls/{number}/reviews.
type CreateReviewRequest struct {
	// CommitID is the head commit SHA the review applies to.
	CommitID string `json:"commit_id,omitempty"`

	Event ReviewEvent `json:"event"`

	// Body is the review summary comment.
	Body string `json:"body"`

	// Comments are inline comments anchored by diff position.
	Comments []ReviewComment `json:"comments,omitempty"`
}

// ReviewComment is one inline comment at a diff position.
type ReviewComment struct {
	Path string `json:"path"`

	// Position is 1-indexed from the file's first hunk header in the
	// unified diff.
	Position int `json:"position"`

	Body string `json:"body"`
}

// CreateReviewResponse is the created review.
type CreateReviewResponse struct {
	ID          int64  `json:"id"`
	NodeID      string `json:"node_id"`
	User        User   `json:"user"`
	Body        string `json:"body"`
	State       string `json:"state"`
	HTMLURL     string `json:"html_url"`
	SubmittedAt string `json:"submitted_at"`
}

// IssueCommentRequest is the body for
// POST /repos/{owner}/{repo}/issues/{number}/comments.
type IssueCommentRequest struct {
	Body string `json:"body"`
}

// IssueCommentResponse is the created issue comment.
type IssueCommentResponse struct {
	ID      int64  `json:"id"`
	HTMLURL string `json:"html_url"`
}

// User is a GitHub account in API responses.
type User struct {
	Login string `json:"login"`
	ID    int64  `json:"id"`
	Type  string `json:"type"`
}

// GitHubErrorResponse is the API error envelope.
type GitHubErrorResponse struct {
	Message          string `json:"message"`
	DocumentationURL string `json:"documentation_url"`
	Errors           []struct {
		Resource string `json:"resource"`
		Field    string `json:"field"`
		Code     string `json:"code"`
		Message  string `json:"message"`
	} `json:"errors,omitempty"`
}
