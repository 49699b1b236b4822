package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/mfinn/llmreview/internal/usecase/review"
)

// API is the client surface the poster needs.
type API interface {
	CreateReview(ctx context.Context, owner, repo string, number int, req CreateReviewRequest) (*CreateReviewResponse, error)
	CreateIssueComment(ctx context.Context, owner, repo string, number int, comment string) (*IssueCommentResponse, error)
}

// Poster delivers a finished review to a pull request. It implements
// the review Sink port.
type Poster struct {
	api       API
	owner     string
	repo      string
	number    int
	commitSHA string
	title     string
	logger    review.Logger
}

// PosterConfig identifies the pull request a poster writes to.
type PosterConfig struct {
	Owner     string
	Repo      string
	Number    int
	CommitSHA string
	Title     string // heads the posted summary
	Logger    review.Logger
}

// NewPoster creates a poster for one pull request.
func NewPoster(api API, cfg PosterConfig) *Poster {
	return &Poster{
		api:       api,
		owner:     cfg.Owner,
		repo:      cfg.Repo,
		number:    cfg.Number,
		commitSHA: cfg.CommitSHA,
		title:     cfg.Title,
		logger:    cfg.Logger,
	}
}

// Publish posts the review. The batch review with inline comments is the
// primary path; if GitHub rejects it, the summary is still delivered and
// the lost inline comments are reported as failures rather than failing
// the whole run.
func (p *Poster) Publish(ctx context.Context, pub review.Publication) (review.PublishResult, error) {
	comments := make([]ReviewComment, 0, len(pub.Inline))
	for _, ic := range pub.Inline {
		comments = append(comments, ReviewComment{
			Path:     ic.Path,
			Position: ic.Position,
			Body:     ic.Body,
		})
	}

	body := p.summaryBody(pub.SummaryBody)
	event := EventFor(pub.Verdict)

	_, err := p.api.CreateReview(ctx, p.owner, p.repo, p.number, CreateReviewRequest{
		CommitID: p.commitSHA,
		Event:    event,
		Body:     body,
		Comments: comments,
	})
	if err == nil {
		return review.PublishResult{Posted: 1 + len(comments)}, nil
	}

	p.warn(ctx, "batch review rejected, retrying without inline comments", map[string]interface{}{
		"error":    err.Error(),
		"comments": len(comments),
	})

	failures := commentFailures(pub.Inline, err)

	if len(comments) > 0 {
		_, retryErr := p.api.CreateReview(ctx, p.owner, p.repo, p.number, CreateReviewRequest{
			CommitID: p.commitSHA,
			Event:    event,
			Body:     body,
		})
		if retryErr == nil {
			return review.PublishResult{Posted: 1, Failures: failures}, nil
		}
		err = retryErr
	}

	// Review API unusable (e.g. a token without the review scope, or
	// the author reviewing their own PR). Fall back to a conversation
	// comment so the result is not lost.
	p.warn(ctx, "review submission failed, falling back to issue comment", map[string]interface{}{
		"error": err.Error(),
	})

	if _, fbErr := p.api.CreateIssueComment(ctx, p.owner, p.repo, p.number, fallbackComment(body, pub.Inline)); fbErr != nil {
		return review.PublishResult{}, fmt.Errorf("post review to %s/%s#%d: %w", p.owner, p.repo, p.number, fbErr)
	}

	return review.PublishResult{Posted: 1, Failures: failures}, nil
}

func (p *Poster) summaryBody(summary string) string {
	if p.title == "" {
		return summary
	}
	return "## " + p.title + "\n\n" + summary
}

func (p *Poster) warn(ctx context.Context, message string, fields map[string]interface{}) {
	if p.logger != nil {
		p.logger.LogWarning(ctx, message, fields)
	}
}

func commentFailures(inline []review.InlineComment, cause error) []error {
	if len(inline) == 0 {
		return nil
	}
	failures := make([]error, 0, len(inline))
	for _, ic := range inline {
		failures = append(failures, &review.CommentPostError{
			Path:     ic.Path,
			Position: ic.Position,
			Err:      cause,
		})
	}
	return failures
}

// fallbackComment folds the inline comments into the summary so their
// content survives the degraded delivery path.
func fallbackComment(body string, inline []review.InlineComment) string {
	if len(inline) == 0 {
		return body
	}

	var sb strings.Builder
	sb.WriteString(body)
	sb.WriteString("\n\n### Inline Findings\n")
	for _, ic := range inline {
		fmt.Fprintf(&sb, "\n**%s** (position %d)\n\n%s\n", ic.Path, ic.Position, ic.Body)
	}
	return sb.String()
}

var _ review.Sink = (*Poster)(nil)
