package github_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfinn/llmreview/internal/adapter/github"
	"github.com/mfinn/llmreview/internal/domain"
	"github.com/mfinn/llmreview/internal/usecase/review"
)

type fakeAPI struct {
	reviewReqs    []github.CreateReviewRequest
	reviewErrs    []error
	commentBodies []string
	commentErr    error
}

func (f *fakeAPI) CreateReview(_ context.Context, _, _ string, _ int, req github.CreateReviewRequest) (*github.CreateReviewResponse, error) {
	f.reviewReqs = append(f.reviewReqs, req)
	if len(f.reviewErrs) > 0 {
		err := f.reviewErrs[0]
		f.reviewErrs = f.reviewErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &github.CreateReviewResponse{ID: 1}, nil
}

func (f *fakeAPI) CreateIssueComment(_ context.Context, _, _ string, _ int, body string) (*github.IssueCommentResponse, error) {
	f.commentBodies = append(f.commentBodies, body)
	if f.commentErr != nil {
		return nil, f.commentErr
	}
	return &github.IssueCommentResponse{ID: 2}, nil
}

func newPoster(api *fakeAPI) *github.Poster {
	return github.NewPoster(api, github.PosterConfig{
		Owner:     "acme",
		Repo:      "widgets",
		Number:    42,
		CommitSHA: "abc123",
		Title:     "LLM Code Review",
	})
}

func samplePublication() review.Publication {
	return review.Publication{
		Verdict:     domain.VerdictRequestChanges,
		SummaryBody: "summary text",
		Inline: []review.InlineComment{
			{Path: "a.go", Position: 2, Body: "fix this"},
			{Path: "b.go", Position: 5, Body: "and this"},
		},
	}
}

func TestPublish_BatchSuccess(t *testing.T) {
	api := &fakeAPI{}

	result, err := newPoster(api).Publish(context.Background(), samplePublication())

	require.NoError(t, err)
	assert.Equal(t, 3, result.Posted)
	assert.Empty(t, result.Failures)

	require.Len(t, api.reviewReqs, 1)
	req := api.reviewReqs[0]
	assert.Equal(t, github.EventRequestChanges, req.Event)
	assert.Equal(t, "abc123", req.CommitID)
	assert.Contains(t, req.Body, "## LLM Code Review")
	assert.Contains(t, req.Body, "summary text")
	require.Len(t, req.Comments, 2)
	assert.Empty(t, api.commentBodies)
}

func TestPublish_BatchFailureFallsBackToSummaryOnly(t *testing.T) {
	api := &fakeAPI{reviewErrs: []error{errors.New("422 position invalid"), nil}}

	result, err := newPoster(api).Publish(context.Background(), samplePublication())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Posted)
	require.Len(t, result.Failures, 2)

	var postErr *review.CommentPostError
	require.ErrorAs(t, result.Failures[0], &postErr)
	assert.Equal(t, "a.go", postErr.Path)
	assert.Equal(t, 2, postErr.Position)

	// Second review attempt drops the inline comments but keeps verdict.
	require.Len(t, api.reviewReqs, 2)
	assert.Empty(t, api.reviewReqs[1].Comments)
	assert.Equal(t, github.EventRequestChanges, api.reviewReqs[1].Event)
}

func TestPublish_ReviewAPIDeadFallsBackToIssueComment(t *testing.T) {
	api := &fakeAPI{reviewErrs: []error{errors.New("403 forbidden"), errors.New("403 forbidden")}}

	result, err := newPoster(api).Publish(context.Background(), samplePublication())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Posted)
	assert.Len(t, result.Failures, 2)

	require.Len(t, api.commentBodies, 1)
	assert.Contains(t, api.commentBodies[0], "summary text")
	// Inline content survives inside the fallback comment.
	assert.Contains(t, api.commentBodies[0], "Inline Findings")
	assert.Contains(t, api.commentBodies[0], "fix this")
}

func TestPublish_EverythingFails(t *testing.T) {
	api := &fakeAPI{
		reviewErrs: []error{errors.New("boom"), errors.New("boom")},
		commentErr: errors.New("also down"),
	}

	_, err := newPoster(api).Publish(context.Background(), samplePublication())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "acme/widgets#42")
}

func TestPublish_NoInlineComments(t *testing.T) {
	api := &fakeAPI{}

	result, err := newPoster(api).Publish(context.Background(), review.Publication{
		Verdict:     domain.VerdictApprove,
		SummaryBody: "all clean",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Posted)
	require.Len(t, api.reviewReqs, 1)
	assert.Equal(t, github.EventApprove, api.reviewReqs[0].Event)
}

func TestEventFor(t *testing.T) {
	assert.Equal(t, github.EventApprove, github.EventFor(domain.VerdictApprove))
	assert.Equal(t, github.EventComment, github.EventFor(domain.VerdictCommentOnly))
	assert.Equal(t, github.EventRequestChanges, github.EventFor(domain.VerdictRequestChanges))
}
