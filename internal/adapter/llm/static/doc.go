// Package static provides a mock provider that returns a canned review.
// Useful for exercising the pipeline end to end without live API calls.
package static
