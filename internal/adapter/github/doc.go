// Package github integrates the reviewer with GitHub pull requests.
//
// The Client wraps the REST endpoints the reviewer needs: pull request
// metadata, the raw unified diff, review submission, and the issue
// comment fallback. The Poster implements the review Sink port on top
// of the Client, so the pipeline stays platform-agnostic.
package github
