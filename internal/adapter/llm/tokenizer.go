// Package llm provides the LLM provider adapters and their shared
// instrumentation.
package llm

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	defaultEncoder *tiktoken.Tiktoken
	encoderOnce    sync.Once
	encoderErr     error
)

// getEncoder returns the shared tiktoken encoder, initialized lazily.
// cl100k_base is the GPT-4 encoding and a close enough approximation
// for the other providers.
func getEncoder() (*tiktoken.Tiktoken, error) {
	encoderOnce.Do(func() {
		defaultEncoder, encoderErr = tiktoken.GetEncoding("cl100k_base")
	})
	return defaultEncoder, encoderErr
}

// EstimateTokens estimates the token count of text. Used for request
// logging and as the input-token figure when a provider (Ollama) does
// not report usage. Falls back to a chars/4 heuristic if the encoder
// cannot be loaded.
func EstimateTokens(text string) int {
	enc, err := getEncoder()
	if err != nil {
		return len(text) / 4
	}
	return len(enc.Encode(text, nil, nil))
}
