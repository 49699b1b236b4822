package http

import (
	"fmt"
	"regexp"
)

// MaxLoggedResponseLength caps how much raw model output reaches logs.
// Responses carry user source code; log aggregators must not get all of it.
const MaxLoggedResponseLength = 200

// TruncateForLogging trims a model response for safe log output.
func TruncateForLogging(response string) string {
	if len(response) <= MaxLoggedResponseLength {
		return response
	}
	return response[:MaxLoggedResponseLength] + fmt.Sprintf("... [truncated, total length=%d bytes]", len(response))
}

// Query parameters that carry credentials. Values are replaced before a
// URL can reach an error message or a log line.
var secretParamRegexps = []*regexp.Regexp{
	regexp.MustCompile(`(key=)[^&"\s]+`),
	regexp.MustCompile(`(apiKey=)[^&"\s]+`),
	regexp.MustCompile(`(api_key=)[^&"\s]+`),
	regexp.MustCompile(`(token=)[^&"\s]+`),
	regexp.MustCompile(`(access_token=)[^&"\s]+`),
}

// RedactURLSecrets replaces credential query-parameter values in text.
//
//	input:  "https://api.example.com/v1?key=secret123&foo=bar"
//	output: "https://api.example.com/v1?key=[REDACTED]&foo=bar"
func RedactURLSecrets(text string) string {
	if text == "" {
		return text
	}
	for _, re := range secretParamRegexps {
		text = re.ReplaceAllString(text, "${1}[REDACTED]")
	}
	return text
}
