package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"
)

// Logger is the structured logging surface for provider calls plus the
// general info/warning channel the review pipeline logs through.
type Logger interface {
	// LogRequest logs an outgoing API request. The key is redacted.
	LogRequest(ctx context.Context, req RequestLog)

	// LogResponse logs a completed call with timing and token usage.
	LogResponse(ctx context.Context, resp ResponseLog)

	// LogError logs a failed call.
	LogError(ctx context.Context, err ErrorLog)

	// LogInfo logs a pipeline event with structured fields.
	LogInfo(ctx context.Context, message string, fields map[string]interface{})

	// LogWarning logs a recoverable pipeline problem.
	LogWarning(ctx context.Context, message string, fields map[string]interface{})
}

// RequestLog describes an outgoing provider call.
type RequestLog struct {
	Provider    string
	Model       string
	Timestamp   time.Time
	PromptChars int
	APIKey      string // redacted to the last 4 chars before output
}

// ResponseLog describes a completed provider call.
type ResponseLog struct {
	Provider     string
	Model        string
	Timestamp    time.Time
	Duration     time.Duration
	TokensIn     int
	TokensOut    int
	Cost         float64
	StatusCode   int
	FinishReason string
}

// ErrorLog describes a failed provider call.
type ErrorLog struct {
	Provider   string
	Model      string
	Timestamp  time.Time
	Duration   time.Duration
	Error      error
	ErrorType  ErrorType
	StatusCode int
	Retryable  bool
}

// LogLevel controls verbosity.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelError
)

// LogFormat selects human-readable or machine-parseable output.
type LogFormat int

const (
	LogFormatHuman LogFormat = iota
	LogFormatJSON
)

// DefaultLogger writes structured logs via the standard log package.
type DefaultLogger struct {
	level      LogLevel
	format     LogFormat
	redactKeys bool
}

// NewDefaultLogger creates a logger with the given level and format.
func NewDefaultLogger(level LogLevel, format LogFormat, redactKeys bool) *DefaultLogger {
	return &DefaultLogger{level: level, format: format, redactKeys: redactKeys}
}

// SetRedaction toggles API key redaction. Only tests turn it off.
func (l *DefaultLogger) SetRedaction(enabled bool) {
	l.redactKeys = enabled
}

// LogRequest logs an API request at debug level.
func (l *DefaultLogger) LogRequest(_ context.Context, req RequestLog) {
	if l.level > LogLevelDebug {
		return
	}

	key := l.RedactAPIKey(req.APIKey)
	if l.format == LogFormatJSON {
		l.emitJSON(map[string]interface{}{
			"level":        "debug",
			"type":         "request",
			"provider":     req.Provider,
			"model":        req.Model,
			"timestamp":    req.Timestamp.Format(time.RFC3339),
			"prompt_chars": req.PromptChars,
			"api_key":      key,
		})
		return
	}
	log.Printf("[DEBUG] %s/%s: request sent (prompt=%d chars, key=%s)",
		req.Provider, req.Model, req.PromptChars, key)
}

// LogResponse logs an API response at info level.
func (l *DefaultLogger) LogResponse(_ context.Context, resp ResponseLog) {
	if l.level > LogLevelInfo {
		return
	}

	if l.format == LogFormatJSON {
		l.emitJSON(map[string]interface{}{
			"level":         "info",
			"type":          "response",
			"provider":      resp.Provider,
			"model":         resp.Model,
			"timestamp":     resp.Timestamp.Format(time.RFC3339),
			"duration_ms":   resp.Duration.Milliseconds(),
			"tokens_in":     resp.TokensIn,
			"tokens_out":    resp.TokensOut,
			"cost":          resp.Cost,
			"status_code":   resp.StatusCode,
			"finish_reason": resp.FinishReason,
		})
		return
	}
	log.Printf("[INFO] %s/%s: response received (duration=%.1fs, tokens=%d/%d, cost=$%.4f)",
		resp.Provider, resp.Model, resp.Duration.Seconds(),
		resp.TokensIn, resp.TokensOut, resp.Cost)
}

// LogError logs a failed call.
func (l *DefaultLogger) LogError(_ context.Context, e ErrorLog) {
	if l.level > LogLevelError {
		return
	}

	if l.format == LogFormatJSON {
		l.emitJSON(map[string]interface{}{
			"level":       "error",
			"type":        "error",
			"provider":    e.Provider,
			"model":       e.Model,
			"timestamp":   e.Timestamp.Format(time.RFC3339),
			"duration_ms": e.Duration.Milliseconds(),
			"error":       RedactURLSecrets(e.Error.Error()),
			"error_type":  e.ErrorType.String(),
			"status_code": e.StatusCode,
			"retryable":   e.Retryable,
		})
		return
	}

	retryable := "non-retryable"
	if e.Retryable {
		retryable = "retryable"
	}
	log.Printf("[ERROR] %s/%s: API call failed (status=%d, %s): %v",
		e.Provider, e.Model, e.StatusCode, retryable, RedactURLSecrets(e.Error.Error()))
}

// LogInfo logs a pipeline event.
func (l *DefaultLogger) LogInfo(_ context.Context, message string, fields map[string]interface{}) {
	if l.level > LogLevelInfo {
		return
	}
	l.emitEvent("info", "[INFO]", message, fields)
}

// LogWarning logs a recoverable problem.
func (l *DefaultLogger) LogWarning(_ context.Context, message string, fields map[string]interface{}) {
	if l.level > LogLevelError {
		return
	}
	l.emitEvent("warning", "[WARN]", message, fields)
}

func (l *DefaultLogger) emitEvent(jsonLevel, humanTag, message string, fields map[string]interface{}) {
	if l.format == LogFormatJSON {
		entry := map[string]interface{}{
			"level":   jsonLevel,
			"type":    "event",
			"message": message,
		}
		for k, v := range fields {
			entry[k] = v
		}
		l.emitJSON(entry)
		return
	}

	if len(fields) == 0 {
		log.Printf("%s %s", humanTag, message)
		return
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, fields[k])
	}
	log.Printf("%s %s%s", humanTag, message, sb.String())
}

func (l *DefaultLogger) emitJSON(entry map[string]interface{}) {
	data, err := json.Marshal(entry)
	if err != nil {
		log.Printf(`{"level":"error","type":"event","message":"log entry not serializable"}`)
		return
	}
	log.Print(string(data))
}

// RedactAPIKey keeps only the last 4 characters of a key.
func (l *DefaultLogger) RedactAPIKey(key string) string {
	if !l.redactKeys {
		return key
	}
	if len(key) <= 4 {
		return "[REDACTED]"
	}
	return fmt.Sprintf("[REDACTED-%s]", key[len(key)-4:])
}
