package http

import (
	"sync"
	"time"
)

// Metrics accumulates usage across provider calls for the end-of-run
// summary.
type Metrics interface {
	RecordRequest(provider, model string)
	RecordDuration(provider, model string, duration time.Duration)
	RecordTokens(provider, model string, tokensIn, tokensOut int)
	RecordCost(provider, model string, cost float64)
	RecordError(provider, model string, errType ErrorType)
	GetStats() Stats
}

// Stats is a point-in-time snapshot of accumulated usage.
type Stats struct {
	TotalRequests  int
	TotalTokensIn  int
	TotalTokensOut int
	TotalCost      float64
	TotalDuration  time.Duration
	ErrorCount     int
	ByProvider     map[string]ProviderStats
}

// ProviderStats is the per-provider slice of Stats.
type ProviderStats struct {
	Requests  int
	TokensIn  int
	TokensOut int
	Cost      float64
	Duration  time.Duration
	Errors    int
}

// DefaultMetrics is an in-memory, concurrency-safe Metrics.
type DefaultMetrics struct {
	mu    sync.RWMutex
	stats Stats
}

// NewDefaultMetrics creates an empty usage tracker.
func NewDefaultMetrics() *DefaultMetrics {
	return &DefaultMetrics{stats: Stats{ByProvider: make(map[string]ProviderStats)}}
}

// RecordRequest counts one outgoing call.
func (m *DefaultMetrics) RecordRequest(provider, _ string) {
	m.update(provider, func(ps *ProviderStats) {
		m.stats.TotalRequests++
		ps.Requests++
	})
}

// RecordDuration adds one call's wall time.
func (m *DefaultMetrics) RecordDuration(provider, _ string, duration time.Duration) {
	m.update(provider, func(ps *ProviderStats) {
		m.stats.TotalDuration += duration
		ps.Duration += duration
	})
}

// RecordTokens adds one call's token usage.
func (m *DefaultMetrics) RecordTokens(provider, _ string, tokensIn, tokensOut int) {
	m.update(provider, func(ps *ProviderStats) {
		m.stats.TotalTokensIn += tokensIn
		m.stats.TotalTokensOut += tokensOut
		ps.TokensIn += tokensIn
		ps.TokensOut += tokensOut
	})
}

// RecordCost adds one call's estimated cost.
func (m *DefaultMetrics) RecordCost(provider, _ string, cost float64) {
	m.update(provider, func(ps *ProviderStats) {
		m.stats.TotalCost += cost
		ps.Cost += cost
	})
}

// RecordError counts one failed call.
func (m *DefaultMetrics) RecordError(provider, _ string, _ ErrorType) {
	m.update(provider, func(ps *ProviderStats) {
		m.stats.ErrorCount++
		ps.Errors++
	})
}

// GetStats returns a copy safe to read while calls continue.
func (m *DefaultMetrics) GetStats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := m.stats
	out.ByProvider = make(map[string]ProviderStats, len(m.stats.ByProvider))
	for k, v := range m.stats.ByProvider {
		out.ByProvider[k] = v
	}
	return out
}

func (m *DefaultMetrics) update(provider string, fn func(*ProviderStats)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ps := m.stats.ByProvider[provider]
	fn(&ps)
	m.stats.ByProvider[provider] = ps
}
