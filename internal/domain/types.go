package domain

// Finding represents a single issue reported by the model for one file.
// Findings are immutable after normalization; downstream stages only read them.
type Finding struct {
	File       string   `json:"file"`
	Line       int      `json:"line,omitempty"` // new-file line number, 0 when file-level
	Severity   Severity `json:"severity"`
	Category   string   `json:"category,omitempty"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Review is the normalized output of one model call.
type Review struct {
	ProviderName string    `json:"providerName"`
	ModelName    string    `json:"modelName"`
	Summary      string    `json:"summary"`
	Findings     []Finding `json:"findings"`
}
