package config

// Config is the full application configuration.
type Config struct {
	// Provider selects which entry of Providers serves this run.
	Provider  string                    `yaml:"provider"`
	Providers map[string]ProviderConfig `yaml:"providers"`
	HTTP      HTTPConfig                `yaml:"http"`
	Review    ReviewConfig              `yaml:"review"`
	GitHub    GitHubConfig              `yaml:"github"`
	Git       GitConfig                 `yaml:"git"`
	Logging   LoggingConfig             `yaml:"logging"`
}

// ProviderConfig configures a single LLM provider.
type ProviderConfig struct {
	Model   string `yaml:"model"`
	APIKey  string `yaml:"apiKey"`
	BaseURL string `yaml:"baseURL"` // OpenAI-compatible endpoints, e.g. a local Ollama

	// HTTP overrides; the global HTTP config applies when unset.
	Timeout        *string `yaml:"timeout,omitempty"`
	MaxRetries     *int    `yaml:"maxRetries,omitempty"`
	InitialBackoff *string `yaml:"initialBackoff,omitempty"`
	MaxBackoff     *string `yaml:"maxBackoff,omitempty"`
}

// HTTPConfig holds global HTTP client settings.
type HTTPConfig struct {
	Timeout           string  `yaml:"timeout"`
	MaxRetries        int     `yaml:"maxRetries"`
	InitialBackoff    string  `yaml:"initialBackoff"`
	MaxBackoff        string  `yaml:"maxBackoff"`
	BackoffMultiplier float64 `yaml:"backoffMultiplier"`
}

// ReviewConfig configures what gets reviewed and how strictly.
type ReviewConfig struct {
	// IgnorePatterns are glob patterns for files excluded from review.
	IgnorePatterns []string `yaml:"ignorePatterns"`

	// MaxFileSize caps a file's changed content in characters. Zero
	// means unlimited.
	MaxFileSize int `yaml:"maxFileSize"`

	// AlwaysPass makes the process exit zero regardless of verdict.
	AlwaysPass bool `yaml:"alwaysPass"`

	// StrictFindings fails the run when the model emits an invalid
	// finding instead of dropping it.
	StrictFindings bool `yaml:"strictFindings"`

	// Instructions are extra reviewer instructions added to every prompt.
	Instructions string `yaml:"instructions"`

	// Title heads the posted review summary.
	Title string `yaml:"title"`

	// MaxTokens bounds the model response size.
	MaxTokens int `yaml:"maxTokens"`

	// SystemPrompt replaces the built-in system prompt when set.
	SystemPrompt string `yaml:"systemPrompt"`
}

// GitHubConfig configures the GitHub API client.
type GitHubConfig struct {
	Token   string `yaml:"token"`
	BaseURL string `yaml:"baseURL"` // override for GitHub Enterprise
}

// GitConfig configures the local git diff source.
type GitConfig struct {
	RepositoryDir string `yaml:"repositoryDir"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level         string `yaml:"level"`  // debug, info, error
	Format        string `yaml:"format"` // json, human, auto
	RedactAPIKeys bool   `yaml:"redactAPIKeys"`
}

// Merge combines configuration layers, later ones taking precedence.
func Merge(configs ...Config) Config {
	result := Config{}
	for _, cfg := range configs {
		result = merge(result, cfg)
	}
	return result
}

func merge(base, overlay Config) Config {
	result := base

	if overlay.Provider != "" {
		result.Provider = overlay.Provider
	}
	result.Providers = mergeProviders(base.Providers, overlay.Providers)
	result.HTTP = chooseHTTP(base.HTTP, overlay.HTTP)
	result.Review = mergeReview(base.Review, overlay.Review)
	result.GitHub = chooseGitHub(base.GitHub, overlay.GitHub)
	result.Git = chooseGit(base.Git, overlay.Git)
	result.Logging = chooseLogging(base.Logging, overlay.Logging)

	return result
}

func mergeProviders(base, overlay map[string]ProviderConfig) map[string]ProviderConfig {
	if len(base) == 0 && len(overlay) == 0 {
		return nil
	}
	result := make(map[string]ProviderConfig, len(base)+len(overlay))
	for key, value := range base {
		result[key] = value
	}
	for key, value := range overlay {
		result[key] = value
	}
	return result
}

func chooseHTTP(base, overlay HTTPConfig) HTTPConfig {
	if overlay.Timeout != "" || overlay.MaxRetries != 0 || overlay.InitialBackoff != "" || overlay.MaxBackoff != "" || overlay.BackoffMultiplier != 0 {
		return overlay
	}
	return base
}

func mergeReview(base, overlay ReviewConfig) ReviewConfig {
	result := base

	if len(overlay.IgnorePatterns) > 0 {
		result.IgnorePatterns = overlay.IgnorePatterns
	}
	if overlay.MaxFileSize != 0 {
		result.MaxFileSize = overlay.MaxFileSize
	}
	if overlay.AlwaysPass {
		result.AlwaysPass = true
	}
	if overlay.StrictFindings {
		result.StrictFindings = true
	}
	if overlay.Instructions != "" {
		result.Instructions = overlay.Instructions
	}
	if overlay.Title != "" {
		result.Title = overlay.Title
	}
	if overlay.MaxTokens != 0 {
		result.MaxTokens = overlay.MaxTokens
	}
	if overlay.SystemPrompt != "" {
		result.SystemPrompt = overlay.SystemPrompt
	}

	return result
}

func chooseGitHub(base, overlay GitHubConfig) GitHubConfig {
	result := base
	if overlay.Token != "" {
		result.Token = overlay.Token
	}
	if overlay.BaseURL != "" {
		result.BaseURL = overlay.BaseURL
	}
	return result
}

func chooseGit(base, overlay GitConfig) GitConfig {
	if overlay.RepositoryDir != "" {
		return overlay
	}
	return base
}

func chooseLogging(base, overlay LoggingConfig) LoggingConfig {
	result := base
	if overlay.Level != "" {
		result.Level = overlay.Level
	}
	if overlay.Format != "" {
		result.Format = overlay.Format
	}
	if overlay.RedactAPIKeys {
		result.RedactAPIKeys = true
	}
	return result
}
