package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// LoaderOptions describes how configuration is discovered.
type LoaderOptions struct {
	ConfigPaths []string
	FileName    string
	EnvPrefix   string
}

// Load returns the merged configuration from file and environment.
func Load(opts LoaderOptions) (Config, error) {
	v := viper.New()

	name := opts.FileName
	if name == "" {
		name = "lr"
	}

	configFile := locateConfigFile(name, opts.ConfigPaths)
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(name)
	}

	prefix := opts.EnvPrefix
	if prefix == "" {
		prefix = "LR"
	}
	v.SetEnvPrefix(prefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AllowEmptyEnv(true)

	setDefaults(v)

	if configFile != "" {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	return expandEnvVars(cfg), nil
}

// expandEnvVars expands ${VAR} and $VAR in string config values so API
// keys can live in the environment while the file stays committable.
func expandEnvVars(cfg Config) Config {
	for name, provider := range cfg.Providers {
		provider.APIKey = expandEnvString(provider.APIKey)
		provider.Model = expandEnvString(provider.Model)
		provider.BaseURL = expandEnvString(provider.BaseURL)

		if provider.Timeout != nil {
			timeout := expandEnvString(*provider.Timeout)
			provider.Timeout = &timeout
		}
		if provider.InitialBackoff != nil {
			backoff := expandEnvString(*provider.InitialBackoff)
			provider.InitialBackoff = &backoff
		}
		if provider.MaxBackoff != nil {
			backoff := expandEnvString(*provider.MaxBackoff)
			provider.MaxBackoff = &backoff
		}

		cfg.Providers[name] = provider
	}

	cfg.HTTP.Timeout = expandEnvString(cfg.HTTP.Timeout)
	cfg.HTTP.InitialBackoff = expandEnvString(cfg.HTTP.InitialBackoff)
	cfg.HTTP.MaxBackoff = expandEnvString(cfg.HTTP.MaxBackoff)

	cfg.Review.Instructions = expandEnvString(cfg.Review.Instructions)
	cfg.Review.IgnorePatterns = expandEnvStringSlice(cfg.Review.IgnorePatterns)

	cfg.GitHub.Token = expandEnvString(cfg.GitHub.Token)
	cfg.GitHub.BaseURL = expandEnvString(cfg.GitHub.BaseURL)

	cfg.Git.RepositoryDir = expandEnvString(cfg.Git.RepositoryDir)

	cfg.Logging.Level = expandEnvString(cfg.Logging.Level)
	cfg.Logging.Format = expandEnvString(cfg.Logging.Format)

	return cfg
}

var (
	bracedVarRegexp = regexp.MustCompile(`\$\{([A-Z_][A-Z0-9_]*)\}`)
	bareVarRegexp   = regexp.MustCompile(`\$([A-Z_][A-Z0-9_]*)`)
)

// expandEnvString replaces ${VAR} and $VAR with environment values.
// Unset variables are left as-is so the problem is visible downstream.
func expandEnvString(s string) string {
	if s == "" {
		return s
	}

	s = bracedVarRegexp.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[2 : len(match)-1]); val != "" {
			return val
		}
		return match
	})

	return bareVarRegexp.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[1:]); val != "" {
			return val
		}
		return match
	})
}

func expandEnvStringSlice(slice []string) []string {
	if len(slice) == 0 {
		return slice
	}
	result := make([]string, len(slice))
	for i, s := range slice {
		result[i] = expandEnvString(s)
	}
	return result
}

func locateConfigFile(name string, paths []string) string {
	searchPaths := append([]string{}, paths...)
	searchPaths = append(searchPaths, ".")
	for _, dir := range searchPaths {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name+".yaml")
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", "openai")

	// HTTP defaults
	v.SetDefault("http.timeout", "120s")
	v.SetDefault("http.maxRetries", 3)
	v.SetDefault("http.initialBackoff", "2s")
	v.SetDefault("http.maxBackoff", "30s")
	v.SetDefault("http.backoffMultiplier", 2.0)

	// Review defaults
	v.SetDefault("review.ignorePatterns", []string{
		"*.md", "*.txt", "*.json", "*.yaml", "*.yml",
		"package-lock.json", "yarn.lock", "poetry.lock",
	})
	v.SetDefault("review.maxFileSize", 10000)
	v.SetDefault("review.maxTokens", 4096)
	v.SetDefault("review.title", "LLM Code Review")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "auto")
	v.SetDefault("logging.redactAPIKeys", true)

	// Provider defaults
	v.SetDefault("providers.openai.model", "gpt-4o")
	v.SetDefault("providers.anthropic.model", "claude-3-5-sonnet-20241022")
	v.SetDefault("providers.ollama.model", "llama3")
	v.SetDefault("providers.ollama.baseURL", "http://localhost:11434/v1")
	v.SetDefault("providers.static.model", "static-v1")
}
