package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandEnvString(t *testing.T) {
	t.Setenv("TEST_API_KEY", "secret-key-123")
	t.Setenv("TEST_PATH", "/path/to/data")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "expand ${VAR} syntax",
			input:    "${TEST_API_KEY}",
			expected: "secret-key-123",
		},
		{
			name:     "expand $VAR syntax",
			input:    "$TEST_API_KEY",
			expected: "secret-key-123",
		},
		{
			name:     "expand in middle of string",
			input:    "key:${TEST_API_KEY}:end",
			expected: "key:secret-key-123:end",
		},
		{
			name:     "expand multiple variables",
			input:    "${TEST_API_KEY}:${TEST_PATH}",
			expected: "secret-key-123:/path/to/data",
		},
		{
			name:     "unset variable left as-is",
			input:    "${TEST_UNSET_VARIABLE}",
			expected: "${TEST_UNSET_VARIABLE}",
		},
		{
			name:     "plain string untouched",
			input:    "no variables here",
			expected: "no variables here",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandEnvString(tt.input))
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_EXPAND_KEY", "expanded-key")
	t.Setenv("TEST_EXPAND_TIMEOUT", "45s")

	timeout := "${TEST_EXPAND_TIMEOUT}"
	cfg := Config{
		Providers: map[string]ProviderConfig{
			"openai": {
				APIKey:  "${TEST_EXPAND_KEY}",
				Model:   "gpt-4o",
				Timeout: &timeout,
			},
		},
		GitHub: GitHubConfig{Token: "$TEST_EXPAND_KEY"},
	}

	expanded := expandEnvVars(cfg)

	assert.Equal(t, "expanded-key", expanded.Providers["openai"].APIKey)
	assert.Equal(t, "gpt-4o", expanded.Providers["openai"].Model)
	require.NotNil(t, expanded.Providers["openai"].Timeout)
	assert.Equal(t, "45s", *expanded.Providers["openai"].Timeout)
	assert.Equal(t, "expanded-key", expanded.GitHub.Token)
}

func TestLocateConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lr.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: openai\n"), 0o600))

	assert.Equal(t, path, locateConfigFile("lr", []string{dir}))
	assert.Empty(t, locateConfigFile("missing", []string{dir}))
}
