package fileloader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileLoader_Load(t *testing.T) {
	path := writeConfig(t, `
auth:
  bot-creds:
    type: basic
    username: bot
    password: hunter2
    scope: https://example.org
servers:
  - name: main
    url: https://example.org/gerrit
    insecure_https: true
    credentials_ref: bot-creds
    traits:
      - name: branch-filter
        config:
          include: main
page_size: 50
`)

	cfg, err := NewFileLoader(path).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, cfg.Servers, 1)
	server := cfg.Servers[0]
	assert.Equal(t, "main", server.Name)
	assert.Equal(t, "https://example.org/gerrit", server.URL)
	assert.True(t, server.InsecureHTTPS)
	assert.Equal(t, "bot-creds", server.CredentialsRef)
	require.Len(t, server.Traits, 1)
	assert.Equal(t, "branch-filter", server.Traits[0].Name)
	assert.Equal(t, "main", server.Traits[0].Config["include"])

	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, "bot", cfg.Auth["bot-creds"].Username)
}

func TestFileLoader_MissingFile(t *testing.T) {
	_, err := NewFileLoader(filepath.Join(t.TempDir(), "nope.yaml")).Load(context.Background())
	require.Error(t, err)
}

func TestFileLoader_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "servers: [not: {closed")
	_, err := NewFileLoader(path).Load(context.Background())
	require.Error(t, err)
}

func TestFileLoader_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "no servers",
			content: "servers: []",
		},
		{
			name: "missing url",
			content: `
servers:
  - name: main
`,
		},
		{
			name: "malformed url",
			content: `
servers:
  - name: main
    url: example.org/gerrit
`,
		},
		{
			name: "unknown credentials ref",
			content: `
servers:
  - name: main
    url: https://example.org
    credentials_ref: ghost
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := NewFileLoader(path).Load(context.Background())
			assert.Error(t, err)
		})
	}
}
