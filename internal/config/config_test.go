package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "session_key: secret\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Listen)
	assert.Equal(t, IdentifierMobile, cfg.Identifier)
	assert.Equal(t, LanguageEnglish, cfg.Language)
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.Equal(t, PageVisibilityListed, cfg.Admin.PageVisibility)
	assert.Equal(t, StoreBackendJSON, cfg.Store.Backend)
	assert.Equal(t, "user_data.json", cfg.Store.UsersFile)
	assert.Equal(t, "user_inputs.json", cfg.Store.SubmissionsFile)
	assert.Equal(t, "uploaded_images", cfg.Uploads.Dir)
	assert.Equal(t, 128, cfg.Model.InputSize)
	assert.Equal(t, 30*time.Second, cfg.Model.Timeout)
	assert.Equal(t, CacheTypeMemory, cfg.Cache.Type)
	assert.False(t, cfg.Email.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
session_key: secret
identifier: USERNAME
language: bn
model:
  url: http://model:8501/
admin:
  username: root
  password: hunter2
  page_visibility: hidden
store:
  backend: sqlite
  database_path: /tmp/leafcheck.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, IdentifierUsername, cfg.Identifier)
	assert.Equal(t, LanguageBengali, cfg.Language)
	assert.Equal(t, "http://model:8501", cfg.Model.URL)
	assert.Equal(t, "root", cfg.Admin.Username)
	assert.Equal(t, PageVisibilityHidden, cfg.Admin.PageVisibility)
	assert.Equal(t, StoreBackendSQLite, cfg.Store.Backend)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "session_key: secret\n")
	t.Setenv("LEAFCHECK_LANGUAGE", "bn")
	t.Setenv("LEAFCHECK_MODEL_NAME", "leaves")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, LanguageBengali, cfg.Language)
	assert.Equal(t, "leaves", cfg.Model.Name)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing session key",
			content: "listen: 0.0.0.0:9000\n",
			wantErr: "session_key is required",
		},
		{
			name:    "invalid identifier",
			content: "session_key: s\nidentifier: email\n",
			wantErr: "invalid identifier",
		},
		{
			name:    "invalid language",
			content: "session_key: s\nlanguage: de\n",
			wantErr: "invalid language",
		},
		{
			name:    "invalid backend",
			content: "session_key: s\nstore:\n  backend: mongo\n",
			wantErr: "invalid store.backend",
		},
		{
			name:    "redis without url",
			content: "session_key: s\ncache:\n  enabled: true\n  type: redis\n",
			wantErr: "Redis URL is required",
		},
		{
			name:    "email without host",
			content: "session_key: s\nemail:\n  enabled: true\n",
			wantErr: "SMTP host is required",
		},
		{
			name:    "invalid page visibility",
			content: "session_key: s\nadmin:\n  page_visibility: secret\n",
			wantErr: "invalid admin.page_visibility",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
