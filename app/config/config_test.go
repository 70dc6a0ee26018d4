package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "scribefeed.yml")

	content := `# scribefeed config
api:
  url: "https://scribe.example.com"
  key: "secret-key"
  timeout: "15s"

feed:
  heartbeat_timeout: "12s"
  check_interval: "3s"
  active_poll: "2s"
  idle_poll: "15s"

web:
  address: ":8080"

alerts:
  on_failure: true
  destinations:
    - "mailto:ops@example.com"
    - "https://hooks.example.com/scribe"
  smtp:
    host: "smtp.example.com"
    port: 587
    starttls: true
    username: "scribe"
    password: "smtp-secret"
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))

	cfg, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, "https://scribe.example.com", cfg.API.URL)
	assert.Equal(t, "secret-key", cfg.API.Key)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout.D())

	assert.Equal(t, 12*time.Second, cfg.Feed.HeartbeatTimeout.D())
	assert.Equal(t, 3*time.Second, cfg.Feed.CheckInterval.D())
	assert.Equal(t, 2*time.Second, cfg.Feed.ActivePoll.D())
	assert.Equal(t, 15*time.Second, cfg.Feed.IdlePoll.D())

	assert.Equal(t, ":8080", cfg.Web.Address)

	assert.True(t, cfg.Alerts.OnFailure)
	assert.False(t, cfg.Alerts.OnCompletion)
	assert.Equal(t, []string{"mailto:ops@example.com", "https://hooks.example.com/scribe"}, cfg.Alerts.Destinations)
	assert.Equal(t, "smtp.example.com", cfg.Alerts.SMTP.Host)
	assert.Equal(t, 587, cfg.Alerts.SMTP.Port)
	assert.True(t, cfg.Alerts.SMTP.StartTLS)
}

func TestLoad_PartialFile(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "scribefeed.yml")
	require.NoError(t, os.WriteFile(file, []byte("api:\n  url: \"http://localhost:9000\"\n"), 0o600))

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", cfg.API.URL)
	assert.Equal(t, time.Duration(0), cfg.API.Timeout.D(), "unset duration stays zero")
	assert.Empty(t, cfg.Web.Address)
}

func TestLoad_Errors(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(tmpDir, "nope.yml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "can't read config file")
	})

	t.Run("bad yaml", func(t *testing.T) {
		file := filepath.Join(tmpDir, "bad.yml")
		require.NoError(t, os.WriteFile(file, []byte("api: [unterminated"), 0o600))
		_, err := Load(file)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "can't parse config file")
	})

	t.Run("bad duration", func(t *testing.T) {
		file := filepath.Join(tmpDir, "dur.yml")
		require.NoError(t, os.WriteFile(file, []byte("api:\n  timeout: \"12 parsecs\"\n"), 0o600))
		_, err := Load(file)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid duration")
	})

	t.Run("bad url", func(t *testing.T) {
		file := filepath.Join(tmpDir, "url.yml")
		require.NoError(t, os.WriteFile(file, []byte("api:\n  url: \"ftp://example.com\"\n"), 0o600))
		_, err := Load(file)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "api.url must start with")
	})

	t.Run("bad destination", func(t *testing.T) {
		file := filepath.Join(tmpDir, "dest.yml")
		require.NoError(t, os.WriteFile(file, []byte("alerts:\n  destinations:\n    - \"gopher://alerts\"\n"), 0o600))
		_, err := Load(file)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported \"gopher://alerts\"")
	})
}

func TestFile_Validate(t *testing.T) {
	tbl := []struct {
		name    string
		mod     func(f *File)
		wantErr string
	}{
		{"empty config is fine", func(*File) {}, ""},
		{"valid url", func(f *File) { f.API.URL = "https://scribe.example.com" }, ""},
		{"negative duration", func(f *File) { f.Feed.IdlePoll = Duration(-time.Second) }, "feed.idle_poll can't be negative"},
		{"slack destination", func(f *File) { f.Alerts.Destinations = []string{"slack:ops-channel"} }, ""},
		{"telegram destination", func(f *File) { f.Alerts.Destinations = []string{"telegram:scribe_alerts"} }, ""},
		{"empty destination", func(f *File) { f.Alerts.Destinations = []string{""} }, "alerts destination 1"},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			f := &File{}
			tt.mod(f)
			err := f.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGenerateSchema(t *testing.T) {
	schema, err := GenerateSchema()
	require.NoError(t, err)
	require.NotNil(t, schema)

	data, err := json.Marshal(schema)
	require.NoError(t, err)
	assert.Contains(t, string(data), "heartbeat_timeout")
	assert.Contains(t, string(data), "go duration string", "durations rendered as strings")
}
