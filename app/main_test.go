package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/natefinch/lumberjack.v2"

	"scribefeed/app/client"
)

func Test_makeHostName(t *testing.T) {
	opts.Alerts.HostName = "test"
	assert.Equal(t, "test", makeHostName())

	opts.Alerts.HostName = ""
	exp, err := os.Hostname()
	require.NoError(t, err)
	assert.Equal(t, exp, makeHostName())
}

func Test_setupLogsWithFileDisabled(t *testing.T) {
	opts.Log.Enabled = false
	assert.Equal(t, os.Stdout, setupLogs())
}

func Test_setupLogsToFile(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	opts.Log.Enabled = true
	opts.Log.Filename = tmpfile.Name()
	opts.Log.MaxSize = 100
	opts.Log.MaxBackups = 7
	opts.Log.MaxAge = 0
	opts.Log.EnabledCompress = false

	out := setupLogs()
	assert.IsType(t, &lumberjack.Logger{}, out)

	logger := out.(*lumberjack.Logger)
	assert.Equal(t, tmpfile.Name(), logger.Filename)
	assert.Equal(t, 100, logger.MaxSize)
	assert.Equal(t, 7, logger.MaxBackups)
	assert.Equal(t, 0, logger.MaxAge)
	assert.False(t, logger.Compress)

	opts.Log.Enabled = false
}

func Test_applyConfig(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "scribefeed.yml")
	content := `
api:
  url: "https://scribe.example.com"
  timeout: "20s"
feed:
  idle_poll: "30s"
web:
  address: ":9090"
alerts:
  on_failure: true
  destinations:
    - "mailto:ops@example.com"
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))

	opts.API.URL = "http://flag.example.com"
	opts.API.Key = "flag-key"
	opts.API.Timeout = 10 * time.Second
	opts.Feed.ActivePoll = 2 * time.Second
	opts.Feed.IdlePoll = 15 * time.Second
	opts.Listen = ":8080"
	opts.Alerts.OnFailure = false
	opts.Alerts.Destinations = nil

	require.NoError(t, applyConfig(file))

	assert.Equal(t, "https://scribe.example.com", opts.API.URL, "file overrides flag")
	assert.Equal(t, "flag-key", opts.API.Key, "flag survives when file silent")
	assert.Equal(t, 20*time.Second, opts.API.Timeout)
	assert.Equal(t, 2*time.Second, opts.Feed.ActivePoll, "flag survives")
	assert.Equal(t, 30*time.Second, opts.Feed.IdlePoll)
	assert.Equal(t, ":9090", opts.Listen)
	assert.True(t, opts.Alerts.OnFailure)
	assert.Equal(t, []string{"mailto:ops@example.com"}, opts.Alerts.Destinations)
}

func Test_applyConfigMissingFile(t *testing.T) {
	err := applyConfig(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can't read config file")
}

func Test_waitForAPI(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/jobs", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jobs":[]}`))
	}))
	defer ts.Close()

	cl, err := client.New(client.Config{BaseURL: ts.URL, Timeout: time.Second})
	require.NoError(t, err)

	opts.API.URL = ts.URL
	opts.Wait = 3 * time.Second
	require.NoError(t, waitForAPI(context.Background(), cl))
}

func Test_waitForAPIFailed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	cl, err := client.New(client.Config{BaseURL: ts.URL, Timeout: time.Second})
	require.NoError(t, err)

	opts.API.URL = ts.URL
	opts.Wait = 1500 * time.Millisecond
	err = waitForAPI(context.Background(), cl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api not available")
}
