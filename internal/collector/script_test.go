package collector

import (
	"bytes"
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/tenantready/internal/auth"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test relies on sh")
	}
}

func TestScriptFetcherRunsCollector(t *testing.T) {
	requireShell(t)

	script := `echo '{"schema_version":1,"area":"licensing","resources":{"subscribed-skus":{"status":"ok","data":{"skus":[]}}}}'`
	fetcher := NewScriptFetcher("licensing", []string{"sh", "-c", script}).WithStderr(&bytes.Buffer{})

	env, err := fetcher.Fetch(context.Background(), &auth.Credential{Token: auth.Token{AccessToken: "tok"}})
	require.NoError(t, err)
	assert.Equal(t, "licensing", env.Area)
	assert.Contains(t, env.Resources, "subscribed-skus")
}

func TestScriptFetcherPassesTokenInEnv(t *testing.T) {
	requireShell(t)

	script := `printf '{"schema_version":1,"area":"%s","resources":{"_":{"status":"unavailable","detail":"%s"}}}' "$READY_AREA" "$READY_ACCESS_TOKEN"`
	fetcher := NewScriptFetcher("identity", []string{"sh", "-c", script}).WithStderr(&bytes.Buffer{})

	env, err := fetcher.Fetch(context.Background(), &auth.Credential{Token: auth.Token{AccessToken: "secret-token"}})
	require.NoError(t, err)
	assert.Equal(t, "identity", env.Area)
	assert.Equal(t, "secret-token", env.Resources["_"].Detail)
}

func TestScriptFetcherProcessFailure(t *testing.T) {
	requireShell(t)

	fetcher := NewScriptFetcher("security", []string{"sh", "-c", "exit 3"}).WithStderr(&bytes.Buffer{})
	_, err := fetcher.Fetch(context.Background(), &auth.Credential{})
	require.Error(t, err)
}

func TestScriptFetcherMalformedStdout(t *testing.T) {
	requireShell(t)

	fetcher := NewScriptFetcher("security", []string{"sh", "-c", "echo not-json"}).WithStderr(&bytes.Buffer{})
	_, err := fetcher.Fetch(context.Background(), &auth.Credential{})
	require.Error(t, err)
}

func TestScriptFetcherTimeout(t *testing.T) {
	requireShell(t)

	fetcher := NewScriptFetcher("security", []string{"sh", "-c", "sleep 5"}).
		WithStderr(&bytes.Buffer{}).
		WithTimeout(50 * time.Millisecond)

	start := time.Now()
	_, err := fetcher.Fetch(context.Background(), &auth.Credential{})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
