package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tenantready")
}

func TestVersionCommandJSON(t *testing.T) {
	out, err := execute(t, "version", "--json")
	require.NoError(t, err)

	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Contains(t, info, "Version")
}

func TestAreasCommand(t *testing.T) {
	out, err := execute(t, "areas")
	require.NoError(t, err)
	assert.Contains(t, out, "licensing")
	assert.Contains(t, out, "interactive-delegated")
	assert.Contains(t, out, "subscribed-skus")
}

func TestAreasCommandJSON(t *testing.T) {
	out, err := execute(t, "areas", "--format", "json")
	require.NoError(t, err)

	var infos []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 6)
	assert.Equal(t, "licensing", infos[0]["name"])
}

func TestAssessCommandMissingCredentials(t *testing.T) {
	t.Setenv("TENANT_ID", "")
	t.Setenv("CLIENT_ID", "")
	t.Setenv("CLIENT_SECRET", "")

	_, err := execute(t, "assess", "--no-progress")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH-004")
}
