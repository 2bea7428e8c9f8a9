package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOAuthSourceClientCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "/tenant-1/oauth2/v2.0/token", r.URL.Path)
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))
		assert.Equal(t, "app-id", r.Form.Get("client_id"))
		assert.Equal(t, "app-secret", r.Form.Get("client_secret"))
		assert.Contains(t, r.Form.Get("scope"), "graph.microsoft.com")

		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "app-token",
			"expires_in":   3600,
		})
	}))
	defer server.Close()

	src := NewOAuthSource("app-id", "app-secret").WithLoginBase(server.URL)
	token, err := src.Acquire(context.Background(), Request{
		Flow:     FlowApplication,
		Scopes:   []string{"https://graph.microsoft.com/.default"},
		TenantID: "tenant-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "app-token", token.AccessToken)
	assert.False(t, token.ExpiresAt.IsZero())
}

func TestOAuthSourceClientCredentialsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"error":             "invalid_client",
			"error_description": "client secret expired",
		})
	}))
	defer server.Close()

	src := NewOAuthSource("app-id", "stale").WithLoginBase(server.URL)
	_, err := src.Acquire(context.Background(), Request{TenantID: "tenant-1"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_client")
}

func TestOAuthSourceDeviceCode(t *testing.T) {
	var polls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/devicecode") {
			json.NewEncoder(w).Encode(map[string]any{
				"device_code":      "dev-1",
				"user_code":        "ABCD1234",
				"verification_uri": "https://example.test/device",
				"expires_in":       60,
				"interval":         1,
			})
			return
		}

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "dev-1", r.Form.Get("device_code"))
		if polls.Add(1) == 1 {
			json.NewEncoder(w).Encode(map[string]any{"error": "authorization_pending"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "delegated-token",
			"expires_in":   3600,
		})
	}))
	defer server.Close()

	var prompt bytes.Buffer
	src := NewOAuthSource("app-id", "").WithLoginBase(server.URL).WithPrompt(&prompt)
	token, err := src.Acquire(context.Background(), Request{
		Flow:     FlowDelegated,
		Scopes:   []string{"https://api.powerplatform.com/.default"},
		TenantID: "tenant-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "delegated-token", token.AccessToken)
	assert.Contains(t, prompt.String(), "ABCD1234")
	assert.GreaterOrEqual(t, polls.Load(), int32(2))
}

func TestOAuthSourceDeviceCodeDeclined(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/devicecode") {
			json.NewEncoder(w).Encode(map[string]any{
				"device_code": "dev-1",
				"user_code":   "ABCD1234",
				"expires_in":  60,
				"interval":    1,
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"error": "authorization_declined"})
	}))
	defer server.Close()

	src := NewOAuthSource("app-id", "").WithLoginBase(server.URL).WithPrompt(&bytes.Buffer{})
	_, err := src.Acquire(context.Background(), Request{Flow: FlowDelegated, TenantID: "tenant-1"})

	require.ErrorIs(t, err, ErrConsentDeclined)
}

func TestOAuthSourceDeviceCodeContextCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/devicecode") {
			json.NewEncoder(w).Encode(map[string]any{
				"device_code": "dev-1",
				"user_code":   "ABCD1234",
				"expires_in":  600,
				"interval":    1,
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"error": "authorization_pending"})
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := NewOAuthSource("app-id", "").WithLoginBase(server.URL).WithPrompt(&bytes.Buffer{})
	_, err := src.Acquire(ctx, Request{Flow: FlowDelegated, TenantID: "tenant-1"})

	require.ErrorIs(t, err, context.Canceled)
}
