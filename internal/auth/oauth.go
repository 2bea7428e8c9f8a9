package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	defaultLoginBase    = "https://login.microsoftonline.com"
	defaultHTTPTimeout  = 30 * time.Second
	defaultPollInterval = 5 * time.Second
)

// OAuthSource acquires tokens from the tenant's identity provider. It
// implements the client-credential grant for the silent application flow
// and the device-code grant for the interactive delegated flow.
type OAuthSource struct {
	clientID     string
	clientSecret string
	loginBase    string
	httpClient   *http.Client
	prompt       io.Writer
}

// NewOAuthSource creates a source for the given app registration.
func NewOAuthSource(clientID, clientSecret string) *OAuthSource {
	return &OAuthSource{
		clientID:     clientID,
		clientSecret: clientSecret,
		loginBase:    defaultLoginBase,
		httpClient:   &http.Client{Timeout: defaultHTTPTimeout},
		prompt:       os.Stderr,
	}
}

// WithLoginBase overrides the identity provider endpoint. Used in tests.
func (s *OAuthSource) WithLoginBase(base string) *OAuthSource {
	s.loginBase = strings.TrimRight(base, "/")
	return s
}

// WithPrompt sets where the device-code instruction is written. Never
// stdout; stdout may carry a payload stream.
func (s *OAuthSource) WithPrompt(w io.Writer) *OAuthSource {
	s.prompt = w
	return s
}

// Acquire implements TokenSource.
func (s *OAuthSource) Acquire(ctx context.Context, req Request) (Token, error) {
	if req.Flow == FlowDelegated {
		return s.deviceCode(ctx, req)
	}
	return s.clientCredentials(ctx, req)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	Error       string `json:"error"`
	ErrorDesc   string `json:"error_description"`
}

func (s *OAuthSource) clientCredentials(ctx context.Context, req Request) (Token, error) {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {s.clientID},
		"client_secret": {s.clientSecret},
		"scope":         {strings.Join(req.Scopes, " ")},
	}

	var tr tokenResponse
	if err := s.postForm(ctx, s.tokenURL(req.TenantID), form, &tr); err != nil {
		return Token{}, err
	}
	if tr.Error != "" {
		return Token{}, fmt.Errorf("token endpoint: %s: %s", tr.Error, tr.ErrorDesc)
	}
	return s.token(tr), nil
}

type deviceCodeResponse struct {
	DeviceCode string `json:"device_code"`
	UserCode   string `json:"user_code"`
	VerifyURL  string `json:"verification_uri"`
	ExpiresIn  int    `json:"expires_in"`
	Interval   int    `json:"interval"`
	Message    string `json:"message"`
	Error      string `json:"error"`
	ErrorDesc  string `json:"error_description"`
}

// deviceCode runs the device-code grant: request a code, show the
// sign-in instruction on the prompt channel, then poll the token
// endpoint until the admin completes or declines the sign-in.
func (s *OAuthSource) deviceCode(ctx context.Context, req Request) (Token, error) {
	form := url.Values{
		"client_id": {s.clientID},
		"scope":     {strings.Join(req.Scopes, " ")},
	}

	var dc deviceCodeResponse
	endpoint := fmt.Sprintf("%s/%s/oauth2/v2.0/devicecode", s.loginBase, req.TenantID)
	if err := s.postForm(ctx, endpoint, form, &dc); err != nil {
		return Token{}, err
	}
	if dc.Error != "" {
		return Token{}, fmt.Errorf("device code endpoint: %s: %s", dc.Error, dc.ErrorDesc)
	}

	if dc.Message != "" {
		fmt.Fprintln(s.prompt, dc.Message)
	} else {
		fmt.Fprintf(s.prompt, "To sign in, visit %s and enter the code %s\n", dc.VerifyURL, dc.UserCode)
	}

	interval := defaultPollInterval
	if dc.Interval > 0 {
		interval = time.Duration(dc.Interval) * time.Second
	}
	deadline := time.Now().Add(time.Duration(dc.ExpiresIn) * time.Second)

	poll := url.Values{
		"grant_type":  {"urn:ietf:params:oauth:grant-type:device_code"},
		"client_id":   {s.clientID},
		"device_code": {dc.DeviceCode},
	}

	for {
		select {
		case <-ctx.Done():
			return Token{}, ctx.Err()
		case <-time.After(interval):
		}

		if time.Now().After(deadline) {
			return Token{}, ErrFlowTimeout
		}

		var tr tokenResponse
		if err := s.postForm(ctx, s.tokenURL(req.TenantID), poll, &tr); err != nil {
			return Token{}, err
		}

		switch tr.Error {
		case "":
			return s.token(tr), nil
		case "authorization_pending", "slow_down":
			if tr.Error == "slow_down" {
				interval += defaultPollInterval
			}
		case "authorization_declined", "access_denied":
			return Token{}, ErrConsentDeclined
		case "expired_token":
			return Token{}, ErrFlowTimeout
		default:
			return Token{}, fmt.Errorf("token endpoint: %s: %s", tr.Error, tr.ErrorDesc)
		}
	}
}

func (s *OAuthSource) tokenURL(tenantID string) string {
	return fmt.Sprintf("%s/%s/oauth2/v2.0/token", s.loginBase, tenantID)
}

func (s *OAuthSource) token(tr tokenResponse) Token {
	return Token{
		AccessToken: tr.AccessToken,
		ExpiresAt:   time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second),
	}
}

func (s *OAuthSource) postForm(ctx context.Context, endpoint string, form url.Values, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("identity provider request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	// Error responses carry a JSON body with an "error" field, so decode
	// regardless of the status code and let the caller interpret it.
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	return nil
}
