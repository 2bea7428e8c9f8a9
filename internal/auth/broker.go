// Package auth resolves credentials for service areas and caches them for
// the lifetime of a run. Areas backed by directory and security read APIs
// use a silent application-credential flow; compliance and tenant-admin
// platform APIs structurally disallow application credentials and require
// an interactive delegated flow. The broker enforces that policy — it
// never downgrades a delegated area to a silent flow.
package auth

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/felixgeelhaar/tenantready/internal/domain"
	"github.com/felixgeelhaar/tenantready/internal/errors"
)

// FlowKind selects how a credential is acquired.
type FlowKind int

const (
	// FlowApplication is the silent client-credential flow.
	FlowApplication FlowKind = iota

	// FlowDelegated is the interactive device-code flow. It may block on
	// human action and is the only operation in a run with
	// human-timescale latency.
	FlowDelegated
)

// String returns the flow's machine name.
func (f FlowKind) String() string {
	if f == FlowDelegated {
		return "interactive-delegated"
	}
	return "silent-application"
}

// FlowFor returns the credential flow a service area requires.
func FlowFor(area domain.Area) FlowKind {
	switch area {
	case domain.AreaCompliance, domain.AreaGovernance, domain.AreaAgents:
		return FlowDelegated
	default:
		return FlowApplication
	}
}

// sessionKey groups areas that share one credential. The three silent
// areas read through the same directory API and share one application
// token; governance and agents share one delegated sign-in so the admin
// is prompted once when both are requested.
func sessionKey(area domain.Area) string {
	switch area {
	case domain.AreaCompliance:
		return "compliance-delegated"
	case domain.AreaGovernance, domain.AreaAgents:
		return "platform-delegated"
	default:
		return "directory-application"
	}
}

// ScopesFor returns the OAuth scopes requested for a service area.
func ScopesFor(area domain.Area) []string {
	switch area {
	case domain.AreaCompliance:
		return []string{"https://ps.compliance.protection.outlook.com/.default"}
	case domain.AreaGovernance, domain.AreaAgents:
		return []string{"https://api.powerplatform.com/.default"}
	default:
		return []string{"https://graph.microsoft.com/.default"}
	}
}

// Token is an acquired access token with its validity window.
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Credential is the per-service authentication state handed to collector
// adapters. Created lazily on first need, reused for the remainder of the
// run, discarded at process end.
type Credential struct {
	Flow    FlowKind
	Token   Token
	Session string

	acquiredAt time.Time
}

// expirySkew guards against using a token that expires mid-collection.
const expirySkew = 2 * time.Minute

// Valid reports whether the credential can still be used at the given time.
func (c *Credential) Valid(now time.Time) bool {
	if c == nil || c.Token.AccessToken == "" {
		return false
	}
	return now.Add(expirySkew).Before(c.Token.ExpiresAt)
}

// Request describes one token acquisition.
type Request struct {
	Flow     FlowKind
	Scopes   []string
	TenantID string
}

// TokenSource acquires tokens from an identity provider. Implementations
// must return ErrConsentDeclined or ErrFlowTimeout (possibly wrapped) for
// interactive failures so the broker can classify them.
type TokenSource interface {
	Acquire(ctx context.Context, req Request) (Token, error)
}

// Sentinel failures a TokenSource reports for interactive flows.
var (
	// ErrConsentDeclined means the admin rejected the sign-in prompt.
	ErrConsentDeclined = stderrors.New("consent declined")

	// ErrFlowTimeout means the device code expired before sign-in.
	ErrFlowTimeout = stderrors.New("interactive flow timed out")
)

// Broker resolves credentials per service area and caches them for the
// run. Resolve is idempotent: a valid cached credential is returned
// without re-prompting, which is what the user experiences as "sign in
// once per run, not per call".
type Broker struct {
	source   TokenSource
	tenantID string
	notify   io.Writer
	now      func() time.Time

	mu    sync.Mutex
	cache map[string]*Credential
}

// NewBroker creates a broker over the given token source.
func NewBroker(source TokenSource, tenantID string) *Broker {
	return &Broker{
		source:   source,
		tenantID: tenantID,
		notify:   os.Stderr,
		now:      time.Now,
		cache:    make(map[string]*Credential),
	}
}

// WithNotify sets the side channel where sign-in completion is reported.
// This is never stdout: stdout may carry a JSON payload stream.
func (b *Broker) WithNotify(w io.Writer) *Broker {
	b.notify = w
	return b
}

// WithClock overrides the broker's clock.
func (b *Broker) WithClock(now func() time.Time) *Broker {
	b.now = now
	return b
}

// Resolve returns the credential for a service area, acquiring it on first
// need. Acquisitions are serialized so that two areas sharing a delegated
// session trigger a single sign-in even when resolved concurrently.
//
// Failures are classified per the error taxonomy: declined or timed-out
// interactive flows surface as AuthenticationFailed, anything else as
// TokenAcquisitionError. Neither is retried here.
func (b *Broker) Resolve(ctx context.Context, area domain.Area) (*Credential, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := sessionKey(area)
	if cred, ok := b.cache[key]; ok && cred.Valid(b.now()) {
		return cred, nil
	}

	flow := FlowFor(area)
	token, err := b.source.Acquire(ctx, Request{
		Flow:     flow,
		Scopes:   ScopesFor(area),
		TenantID: b.tenantID,
	})
	if err != nil {
		if isDeclined(err) {
			return nil, errors.NewAuthenticationFailedError(area.String(), err)
		}
		return nil, errors.NewTokenAcquisitionError(area.String(), err)
	}

	cred := &Credential{
		Flow:       flow,
		Token:      token,
		Session:    key,
		acquiredAt: b.now(),
	}
	b.cache[key] = cred

	if flow == FlowDelegated {
		fmt.Fprintf(b.notify, "sign-in completed for %s\n", area.DisplayName())
	}

	return cred, nil
}

func isDeclined(err error) bool {
	return stderrors.Is(err, ErrConsentDeclined) || stderrors.Is(err, ErrFlowTimeout)
}
