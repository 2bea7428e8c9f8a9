package auth

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/tenantready/internal/domain"
	"github.com/felixgeelhaar/tenantready/internal/errors"
)

type fakeSource struct {
	calls []Request
	err   error
}

func (f *fakeSource) Acquire(_ context.Context, req Request) (Token, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return Token{}, f.err
	}
	return Token{
		AccessToken: fmt.Sprintf("token-%d", len(f.calls)),
		ExpiresAt:   time.Now().Add(time.Hour),
	}, nil
}

func TestFlowFor(t *testing.T) {
	assert.Equal(t, FlowApplication, FlowFor(domain.AreaLicensing))
	assert.Equal(t, FlowApplication, FlowFor(domain.AreaIdentity))
	assert.Equal(t, FlowApplication, FlowFor(domain.AreaSecurity))
	assert.Equal(t, FlowDelegated, FlowFor(domain.AreaCompliance))
	assert.Equal(t, FlowDelegated, FlowFor(domain.AreaGovernance))
	assert.Equal(t, FlowDelegated, FlowFor(domain.AreaAgents))
}

func TestBrokerResolveCachesPerRun(t *testing.T) {
	src := &fakeSource{}
	broker := NewBroker(src, "tenant-1").WithNotify(&bytes.Buffer{})

	first, err := broker.Resolve(context.Background(), domain.AreaCompliance)
	require.NoError(t, err)

	second, err := broker.Resolve(context.Background(), domain.AreaCompliance)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Len(t, src.calls, 1, "a valid credential must not trigger a second sign-in")
}

func TestBrokerSharedSessions(t *testing.T) {
	src := &fakeSource{}
	broker := NewBroker(src, "tenant-1").WithNotify(&bytes.Buffer{})

	// Licensing, identity, and security share one application credential.
	for _, area := range []domain.Area{domain.AreaLicensing, domain.AreaIdentity, domain.AreaSecurity} {
		_, err := broker.Resolve(context.Background(), area)
		require.NoError(t, err)
	}
	assert.Len(t, src.calls, 1)

	// Governance and agents share one delegated sign-in.
	_, err := broker.Resolve(context.Background(), domain.AreaGovernance)
	require.NoError(t, err)
	agents, err := broker.Resolve(context.Background(), domain.AreaAgents)
	require.NoError(t, err)

	assert.Len(t, src.calls, 2)
	assert.Equal(t, "platform-delegated", agents.Session)

	// Compliance has its own session.
	_, err = broker.Resolve(context.Background(), domain.AreaCompliance)
	require.NoError(t, err)
	assert.Len(t, src.calls, 3)
}

func TestBrokerRequestShape(t *testing.T) {
	src := &fakeSource{}
	broker := NewBroker(src, "tenant-1").WithNotify(&bytes.Buffer{})

	_, err := broker.Resolve(context.Background(), domain.AreaCompliance)
	require.NoError(t, err)

	require.Len(t, src.calls, 1)
	req := src.calls[0]
	assert.Equal(t, FlowDelegated, req.Flow)
	assert.Equal(t, "tenant-1", req.TenantID)
	assert.NotEmpty(t, req.Scopes)
}

func TestBrokerClassifiesDecline(t *testing.T) {
	src := &fakeSource{err: fmt.Errorf("poll: %w", ErrConsentDeclined)}
	broker := NewBroker(src, "tenant-1").WithNotify(&bytes.Buffer{})

	_, err := broker.Resolve(context.Background(), domain.AreaCompliance)
	require.Error(t, err)

	var re *errors.ReadyError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, errors.ErrCodeAuthenticationFailed, re.Code)
}

func TestBrokerClassifiesTimeout(t *testing.T) {
	src := &fakeSource{err: ErrFlowTimeout}
	broker := NewBroker(src, "tenant-1").WithNotify(&bytes.Buffer{})

	_, err := broker.Resolve(context.Background(), domain.AreaGovernance)
	require.Error(t, err)

	var re *errors.ReadyError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, errors.ErrCodeAuthenticationFailed, re.Code)
}

func TestBrokerClassifiesProviderFailure(t *testing.T) {
	src := &fakeSource{err: fmt.Errorf("connection refused")}
	broker := NewBroker(src, "tenant-1").WithNotify(&bytes.Buffer{})

	_, err := broker.Resolve(context.Background(), domain.AreaLicensing)
	require.Error(t, err)

	var re *errors.ReadyError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, errors.ErrCodeTokenAcquisition, re.Code)
}

func TestBrokerFailureIsNotCached(t *testing.T) {
	src := &fakeSource{err: ErrConsentDeclined}
	broker := NewBroker(src, "tenant-1").WithNotify(&bytes.Buffer{})

	_, err := broker.Resolve(context.Background(), domain.AreaCompliance)
	require.Error(t, err)

	src.err = nil
	cred, err := broker.Resolve(context.Background(), domain.AreaCompliance)
	require.NoError(t, err)
	assert.NotNil(t, cred)
	assert.Len(t, src.calls, 2)
}

func TestBrokerNotifiesOnDelegatedSignIn(t *testing.T) {
	src := &fakeSource{}
	var out bytes.Buffer
	broker := NewBroker(src, "tenant-1").WithNotify(&out)

	_, err := broker.Resolve(context.Background(), domain.AreaCompliance)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "sign-in completed")

	out.Reset()
	_, err = broker.Resolve(context.Background(), domain.AreaLicensing)
	require.NoError(t, err)
	assert.Empty(t, out.String(), "silent flows must not write to the side channel")
}

func TestBrokerExpiredCredentialReacquires(t *testing.T) {
	src := &fakeSource{}
	now := time.Now()
	broker := NewBroker(src, "tenant-1").WithNotify(&bytes.Buffer{}).WithClock(func() time.Time { return now })

	_, err := broker.Resolve(context.Background(), domain.AreaLicensing)
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = broker.Resolve(context.Background(), domain.AreaLicensing)
	require.NoError(t, err)
	assert.Len(t, src.calls, 2)
}
