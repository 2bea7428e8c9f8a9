package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderSealProducesReadOnlySnapshot(t *testing.T) {
	b := NewBuilder("tenant-1", []Area{AreaSecurity, AreaCompliance})

	ref := Ref{Area: AreaSecurity, Resource: "secure-score"}
	require.NoError(t, b.Put(ref, Collected(ScoreReport{Current: 40, Max: 100})))
	b.MarkAssessed(AreaSecurity)
	b.MarkUnassessed(AreaCompliance, "consent declined")

	s := b.Seal()

	assert.NotEmpty(t, s.RunID())
	assert.Equal(t, "tenant-1", s.TenantID())
	assert.False(t, s.StartedAt().IsZero())
	assert.Equal(t, []Area{AreaSecurity, AreaCompliance}, s.Areas())

	got, ok := s.Result(ref)
	require.True(t, ok)
	assert.True(t, got.OK())
	assert.Equal(t, 1, got.Count)

	reason, unassessed := s.Unassessed(AreaCompliance)
	assert.True(t, unassessed)
	assert.Equal(t, "consent declined", reason)

	_, unassessed = s.Unassessed(AreaSecurity)
	assert.False(t, unassessed)

	// Writes after sealing are rejected.
	err := b.Put(Ref{Area: AreaSecurity, Resource: "incidents"}, Denied("403"))
	assert.Error(t, err)
}

func TestBuilderRejectsDuplicateRef(t *testing.T) {
	b := NewBuilder("tenant-1", []Area{AreaIdentity})

	ref := Ref{Area: AreaIdentity, Resource: "risky-users"}
	require.NoError(t, b.Put(ref, Collected(RiskReport{HighRisk: 2})))
	assert.Error(t, b.Put(ref, Collected(RiskReport{HighRisk: 3})))
}

func TestSnapshotRequested(t *testing.T) {
	s := NewBuilder("t", []Area{AreaLicensing}).Seal()
	assert.True(t, s.Requested(AreaLicensing))
	assert.False(t, s.Requested(AreaSecurity))
}

func TestSnapshotRefsDeterministicOrder(t *testing.T) {
	b := NewBuilder("t", []Area{AreaIdentity, AreaSecurity})
	require.NoError(t, b.Put(Ref{AreaSecurity, "secure-score"}, Collected(ScoreReport{})))
	require.NoError(t, b.Put(Ref{AreaIdentity, "risky-users"}, Collected(RiskReport{})))
	require.NoError(t, b.Put(Ref{AreaIdentity, "conditional-access-policies"}, Collected(PolicySet{})))
	s := b.Seal()

	want := []Ref{
		{AreaIdentity, "conditional-access-policies"},
		{AreaIdentity, "risky-users"},
		{AreaSecurity, "secure-score"},
	}
	assert.Equal(t, want, s.Refs())
}

func TestCollectionResultConstructors(t *testing.T) {
	c := Collected(PolicySet{Policies: []Policy{{Name: "a", Enabled: true}, {Name: "b"}}})
	assert.Equal(t, StateCollected, c.State)
	assert.Equal(t, 2, c.Count)
	assert.True(t, c.OK())

	d := Denied("missing role")
	assert.Equal(t, StatePermissionDenied, d.State)
	assert.Equal(t, ReasonForbidden, d.Reason)
	assert.False(t, d.OK())

	u := Unavailable(ReasonNotActivated, "portal activation required")
	assert.Equal(t, StateUnavailable, u.State)
	assert.Equal(t, ReasonNotActivated, u.Reason)
	assert.False(t, u.OK())
}
