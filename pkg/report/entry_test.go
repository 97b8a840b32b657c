package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryStatus(t *testing.T) {
	tests := []struct {
		name   string
		phases []PhaseRecord
		want   Status
	}{
		{
			name: "all passed",
			phases: []PhaseRecord{
				{Phase: PhaseSetup, Outcome: OutcomePassed},
				{Phase: PhaseCall, Outcome: OutcomePassed},
				{Phase: PhaseTeardown, Outcome: OutcomePassed},
			},
			want: StatusPassed,
		},
		{
			name: "call failed",
			phases: []PhaseRecord{
				{Phase: PhaseSetup, Outcome: OutcomePassed},
				{Phase: PhaseCall, Outcome: OutcomeFailed},
				{Phase: PhaseTeardown, Outcome: OutcomePassed},
			},
			want: StatusFailed,
		},
		{
			name: "setup failed",
			phases: []PhaseRecord{
				{Phase: PhaseSetup, Outcome: OutcomeFailed},
				{Phase: PhaseTeardown, Outcome: OutcomePassed},
			},
			want: StatusError,
		},
		{
			name: "teardown failed after call failure",
			phases: []PhaseRecord{
				{Phase: PhaseCall, Outcome: OutcomeFailed},
				{Phase: PhaseTeardown, Outcome: OutcomeFailed},
			},
			want: StatusError,
		},
		{
			name: "skipped in setup",
			phases: []PhaseRecord{
				{Phase: PhaseSetup, Outcome: OutcomeSkipped},
				{Phase: PhaseTeardown, Outcome: OutcomePassed},
			},
			want: StatusSkipped,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Entry{Name: tt.name}
			for _, rec := range tt.phases {
				require.NoError(t, e.Record(rec))
			}
			assert.Equal(t, tt.want, e.Status())
		})
	}
}

func TestEntryAttachFailureOnce(t *testing.T) {
	e := &Entry{Name: "test_search"}
	narrative := NewArtifact(ArtifactNarrative, "<p>details</p>")
	image := NewArtifact(ArtifactImage, "<img>")

	require.NoError(t, e.AttachFailure(narrative, image))
	assert.ErrorIs(t, e.AttachFailure(narrative, image), ErrFailureCaptured)

	artifacts := e.Artifacts()
	require.Len(t, artifacts, 2)
	assert.Equal(t, ArtifactNarrative, artifacts[0].Kind())
	assert.Equal(t, ArtifactImage, artifacts[1].Kind())
}

func TestEntrySealed(t *testing.T) {
	e := &Entry{Name: "test_title"}
	require.NoError(t, e.Record(PhaseRecord{Phase: PhaseCall, Outcome: OutcomePassed, Duration: time.Second}))
	e.Seal()

	assert.True(t, e.Sealed())
	assert.ErrorIs(t, e.Record(PhaseRecord{Phase: PhaseTeardown}), ErrEntrySealed)
	assert.ErrorIs(t, e.AttachFailure(Artifact{}, Artifact{}), ErrEntrySealed)
	assert.Empty(t, e.Artifacts())
	assert.Equal(t, time.Second, e.Duration())
}

func TestEntryOutcomeAndMessage(t *testing.T) {
	e := &Entry{}
	require.NoError(t, e.Record(PhaseRecord{Phase: PhaseSetup, Outcome: OutcomePassed}))
	require.NoError(t, e.Record(PhaseRecord{Phase: PhaseCall, Outcome: OutcomeFailed, Message: "title mismatch"}))

	outcome, ok := e.Outcome(PhaseCall)
	assert.True(t, ok)
	assert.Equal(t, OutcomeFailed, outcome)

	_, ok = e.Outcome(PhaseTeardown)
	assert.False(t, ok)

	assert.Equal(t, "title mismatch", e.Message())
}

func TestPhasesReturnsCopy(t *testing.T) {
	e := &Entry{}
	require.NoError(t, e.Record(PhaseRecord{Phase: PhaseCall, Outcome: OutcomePassed}))

	phases := e.Phases()
	phases[0].Outcome = OutcomeFailed

	outcome, _ := e.Outcome(PhaseCall)
	assert.Equal(t, OutcomePassed, outcome)
}
