package report

import (
	"errors"
	"html/template"
	"sync"
	"time"
)

var (
	// ErrEntrySealed is returned when a sealed entry is modified.
	ErrEntrySealed = errors.New("test entry is sealed")

	// ErrFailureCaptured is returned when a second failure artifact pair is attached.
	ErrFailureCaptured = errors.New("failure artifacts already attached")
)

// Phase is one of the three stages every test goes through.
type Phase string

const (
	PhaseSetup    Phase = "setup"
	PhaseCall     Phase = "call"
	PhaseTeardown Phase = "teardown"
)

// Outcome is the result of a single phase.
type Outcome string

const (
	OutcomePassed  Outcome = "passed"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

// Status is the overall verdict of a test entry.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
	// StatusError marks a failure outside the call phase
	StatusError Status = "error"
)

// ArtifactKind tells narrative fragments from images.
type ArtifactKind string

const (
	ArtifactNarrative ArtifactKind = "narrative"
	ArtifactImage     ArtifactKind = "image"
)

// Artifact is an immutable HTML fragment attached to one test entry.
type Artifact struct {
	kind ArtifactKind
	html template.HTML
}

// NewArtifact creates an artifact. The fragment is trusted markup; callers
// escape any user-controlled text before building it.
func NewArtifact(kind ArtifactKind, fragment template.HTML) Artifact {
	return Artifact{kind: kind, html: fragment}
}

// Kind returns the artifact kind.
func (a Artifact) Kind() ArtifactKind { return a.kind }

// HTML returns the artifact fragment.
func (a Artifact) HTML() template.HTML { return a.html }

// PhaseRecord is the recorded result of one phase.
type PhaseRecord struct {
	Phase    Phase
	Outcome  Outcome
	Message  string
	Duration time.Duration
}

// Entry is the report's record of one executed test.
type Entry struct {
	mu sync.Mutex

	Module    string
	Name      string
	StartedAt time.Time

	phases          []PhaseRecord
	artifacts       []Artifact
	failureCaptured bool
	sealed          bool
}

// Record stores the result of a phase.
func (e *Entry) Record(rec PhaseRecord) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sealed {
		return ErrEntrySealed
	}
	e.phases = append(e.phases, rec)
	return nil
}

// AttachFailure appends a narrative and a screenshot artifact, in that order.
// An entry accepts a single pair.
func (e *Entry) AttachFailure(narrative, image Artifact) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sealed {
		return ErrEntrySealed
	}
	if e.failureCaptured {
		return ErrFailureCaptured
	}
	e.artifacts = append(e.artifacts, narrative, image)
	e.failureCaptured = true
	return nil
}

// Seal freezes the entry once all its phases completed.
func (e *Entry) Seal() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sealed = true
}

// Sealed reports whether the entry is frozen.
func (e *Entry) Sealed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sealed
}

// Phases returns a copy of the recorded phases.
func (e *Entry) Phases() []PhaseRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]PhaseRecord(nil), e.phases...)
}

// Artifacts returns a copy of the attached artifacts.
func (e *Entry) Artifacts() []Artifact {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Artifact(nil), e.artifacts...)
}

// Outcome returns the recorded outcome of a phase and whether it ran.
func (e *Entry) Outcome(phase Phase) (Outcome, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, rec := range e.phases {
		if rec.Phase == phase {
			return rec.Outcome, true
		}
	}
	return "", false
}

// Duration is the summed duration of the recorded phases.
func (e *Entry) Duration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	var d time.Duration
	for _, rec := range e.phases {
		d += rec.Duration
	}
	return d
}

// Status derives the overall verdict: a failed setup or teardown is an error,
// a failed call is a failure, a skip anywhere before the call is a skip.
func (e *Entry) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	status := StatusPassed
	for _, rec := range e.phases {
		switch {
		case rec.Outcome == OutcomeFailed && rec.Phase != PhaseCall:
			return StatusError
		case rec.Outcome == OutcomeFailed:
			status = StatusFailed
		case rec.Outcome == OutcomeSkipped && status == StatusPassed:
			status = StatusSkipped
		}
	}
	return status
}

// Message returns the first non-empty phase message, usually the failure cause.
func (e *Entry) Message() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, rec := range e.phases {
		if rec.Message != "" {
			return rec.Message
		}
	}
	return ""
}
