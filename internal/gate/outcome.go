package gate

import (
	"schemagate/internal/schema/types"

	"github.com/google/uuid"
)

// Verdict is the oracle's answer for one (reader, writer) pair. Verdicts are
// never revised once recorded.
type Verdict struct {
	Compatible bool
	Reader     string
	Writer     string
	Message    string
}

// SubjectOutcome is the terminal result for one subject. Exactly one of three
// shapes holds: a checked subject carries verdicts, a skipped subject carries
// a note, and a failed subject carries Err.
type SubjectOutcome struct {
	Subject  string
	Mode     types.CompatibilityLevel
	Verdicts []Verdict
	OK       bool
	Skipped  bool
	Note     string
	Err      error
}

// AggregateSubject folds verdicts into a subject outcome: OK is the
// conjunction over all verdicts, and an empty verdict set passes.
func AggregateSubject(subject string, mode types.CompatibilityLevel, verdicts []Verdict) SubjectOutcome {
	outcome := SubjectOutcome{
		Subject:  subject,
		Mode:     mode,
		Verdicts: verdicts,
		OK:       true,
	}
	for _, v := range verdicts {
		if !v.Compatible {
			outcome.OK = false
		}
	}
	return outcome
}

// SubjectFailure records a subject that could not be checked at all.
func SubjectFailure(subject string, mode types.CompatibilityLevel, err error) SubjectOutcome {
	return SubjectOutcome{
		Subject: subject,
		Mode:    mode,
		Err:     err,
	}
}

// SubjectSkipped records a subject exempt from checking, with the reason.
func SubjectSkipped(subject string, mode types.CompatibilityLevel, note string) SubjectOutcome {
	return SubjectOutcome{
		Subject: subject,
		Mode:    mode,
		OK:      true,
		Skipped: true,
		Note:    note,
	}
}

// RunOutcome is the terminal artifact of one batch run. OK is the only signal
// consulted for overall success.
type RunOutcome struct {
	ID       string
	Subjects []SubjectOutcome
	OK       bool
}

// FoldRun folds subject outcomes into a run outcome under conjunction. The
// fold is order-independent: permuting the outcomes never changes OK.
func FoldRun(outcomes []SubjectOutcome) RunOutcome {
	run := RunOutcome{
		ID:       uuid.NewString(),
		Subjects: outcomes,
		OK:       true,
	}
	for _, outcome := range outcomes {
		if !outcome.OK {
			run.OK = false
		}
	}
	return run
}
