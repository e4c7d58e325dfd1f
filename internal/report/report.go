// Package report renders run outcomes for CI logs and machine consumers.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"schemagate/internal/gate"
)

// Formats accepted by the -format flag.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Write renders the run in the requested format.
func Write(w io.Writer, format string, run gate.RunOutcome) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, run)
	case FormatText, "":
		return WriteText(w, run)
	default:
		return fmt.Errorf("unknown report format: %s", format)
	}
}

// WriteText renders one line per subject, diagnostics for every incompatible
// verdict, and a closing summary line.
func WriteText(w io.Writer, run gate.RunOutcome) error {
	var passed, failed, skipped int

	for _, subject := range run.Subjects {
		switch {
		case subject.Err != nil:
			failed++
			fmt.Fprintf(w, "✗ %s  error: %v\n", subject.Subject, subject.Err)
		case subject.Skipped:
			skipped++
			fmt.Fprintf(w, "- %s  skipped: %s\n", subject.Subject, subject.Note)
		case !subject.OK:
			failed++
			fmt.Fprintf(w, "✗ %s  %s (%s)\n", subject.Subject, subject.Mode, countChecks(len(subject.Verdicts)))
			for _, verdict := range subject.Verdicts {
				if verdict.Compatible {
					continue
				}
				fmt.Fprintf(w, "    ✗ reader %s / writer %s: %s\n", verdict.Reader, verdict.Writer, verdict.Message)
			}
		default:
			passed++
			detail := countChecks(len(subject.Verdicts))
			if subject.Note != "" {
				detail = subject.Note
			}
			fmt.Fprintf(w, "✓ %s  %s (%s)\n", subject.Subject, subject.Mode, detail)
		}
	}

	_, err := fmt.Fprintf(w, "\n%d subjects: %d passed, %d failed, %d skipped\n",
		len(run.Subjects), passed, failed, skipped)
	return err
}

func countChecks(n int) string {
	if n == 1 {
		return "1 check"
	}
	return fmt.Sprintf("%d checks", n)
}

// runView is the machine-readable envelope for one run.
type runView struct {
	RunID    string        `json:"run_id"`
	OK       bool          `json:"ok"`
	Subjects []subjectView `json:"subjects"`
}

type subjectView struct {
	Subject  string        `json:"subject"`
	Mode     string        `json:"mode,omitempty"`
	OK       bool          `json:"ok"`
	Skipped  bool          `json:"skipped,omitempty"`
	Note     string        `json:"note,omitempty"`
	Error    string        `json:"error,omitempty"`
	Verdicts []verdictView `json:"verdicts,omitempty"`
}

type verdictView struct {
	Compatible bool   `json:"compatible"`
	Reader     string `json:"reader"`
	Writer     string `json:"writer"`
	Message    string `json:"message,omitempty"`
}

// WriteJSON renders the full run, all verdicts included, as indented JSON.
func WriteJSON(w io.Writer, run gate.RunOutcome) error {
	view := runView{
		RunID:    run.ID,
		OK:       run.OK,
		Subjects: make([]subjectView, 0, len(run.Subjects)),
	}

	for _, subject := range run.Subjects {
		sv := subjectView{
			Subject: subject.Subject,
			Mode:    string(subject.Mode),
			OK:      subject.OK,
			Skipped: subject.Skipped,
			Note:    subject.Note,
		}
		if subject.Err != nil {
			sv.Error = subject.Err.Error()
		}
		for _, verdict := range subject.Verdicts {
			sv.Verdicts = append(sv.Verdicts, verdictView{
				Compatible: verdict.Compatible,
				Reader:     verdict.Reader,
				Writer:     verdict.Writer,
				Message:    verdict.Message,
			})
		}
		view.Subjects = append(view.Subjects, sv)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(view)
}
