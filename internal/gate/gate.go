// Package gate validates proposed schema files against a schema registry
// under each file's declared compatibility mode. Subjects are independent:
// one file that cannot be checked fails its own subject and nothing else.
package gate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"schemagate/internal/registry"
	"schemagate/internal/schema/types"
)

const defaultConcurrency = 4

// Options configures a Gate.
type Options struct {
	// SchemaType is the format of every proposed schema in the batch.
	// Defaults to Avro.
	SchemaType types.SchemaType

	// Concurrency bounds how many subjects are validated at once. Zero or
	// negative selects the default.
	Concurrency int
}

// Gate runs the validation pipeline for batches of proposed schema files.
type Gate struct {
	registry    registry.Client
	oracle      Oracle
	schemaType  types.SchemaType
	concurrency int
}

// New creates a gate. The registry client and oracle are shared across
// concurrent subjects and must be safe for concurrent use.
func New(client registry.Client, oracle Oracle, opts Options) *Gate {
	schemaType := opts.SchemaType
	if schemaType == "" {
		schemaType = types.Avro
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	return &Gate{
		registry:    client,
		oracle:      oracle,
		schemaType:  schemaType,
		concurrency: concurrency,
	}
}

// Validate runs the full pipeline for every path and folds the results into
// one run outcome. Subjects are processed concurrently up to the configured
// bound; each outcome lands in the slot of its input path, so report order
// matches input order regardless of scheduling.
func (g *Gate) Validate(ctx context.Context, paths []string) RunOutcome {
	outcomes := make([]SubjectOutcome, len(paths))

	sem := make(chan struct{}, g.concurrency)
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			outcomes[i] = g.validateFile(ctx, path)
		}(i, path)
	}
	wg.Wait()

	run := FoldRun(outcomes)
	slog.Info("validation run complete", "run_id", run.ID, "subjects", len(run.Subjects), "ok", run.OK)
	return run
}

// validateFile takes one proposed schema file through the pipeline: derive
// the subject, parse, resolve the declared mode, fetch history, check, and
// aggregate. Every early return is a terminal subject outcome.
func (g *Gate) validateFile(ctx context.Context, path string) SubjectOutcome {
	subject, err := SubjectFromPath(path)
	if err != nil {
		slog.Error("subject derivation failed", "path", path, "error", err)
		return SubjectFailure(path, "", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		slog.Error("read schema file failed", "subject", subject, "error", err)
		return SubjectFailure(subject, "", &ParseError{Path: path, Err: err})
	}
	proposed := string(raw)

	if err := g.oracle.Validate(g.schemaType, proposed); err != nil {
		slog.Error("parse schema failed", "subject", subject, "error", err)
		return SubjectFailure(subject, "", &ParseError{Path: path, Err: err})
	}

	declared, ok := g.oracle.DeclaredMode(proposed)
	if !ok {
		slog.Info("no compatibility mode declared, skipping", "subject", subject)
		return SubjectSkipped(subject, "", "no compatibility mode declared")
	}

	mode, err := ResolveMode(declared)
	if err != nil {
		slog.Error("invalid compatibility mode", "subject", subject, "declared", declared)
		return SubjectFailure(subject, "", err)
	}

	// Mode None passes without consulting the registry at all.
	if mode == types.None {
		slog.Debug("compatibility checking disabled", "subject", subject)
		return SubjectSkipped(subject, mode, "compatibility mode NONE")
	}

	history, registered, err := g.fetchHistory(ctx, subject)
	if err != nil {
		slog.Error("history fetch failed", "subject", subject, "error", err)
		return SubjectFailure(subject, mode, err)
	}
	if !registered {
		slog.Debug("subject has no registered versions", "subject", subject)
		outcome := AggregateSubject(subject, mode, nil)
		outcome.Note = "no registered versions"
		return outcome
	}

	verdicts, err := CheckSubject(g.oracle, g.schemaType, mode, proposed, history)
	if err != nil {
		slog.Error("compatibility check failed", "subject", subject, "error", err)
		return SubjectFailure(subject, mode, err)
	}

	outcome := AggregateSubject(subject, mode, verdicts)
	if outcome.OK {
		slog.Debug("subject compatible", "subject", subject, "mode", mode, "checks", len(verdicts))
	} else {
		slog.Info("subject incompatible", "subject", subject, "mode", mode, "checks", len(verdicts))
	}
	return outcome
}

// fetchHistory materializes the subject's registered version history. An
// unknown subject is an empty history, not a failure; every other registry
// problem is a *FetchError.
func (g *Gate) fetchHistory(ctx context.Context, subject string) ([]RegisteredVersion, bool, error) {
	versions, err := g.registry.Versions(ctx, subject)
	if err != nil {
		if errors.Is(err, registry.ErrSubjectNotFound) {
			return nil, false, nil
		}
		return nil, false, &FetchError{Subject: subject, Err: err}
	}

	history := make([]RegisteredVersion, 0, len(versions))
	for _, version := range versions {
		content, err := g.registry.Schema(ctx, subject, version)
		if err != nil {
			return nil, false, &FetchError{Subject: subject, Err: fmt.Errorf("version %d: %w", version, err)}
		}
		history = append(history, RegisteredVersion{Version: version, Schema: content})
	}
	return history, true, nil
}

// SubjectFromPath derives the registry subject for a schema file: the base
// name with its extension stripped.
func SubjectFromPath(path string) (string, error) {
	base := filepath.Base(path)
	subject := strings.TrimSuffix(base, filepath.Ext(base))
	if subject == "" || subject == "." || subject == string(filepath.Separator) {
		return "", fmt.Errorf("no subject derivable from path %q", path)
	}
	return subject, nil
}
