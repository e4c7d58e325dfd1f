// Package registry provides read-only clients for a schema registry's
// version history, over its REST API or directly against its JetStream
// KeyValue bucket.
package registry

import (
	"context"
	"errors"
)

// ErrSubjectNotFound reports a subject the registry has never seen. Callers
// treat it as an empty history rather than a failure.
var ErrSubjectNotFound = errors.New("subject not found")

// Client is the registry surface needed to check a proposed schema against
// registered history. Implementations must be safe for concurrent use.
type Client interface {
	// Versions lists the registered version numbers for a subject in
	// ascending order. Unknown subjects fail with ErrSubjectNotFound.
	Versions(ctx context.Context, subject string) ([]int, error)

	// Schema fetches the schema content of one registered version.
	Schema(ctx context.Context, subject string, version int) (string, error)
}
