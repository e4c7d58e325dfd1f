package gate

import (
	"fmt"
	"sort"

	"schemagate/internal/schema/types"
)

// proposedLabel identifies the proposed schema in verdicts.
const proposedLabel = "proposed"

// RegisteredVersion is one historical version of a subject as the registry
// reports it.
type RegisteredVersion struct {
	Version int
	Schema  string
}

// SchemaRef labels one side of a compatibility check for reporting.
type SchemaRef struct {
	Label  string
	Schema string
}

// SchemaPair is one ordered (reader, writer) check to submit to the oracle.
// Direction is part of the check: swapping reader and writer asks a different
// question.
type SchemaPair struct {
	Reader SchemaRef
	Writer SchemaRef
}

// SelectPairs selects the (reader, writer) pairs that must hold for a
// proposed schema under the given level. Level None and an empty history
// produce no pairs. Non-transitive levels compare against the latest
// registered version only; transitive levels compare against every version,
// oldest first. The history is ordered by version number before latest is
// chosen, so an out-of-order registry listing cannot select a stale version.
func SelectPairs(level types.CompatibilityLevel, proposed string, history []RegisteredVersion) []SchemaPair {
	if level == types.None || len(history) == 0 {
		return nil
	}

	ordered := make([]RegisteredVersion, len(history))
	copy(ordered, history)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Version < ordered[j].Version
	})

	candidates := ordered
	if !level.Transitive() {
		candidates = ordered[len(ordered)-1:]
	}

	proposedRef := SchemaRef{Label: proposedLabel, Schema: proposed}
	pairs := make([]SchemaPair, 0, 2*len(candidates))
	for _, candidate := range candidates {
		candidateRef := SchemaRef{
			Label:  fmt.Sprintf("v%d", candidate.Version),
			Schema: candidate.Schema,
		}
		if level.Backward() {
			pairs = append(pairs, SchemaPair{Reader: proposedRef, Writer: candidateRef})
		}
		if level.Forward() {
			pairs = append(pairs, SchemaPair{Reader: candidateRef, Writer: proposedRef})
		}
	}
	return pairs
}
