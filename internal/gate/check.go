package gate

import (
	"fmt"

	"schemagate/internal/schema/types"
)

// Oracle answers the schema questions the gate needs. Validate and Check
// return an error only for schema text the format cannot parse; an
// incompatible pair is reported through the CheckResult. Implementations must
// be safe for concurrent use.
type Oracle interface {
	Validate(schemaType types.SchemaType, schemaStr string) error
	DeclaredMode(schemaStr string) (string, bool)
	Check(schemaType types.SchemaType, level types.CompatibilityLevel, reader, writer string) (types.CheckResult, error)
}

// CheckSubject evaluates a proposed schema against a subject's history,
// producing one verdict per selected pair in selection order. Every pair is
// checked even after an incompatible verdict, so one run reports every
// problem. An oracle failure aborts the subject: a schema that cannot be
// parsed poisons every pair that references it.
func CheckSubject(oracle Oracle, schemaType types.SchemaType, level types.CompatibilityLevel, proposed string, history []RegisteredVersion) ([]Verdict, error) {
	pairs := SelectPairs(level, proposed, history)
	if len(pairs) == 0 {
		return nil, nil
	}

	verdicts := make([]Verdict, 0, len(pairs))
	for _, pair := range pairs {
		result, err := oracle.Check(schemaType, level, pair.Reader.Schema, pair.Writer.Schema)
		if err != nil {
			return nil, fmt.Errorf("check reader %s against writer %s: %w", pair.Reader.Label, pair.Writer.Label, err)
		}

		verdicts = append(verdicts, Verdict{
			Compatible: result.Compatible,
			Reader:     pair.Reader.Label,
			Writer:     pair.Writer.Label,
			Message:    result.Message,
		})
	}
	return verdicts, nil
}
