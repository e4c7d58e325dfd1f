package types

import "strings"

// SchemaType represents the type of schema
type SchemaType string

const (
	// JSON represents JSON Schema format
	JSON SchemaType = "JSON"
	// Avro represents Avro format
	Avro SchemaType = "AVRO"
	// Protobuf represents Protocol Buffers format
	Protobuf SchemaType = "PROTOBUF"
)

// CompatibilityLevel represents the compatibility level for schema evolution
type CompatibilityLevel string

const (
	// Backward compatibility: new schema can read data written with old schema
	Backward CompatibilityLevel = "BACKWARD"
	// Forward compatibility: old schema can read data written with new schema
	Forward CompatibilityLevel = "FORWARD"
	// Full compatibility: both backward and forward compatibility
	Full CompatibilityLevel = "FULL"
	// None: no compatibility checking
	None CompatibilityLevel = "NONE"
	// BackwardTransitive: new schema can read data written with all previous schemas
	BackwardTransitive CompatibilityLevel = "BACKWARD_TRANSITIVE"
	// ForwardTransitive: all previous schemas can read data written with new schema
	ForwardTransitive CompatibilityLevel = "FORWARD_TRANSITIVE"
	// FullTransitive: both backward and forward transitive compatibility
	FullTransitive CompatibilityLevel = "FULL_TRANSITIVE"
)

// Levels returns every valid compatibility level in a stable order.
func Levels() []CompatibilityLevel {
	return []CompatibilityLevel{
		Backward,
		BackwardTransitive,
		Forward,
		ForwardTransitive,
		Full,
		FullTransitive,
		None,
	}
}

// ParseCompatibilityLevel parses a declared compatibility level. Matching is
// case-insensitive and accepts hyphens in place of underscores, so both
// "BACKWARD_TRANSITIVE" and "backward-transitive" resolve to the same level.
// Values outside the closed level set report ok = false; there is no default.
func ParseCompatibilityLevel(s string) (CompatibilityLevel, bool) {
	normalized := CompatibilityLevel(strings.ToUpper(strings.ReplaceAll(s, "-", "_")))
	switch normalized {
	case Backward, Forward, Full, None, BackwardTransitive, ForwardTransitive, FullTransitive:
		return normalized, true
	}
	return "", false
}

// Transitive reports whether the level checks against the full version
// history rather than only the latest version.
func (l CompatibilityLevel) Transitive() bool {
	switch l {
	case BackwardTransitive, ForwardTransitive, FullTransitive:
		return true
	}
	return false
}

// Backward reports whether the level includes the backward direction, in
// which the proposed schema must read data written under registered schemas.
func (l CompatibilityLevel) Backward() bool {
	switch l {
	case Backward, BackwardTransitive, Full, FullTransitive:
		return true
	}
	return false
}

// Forward reports whether the level includes the forward direction, in which
// registered schemas must read data written under the proposed schema.
func (l CompatibilityLevel) Forward() bool {
	switch l {
	case Forward, ForwardTransitive, Full, FullTransitive:
		return true
	}
	return false
}

// Schema represents a stored schema
type Schema struct {
	Schema  string     `json:"schema"`
	Subject string     `json:"subject"`
	Version int        `json:"version"`
	ID      int        `json:"id"`
	Type    SchemaType `json:"type"`
}

// CheckResult is the outcome of one directed compatibility check. An
// incompatible pair carries a human-readable reason in Message.
type CheckResult struct {
	Compatible bool
	Message    string
}

// SchemaFormat defines the interface for schema format implementations
type SchemaFormat interface {
	// Validate validates a schema string
	Validate(schemaStr string) error
	// CheckCompatibility checks whether the reader schema can decode data
	// written with the writer schema
	CheckCompatibility(reader, writer string) (CheckResult, error)
}
