package schema

import (
	"encoding/json"
	"fmt"

	"schemagate/internal/schema/formats/avro"
	jsonformat "schemagate/internal/schema/formats/json"
	"schemagate/internal/schema/formats/protobuf"
	"schemagate/internal/schema/types"
)

// Oracle answers structural and compatibility questions about schema text,
// routing each question to the format implementation for the schema type.
// It is stateless apart from per-format caches and safe for concurrent use.
type Oracle struct {
	formats map[types.SchemaType]types.SchemaFormat
}

// NewOracle creates an oracle covering every supported schema format.
func NewOracle() *Oracle {
	return &Oracle{
		formats: map[types.SchemaType]types.SchemaFormat{
			types.JSON:     jsonformat.New(),
			types.Avro:     avro.New(),
			types.Protobuf: protobuf.New(),
		},
	}
}

// Validate checks that schemaStr is a structurally valid schema of the given
// type.
func (o *Oracle) Validate(schemaType types.SchemaType, schemaStr string) error {
	format, err := o.format(schemaType)
	if err != nil {
		return err
	}
	return format.Validate(schemaStr)
}

// DeclaredMode extracts the compatibility declaration from a schema document.
// Every supported format is a JSON document, so the declaration is the
// top-level "compatibility" member. Documents that are not JSON objects, such
// as primitive Avro schemas, declare nothing. A non-string value is rendered
// to text so mode resolution can reject it verbatim.
func (o *Oracle) DeclaredMode(schemaStr string) (string, bool) {
	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(schemaStr), &doc); err != nil {
		return "", false
	}

	value, ok := doc["compatibility"]
	if !ok {
		return "", false
	}

	if s, ok := value.(string); ok {
		return s, true
	}
	return fmt.Sprint(value), true
}

// Check reports whether the reader schema can decode data written with the
// writer schema. Level None answers compatible without consulting the format.
// The error return is reserved for schemas the format cannot parse; an
// incompatible pair is a normal result.
func (o *Oracle) Check(schemaType types.SchemaType, level types.CompatibilityLevel, reader, writer string) (types.CheckResult, error) {
	if level == types.None {
		return types.CheckResult{Compatible: true}, nil
	}

	format, err := o.format(schemaType)
	if err != nil {
		return types.CheckResult{}, err
	}
	return format.CheckCompatibility(reader, writer)
}

func (o *Oracle) format(schemaType types.SchemaType) (types.SchemaFormat, error) {
	format, ok := o.formats[schemaType]
	if !ok {
		return nil, fmt.Errorf("unsupported schema type: %s", schemaType)
	}
	return format, nil
}
