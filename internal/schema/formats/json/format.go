package json

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"schemagate/internal/schema/types"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Format implements types.SchemaFormat for JSON Schema
type Format struct{}

// New creates a new JSON format implementation
func New() *Format {
	return &Format{}
}

func (f *Format) Validate(schemaStr string) error {
	_, err := jsonschema.CompileString("schema.json", schemaStr)
	return err
}

// CheckCompatibility checks whether a consumer validating against the reader
// schema can accept any document produced under the writer schema: every
// property the writer requires must be known to the reader, shared properties
// must keep compatible types, and the reader must not require a property the
// writer may omit.
func (f *Format) CheckCompatibility(reader, writer string) (types.CheckResult, error) {
	if err := f.compile("reader.json", reader); err != nil {
		return types.CheckResult{}, fmt.Errorf("compile reader schema: %w", err)
	}
	if err := f.compile("writer.json", writer); err != nil {
		return types.CheckResult{}, fmt.Errorf("compile writer schema: %w", err)
	}

	readerProps := f.getSchemaProperties(reader)
	writerProps := f.getSchemaProperties(writer)

	slog.Debug("CheckCompatibility called", "readerProps", readerProps, "writerProps", writerProps)

	for _, name := range sortedNames(writerProps) {
		writerProp := writerProps[name]
		readerProp, exists := readerProps[name]
		if !exists {
			if writerProp.required {
				return incompatible("required property %s is unknown to the reader schema", name), nil
			}
			continue
		}

		if !f.isTypeCompatible(writerProp.type_, readerProp.type_) {
			return incompatible("incompatible type change for property %s: %s -> %s", name, writerProp.type_, readerProp.type_), nil
		}

		if readerProp.required && !writerProp.required {
			return incompatible("property %s is required by the reader but optional for the writer", name), nil
		}
	}

	for _, name := range sortedNames(readerProps) {
		if !readerProps[name].required {
			continue
		}
		if _, exists := writerProps[name]; !exists {
			return incompatible("property %s is required by the reader but absent from the writer", name), nil
		}
	}

	return types.CheckResult{Compatible: true}, nil
}

func (f *Format) compile(name, schemaStr string) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader([]byte(schemaStr))); err != nil {
		return fmt.Errorf("add schema resource: %w", err)
	}
	if _, err := compiler.Compile(name); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	return nil
}

func incompatible(format string, args ...any) types.CheckResult {
	return types.CheckResult{Message: fmt.Sprintf(format, args...)}
}

type propertyInfo struct {
	required bool
	type_    string
}

// sortedNames keeps the walk order stable so the first reported problem does
// not depend on map iteration order.
func sortedNames(props map[string]propertyInfo) []string {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (f *Format) getSchemaProperties(schemaStr string) map[string]propertyInfo {
	props := make(map[string]propertyInfo)

	// Parse schema JSON
	var schemaMap map[string]interface{}
	if err := json.Unmarshal([]byte(schemaStr), &schemaMap); err != nil {
		return props
	}

	// Extract properties
	if properties, ok := schemaMap["properties"].(map[string]interface{}); ok {
		required := make(map[string]bool)
		if requiredProps, ok := schemaMap["required"].([]interface{}); ok {
			for _, req := range requiredProps {
				if name, ok := req.(string); ok {
					required[name] = true
				}
			}
		}

		for name, prop := range properties {
			if propMap, ok := prop.(map[string]interface{}); ok {
				type_ := "object" // default type
				if t, ok := propMap["type"].(string); ok {
					type_ = t
				}

				props[name] = propertyInfo{
					required: required[name],
					type_:    type_,
				}
			}
		}
	}

	return props
}

func (f *Format) isTypeCompatible(writerType, readerType string) bool {
	// Handle type compatibility rules
	switch writerType {
	case "null":
		return readerType == "null"
	case "boolean":
		return readerType == "boolean"
	case "integer":
		return readerType == "integer" // Don't allow integer -> number conversion
	case "number":
		return readerType == "number"
	case "string":
		return readerType == "string"
	case "array":
		return readerType == "array"
	case "object":
		return readerType == "object"
	default:
		return false
	}
}
