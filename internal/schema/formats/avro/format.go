package avro

import (
	"fmt"

	"schemagate/internal/schema/types"

	"github.com/hamba/avro/v2"
)

// Format implements types.SchemaFormat for Avro
type Format struct {
	compat *avro.SchemaCompatibility
}

// New creates a new Avro format implementation
func New() *Format {
	return &Format{compat: avro.NewSchemaCompatibility()}
}

func (f *Format) Validate(schemaStr string) error {
	// Parse schema
	_, err := f.parse(schemaStr)
	if err != nil {
		return fmt.Errorf("parse schema: %w", err)
	}

	return nil
}

// CheckCompatibility checks whether the reader schema can decode data written
// with the writer schema, following Avro schema resolution rules: writer
// fields absent from the reader are skipped, reader fields absent from the
// writer need a default, and writer types may be promoted to wider reader
// types.
func (f *Format) CheckCompatibility(reader, writer string) (types.CheckResult, error) {
	readerSchema, err := f.parse(reader)
	if err != nil {
		return types.CheckResult{}, fmt.Errorf("parse reader schema: %w", err)
	}

	writerSchema, err := f.parse(writer)
	if err != nil {
		return types.CheckResult{}, fmt.Errorf("parse writer schema: %w", err)
	}

	if err := f.compat.Compatible(readerSchema, writerSchema); err != nil {
		return types.CheckResult{Message: err.Error()}, nil
	}

	return types.CheckResult{Compatible: true}, nil
}

// parse gives every schema its own cache. Successive versions of a subject
// reuse the same record name, so sharing the package-level parse cache would
// return the first version for every later one.
func (f *Format) parse(schemaStr string) (avro.Schema, error) {
	return avro.ParseWithCache(schemaStr, "", &avro.SchemaCache{})
}
