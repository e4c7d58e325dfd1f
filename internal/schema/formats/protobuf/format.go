package protobuf

import (
	"fmt"
	"sort"

	"schemagate/internal/schema/types"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

// Format implements types.SchemaFormat for Protobuf. Schemas are JSON-encoded
// FileDescriptorProto documents.
type Format struct{}

// New creates a new Protobuf format implementation
func New() *Format {
	return &Format{}
}

func (f *Format) Validate(schemaStr string) error {
	_, err := f.parseSchema(schemaStr)
	return err
}

// CheckCompatibility checks whether the reader message can decode data
// written with the writer message: fields the writer requires must be known
// to the reader, shared fields must keep wire-compatible kinds, and the
// reader must not require a field the writer may omit.
func (f *Format) CheckCompatibility(reader, writer string) (types.CheckResult, error) {
	readerMessage, err := f.messageType(reader)
	if err != nil {
		return types.CheckResult{}, fmt.Errorf("parse reader schema: %w", err)
	}

	writerMessage, err := f.messageType(writer)
	if err != nil {
		return types.CheckResult{}, fmt.Errorf("parse writer schema: %w", err)
	}

	readerFields := f.getFields(readerMessage)
	writerFields := f.getFields(writerMessage)

	for _, name := range sortedNames(writerFields) {
		writerField := writerFields[name]
		readerField, exists := readerFields[name]
		if !exists {
			if writerField.required {
				return incompatible("required field %s is unknown to the reader schema", name), nil
			}
			continue
		}

		if !f.isTypeCompatible(writerField.type_, readerField.type_) {
			return incompatible("incompatible types for field %s: %s -> %s", name, writerField.type_, readerField.type_), nil
		}

		if readerField.required && !writerField.required {
			return incompatible("field %s is required by the reader but optional for the writer", name), nil
		}
	}

	for _, name := range sortedNames(readerFields) {
		if !readerFields[name].required {
			continue
		}
		if _, exists := writerFields[name]; !exists {
			return incompatible("field %s is required by the reader but absent from the writer", name), nil
		}
	}

	return types.CheckResult{Compatible: true}, nil
}

func incompatible(format string, args ...any) types.CheckResult {
	return types.CheckResult{Message: fmt.Sprintf(format, args...)}
}

// parseSchema parses a protobuf schema string into a FileDescriptor. Unknown
// JSON fields are discarded so schema files may carry metadata, such as a
// compatibility declaration, alongside the descriptor fields.
func (f *Format) parseSchema(schemaStr string) (protoreflect.FileDescriptor, error) {
	var fileDescProto descriptorpb.FileDescriptorProto
	unmarshal := protojson.UnmarshalOptions{DiscardUnknown: true}
	if err := unmarshal.Unmarshal([]byte(schemaStr), &fileDescProto); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	fileDesc, err := protodesc.NewFile(&fileDescProto, protoregistry.GlobalFiles)
	if err != nil {
		return nil, fmt.Errorf("create file descriptor: %w", err)
	}

	return fileDesc, nil
}

// messageType returns the first message declared in the schema file.
func (f *Format) messageType(schemaStr string) (protoreflect.MessageDescriptor, error) {
	fileDesc, err := f.parseSchema(schemaStr)
	if err != nil {
		return nil, err
	}

	if fileDesc.Messages().Len() == 0 {
		return nil, fmt.Errorf("no message type found in schema")
	}

	return fileDesc.Messages().Get(0), nil
}

type fieldInfo struct {
	required bool
	type_    string
}

// sortedNames keeps the walk order stable so the first reported problem does
// not depend on map iteration order.
func sortedNames(fields map[string]fieldInfo) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (f *Format) getFields(message protoreflect.MessageDescriptor) map[string]fieldInfo {
	fields := make(map[string]fieldInfo)

	// Extract fields from message
	for i := 0; i < message.Fields().Len(); i++ {
		field := message.Fields().Get(i)
		name := string(field.Name())
		required := field.IsRequired()
		type_ := field.Kind().String()

		fields[name] = fieldInfo{
			required: required,
			type_:    type_,
		}
	}

	return fields
}

func (f *Format) isTypeCompatible(writerType, readerType string) bool {
	// Handle type compatibility rules
	switch writerType {
	case "double":
		return readerType == "double"
	case "float":
		return readerType == "float" || readerType == "double"
	case "int32":
		return readerType == "int32" || readerType == "int64" || readerType == "uint32" || readerType == "uint64" || readerType == "sint32" || readerType == "sint64" || readerType == "fixed32" || readerType == "fixed64" || readerType == "sfixed32" || readerType == "sfixed64"
	case "int64":
		return readerType == "int64" || readerType == "uint64" || readerType == "sint64" || readerType == "fixed64" || readerType == "sfixed64"
	case "uint32":
		return readerType == "uint32" || readerType == "uint64" || readerType == "fixed32" || readerType == "fixed64"
	case "uint64":
		return readerType == "uint64" || readerType == "fixed64"
	case "sint32":
		return readerType == "sint32" || readerType == "sint64" || readerType == "int32" || readerType == "int64"
	case "sint64":
		return readerType == "sint64" || readerType == "int64"
	case "fixed32":
		return readerType == "fixed32" || readerType == "fixed64" || readerType == "uint32" || readerType == "uint64"
	case "fixed64":
		return readerType == "fixed64" || readerType == "uint64"
	case "sfixed32":
		return readerType == "sfixed32" || readerType == "sfixed64" || readerType == "int32" || readerType == "int64"
	case "sfixed64":
		return readerType == "sfixed64" || readerType == "int64"
	case "bool":
		return readerType == "bool"
	case "string":
		return readerType == "string"
	case "bytes":
		return readerType == "bytes"
	case "enum":
		return readerType == "enum"
	case "message":
		return readerType == "message"
	default:
		return false
	}
}
