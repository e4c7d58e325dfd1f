package json

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userV1 = `{
	"type": "object",
	"properties": {
		"name": {"type": "string"},
		"email": {"type": "string"}
	},
	"required": ["name"]
}`

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		schema    string
		expectErr bool
	}{
		{
			name:   "valid object schema",
			schema: userV1,
		},
		{
			name:   "empty schema",
			schema: `{}`,
		},
		{
			name:      "malformed JSON",
			schema:    `{"type": "object"`,
			expectErr: true,
		},
		{
			name:      "invalid type keyword",
			schema:    `{"type": 123}`,
			expectErr: true,
		},
	}

	format := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := format.Validate(tt.schema)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckCompatibility(t *testing.T) {
	tests := []struct {
		name       string
		reader     string
		writer     string
		compatible bool
		message    string
	}{
		{
			name:       "identical schemas",
			reader:     userV1,
			writer:     userV1,
			compatible: true,
		},
		{
			name: "reader adds optional property",
			reader: `{
				"type": "object",
				"properties": {
					"name": {"type": "string"},
					"email": {"type": "string"},
					"age": {"type": "integer"}
				},
				"required": ["name"]
			}`,
			writer:     userV1,
			compatible: true,
		},
		{
			name: "reader drops writer-required property",
			reader: `{
				"type": "object",
				"properties": {
					"email": {"type": "string"}
				}
			}`,
			writer:     userV1,
			compatible: false,
			message:    "required property name is unknown to the reader schema",
		},
		{
			name: "reader drops writer-optional property",
			reader: `{
				"type": "object",
				"properties": {
					"name": {"type": "string"}
				},
				"required": ["name"]
			}`,
			writer:     userV1,
			compatible: true,
		},
		{
			name: "property type change",
			reader: `{
				"type": "object",
				"properties": {
					"name": {"type": "string"},
					"email": {"type": "integer"}
				},
				"required": ["name"]
			}`,
			writer:     userV1,
			compatible: false,
			message:    "incompatible type change for property email: string -> integer",
		},
		{
			name: "integer does not widen to number",
			reader: `{
				"type": "object",
				"properties": {
					"count": {"type": "number"}
				}
			}`,
			writer: `{
				"type": "object",
				"properties": {
					"count": {"type": "integer"}
				}
			}`,
			compatible: false,
			message:    "incompatible type change for property count: integer -> number",
		},
		{
			name: "reader requires property the writer may omit",
			reader: `{
				"type": "object",
				"properties": {
					"name": {"type": "string"},
					"email": {"type": "string"}
				},
				"required": ["name", "email"]
			}`,
			writer:     userV1,
			compatible: false,
			message:    "property email is required by the reader but optional for the writer",
		},
		{
			name: "reader requires property unknown to the writer",
			reader: `{
				"type": "object",
				"properties": {
					"name": {"type": "string"},
					"role": {"type": "string"}
				},
				"required": ["name", "role"]
			}`,
			writer:     userV1,
			compatible: false,
			message:    "property role is required by the reader but absent from the writer",
		},
	}

	format := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := format.CheckCompatibility(tt.reader, tt.writer)
			require.NoError(t, err)
			assert.Equal(t, tt.compatible, result.Compatible)
			if tt.message != "" {
				assert.Equal(t, tt.message, result.Message)
			}
		})
	}
}

func TestCheckCompatibilityCompileErrors(t *testing.T) {
	format := New()

	_, err := format.CheckCompatibility(`{"type": "object"`, userV1)
	assert.ErrorContains(t, err, "compile reader schema")

	_, err = format.CheckCompatibility(userV1, `{"type": 123}`)
	assert.ErrorContains(t, err, "compile writer schema")
}
