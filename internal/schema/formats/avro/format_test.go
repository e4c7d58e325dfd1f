package avro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orderV1 = `{
	"type": "record",
	"name": "Order",
	"fields": [
		{"name": "id", "type": "string"},
		{"name": "amount", "type": "double"}
	]
}`

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		schema    string
		expectErr bool
	}{
		{
			name:   "valid record schema",
			schema: orderV1,
		},
		{
			name:   "valid primitive schema",
			schema: `"string"`,
		},
		{
			name:      "malformed JSON",
			schema:    `{"type": "record"`,
			expectErr: true,
		},
		{
			name:      "record without fields",
			schema:    `{"type": "record", "name": "Order"}`,
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
	}{
		{
			name:       "identical schemas",
			reader:     orderV1,
			writer:     orderV1,
			compatible: true,
		},
		{
			name: "reader adds field with default",
			reader: `{
				"type": "record",
				"name": "Order",
				"fields": [
					{"name": "id", "type": "string"},
					{"name": "amount", "type": "double"},
					{"name": "note", "type": "string", "default": ""}
				]
			}`,
			writer:     orderV1,
			compatible: true,
		},
		{
			name: "reader adds field without default",
			reader: `{
				"type": "record",
				"name": "Order",
				"fields": [
					{"name": "id", "type": "string"},
					{"name": "amount", "type": "double"},
					{"name": "note", "type": "string"}
				]
			}`,
			writer:     orderV1,
			compatible: false,
		},
		{
			name: "reader ignores removed writer field",
			reader: `{
				"type": "record",
				"name": "Order",
				"fields": [
					{"name": "id", "type": "string"}
				]
			}`,
			writer:     orderV1,
			compatible: true,
		},
		{
			name: "writer int promoted to reader long",
			reader: `{
				"type": "record",
				"name": "Order",
				"fields": [
					{"name": "id", "type": "string"},
					{"name": "quantity", "type": "long"}
				]
			}`,
			writer: `{
				"type": "record",
				"name": "Order",
				"fields": [
					{"name": "id", "type": "string"},
					{"name": "quantity", "type": "int"}
				]
			}`,
			compatible: true,
		},
		{
			name: "incompatible field type change",
			reader: `{
				"type": "record",
				"name": "Order",
				"fields": [
					{"name": "id", "type": "int"},
					{"name": "amount", "type": "double"}
				]
			}`,
			writer:     orderV1,
			compatible: false,
		},
	}

	format := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := format.CheckCompatibility(tt.reader, tt.writer)
			require.NoError(t, err)
			assert.Equal(t, tt.compatible, result.Compatible)
			if !tt.compatible {
				assert.NotEmpty(t, result.Message)
			}
		})
	}
}

func TestCheckCompatibilityParseErrors(t *testing.T) {
	format := New()

	_, err := format.CheckCompatibility(`{"type": "record"`, orderV1)
	assert.ErrorContains(t, err, "parse reader schema")

	_, err = format.CheckCompatibility(orderV1, `{"type": "record"`)
	assert.ErrorContains(t, err, "parse writer schema")
}

func TestCheckCompatibilitySameNameAcrossVersions(t *testing.T) {
	// Two versions of the same named record must not bleed into each other
	// through a shared parse cache.
	format := New()

	v2 := `{
		"type": "record",
		"name": "Order",
		"fields": [
			{"name": "id", "type": "string"},
			{"name": "amount", "type": "double"},
			{"name": "note", "type": "string"}
		]
	}`

	result, err := format.CheckCompatibility(v2, orderV1)
	require.NoError(t, err)
	assert.False(t, result.Compatible)

	// Same pair again, reversed: the new field is simply ignored.
	result, err = format.CheckCompatibility(orderV1, v2)
	require.NoError(t, err)
	assert.True(t, result.Compatible)
}
