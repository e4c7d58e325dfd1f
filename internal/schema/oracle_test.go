package schema

import (
	"log/slog"
	"os"
	"testing"

	"schemagate/internal/schema/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	os.Exit(m.Run())
}

const avroOrder = `{
	"type": "record",
	"name": "Order",
	"fields": [
		{"name": "id", "type": "string"}
	]
}`

func TestOracleValidate(t *testing.T) {
	oracle := NewOracle()

	tests := []struct {
		name       string
		schemaType types.SchemaType
		schema     string
		expectErr  bool
	}{
		{
			name:       "valid avro",
			schemaType: types.Avro,
			schema:     avroOrder,
		},
		{
			name:       "valid json",
			schemaType: types.JSON,
			schema:     `{"type": "object", "properties": {"id": {"type": "string"}}}`,
		},
		{
			name:       "invalid avro",
			schemaType: types.Avro,
			schema:     `{"type": "record"}`,
			expectErr:  true,
		},
		{
			name:       "unsupported type",
			schemaType: types.SchemaType("THRIFT"),
			schema:     avroOrder,
			expectErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := oracle.Validate(tt.schemaType, tt.schema)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOracleDeclaredMode(t *testing.T) {
	oracle := NewOracle()

	tests := []struct {
		name     string
		schema   string
		want     string
		declared bool
	}{
		{
			name:     "declared",
			schema:   `{"type": "record", "name": "Order", "compatibility": "BACKWARD", "fields": []}`,
			want:     "BACKWARD",
			declared: true,
		},
		{
			name:   "absent",
			schema: avroOrder,
		},
		{
			name:   "not an object",
			schema: `"string"`,
		},
		{
			name:     "non-string value",
			schema:   `{"compatibility": 5}`,
			want:     "5",
			declared: true,
		},
		{
			name:     "empty string value",
			schema:   `{"compatibility": ""}`,
			want:     "",
			declared: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, declared := oracle.DeclaredMode(tt.schema)
			assert.Equal(t, tt.declared, declared)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOracleCheck(t *testing.T) {
	oracle := NewOracle()

	incompatibleReader := `{
		"type": "record",
		"name": "Order",
		"fields": [
			{"name": "id", "type": "string"},
			{"name": "amount", "type": "double"}
		]
	}`

	t.Run("none skips the format entirely", func(t *testing.T) {
		result, err := oracle.Check(types.Avro, types.None, "not a schema", "also not a schema")
		require.NoError(t, err)
		assert.True(t, result.Compatible)
	})

	t.Run("incompatible pair is a normal result", func(t *testing.T) {
		result, err := oracle.Check(types.Avro, types.Backward, incompatibleReader, avroOrder)
		require.NoError(t, err)
		assert.False(t, result.Compatible)
		assert.NotEmpty(t, result.Message)
	})

	t.Run("compatible pair", func(t *testing.T) {
		result, err := oracle.Check(types.Avro, types.Backward, avroOrder, avroOrder)
		require.NoError(t, err)
		assert.True(t, result.Compatible)
	})

	t.Run("unparseable schema is an error", func(t *testing.T) {
		_, err := oracle.Check(types.Avro, types.Backward, `{"type":`, avroOrder)
		assert.Error(t, err)
	})

	t.Run("unsupported type is an error", func(t *testing.T) {
		_, err := oracle.Check(types.SchemaType("THRIFT"), types.Backward, avroOrder, avroOrder)
		assert.Error(t, err)
	})
}
