package gate

import (
	"errors"
	"testing"

	"schemagate/internal/schema/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateSubject(t *testing.T) {
	tests := []struct {
		name     string
		verdicts []Verdict
		wantOK   bool
	}{
		{
			name:   "no verdicts passes",
			wantOK: true,
		},
		{
			name: "all compatible",
			verdicts: []Verdict{
				{Compatible: true, Reader: "proposed", Writer: "v1"},
				{Compatible: true, Reader: "proposed", Writer: "v2"},
			},
			wantOK: true,
		},
		{
			name: "one incompatible fails the subject",
			verdicts: []Verdict{
				{Compatible: true, Reader: "proposed", Writer: "v1"},
				{Compatible: false, Reader: "proposed", Writer: "v2", Message: "field removed"},
				{Compatible: true, Reader: "proposed", Writer: "v3"},
			},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := AggregateSubject("orders", types.Backward, tt.verdicts)

			assert.Equal(t, "orders", outcome.Subject)
			assert.Equal(t, types.Backward, outcome.Mode)
			assert.Equal(t, tt.wantOK, outcome.OK)
			assert.False(t, outcome.Skipped)
			assert.NoError(t, outcome.Err)

			// Every verdict survives aggregation, failing ones included.
			assert.Equal(t, tt.verdicts, outcome.Verdicts)
		})
	}
}

func TestSubjectFailure(t *testing.T) {
	boom := errors.New("registry down")
	outcome := SubjectFailure("orders", types.Full, boom)

	assert.False(t, outcome.OK)
	assert.False(t, outcome.Skipped)
	assert.ErrorIs(t, outcome.Err, boom)
	assert.Empty(t, outcome.Verdicts)
}

func TestSubjectSkipped(t *testing.T) {
	outcome := SubjectSkipped("orders", "", "no compatibility mode declared")

	assert.True(t, outcome.OK)
	assert.True(t, outcome.Skipped)
	assert.Equal(t, "no compatibility mode declared", outcome.Note)
	assert.Empty(t, outcome.Verdicts)
}

func TestFoldRun(t *testing.T) {
	pass := AggregateSubject("a", types.Backward, nil)
	fail := SubjectFailure("b", types.Backward, errors.New("boom"))
	skip := SubjectSkipped("c", "", "no compatibility mode declared")

	t.Run("all ok", func(t *testing.T) {
		run := FoldRun([]SubjectOutcome{pass, skip})
		assert.True(t, run.OK)
		assert.NotEmpty(t, run.ID)
		assert.Len(t, run.Subjects, 2)
	})

	t.Run("any failure fails the run", func(t *testing.T) {
		run := FoldRun([]SubjectOutcome{pass, fail, skip})
		assert.False(t, run.OK)
	})

	t.Run("order independent", func(t *testing.T) {
		forward := FoldRun([]SubjectOutcome{pass, fail, skip})
		reversed := FoldRun([]SubjectOutcome{skip, fail, pass})
		assert.Equal(t, forward.OK, reversed.OK)
	})

	t.Run("empty run passes", func(t *testing.T) {
		run := FoldRun(nil)
		assert.True(t, run.OK)
	})

	t.Run("distinct run ids", func(t *testing.T) {
		first := FoldRun(nil)
		second := FoldRun(nil)
		require.NotEqual(t, first.ID, second.ID)
	})
}
