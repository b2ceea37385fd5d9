package bench

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasureReturnsNonNegativeStats(t *testing.T) {
	timing := Measure(nil, 5, 10, func() {})
	assert.GreaterOrEqual(t, timing.Mean, 0.0)
	assert.GreaterOrEqual(t, timing.Variance, 0.0)
}

func TestWriteDatColumnsAreSortedAndSemicolonSeparated(t *testing.T) {
	results := []Result{
		{
			Scenario: "100",
			Methods: map[string]Timing{
				"encrypt": {Mean: 0.5, Variance: 0.01},
				"setup":   {Mean: 1.5, Variance: 0.02},
				"eval":    {Mean: 2.5, Variance: 0.03},
			},
		},
	}

	var sb strings.Builder
	require.NoError(t, WriteDat(&sb, results))

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "scenario;encrypt_mean;encrypt_var;eval_mean;eval_var;setup_mean;setup_var", lines[0])
}

func TestWriteDatEmptyResultsIsNoop(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteDat(&sb, nil))
	assert.Empty(t, sb.String())
}
