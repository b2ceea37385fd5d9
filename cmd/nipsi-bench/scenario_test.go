package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CRIPTIM/nipsi/internal/config"
	"github.com/CRIPTIM/nipsi/internal/log"
)

func TestRunOneSizeTwoClientCardinality(t *testing.T) {
	scenario := &config.Scenario{
		Scheme: config.SchemeTwoClientCardinality,
		Secpar: 128,
		Repeat: 2,
		Number: 1,
	}

	methods, err := runOneSize(log.DefaultLogger(), scenario, 16)
	require.NoError(t, err)
	assert.Contains(t, methods, "setup")
	assert.Contains(t, methods, "encrypt")
	assert.Contains(t, methods, "eval")
}

func TestRunOneSizeMultiClientCardinalityEfficient(t *testing.T) {
	scenario := &config.Scenario{
		Scheme:      config.SchemeMultiClientCardinalityEfficient,
		Secpar:      128,
		ClientCount: 3,
		ErrorRate:   0.001,
		Repeat:      2,
		Number:      1,
	}

	methods, err := runOneSize(log.DefaultLogger(), scenario, 16)
	require.NoError(t, err)
	assert.Contains(t, methods, "eval")
}

func TestRunScenarioWritesOneRowPerSize(t *testing.T) {
	scenario := &config.Scenario{
		Scheme: config.SchemeTwoClientCardinality,
		Secpar: 128,
		Sizes:  []int{8, 16},
		Repeat: 2,
		Number: 1,
	}

	results, err := runScenario(log.DefaultLogger(), scenario)
	require.NoError(t, err)
	require.Len(t, results, 2)

	var sb strings.Builder
	require.NoError(t, writeResults(&sb, results))
	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	assert.Len(t, lines, 3) // header + 2 scenario rows
}
