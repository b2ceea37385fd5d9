// Package config loads a benchmark scenario from a TOML file, the way
// drand-cli/proposal_file.go decodes a participant-proposal file: a
// plain TOML-tagged struct decoded with BurntSushi/toml, then
// validated and converted into the typed Scenario callers use.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/CRIPTIM/nipsi"
)

// Scheme names the five NI-PSI schemes a scenario can exercise.
type Scheme string

const (
	SchemeTwoClientCardinality            Scheme = "TwoClientCardinality"
	SchemeTwoClientIntersection           Scheme = "TwoClientIntersection"
	SchemeTwoClientThreshold              Scheme = "TwoClientThreshold"
	SchemeMultiClientCardinality          Scheme = "MultiClientCardinality"
	SchemeMultiClientCardinalityEfficient Scheme = "MultiClientCardinalityEfficient"
)

// scenarioFileFormat is the on-disk TOML shape; fields not relevant to
// a given scheme are simply left at their zero value.
type scenarioFileFormat struct {
	Scheme      string
	Secpar      int
	Threshold   int
	ClientCount int `toml:"client_count"`
	ErrorRate   float64
	Repeat      int
	Number      int
	Scenarios   []int
	Output      string
}

// Scenario is a validated benchmark configuration ready to drive
// cmd/nipsi-bench.
type Scenario struct {
	Scheme      Scheme
	Secpar      int
	Threshold   int
	ClientCount int
	ErrorRate   float64
	Repeat      int
	Number      int
	Sizes       []int
	Output      string
}

// Load decodes and validates a scenario TOML file at path.
func Load(path string) (*Scenario, error) {
	var raw scenarioFileFormat
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return fromFileFormat(raw)
}

func fromFileFormat(raw scenarioFileFormat) (*Scenario, error) {
	scheme := Scheme(raw.Scheme)
	switch scheme {
	case SchemeTwoClientCardinality, SchemeTwoClientIntersection, SchemeTwoClientThreshold,
		SchemeMultiClientCardinality, SchemeMultiClientCardinalityEfficient:
	default:
		return nil, fmt.Errorf("%w: unknown scheme %q", nipsi.ErrInvalidArgument, raw.Scheme)
	}

	if raw.Secpar <= 0 || raw.Secpar%8 != 0 {
		return nil, fmt.Errorf("%w: secpar must be a positive multiple of 8, got %d", nipsi.ErrInvalidArgument, raw.Secpar)
	}
	if len(raw.Scenarios) == 0 {
		return nil, fmt.Errorf("%w: scenarios must list at least one size", nipsi.ErrInvalidArgument)
	}
	if scheme == SchemeTwoClientThreshold && raw.Threshold <= 0 {
		return nil, fmt.Errorf("%w: threshold must be positive for %s", nipsi.ErrInvalidArgument, scheme)
	}
	if (scheme == SchemeMultiClientCardinality || scheme == SchemeMultiClientCardinalityEfficient) && raw.ClientCount < 2 {
		return nil, fmt.Errorf("%w: client_count must be at least 2 for %s", nipsi.ErrInvalidArgument, scheme)
	}

	repeat := raw.Repeat
	if repeat <= 0 {
		repeat = 10
	}
	number := raw.Number
	if number <= 0 {
		number = 1
	}
	errorRate := raw.ErrorRate
	if errorRate <= 0 {
		errorRate = 0.001
	}

	return &Scenario{
		Scheme:      scheme,
		Secpar:      raw.Secpar,
		Threshold:   raw.Threshold,
		ClientCount: raw.ClientCount,
		ErrorRate:   errorRate,
		Repeat:      repeat,
		Number:      number,
		Sizes:       raw.Scenarios,
		Output:      raw.Output,
	}, nil
}
