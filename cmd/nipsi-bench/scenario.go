package main

import (
	"fmt"
	"io"

	"github.com/CRIPTIM/nipsi"
	"github.com/CRIPTIM/nipsi/internal/bench"
	"github.com/CRIPTIM/nipsi/internal/config"
	"github.com/CRIPTIM/nipsi/internal/log"
	"github.com/CRIPTIM/nipsi/multiclient"
	"github.com/CRIPTIM/nipsi/twoclient"
)

// syntheticSets builds two plaintext sets of the given size sharing
// roughly half their elements, enough to exercise both the matching
// and non-matching paths of every scheme's Eval.
func syntheticSets(size int) (set0, set1 [][]byte) {
	set0 = make([][]byte, size)
	set1 = make([][]byte, size)
	shared := size / 2
	for i := 0; i < size; i++ {
		set0[i] = []byte(fmt.Sprintf("elem-%d", i))
		if i < shared {
			set1[i] = []byte(fmt.Sprintf("elem-%d", i))
		} else {
			set1[i] = []byte(fmt.Sprintf("other-%d", i))
		}
	}
	return set0, set1
}

func runScenario(logger log.Logger, scenario *config.Scenario) ([]bench.Result, error) {
	results := make([]bench.Result, 0, len(scenario.Sizes))
	for _, size := range scenario.Sizes {
		logger.Debugw("running scenario", "scheme", scenario.Scheme, "size", size)

		methods, err := runOneSize(logger, scenario, size)
		if err != nil {
			return nil, fmt.Errorf("scenario %d: %w", size, err)
		}
		results = append(results, bench.Result{Scenario: fmt.Sprintf("%d", size), Methods: methods})
	}
	return results, nil
}

func runOneSize(logger log.Logger, scenario *config.Scenario, size int) (map[string]bench.Timing, error) {
	gid := nipsi.GidFromUint64(1)
	set0, set1 := syntheticSets(size)

	switch scenario.Scheme {
	case config.SchemeTwoClientCardinality:
		scheme := twoclient.NewCardinality(logger)
		usk0, usk1, err := scheme.Setup(scenario.Secpar)
		if err != nil {
			return nil, err
		}
		var ct0, ct1 twoclient.CtSet
		methods := map[string]bench.Timing{
			"setup": bench.Measure(logger, scenario.Repeat, scenario.Number, func() {
				scheme.Setup(scenario.Secpar) //nolint:errcheck // timing only
			}),
			"encrypt": bench.Measure(logger, scenario.Repeat, scenario.Number, func() {
				ct0, _ = scheme.Encrypt(usk0, gid, set0)
				ct1, _ = scheme.Encrypt(usk1, gid, set1)
			}),
		}
		methods["eval"] = bench.Measure(logger, scenario.Repeat, scenario.Number, func() {
			scheme.Eval([2]twoclient.CtSet{ct0, ct1})
		})
		return methods, nil

	case config.SchemeTwoClientIntersection:
		scheme := twoclient.NewIntersection(logger)
		usk0, usk1, err := scheme.Setup(scenario.Secpar)
		if err != nil {
			return nil, err
		}
		ct0, err := scheme.Encrypt(usk0, gid, set0)
		if err != nil {
			return nil, err
		}
		ct1, err := scheme.Encrypt(usk1, gid, set1)
		if err != nil {
			return nil, err
		}
		methods := map[string]bench.Timing{
			"setup": bench.Measure(logger, scenario.Repeat, scenario.Number, func() {
				scheme.Setup(scenario.Secpar) //nolint:errcheck // timing only
			}),
			"encrypt": bench.Measure(logger, scenario.Repeat, scenario.Number, func() {
				scheme.Encrypt(usk0, gid, set0) //nolint:errcheck // timing only
			}),
			"eval": bench.Measure(logger, scenario.Repeat, scenario.Number, func() {
				scheme.Eval([2]twoclient.IntersectionCtSet{ct0, ct1}) //nolint:errcheck // timing only
			}),
		}
		return methods, nil

	case config.SchemeTwoClientThreshold:
		scheme := twoclient.NewThreshold(logger)
		usk0, usk1, err := scheme.Setup(scenario.Secpar, scenario.Threshold)
		if err != nil {
			return nil, err
		}
		ct0, err := scheme.Encrypt(usk0, gid, set0)
		if err != nil {
			return nil, err
		}
		ct1, err := scheme.Encrypt(usk1, gid, set1)
		if err != nil {
			return nil, err
		}
		methods := map[string]bench.Timing{
			"setup": bench.Measure(logger, scenario.Repeat, scenario.Number, func() {
				scheme.Setup(scenario.Secpar, scenario.Threshold) //nolint:errcheck // timing only
			}),
			"encrypt": bench.Measure(logger, scenario.Repeat, scenario.Number, func() {
				scheme.Encrypt(usk0, gid, set0) //nolint:errcheck // timing only
			}),
			"eval": bench.Measure(logger, scenario.Repeat, scenario.Number, func() {
				scheme.Eval([2]twoclient.ThresholdCtSet{ct0, ct1}) //nolint:errcheck // timing only
			}),
		}
		return methods, nil

	case config.SchemeMultiClientCardinality:
		scheme := multiclient.NewCardinality(logger)
		shares, err := scheme.Setup(scenario.Secpar, scenario.ClientCount)
		if err != nil {
			return nil, err
		}
		sets := make([][][]byte, scenario.ClientCount)
		sets[0], sets[1] = set0, set1
		for i := 2; i < scenario.ClientCount; i++ {
			sets[i] = set0
		}
		cts := make([]multiclient.CtSet, scenario.ClientCount)
		for i := range sets {
			cts[i], err = scheme.Encrypt(shares[i], gid, sets[i])
			if err != nil {
				return nil, err
			}
		}
		methods := map[string]bench.Timing{
			"setup": bench.Measure(logger, scenario.Repeat, scenario.Number, func() {
				scheme.Setup(scenario.Secpar, scenario.ClientCount) //nolint:errcheck // timing only
			}),
			"encrypt": bench.Measure(logger, scenario.Repeat, scenario.Number, func() {
				scheme.Encrypt(shares[0], gid, sets[0]) //nolint:errcheck // timing only
			}),
			"eval": bench.Measure(logger, scenario.Repeat, scenario.Number, func() {
				scheme.Eval(cts) //nolint:errcheck // timing only
			}),
		}
		return methods, nil

	case config.SchemeMultiClientCardinalityEfficient:
		m, k := multiclient.DetermineParameters(size, scenario.ErrorRate)
		scheme := multiclient.NewCardinalityEfficient(logger)
		usks, err := scheme.Setup(scenario.Secpar, scenario.ClientCount, m, k)
		if err != nil {
			return nil, err
		}
		sets := make([][][]byte, scenario.ClientCount)
		sets[0], sets[1] = set0, set1
		for i := 2; i < scenario.ClientCount; i++ {
			sets[i] = set0
		}
		cts := make([]multiclient.EfficientCt, scenario.ClientCount)
		for i := range sets {
			cts[i], err = scheme.Encrypt(usks[i], gid, sets[i])
			if err != nil {
				return nil, err
			}
		}
		methods := map[string]bench.Timing{
			"setup": bench.Measure(logger, scenario.Repeat, scenario.Number, func() {
				scheme.Setup(scenario.Secpar, scenario.ClientCount, m, k) //nolint:errcheck // timing only
			}),
			"encrypt": bench.Measure(logger, scenario.Repeat, scenario.Number, func() {
				scheme.Encrypt(usks[0], gid, sets[0]) //nolint:errcheck // timing only
			}),
			"eval": bench.Measure(logger, scenario.Repeat, scenario.Number, func() {
				scheme.Eval(cts) //nolint:errcheck // timing only
			}),
		}
		return methods, nil
	}

	return nil, fmt.Errorf("unsupported scheme %q", scenario.Scheme)
}

func writeResults(w io.Writer, results []bench.Result) error {
	return bench.WriteDat(w, results)
}
