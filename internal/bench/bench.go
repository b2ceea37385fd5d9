// Package bench provides the timing/variance helper behind
// cmd/nipsi-bench: run an operation repeat times, number iterations
// per repeat, and report the sample mean and sample variance of the
// per-iteration wall-clock time, the same statistics
// original_source/evaluations/main.py computes from timeit.Timer.repeat.
package bench

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/CRIPTIM/nipsi/internal/log"
)

// Timing is one operation's measured mean and sample variance, in
// seconds per iteration.
type Timing struct {
	Mean     float64
	Variance float64
}

// Measure times fn across repeat independent repeats of number
// iterations each, dividing each repeat's elapsed time by number to
// get a per-iteration timing, then computing the sample mean and the
// unbiased sample variance across the repeat timings.
func Measure(logger log.Logger, repeat, number int, fn func()) Timing {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	if repeat < 2 {
		repeat = 2
	}
	if number < 1 {
		number = 1
	}

	timings := make([]float64, repeat)
	for r := 0; r < repeat; r++ {
		start := time.Now()
		for i := 0; i < number; i++ {
			fn()
		}
		timings[r] = time.Since(start).Seconds() / float64(number)
	}

	var sum, sqSum float64
	for _, t := range timings {
		sum += t
		sqSum += t * t
	}
	n := float64(repeat)
	mean := sum / n
	variance := (sqSum - sum*sum/n) / (n - 1)

	logger.Debugw("measured timing", "repeat", repeat, "number", number, "mean", mean, "variance", variance)
	return Timing{Mean: mean, Variance: variance}
}

// Result is one scenario's full row: the scenario label plus one
// Timing per measured method/stage.
type Result struct {
	Scenario string
	Methods  map[string]Timing
}

// WriteDat writes results as a semicolon-separated table with one
// header and one row per scenario: columns are "scenario" followed by
// "<method>_mean", "<method>_var" for every method name, sorted
// alphabetically — the exact layout
// original_source/evaluations/main.py's EvaluateProgram.run produces.
func WriteDat(w io.Writer, results []Result) error {
	if len(results) == 0 {
		return nil
	}

	names := make([]string, 0, len(results[0].Methods))
	for name := range results[0].Methods {
		names = append(names, name)
	}
	sort.Strings(names)

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	header := make([]string, 0, 1+2*len(names))
	header = append(header, "scenario")
	for _, n := range names {
		header = append(header, n+"_mean", n+"_var")
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("bench: write header: %w", err)
	}

	for _, res := range results {
		row := make([]string, 0, len(header))
		row = append(row, res.Scenario)
		for _, n := range names {
			t := res.Methods[n]
			row = append(row, fmt.Sprintf("%f", t.Mean), fmt.Sprintf("%f", t.Variance))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("bench: write row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("bench: flush: %w", err)
	}
	return nil
}
