// Command nipsi-bench runs Setup/Encrypt/Eval for one NI-PSI scheme
// across a list of scenario sizes and writes timing statistics to a
// semicolon-separated .dat file. It is an external-collaborator stub:
// the engineering of interest lives in the scheme packages, not here.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/CRIPTIM/nipsi/internal/config"
	"github.com/CRIPTIM/nipsi/internal/log"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func banner(logger log.Logger) {
	logger.Infow("nipsi-bench", "version", version, "date", buildDate)
}

var scenarioFlag = &cli.StringFlag{
	Name:     "scenario",
	Aliases:  []string{"s"},
	Usage:    "path to the TOML scenario file describing the scheme and sizes to benchmark",
	Required: true,
}

var outputFlag = &cli.StringFlag{
	Name:    "output",
	Aliases: []string{"o"},
	Usage:   "path to write the .dat results file (overrides the scenario file's output field)",
}

var verboseFlag = &cli.BoolFlag{
	Name:  "verbose",
	Usage: "log at debug level",
}

func run(c *cli.Context) error {
	level := log.InfoLevel
	if c.Bool(verboseFlag.Name) {
		level = log.DebugLevel
	}
	logger := log.New(os.Stdout, level, false)
	banner(logger)

	scenario, err := config.Load(c.String(scenarioFlag.Name))
	if err != nil {
		return fmt.Errorf("nipsi-bench: %w", err)
	}

	if out := c.String(outputFlag.Name); out != "" {
		scenario.Output = out
	}
	if scenario.Output == "" {
		return fmt.Errorf("nipsi-bench: no output path given on the command line or in the scenario file")
	}

	results, err := runScenario(logger, scenario)
	if err != nil {
		return fmt.Errorf("nipsi-bench: %w", err)
	}

	f, err := os.Create(scenario.Output)
	if err != nil {
		return fmt.Errorf("nipsi-bench: create output: %w", err)
	}
	defer f.Close()

	if err := writeResults(f, results); err != nil {
		return fmt.Errorf("nipsi-bench: %w", err)
	}
	logger.Infow("wrote results", "path", scenario.Output, "scenarios", len(results))
	return nil
}

func app() *cli.App {
	a := cli.NewApp()
	a.Name = "nipsi-bench"
	a.Usage = "benchmark a non-interactive private set intersection scheme"
	a.Version = version
	a.Flags = []cli.Flag{scenarioFlag, outputFlag, verboseFlag}
	a.Action = run
	return a
}

func main() {
	if err := app().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}
