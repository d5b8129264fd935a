package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/hazard-sim/sim"
	"github.com/inference-sim/hazard-sim/sim/cluster"

	// Register use case types.
	_ "github.com/inference-sim/hazard-sim/sim/usecase"
)

var (
	scenarioPath string        // Scenario YAML file
	seed         int64         // Overrides the scenario seed when set
	horizon      time.Duration // Overrides the scenario horizon when set
	logLevel     string        // Log verbosity level
	metricsOut   string        // Prometheus text exposition output file
	traceRecords bool          // Print every sent and received message
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "hazard-sim",
	Short: "Discrete-event simulator for hazard warning dissemination between ITS stations",
}

// runCmd executes a scenario
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a hazard warning scenario",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		sc := mustLoadScenario()
		if cmd.Flags().Changed("seed") {
			sc.Seed = seed
		}
		if cmd.Flags().Changed("horizon") {
			sc.Horizon = horizon
		}

		registry := prometheus.NewRegistry()
		metrics, err := sim.NewMetrics(registry)
		if err != nil {
			logrus.Fatalf("Failed to register metrics: %v", err)
		}
		cfg, err := sc.ClusterConfig(metrics)
		if err != nil {
			logrus.Fatalf("Invalid scenario: %v", err)
		}

		logrus.Infof("Starting simulation: %d stations, horizon=%s, tick=%s, seed=%d",
			len(cfg.Stations), sc.Horizon, sc.TickInterval, sc.Seed)
		startTime := time.Now()

		s, err := cluster.NewRoadSimulator(cfg)
		if err != nil {
			logrus.Fatalf("Failed to build simulator: %v", err)
		}
		summary := s.Run()

		if traceRecords {
			printTrace(os.Stdout, s.Trace())
		}
		printSummary(os.Stdout, summary)
		if metricsOut != "" {
			if err := writeMetrics(metricsOut, metrics); err != nil {
				logrus.Fatalf("Failed to write metrics: %v", err)
			}
			logrus.Infof("Metrics written to %s", metricsOut)
		}
		logrus.Infof("Simulation complete in %s.", time.Since(startTime).Round(time.Millisecond))
	},
}

// validateCmd checks a scenario without running it
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a scenario file",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		sc := mustLoadScenario()
		if err := sc.Validate(); err != nil {
			logrus.Fatalf("Invalid scenario: %v", err)
		}
		fmt.Printf("Scenario %s is valid: %d stations, %d storyboard entries\n",
			scenarioPath, len(sc.Stations), len(sc.Storyboard))
	},
}

// useCasesCmd lists the registered use case types
var useCasesCmd = &cobra.Command{
	Use:   "usecases",
	Short: "List the available use case types",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range sim.RegisteredUseCases() {
			fmt.Println(name)
		}
	},
}

func setLogLevel() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

func mustLoadScenario() *Scenario {
	if scenarioPath == "" {
		logrus.Fatalf("Scenario file not provided (--scenario).")
	}
	sc, err := LoadScenario(scenarioPath)
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	return sc
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	for _, c := range []*cobra.Command{runCmd, validateCmd} {
		c.Flags().StringVar(&scenarioPath, "scenario", "", "Scenario YAML file")
		c.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	}

	runCmd.Flags().Int64Var(&seed, "seed", 42, "Master seed, overrides the scenario seed")
	runCmd.Flags().DurationVar(&horizon, "horizon", 0, "Simulation horizon, overrides the scenario horizon (e.g. 60s)")
	runCmd.Flags().StringVar(&metricsOut, "metrics-out", "", "Write Prometheus text exposition of the run metrics to this file")
	runCmd.Flags().BoolVar(&traceRecords, "trace", false, "Print every sent and received message")

	rootCmd.AddCommand(runCmd, validateCmd, useCasesCmd)
}
