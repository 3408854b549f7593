package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/inference-sim/ersim/sim/emergency"
	"github.com/inference-sim/ersim/sim/stats"
)

var (
	configPath     string  // Optional YAML scenario file
	seed           int64   // Seed for the first replication
	horizonHours   float64 // Simulated hours per replication
	replications   int     // Number of independent replications
	parallelism    int     // Max replications running at once
	logLevel       string  // Log verbosity level
	includeRecords bool    // Emit per-patient records and utilization samples
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "ersim",
	Short: "Discrete-event simulator for emergency-room patient flow",
}

// replicationReport is the JSON document printed for each replication.
type replicationReport struct {
	RunID        string                    `json:"run_id"`
	Replication  int                       `json:"replication"`
	Seed         int64                     `json:"seed"`
	HorizonHours float64                   `json:"horizon_hours"`
	Arrivals     int                       `json:"arrivals"`
	InSystem     int                       `json:"in_system"`
	WallClock    string                    `json:"wall_clock"`
	Summary      *stats.Summary            `json:"summary"`
	Completions  []stats.CompletionRecord  `json:"completions,omitempty"`
	Utilization  []stats.UtilizationSample `json:"utilization,omitempty"`
	Aborts       []stats.AbortRecord       `json:"aborts,omitempty"`
}

// runCmd executes the simulation using a scenario file and CLI overrides
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the emergency-room simulation",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg := emergency.DefaultConfig()
		if configPath != "" {
			if cfg, err = loadConfig(configPath); err != nil {
				logrus.Fatalf("%v", err)
			}
		}
		// Flags override the file only when set explicitly.
		if cmd.Flags().Changed("seed") || configPath == "" {
			cfg.Seed = seed
		}
		if cmd.Flags().Changed("horizon") || configPath == "" {
			cfg.HorizonHours = horizonHours
		}
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		if replications < 1 {
			logrus.Fatalf("--replications must be >= 1, got %d", replications)
		}

		reports, err := runReplications(cfg, replications, parallelism, includeRecords)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		if err := printReports(os.Stdout, reports); err != nil {
			logrus.Fatalf("Writing results: %v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

// configCmd prints the default scenario, ready to be edited and passed to --config.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the default scenario as YAML",
	Run: func(cmd *cobra.Command, args []string) {
		if err := writeDefaultConfig(os.Stdout); err != nil {
			logrus.Fatalf("Writing config: %v", err)
		}
	},
}

// runReplications runs n independent rooms, replication i seeded with
// cfg.Seed+i. Reports come back in replication order regardless of which
// finished first.
func runReplications(cfg emergency.Config, n, limit int, withRecords bool) ([]replicationReport, error) {
	reports := make([]replicationReport, n)
	var g errgroup.Group
	if limit < 1 {
		limit = runtime.NumCPU()
	}
	g.SetLimit(limit)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			rc := cfg
			rc.Seed = cfg.Seed + int64(i)
			room, err := emergency.NewEmergencyRoom(rc)
			if err != nil {
				return fmt.Errorf("replication %d: %w", i, err)
			}
			start := time.Now()
			res, err := room.Run()
			if err != nil {
				return fmt.Errorf("replication %d: %w", i, err)
			}
			report := replicationReport{
				RunID:        xid.New().String(),
				Replication:  i,
				Seed:         rc.Seed,
				HorizonHours: rc.HorizonHours,
				Arrivals:     res.Arrivals,
				InSystem:     res.InSystem,
				WallClock:    time.Since(start).String(),
				Summary:      res.Summary,
			}
			if withRecords {
				report.Completions = res.Completions
				report.Utilization = res.Utilization
				report.Aborts = res.Aborts
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func printReports(w io.Writer, reports []replicationReport) error {
	for _, r := range reports {
		if _, err := fmt.Fprintf(w, "=== Replication %d (seed %d) ===\n", r.Replication, r.Seed); err != nil {
			return err
		}
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, string(data)); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	defaults := emergency.DefaultConfig()

	runCmd.Flags().StringVar(&configPath, "config", "", "YAML scenario file (see `ersim config`)")
	runCmd.Flags().Int64Var(&seed, "seed", defaults.Seed, "Seed for the first replication; replication i uses seed+i")
	runCmd.Flags().Float64Var(&horizonHours, "horizon", defaults.HorizonHours, "Simulated hours per replication")
	runCmd.Flags().IntVar(&replications, "replications", 1, "Number of independent replications")
	runCmd.Flags().IntVar(&parallelism, "parallelism", 0, "Max concurrent replications (0 = number of CPUs)")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().BoolVar(&includeRecords, "records", false, "Include per-patient records and utilization samples in the output")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
}
