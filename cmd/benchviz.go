package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	uid "github.com/satori/go.uuid"
	"github.com/spf13/cobra"

	"benchviz.io/pkg/compare"
	"benchviz.io/pkg/report"
	"benchviz.io/pkg/results"
)

const appName = "benchviz"

func main() {
	var (
		candidate string
		baseline  string
		uuid      string
		logLevel  string
	)

	cmd := &cobra.Command{
		Use:           appName + " RESULTS_DIR",
		Short:         "Builds a comparative report from HTTP benchmark result files",
		Long:          "Parses a directory of <server>_<test>.txt benchmark result files, aggregates them per (test, server) and writes performance_matrix.png and report.html back into the directory.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", logLevel, err)
			}
			zerolog.SetGlobalLevel(level)
			return run(args[0], candidate, baseline, uuid)
		},
	}
	cmd.Flags().StringVar(&candidate, "candidate", "", "Server name to use as the comparison numerator (default: first server in scan order)")
	cmd.Flags().StringVar(&baseline, "baseline", "", "Server name to use as the comparison denominator (default: second server in scan order)")
	cmd.Flags().StringVar(&uuid, "uuid", uid.NewV4().String(), "Report run uuid")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: trace, debug, info, warn, error")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(dir, candidate, baseline, uuid string) error {
	log.Info().Msgf("Loading benchmark results from: %s", dir)
	resultSet, err := results.Load(dir)
	if err != nil {
		return err
	}
	if len(resultSet) == 0 {
		return fmt.Errorf("%w in %s", results.ErrEmptyResultSet, dir)
	}
	log.Info().Msgf("Loaded %d benchmark results", len(resultSet))

	matrix := compare.BuildMatrix(resultSet)
	summary := compare.BuildSummary(resultSet, candidate, baseline)
	if summary.Pairwise != nil {
		log.Info().Msgf("Comparing %s against %s", summary.Pairwise.Candidate, summary.Pairwise.Baseline)
	} else {
		log.Info().Msgf("%d servers found, skipping pairwise comparison", len(summary.Servers))
	}

	rendered, err := report.NewRenderer(uuid).Render(matrix, summary, dir)
	if err != nil {
		return err
	}
	log.Info().Msgf("Performance matrix saved to: %s", rendered.ImagePath)
	log.Info().Msgf("HTML report saved to: %s", rendered.DocumentPath)
	log.Info().Msgf("Rendered %d rows from %d records", rendered.Rows, rendered.Records)
	return nil
}
