package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	spark "github.com/ash-project/spark-sub001"
)

func newRootCmd() *cobra.Command {
	var logLevel string
	root := &cobra.Command{
		Use:   "sparkopts",
		Short: "Validate keyword option documents against a schema",
		Long: `sparkopts loads an option schema from a YAML or JSON document and
validates option documents against it, printing the normalized options.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
			}
			logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: true}).
				Level(level).With().Timestamp().Logger()
			spark.SetLogger(logger)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(newValidateCmd(), newCheckCmd(), newExportCmd())
	return root
}
