package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ash-project/spark-sub001/compiled"
	"github.com/ash-project/spark-sub001/schemafile"
)

func newCheckCmd() *cobra.Command {
	var schemaPath string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Load and compile a schema document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := schemafile.Load(schemaPath)
			if err != nil {
				return err
			}
			if _, err := compiled.Compile(s); err != nil {
				return fmt.Errorf("%s: %w", schemaPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d options ok\n", schemaPath, s.Len())
			return nil
		},
	}
	cmd.Flags().StringVar(&schemaPath, "schema", "", "schema document (YAML or JSON)")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}
