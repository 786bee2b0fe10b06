package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ash-project/spark-sub001/jsonschema"
	"github.com/ash-project/spark-sub001/schemafile"
)

func newExportCmd() *cobra.Command {
	var schemaPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the JSON Schema of the documents a schema accepts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := schemafile.Load(schemaPath)
			if err != nil {
				return err
			}
			data, err := jsonschema.Marshal(jsonschema.FromOptions(s))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().StringVar(&schemaPath, "schema", "", "schema document (YAML or JSON)")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}
