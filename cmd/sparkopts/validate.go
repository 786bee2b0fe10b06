package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	spark "github.com/ash-project/spark-sub001"
	"github.com/ash-project/spark-sub001/compiled"
	"github.com/ash-project/spark-sub001/schemafile"
	"github.com/ash-project/spark-sub001/source"
)

type validateFlags struct {
	schema   string
	input    string
	compiled bool
}

func newValidateCmd() *cobra.Command {
	var f validateFlags
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an option document",
		Long: `Validates the options in --input against the schema in --schema and
prints the normalized options as JSON, defaults included.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := runValidate(f)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&f.schema, "schema", "", "schema document (YAML or JSON)")
	cmd.Flags().StringVar(&f.input, "input", "", "option document (YAML or JSON)")
	cmd.Flags().BoolVar(&f.compiled, "compiled", false, "validate with a compiled validator")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runValidate(f validateFlags) ([]byte, error) {
	s, err := schemafile.Load(f.schema)
	if err != nil {
		return nil, err
	}
	input, err := readInput(f.input)
	if err != nil {
		return nil, err
	}
	log := spark.Logger()
	log.Debug().Str("schema", f.schema).Str("input", f.input).Bool("compiled", f.compiled).Msg("validating")

	var flat spark.Keyword
	if f.compiled {
		v, err := compiled.Compile(s)
		if err != nil {
			return nil, err
		}
		rec, err := v.Validate(input)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.input, err)
		}
		flat = v.ToFlatForm(rec)
	} else {
		res, err := spark.Validate(s, input)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.input, err)
		}
		flat = res.Flat()
	}
	return source.EncodeJSON(flat, source.Options{AtomPrefix: true})
}

func readInput(path string) (spark.Keyword, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	opt := source.Options{AtomPrefix: true}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return source.JSON(data, opt)
	}
	return source.YAML(data, opt)
}
