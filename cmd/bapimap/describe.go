package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"bapi-mapper/internal/analyze"
)

func newDescribeCmd(analyzer func() *analyze.Analyzer) *cobra.Command {
	return &cobra.Command{
		Use:   "describe [patterns...]",
		Short: "Print the mappings of valid BAPI types as YAML",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := analyzer().LoadPackages(args...)
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)

			if err := enc.Encode(result.Descriptions()); err != nil {
				return fmt.Errorf("encode descriptions: %w", err)
			}

			if err := enc.Close(); err != nil {
				return err
			}

			for _, d := range result.Diagnostics.Errors {
				fmt.Fprintln(cmd.ErrOrStderr(), "skipped", d.String())
			}

			return nil
		},
	}
}
