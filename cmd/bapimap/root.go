package main

import (
	"github.com/spf13/cobra"

	"bapi-mapper/internal/analyze"
)

func newRootCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:           "bapimap",
		Short:         "Check and describe BAPI mappings",
		Long:          "bapimap finds structs tagged `sap:\"NAME,bapi\"` in Go packages and reports the mappings the runtime mapper would build for them.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&dir, "dir", "", "Directory package patterns are resolved in")

	analyzer := func() *analyze.Analyzer {
		return analyze.NewAnalyzer(analyze.WithDir(dir))
	}

	cmd.AddCommand(newCheckCmd(analyzer))
	cmd.AddCommand(newDescribeCmd(analyzer))

	return cmd
}
