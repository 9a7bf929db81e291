package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"bapi-mapper/internal/analyze"
	"bapi-mapper/internal/diagnostic"
)

var errCheckFailed = errors.New("check failed")

func newCheckCmd(analyzer func() *analyze.Analyzer) *cobra.Command {
	var (
		noColor  bool
		warnings bool
	)

	cmd := &cobra.Command{
		Use:   "check [patterns...]",
		Short: "Report BAPI types the runtime mapper would reject",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := analyzer().LoadPackages(args...)
			if err != nil {
				return err
			}

			p := newPalette(noColor)
			renderCheck(cmd.OutOrStdout(), p, result, warnings)

			if result.Diagnostics.HasErrors() || warnings && len(result.Diagnostics.Warnings) > 0 {
				return fmt.Errorf("%w: %d errors, %d warnings", errCheckFailed,
					len(result.Diagnostics.Errors), len(result.Diagnostics.Warnings))
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVar(&warnings, "strict", false, "Fail on warnings too")

	return cmd
}

type palette struct {
	ok, warn, fail, faint *color.Color
}

func newPalette(noColor bool) palette {
	p := palette{
		ok:    color.New(color.FgGreen),
		warn:  color.New(color.FgYellow, color.Bold),
		fail:  color.New(color.FgRed, color.Bold),
		faint: color.New(color.Faint),
	}

	if noColor {
		for _, c := range []*color.Color{p.ok, p.warn, p.fail, p.faint} {
			c.DisableColor()
		}
	}

	return p
}

func renderCheck(w io.Writer, p palette, result *analyze.Result, strict bool) {
	failed := make(map[string]bool)
	for _, d := range result.Diagnostics.Errors {
		failed[d.Type] = true
	}

	for _, f := range result.Functions {
		if failed[f.ID.String()] {
			continue
		}

		p.ok.Fprint(w, "ok   ")
		fmt.Fprintf(w, "%s ", f.ID)
		p.faint.Fprintln(w, f.Description.Function)
	}

	for _, d := range result.Diagnostics.All() {
		switch d.Severity {
		case diagnostic.SeverityError:
			p.fail.Fprint(w, "FAIL ")
		case diagnostic.SeverityWarning:
			p.warn.Fprint(w, "warn ")
		default:
			p.faint.Fprint(w, "info ")
		}

		fmt.Fprintln(w, d.String())

		for _, s := range d.Suggestions {
			p.faint.Fprintf(w, "     did you mean %q?\n", s)
		}
	}

	summary := fmt.Sprintf("%d functions, %d errors, %d warnings",
		len(result.Functions), len(result.Diagnostics.Errors), len(result.Diagnostics.Warnings))

	switch {
	case result.Diagnostics.HasErrors(), strict && len(result.Diagnostics.Warnings) > 0:
		p.fail.Fprintln(w, summary)
	default:
		p.ok.Fprintln(w, summary)
	}
}
