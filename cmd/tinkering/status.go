package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/tinkering/internal/tinkering"
)

const (
	formatText = "text"
	formatJSON = "json"
)

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON:
		return nil
	}
	return fmt.Errorf("--format must be %q or %q, got %q", formatText, formatJSON, format)
}

type statusOptions struct {
	Format string
}

type statusReport struct {
	Key      string `json:"key"`
	Value    bool   `json:"value"`
	Document string `json:"document"`
	Root     string `json:"root"`
	Laravel  string `json:"laravel,omitempty"`
}

func newStatusCmd(g *globalOptions) *cobra.Command {
	opts := statusOptions{Format: formatText}

	cmd := &cobra.Command{
		Use:   "status [file]",
		Short: "Report whether the run affordance applies to a file",
		Long: `Report whether the run affordance applies to a file.

Prints tinkering:showButton=true for .php files inside .tinkering and
false otherwise. The exit status is 0 either way.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.Format); err != nil {
				return err
			}
			s, err := g.open(cmd, sessionOptions{})
			if err != nil {
				return err
			}
			defer s.close()
			s.activate(cmd.Context(), args)

			report := statusReport{
				Key:   tinkering.ContextKey,
				Value: s.Visible(),
				Root:  s.Root(),
			}
			if doc := s.ActiveDocument(); doc != nil {
				report.Document = doc.Path
			}
			if fw := s.Framework(); fw != nil {
				report.Laravel = fw.Constraint
			}
			return writeStatus(cmd.OutOrStdout(), opts.Format, report)
		},
	}
	cmd.Flags().StringVar(&opts.Format, "format", opts.Format, "output format: text or json")
	return cmd
}

func writeStatus(w io.Writer, format string, r statusReport) error {
	if format == formatJSON {
		return json.NewEncoder(w).Encode(r)
	}
	_, err := fmt.Fprintf(w, "%s=%t\n", r.Key, r.Value)
	return err
}

type lensReport struct {
	Line    int    `json:"line"`
	Title   string `json:"title"`
	Command string `json:"command"`
}

func newLensCmd(g *globalOptions) *cobra.Command {
	opts := statusOptions{Format: formatText}

	cmd := &cobra.Command{
		Use:   "lens [file]",
		Short: "List the code lenses of a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.Format); err != nil {
				return err
			}
			s, err := g.open(cmd, sessionOptions{})
			if err != nil {
				return err
			}
			defer s.close()
			s.activate(cmd.Context(), args)

			lenses := make([]lensReport, 0, 1)
			for _, l := range s.Lenses() {
				lenses = append(lenses, lensReport{Line: l.Line, Title: l.Title, Command: l.Command})
			}
			return writeLenses(cmd.OutOrStdout(), opts.Format, lenses)
		},
	}
	cmd.Flags().StringVar(&opts.Format, "format", opts.Format, "output format: text or json")
	return cmd
}

func writeLenses(w io.Writer, format string, lenses []lensReport) error {
	if format == formatJSON {
		return json.NewEncoder(w).Encode(lenses)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, l := range lenses {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\n", l.Line, l.Title, l.Command)
	}
	return tw.Flush()
}
