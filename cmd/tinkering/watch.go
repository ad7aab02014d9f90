package main

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/dshills/tinkering/internal/ui/watch"
)

func newWatchCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [file]",
		Short: "Full-screen playground following .tinkering",
		Long: `Full-screen playground following .tinkering.

The most recently written .php file in .tinkering becomes the active
document. ctrl+r runs it, ctrl+n creates the playground, ctrl+t sends
keystrokes to the tinker session, q or ctrl+q quits. Keys can be rebound
from init.lua with tinkering.map(key, command).

Logs are discarded unless --log-file is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := g.open(cmd, sessionOptions{Watch: true, Quiet: true})
			if err != nil {
				return err
			}
			defer s.close()

			switch {
			case len(args) > 0:
				s.activate(ctx, args)
			default:
				if _, err := os.Stat(s.Layout().Snippet); err == nil {
					s.activate(ctx, nil)
				}
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("create screen: %w", err)
			}
			return watch.New(s.Application, screen).Run(ctx)
		},
	}
}
