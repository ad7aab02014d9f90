package main

import (
	"github.com/spf13/cobra"

	"github.com/dshills/tinkering/internal/app"
)

func newInitCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create .tinkering/playground.php and print its path",
		Long: `Create the scratch directory and the playground file.

An existing playground file is left untouched. With --open the file is
opened in $VISUAL or $EDITOR.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := g.open(cmd, sessionOptions{})
			if err != nil {
				return err
			}
			defer s.close()
			return userFailure(s.Execute(cmd.Context(), app.CommandInit))
		},
	}
}
