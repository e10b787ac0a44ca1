package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alnah/go-doctrans/internal/lang"
)

// languagesCmd creates the languages command.
func languagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table := lang.ISO639()
			for _, name := range table.Names() {
				tag, err := table.Resolve(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", name, tag)
			}
			return nil
		},
	}
}
