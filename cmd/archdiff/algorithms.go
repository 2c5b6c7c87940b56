package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meigma/archdiff"
)

func newAlgorithmsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List the supported hash algorithm names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range archdiff.Algorithms() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
