package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/streamhub/version"
)

func newVersionCmd() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit, build date and Go version of streamhub.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			info := version.GetVersionInfo()
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), info.Short())
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "streamhub\n%s", info.String())
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print the version only")
	return cmd
}
