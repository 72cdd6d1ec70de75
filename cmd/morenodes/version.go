package main

import (
	"fmt"

	"github.com/aretw0/morenodes"
	"github.com/aretw0/morenodes/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of morenodes",
	Run: func(cmd *cobra.Command, args []string) {
		p := tui.NewPrinter(cmd.OutOrStdout())
		if p.Color() {
			p.Banner(morenodes.Version)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "morenodes version %s\n", morenodes.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
