package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/aretw0/morenodes"
	"github.com/aretw0/morenodes/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "Inspect the registered node types",
}

var nodesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List node types",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tATTRIBUTES")
		for _, def := range morenodes.NewRegistry().Definitions() {
			fmt.Fprintf(w, "%s\t%d\n", def.Name, len(def.Attributes))
		}
		return w.Flush()
	},
}

var nodesDescribeCmd = &cobra.Command{
	Use:   "describe NAME",
	Short: "Show the documentation of a node type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := morenodes.NewRegistry().Get(args[0])
		if err != nil {
			return err
		}
		doc := tui.NodeDoc(t.Definition())

		raw, _ := cmd.Flags().GetBool("raw")
		if raw {
			fmt.Fprint(cmd.OutOrStdout(), doc)
			return nil
		}

		render, err := tui.NewRenderer(tui.IsTerminal(cmd.OutOrStdout()), 100)
		if err != nil {
			return err
		}
		out, err := render(doc)
		if err != nil {
			return fmt.Errorf("failed to render %s: %w", args[0], err)
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(nodesCmd)
	nodesCmd.AddCommand(nodesListCmd, nodesDescribeCmd)
	nodesDescribeCmd.Flags().Bool("raw", false, "Print the Markdown source instead of rendering it")
}
