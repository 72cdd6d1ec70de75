package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/aretw0/morenodes"
	"github.com/aretw0/morenodes/internal/cli"
	"github.com/aretw0/morenodes/internal/presentation/graph"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate PATH",
	Short: "Evaluate a scene",
	Long: `Loads the scene at PATH (a YAML/JSON file or a folder of Markdown node
documents), evaluates it for the requested number of frames and prints the
result. LoggingNode output is written to stdout in text mode and to stderr
otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		steps, _ := cmd.Flags().GetInt("steps")
		snapshotID, _ := cmd.Flags().GetString("snapshot-id")

		opts := cli.Options{Steps: steps}
		switch format {
		case "text":
		case "json", "mermaid":
			opts.NodeOutput = cmd.ErrOrStderr()
		default:
			return fmt.Errorf("unknown format %q (supported: text, json, mermaid)", format)
		}

		loader, err := morenodes.NewSceneLoader(args[0])
		if err != nil {
			return err
		}
		opts.Loader = loader

		app, err := newApp(cmd, opts)
		if err != nil {
			return err
		}
		defer app.Close()

		res, err := app.Simulator.Run(cmd.Context(), snapshotID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch format {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Scene    string          `json:"scene"`
				Results  map[string]bool `json:"results"`
				Snapshot any             `json:"snapshot"`
			}{res.Scene.Name, res.Results, res.Snapshot})
		case "mermaid":
			fmt.Fprint(out, graph.GenerateMermaid(res.Snapshot))
			return nil
		}

		paths := make([]string, 0, len(res.Results))
		for p := range res.Results {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		for _, p := range paths {
			status := "ok"
			if !res.Results[p] {
				status = "failed"
			}
			fmt.Fprintf(out, "%s: %s\n", p, status)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().Int("steps", 0, "Frames to evaluate (0 uses the scene's own steps)")
	simulateCmd.Flags().String("snapshot-id", "", "Save the final graph state under this ID")
	simulateCmd.Flags().StringP("format", "o", "text", "Output format: text, json or mermaid")
}
