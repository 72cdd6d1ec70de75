package main

import (
	"fmt"
	"os"

	"github.com/aretw0/morenodes/internal/cli"
	"github.com/aretw0/morenodes/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "morenodes",
	Short: "morenodes is a small library of graph nodes with a color converter",
	Long: `morenodes hosts the RGBToHSV, DynamicMatcher and LoggingNode node types.
Scenes wiring them together can be simulated from YAML/JSON files or
Markdown document folders, and the converter is exposed over HTTP and MCP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to the configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Override the configured log level (debug, info, warn, error)")
}

// newApp builds the application from the persistent flags. Structured logs
// go to the command's stderr and node prints to its stdout unless opts says otherwise.
func newApp(cmd *cobra.Command, opts cli.Options) (*cli.App, error) {
	opts.ConfigPath, _ = cmd.Flags().GetString("config")
	opts.LogLevel, _ = cmd.Flags().GetString("log-level")
	if opts.LogOutput == nil {
		opts.LogOutput = cmd.ErrOrStderr()
	}
	if opts.NodeOutput == nil {
		opts.NodeOutput = cmd.OutOrStdout()
	}
	return cli.NewApp(opts)
}
