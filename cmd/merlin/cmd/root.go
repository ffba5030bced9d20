package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"

	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "merlin",
	Short: "Editor-facing incremental analysis service",
	Long: `merlin analyzes buffers of a statically-typed ML-family language for an
editor: outline, type-at-position, and refactor-unqualify, kept in sync
with incremental edits rather than recomputed from scratch on every
keystroke.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the project configuration file")
}
