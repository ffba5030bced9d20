package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/merlin-go/internal/buffer"
	"github.com/cwbudde/merlin-go/internal/config"
	"github.com/cwbudde/merlin-go/internal/transport"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
)

var prettyOutput bool

var singleCmd = &cobra.Command{
	Use:   "single",
	Short: "Run one request read from stdin and print the response",
	Long: `single reads a single JSON request from stdin, applies it against an
empty buffer registry, and writes the {class, value, notifications}
response envelope to stdout. It carries no state across invocations, so
only an "open" request finds a buffer to work on.`,
	RunE: runSingle,
}

func init() {
	singleCmd.Flags().BoolVar(&prettyOutput, "pretty", false, "pretty-print the JSON response")
	rootCmd.AddCommand(singleCmd)
}

func runSingle(_ *cobra.Command, _ []string) error {
	if configPath != "" {
		if _, err := config.Load(configPath); err != nil {
			// A configuration error rejects this request only (spec.md §7
			// "Configuration errors"); it is not a fatal CLI failure.
			fmt.Fprintf(os.Stderr, "config error: %v\n", err)
			fmt.Fprintf(os.Stdout, `{"class":"error","value":%q,"notifications":[]}`, "config error: "+err.Error())
			return nil
		}
	}

	body, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading request from stdin: %w", err)
	}

	req, err := transport.ParseRequest(body)
	if err != nil {
		return fmt.Errorf("parsing request: %w", err)
	}

	reg := buffer.NewRegistry()
	resp := transport.Dispatch(reg, req)
	if prettyOutput {
		resp = pretty.Pretty(resp)
	}

	os.Stdout.Write(resp)
	if prettyOutput {
		fmt.Println()
	}
	return nil
}
