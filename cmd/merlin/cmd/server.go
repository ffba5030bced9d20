package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/merlin-go/internal/buffer"
	"github.com/cwbudde/merlin-go/internal/transport"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run a long-running analysis session over stdin/stdout",
	Long: `server reads newline-delimited JSON requests from stdin and writes a
newline-delimited {class, value, notifications} response for each, keeping
one registry of open buffers for the life of the process (spec.md §6
"CLI"). Requests within a buffer are processed in arrival order
(spec.md §5 "Ordering").`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)
}

func runServer(_ *cobra.Command, _ []string) error {
	reg := buffer.NewRegistry()
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	writer := bufio.NewWriter(os.Stdout)
	defer writer.Flush()

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		req, err := transport.ParseRequest(line)
		if err != nil {
			fmt.Fprintf(writer, `{"class":"error","value":%q,"notifications":[]}`, err.Error())
			writer.WriteByte('\n')
			writer.Flush()
			continue
		}

		resp := transport.Dispatch(reg, req)
		writer.Write(resp)
		writer.WriteByte('\n')
		writer.Flush()
	}

	if err := scanner.Err(); err != nil && err != io.EOF {
		return fmt.Errorf("reading requests: %w", err)
	}
	return nil
}
