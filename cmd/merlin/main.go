package main

import (
	"os"

	"github.com/cwbudde/merlin-go/cmd/merlin/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
