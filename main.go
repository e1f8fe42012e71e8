package main

import (
	"fmt"
	"os"

	"github.com/ewhall/lnr/cmd"
	"github.com/ewhall/lnr/internal/exitcode"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(exitcode.ExitCode(err))
	}
}
