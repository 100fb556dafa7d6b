// Command jitfront translates restricted Python functions and classes into
// a range-annotated tree IR.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/jitfront/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
