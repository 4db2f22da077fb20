// Command nlogctl checks logging configuration documents, renders patterns
// and runs rotation passes.
package main

import (
	"os"

	"github.com/philipp01105/nlogconf/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
