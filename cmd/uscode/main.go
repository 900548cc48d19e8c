// Command uscode extracts structured section records from the USLM
// XML release of the United States Code.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/uscode-cli/internal/adapters/driving/cli"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
