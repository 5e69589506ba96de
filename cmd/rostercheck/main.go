// Command rostercheck resolves OCR text and validates rosters from the
// command line, against the same player pool and rules as the server.
package main

import (
	"fmt"
	"os"

	"github.com/okian/cricxi/pkg/logger"
)

func main() {
	if err := logger.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logging:", err)
		os.Exit(1)
	}
	// CLI output goes to stdout; logs only matter when something breaks.
	_ = logger.SetLevelString("warn")

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
