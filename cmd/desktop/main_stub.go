//go:build !desktop

package main

import (
	"fmt"
	"os"
)

func main() {
	if handled, exitCode := handleCLIFlags(); handled {
		os.Exit(exitCode)
	}
	fmt.Fprintln(os.Stderr, "this build has no GUI; rebuild with -tags desktop or use cmd/analyzer")
	os.Exit(1)
}
