package main

import (
	"fmt"
	"os"

	"github.com/danmuck/reqwire/internal/request"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "reqwirectl: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 when the input was rejected and 1 for every other failure.
func exitCode(err error) int {
	if request.IsClientError(err) {
		return 2
	}
	return 1
}
