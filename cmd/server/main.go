// Package main implements the entry point for the Smart Todo API server,
// which stores tasks and context notes and asks a language model to
// prioritise them.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
