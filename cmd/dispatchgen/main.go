// Command dispatchgen generates a request/dispatch layer for the methods of
// a Go type.
//
// Typical use is through go:generate:
//
//	//go:generate go run github.com/grafana/dispatchgen/cmd/dispatchgen -t Store
package main

import (
	"fmt"
	"os"

	"github.com/grafana/dispatchgen/cmd/dispatchgen/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
