// Command fiber renders node trees described in YAML through the fiber
// reconciler and prints the resulting host tree.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/fiber/cmd/fiber/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
