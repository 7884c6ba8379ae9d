// Command drift-maps validates drift-maps project configuration and runs a
// headless marker scenario against a logging engine.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/drift-maps/cmd/drift-maps/cmd"
)

func main() {
	if err := cmd.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
