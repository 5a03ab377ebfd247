package main

import (
	"fmt"
	"os"

	"rtt-forecast/cmd/rtt-forecast/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
