package main

import (
	"fmt"
	"os"

	"rfm-dash/cmd/rfm-dash/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
