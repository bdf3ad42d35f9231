package main

import (
	"fmt"
	"os"

	"github.com/spherical/pdf2image/cmd/pdf2image/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
