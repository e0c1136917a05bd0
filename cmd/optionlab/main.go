package main

import (
	"os"

	"github.com/wonny/optionlab/backend/cmd/optionlab/commands"
)

// main is the entry point for the OptionLab CLI.
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
