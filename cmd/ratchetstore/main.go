package main

import (
	"os"

	"ratchetstore/cmd/ratchetstore/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
