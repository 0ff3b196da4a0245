package main

import (
	"os"

	"plebai/cmd/plebai/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
