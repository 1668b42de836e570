package main

import (
	"os"

	"github.com/guilhermegouw/evman/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
