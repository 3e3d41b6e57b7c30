package main

import (
	"os"

	"github.com/trakaido/trakaido/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
