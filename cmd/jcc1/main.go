package main

import (
	"os"

	"github.com/joos1w/jcc1/cmd/jcc1/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
