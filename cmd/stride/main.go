package main

import (
	"os"

	"github.com/lvocabulary78-netizen/Stride/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
