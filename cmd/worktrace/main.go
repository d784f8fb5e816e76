package main

import (
	"os"

	"github.com/terraincognita07/worktrace/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
