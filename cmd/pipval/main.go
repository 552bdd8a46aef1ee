package main

import (
	"os"

	"github.com/rustyeddy/pipval/cmd/pipval/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
