package main

import (
	"os"

	"github.com/majorcontext/stacktracer/cmd/stacktracer/cli"
	"github.com/majorcontext/stacktracer/internal/ui"
)

func main() {
	if err := cli.Execute(); err != nil {
		ui.Errorf("%v", err)
		os.Exit(1)
	}
}
