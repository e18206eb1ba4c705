package main

import (
	"os"

	"github.com/pfrederiksen/ugl-courses/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
