package main

import (
	"os"

	"github.com/solatis/nexusgate/cmd/nexusgate/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
