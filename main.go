package main

import (
	"os"

	"github.com/dmelnis/screengate/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
