package main

import (
	"os"

	"github.com/dataprompt/dataprompt/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
