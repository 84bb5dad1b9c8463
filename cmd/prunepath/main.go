package main

import (
	"os"

	"github.com/kukaryambik/prunepath/cmd/prunepath/cmd"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
