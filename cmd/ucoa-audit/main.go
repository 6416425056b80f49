package main

import (
	"os"

	"github.com/osa-dev/ucoa-audit/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
