package main

import (
	"fmt"
	"os"

	"vitals/internal/cli"
	"vitals/internal/domain"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if domain.IsValidation(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
