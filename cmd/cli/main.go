package main

import (
	"fmt"
	"os"

	"github.com/de-tools/booking-atlas/pkg/runtime/terminal"
	"github.com/de-tools/booking-atlas/pkg/services/source"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cli := terminal.NewCLI(terminal.Options{
		Registry: source.NewDefaultRegistry(),
		Output:   os.Stdout,
		Errors:   os.Stderr,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
