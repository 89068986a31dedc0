package main

import (
	"context"
	"fmt"
	"os"

	"github.com/stachehq/stache/internal/command"
)

func main() {
	app := command.New()
	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
