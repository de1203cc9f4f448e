package main

import (
	"errors"
	"flag"
	"os"

	"github.com/ezsplit/ezsplit-go/internal/cli"
)

func main() {
	if err := cli.Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}

		cli.RenderError(os.Stderr, err)
		os.Exit(1)
	}
}
