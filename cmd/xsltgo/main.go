package main

import (
	"fmt"
	"os"

	"github.com/hsiuhsiu/libxslt-go/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "xsltgo: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
