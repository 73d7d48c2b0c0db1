package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
