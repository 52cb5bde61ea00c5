package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/gruppe-adler/hexpop/internal/convert"
	"github.com/gruppe-adler/hexpop/internal/inspect"
)

type command struct {
	name        string
	description string
	run         func(*pflag.FlagSet)
}

var subCommands []command

func init() {
	subCommands = []command{
		{"convert", "Aggregate ESRI ASCII grids into an H3 hex map.", convert.Run},
		{"inspect", "Print the header of a grid or the statistics of a hex map.", inspect.Run},
		{"help", "Print this message.", func(s *pflag.FlagSet) { printUsage() }},
	}
}

func printUsage() {
	fmt.Printf("USAGE:\n    %s [SUBCOMMAND] [SUBCOMMAND FLAGS]\n\n", os.Args[0])
	fmt.Print("SUBCOMMANDS: \n")

	for _, c := range subCommands {
		fmt.Printf("%12s    %s\n", c.name, c.description)
	}

	fmt.Printf("\nUse -h as SUBCOMMAND FLAG to print help for each subcommand.\n\n")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Printf("\nERROR: No subcommand was provided.\n\n")
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]

	for _, c := range subCommands {
		if c.name == cmd {
			set := pflag.NewFlagSet(cmd, pflag.ExitOnError)
			c.run(set)
			return
		}
	}

	fmt.Printf("\nERROR: Subcommand '%s' was not found.\n\n", cmd)
	printUsage()
	os.Exit(1)
}
