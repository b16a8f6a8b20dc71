package app

import (
	"fmt"
	"os"
)

var (
	version   = "0.0.0-dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func Main(args []string) int {
	if len(args) < 2 {
		printHelp()
		return 2
	}

	switch args[1] {
	case "run":
		return run(args[2:])
	case "config":
		return configCmd(args[2:])
	case "version":
		return versionCmd(args[2:])
	case "help", "-h", "--help":
		printHelp()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[1])
		printHelp()
		return 2
	}
}

func printHelp() {
	fmt.Fprintln(os.Stdout, "webserv")
	fmt.Fprintln(os.Stdout, "")
	fmt.Fprintln(os.Stdout, "Usage:")
	fmt.Fprintln(os.Stdout, "  webserv run --config ./application.conf [--watch] [--log-level info]")
	fmt.Fprintln(os.Stdout, "  webserv config fmt --config ./application.conf")
	fmt.Fprintln(os.Stdout, "  webserv config validate --config ./application.conf --format json|text")
	fmt.Fprintln(os.Stdout, "  webserv config diff [--context N] <old> <new>")
	fmt.Fprintln(os.Stdout, "  webserv version [--long] [--json]")
}
