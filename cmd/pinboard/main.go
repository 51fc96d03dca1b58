package main

import (
	"fmt"
	"os"
)

const usageText = `pinboard keeps chat conversations pinned to the top of the host sidebar.

Usage:
  pinboard <command> [flags]

Commands:
  ui       run the terminal UI against the host snapshot
  pins     list or edit pinned conversations (list|add|rm)
  seed     write a demo host snapshot
  config   print configuration (effective or defaults)
  version  print build version
  help     show help

Flags:
  -h, --help   show help

UI flags:
  --snapshot   path to the host sidebar snapshot
  --host       host definition (chatgpt|claude)
  --base-url   override the host base URL
  --backend    storage backend (file|bbolt)

Examples:
  pinboard seed
  pinboard ui
  pinboard pins add /c/abc123 "Kept thread"
  pinboard pins list
  pinboard config --default --format toml
`

func printUsage() {
	fmt.Fprint(os.Stderr, usageText)
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		return
	}

	wiring := defaultCommandWiring(os.Stdout, os.Stderr)
	commands := buildCommands(wiring)

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return
	}

	runner, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(2)
	}
	exitOnErr(args[0], runner.Run(args[1:]), wiring.stderr)
}
