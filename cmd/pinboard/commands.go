package main

import (
	"io"
	"os"
)

type commandRunner interface {
	Run(args []string) error
}

type commandWiring struct {
	stdout  io.Writer
	stderr  io.Writer
	runUI   func(opts uiOptions) error
	newRepo repositoryFactory
	version string
}

func defaultCommandWiring(stdout, stderr io.Writer) commandWiring {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return commandWiring{
		stdout:  stdout,
		stderr:  stderr,
		runUI:   runUIProcess,
		newRepo: defaultRepositoryFactory,
		version: buildVersion(),
	}
}

func buildCommands(wiring commandWiring) map[string]commandRunner {
	return map[string]commandRunner{
		"ui":      NewUICommand(wiring.stderr, wiring.runUI),
		"pins":    NewPinsCommand(wiring.stdout, wiring.stderr, wiring.newRepo),
		"seed":    NewSeedCommand(wiring.stdout, wiring.stderr),
		"config":  NewConfigCommand(wiring.stdout, wiring.stderr),
		"version": NewVersionCommand(wiring.stdout, wiring.version),
	}
}
