package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

type PinsCommand struct {
	stdout  io.Writer
	stderr  io.Writer
	newRepo repositoryFactory
}

func NewPinsCommand(stdout, stderr io.Writer, newRepo repositoryFactory) *PinsCommand {
	return &PinsCommand{stdout: stdout, stderr: stderr, newRepo: newRepo}
}

func (c *PinsCommand) Run(args []string) error {
	fs := flag.NewFlagSet("pins", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	backend := fs.String("backend", "", "storage backend (file|bbolt)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	action := "list"
	if len(rest) > 0 {
		action = rest[0]
		rest = rest[1:]
	}

	repo, err := c.newRepo(*backend)
	if err != nil {
		return err
	}
	defer repo.Close()
	ctx := context.Background()

	switch action {
	case "list":
		set, err := repo.Pins().Load(ctx)
		if err != nil {
			return err
		}
		printPins(c.stdout, set.Entries())
		return nil
	case "add":
		if len(rest) < 2 {
			return errors.New("usage: pinboard pins add <path> <title>")
		}
		path := rest[0]
		title := strings.Join(rest[1:], " ")
		added, err := repo.Pins().Pin(ctx, path, title)
		if err != nil {
			return err
		}
		if !added {
			fmt.Fprintf(c.stdout, "already pinned: %s\n", path)
			return nil
		}
		fmt.Fprintf(c.stdout, "pinned: %s\n", path)
		return nil
	case "rm":
		if len(rest) != 1 {
			return errors.New("usage: pinboard pins rm <path>")
		}
		removed, err := repo.Pins().Unpin(ctx, rest[0])
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("not pinned: %s", rest[0])
		}
		fmt.Fprintf(c.stdout, "unpinned: %s\n", rest[0])
		return nil
	default:
		return fmt.Errorf("unknown pins action: %s", action)
	}
}
