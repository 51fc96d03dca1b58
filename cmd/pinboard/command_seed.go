package main

import (
	"flag"
	"fmt"
	"io"
	"time"

	"pinboard/internal/config"
	"pinboard/internal/host"
	"pinboard/internal/hosts"
	"pinboard/internal/types"
)

type SeedCommand struct {
	stdout io.Writer
	stderr io.Writer
}

func NewSeedCommand(stdout, stderr io.Writer) *SeedCommand {
	return &SeedCommand{stdout: stdout, stderr: stderr}
}

// Run writes a demo host snapshot so the UI has something to render
// without a real browser export.
func (c *SeedCommand) Run(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	hostName := fs.String("host", "chatgpt", "host definition (chatgpt|claude)")
	out := fs.String("out", "", "snapshot path (defaults to the configured path)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	name := hosts.Normalize(*hostName)
	if _, ok := hosts.Lookup(name); !ok {
		return fmt.Errorf("unknown host %q", name)
	}

	path := *out
	if path == "" {
		settings, err := config.LoadSettings()
		if err != nil {
			return err
		}
		path, err = settings.ResolveSnapshotPath()
		if err != nil {
			return err
		}
	}

	snapshot := demoSnapshot(name)
	if err := host.WriteSnapshot(path, snapshot); err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "wrote snapshot: %s (%d conversations)\n", path, len(snapshot.Conversations))
	return nil
}

func demoSnapshot(hostName string) types.HostSnapshot {
	now := time.Now().UTC()
	return types.HostSnapshot{
		Host:     hostName,
		Location: "/",
		Conversations: []types.Conversation{
			{ID: "weekly-sync", Title: "Weekly sync notes", UpdatedAt: now},
			{ID: "go-embedding", Title: "Embedding files in Go binaries", UpdatedAt: now.Add(-time.Hour)},
			{ID: "trip-planning", Title: "Trip planning checklist", UpdatedAt: now.Add(-26 * time.Hour)},
			{ID: "regex-help", Title: "Regex for log parsing", UpdatedAt: now.Add(-72 * time.Hour)},
		},
	}
}
