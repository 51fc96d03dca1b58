package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"pinboard/internal/app"
	"pinboard/internal/bus"
	"pinboard/internal/config"
	"pinboard/internal/host"
	"pinboard/internal/hosts"
	"pinboard/internal/logging"
	"pinboard/internal/pinboard"
	"pinboard/internal/store"
	"pinboard/internal/surface"
	"pinboard/internal/types"
)

type uiOptions struct {
	snapshotPath string
	hostName     string
	baseURL      string
	backend      string
}

type UICommand struct {
	stderr io.Writer
	runUI  func(opts uiOptions) error
}

func NewUICommand(stderr io.Writer, runUI func(opts uiOptions) error) *UICommand {
	return &UICommand{stderr: stderr, runUI: runUI}
}

func (c *UICommand) Run(args []string) error {
	fs := flag.NewFlagSet("ui", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	snapshot := fs.String("snapshot", "", "path to the host sidebar snapshot")
	hostName := fs.String("host", "", "host definition (chatgpt|claude)")
	baseURL := fs.String("base-url", "", "override the host base URL")
	backend := fs.String("backend", "", "storage backend (file|bbolt)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if c.runUI == nil {
		return fmt.Errorf("ui runner is not wired")
	}
	return c.runUI(uiOptions{
		snapshotPath: *snapshot,
		hostName:     *hostName,
		baseURL:      *baseURL,
		backend:      *backend,
	})
}

func runUIProcess(opts uiOptions) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}

	hostName := settings.HostName()
	if opts.hostName != "" {
		hostName = hosts.Normalize(opts.hostName)
	}
	def, ok := hosts.Lookup(hostName)
	if !ok {
		return fmt.Errorf("unknown host %q", hostName)
	}
	baseURL := settings.HostBaseURL()
	if opts.baseURL != "" {
		baseURL = opts.baseURL
	}
	def = def.WithBaseURL(baseURL)

	snapshotPath := opts.snapshotPath
	if snapshotPath == "" {
		snapshotPath, err = settings.ResolveSnapshotPath()
		if err != nil {
			return err
		}
	}

	backend := settings.StorageBackend()
	if opts.backend != "" {
		backend = opts.backend
	}
	paths, err := repositoryPaths()
	if err != nil {
		return err
	}
	repo, err := store.OpenRepository(paths, backend)
	if err != nil {
		return err
	}
	defer repo.Close()
	if err := store.SeedRepositoryFromFiles(context.Background(), repo, paths); err != nil {
		return err
	}

	logger, closeLogger := uiLogger(settings.LogLevel())
	defer closeLogger()

	keymap, err := loadKeymap()
	if err != nil {
		return err
	}

	tree := surface.NewTree(logger)
	feed, err := host.New(tree, def, host.Options{
		SnapshotPath: snapshotPath,
		PollInterval: settings.PollInterval(),
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	defer feed.Close()

	styles := app.NewStyles()
	board, err := pinboard.New(pinboard.Deps{
		Repository: repo,
		Bus:        bus.New(logger),
		Tree:       tree,
		Navigator:  feed,
		Host:       def,
		Styles:     styles,
		Logger:     logger,
	}, pinboard.Options{WaitTimeout: settings.ElementTimeout()})
	if err != nil {
		return err
	}
	defer board.Close()

	return app.Run(app.Deps{
		Tree:       tree,
		Feed:       feed,
		Board:      board,
		Repository: repo,
		Keymap:     keymap,
		Styles:     styles,
		Logger:     logger,
	})
}

// uiLogger routes UI-mode logs to a file in the data dir; the terminal
// belongs to the TUI.
func uiLogger(level string) (logging.Logger, func()) {
	path, err := config.UILogPath()
	if err != nil {
		return logging.Nop(), func() {}
	}
	sink, err := logging.FileSink(path)
	if err != nil {
		return logging.Nop(), func() {}
	}
	return logging.New(sink, logging.ParseLevel(level)), func() { _ = sink.Close() }
}

func loadKeymap() (*types.Keymap, error) {
	path, err := config.KeymapPath()
	if err != nil {
		return nil, err
	}
	return store.NewFileKeymapStore(path).Load(context.Background())
}
