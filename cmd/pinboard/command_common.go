package main

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"text/tabwriter"

	"pinboard/internal/config"
	"pinboard/internal/store"
	"pinboard/internal/types"
)

const version = "dev"

type repositoryFactory func(backend string) (store.Repository, error)

func defaultRepositoryFactory(backend string) (store.Repository, error) {
	paths, err := repositoryPaths()
	if err != nil {
		return nil, err
	}
	if backend == "" {
		settings, err := config.LoadSettings()
		if err != nil {
			return nil, err
		}
		backend = settings.StorageBackend()
	}
	repo, err := store.OpenRepository(paths, backend)
	if err != nil {
		return nil, err
	}
	if err := store.SeedRepositoryFromFiles(context.Background(), repo, paths); err != nil {
		repo.Close()
		return nil, err
	}
	return repo, nil
}

func repositoryPaths() (store.RepositoryPaths, error) {
	pinsPath, err := config.PinsPath()
	if err != nil {
		return store.RepositoryPaths{}, err
	}
	uiStatePath, err := config.UIStatePath()
	if err != nil {
		return store.RepositoryPaths{}, err
	}
	dbPath, err := config.DBPath()
	if err != nil {
		return store.RepositoryPaths{}, err
	}
	return store.RepositoryPaths{
		PinsPath:    pinsPath,
		UIStatePath: uiStatePath,
		DBPath:      dbPath,
	}, nil
}

func printPins(output io.Writer, entries []types.PinnedConversation) {
	writer := tabwriter.NewWriter(output, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "PATH\tTITLE")
	for _, entry := range entries {
		fmt.Fprintf(writer, "%s\t%s\n", entry.ConversationID, entry.Title)
	}
	_ = writer.Flush()
}

func exitOnErr(label string, err error, stderr io.Writer) {
	if err == nil {
		return
	}
	fmt.Fprintf(stderr, "%s error: %v\n", label, err)
	os.Exit(1)
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		var revision string
		var modified string
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				revision = setting.Value
			case "vcs.modified":
				modified = setting.Value
			}
		}
		if revision != "" {
			if modified == "true" {
				return revision + "-dirty"
			}
			return revision
		}
	}

	exe, err := os.Executable()
	if err == nil {
		file, err := os.Open(exe)
		if err == nil {
			defer file.Close()
			hasher := sha256.New()
			if _, err := io.Copy(hasher, file); err == nil {
				sum := hasher.Sum(nil)
				return fmt.Sprintf("bin-%x", sum[:6])
			}
		}
	}

	return version
}
