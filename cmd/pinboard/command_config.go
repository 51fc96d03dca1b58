package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"

	"pinboard/internal/config"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	configFormatJSON = "json"
	configFormatTOML = "toml"
)

type ConfigCommand struct {
	stdout io.Writer
	stderr io.Writer
}

func NewConfigCommand(stdout, stderr io.Writer) *ConfigCommand {
	return &ConfigCommand{stdout: stdout, stderr: stderr}
}

type configOutput struct {
	SettingsPath string                 `json:"settings_path,omitempty" toml:"settings_path,omitempty"`
	SnapshotPath string                 `json:"snapshot_path,omitempty" toml:"snapshot_path,omitempty"`
	Host         effectiveHostConfig    `json:"host" toml:"host"`
	Storage      effectiveStorageConfig `json:"storage" toml:"storage"`
	Watch        effectiveWatchConfig   `json:"watch" toml:"watch"`
	Logging      effectiveLoggingConfig `json:"logging" toml:"logging"`
}

type effectiveHostConfig struct {
	Name    string `json:"name" toml:"name"`
	BaseURL string `json:"base_url,omitempty" toml:"base_url,omitempty"`
}

type effectiveStorageConfig struct {
	Backend string `json:"backend" toml:"backend"`
}

type effectiveWatchConfig struct {
	PollIntervalMS   int `json:"poll_interval_ms" toml:"poll_interval_ms"`
	ElementTimeoutMS int `json:"element_timeout_ms" toml:"element_timeout_ms"`
}

type effectiveLoggingConfig struct {
	Level string `json:"level" toml:"level"`
}

func (c *ConfigCommand) Run(args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	defaults := fs.Bool("default", false, "print default config values")
	format := fs.String("format", configFormatJSON, "output format: json|toml")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resolvedFormat, err := resolveConfigFormat(*format)
	if err != nil {
		return err
	}
	payload, err := buildConfigOutput(*defaults)
	if err != nil {
		return err
	}
	return writeConfigOutput(c.stdout, resolvedFormat, payload)
}

func buildConfigOutput(defaults bool) (configOutput, error) {
	settings := config.DefaultSettings()
	var err error
	if !defaults {
		settings, err = config.LoadSettings()
		if err != nil {
			return configOutput{}, err
		}
	}

	out := configOutput{
		Host: effectiveHostConfig{
			Name:    settings.HostName(),
			BaseURL: settings.HostBaseURL(),
		},
		Storage: effectiveStorageConfig{
			Backend: settings.StorageBackend(),
		},
		Watch: effectiveWatchConfig{
			PollIntervalMS:   int(settings.PollInterval().Milliseconds()),
			ElementTimeoutMS: int(settings.ElementTimeout().Milliseconds()),
		},
		Logging: effectiveLoggingConfig{
			Level: settings.LogLevel(),
		},
	}
	if settingsPath, err := config.SettingsPath(); err == nil {
		out.SettingsPath = settingsPath
	}
	if snapshotPath, err := settings.ResolveSnapshotPath(); err == nil {
		out.SnapshotPath = snapshotPath
	}
	return out, nil
}

func resolveConfigFormat(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", configFormatJSON:
		return configFormatJSON, nil
	case configFormatTOML:
		return configFormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func writeConfigOutput(w io.Writer, format string, payload configOutput) error {
	switch format {
	case configFormatTOML:
		return toml.NewEncoder(w).Encode(payload)
	default:
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
}
