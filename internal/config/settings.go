package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	defaultHostName       = "chatgpt"
	defaultStorageBackend = "file"
)

const (
	defaultPollInterval   = 200 * time.Millisecond
	defaultElementTimeout = 5 * time.Second
)

type Settings struct {
	Host    HostSettings    `toml:"host"`
	Storage StorageSettings `toml:"storage"`
	Watch   WatchSettings   `toml:"watch"`
	Logging LoggingSettings `toml:"logging"`
}

type HostSettings struct {
	Name         string `toml:"name"`
	SnapshotPath string `toml:"snapshot_path"`
	BaseURL      string `toml:"base_url"`
}

type StorageSettings struct {
	Backend string `toml:"backend"`
}

type WatchSettings struct {
	PollIntervalMS   int `toml:"poll_interval_ms"`
	ElementTimeoutMS int `toml:"element_timeout_ms"`
}

type LoggingSettings struct {
	Level string `toml:"level"`
}

func DefaultSettings() Settings {
	return Settings{
		Host: HostSettings{
			Name: defaultHostName,
		},
		Storage: StorageSettings{
			Backend: defaultStorageBackend,
		},
		Watch: WatchSettings{
			PollIntervalMS:   int(defaultPollInterval / time.Millisecond),
			ElementTimeoutMS: int(defaultElementTimeout / time.Millisecond),
		},
		Logging: LoggingSettings{
			Level: "info",
		},
	}
}

func LoadSettings() (Settings, error) {
	path, err := SettingsPath()
	if err != nil {
		return Settings{}, err
	}
	return loadSettingsFromPath(path)
}

func (s Settings) HostName() string {
	name := strings.ToLower(strings.TrimSpace(s.Host.Name))
	if name == "" {
		return defaultHostName
	}
	return name
}

// HostBaseURL returns the configured base URL override. Empty means the
// host definition's own base URL applies.
func (s Settings) HostBaseURL() string {
	return strings.TrimRight(strings.TrimSpace(s.Host.BaseURL), "/")
}

func (s Settings) StorageBackend() string {
	backend := strings.ToLower(strings.TrimSpace(s.Storage.Backend))
	if backend == "" {
		return defaultStorageBackend
	}
	return backend
}

func (s Settings) PollInterval() time.Duration {
	if s.Watch.PollIntervalMS <= 0 {
		return defaultPollInterval
	}
	return time.Duration(s.Watch.PollIntervalMS) * time.Millisecond
}

func (s Settings) ElementTimeout() time.Duration {
	if s.Watch.ElementTimeoutMS <= 0 {
		return defaultElementTimeout
	}
	return time.Duration(s.Watch.ElementTimeoutMS) * time.Millisecond
}

func (s Settings) LogLevel() string {
	level := strings.TrimSpace(s.Logging.Level)
	if level == "" {
		return "info"
	}
	return level
}

func (s Settings) ResolveSnapshotPath() (string, error) {
	defaultPath, err := SnapshotPath()
	if err != nil {
		return "", err
	}
	path := strings.TrimSpace(s.Host.SnapshotPath)
	if path == "" {
		return defaultPath, nil
	}
	return resolveConfigPath(path)
}

func loadSettingsFromPath(path string) (Settings, error) {
	cfg := DefaultSettings()
	if err := readTOML(path, &cfg); err != nil {
		return Settings{}, err
	}
	return cfg, nil
}

func readTOML(path string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	return toml.Unmarshal(data, out)
}

func resolveConfigPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("path is required")
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[2:]), nil
	}
	if filepath.IsAbs(path) {
		return path, nil
	}
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, path), nil
}
