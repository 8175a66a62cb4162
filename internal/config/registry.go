package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "todolist"
	configFile = "config.yaml"
)

// ConfigDirEnvVar overrides the configuration directory on every platform.
const ConfigDirEnvVar = "TODOLIST_CONFIG_DIR"

var (
	sharedOnce sync.Once
	shared     *Registry
	sharedErr  error

	// saveMu serializes writers in this process
	saveMu sync.Mutex
)

// GetConfigDir returns the directory holding config.yaml:
//   - $TODOLIST_CONFIG_DIR when set
//   - Windows: %LOCALAPPDATA%\todolist
//   - macOS: ~/.config/todolist
//   - elsewhere: $XDG_CONFIG_HOME/todolist, falling back to ~/.config/todolist
func GetConfigDir() (string, error) {
	if dir := os.Getenv(ConfigDirEnvVar); dir != "" {
		return dir, nil
	}

	if runtime.GOOS == "windows" {
		if base := os.Getenv("LOCALAPPDATA"); base != "" {
			return filepath.Join(base, appName), nil
		}
		if profile := os.Getenv("USERPROFILE"); profile != "" {
			return filepath.Join(profile, "AppData", "Local", appName), nil
		}
		return "", errors.New("neither LOCALAPPDATA nor USERPROFILE is set")
	}

	if runtime.GOOS != "darwin" {
		if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
			return filepath.Join(base, appName), nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("no home directory for the config file: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// GetConfigPath returns the full path to the configuration file.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// LoadRegistry returns the registry at the default path, reading it on the
// first call only. A missing file yields the defaults.
func LoadRegistry() (*Registry, error) {
	sharedOnce.Do(func() {
		path, err := GetConfigPath()
		if err != nil {
			sharedErr = fmt.Errorf("failed to get config path: %w", err)
			return
		}
		shared, sharedErr = LoadRegistryFrom(path)
	})
	return shared, sharedErr
}

// LoadRegistryFrom reads a registry from an explicit path.
// A missing file yields a new default registry bound to that path.
func LoadRegistryFrom(configPath string) (*Registry, error) {
	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		reg := NewRegistry()
		reg.path = configPath
		return reg, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read %s: %w", configPath, err)
	}

	reg := &Registry{}
	if err := yaml.Unmarshal(data, reg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
	}
	if reg.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported config version: %d (expected %d)", reg.Version, CurrentVersion)
	}

	if reg.Endpoints == nil {
		reg.Endpoints = make(map[string]*Endpoint)
	}
	if reg.Preferences == nil {
		reg.Preferences = defaultPreferences()
	}
	if reg.DefaultEndpoint != "" && reg.Endpoints[reg.DefaultEndpoint] == nil {
		return nil, fmt.Errorf("default_endpoint %q is not defined under endpoints", reg.DefaultEndpoint)
	}

	reg.path = configPath
	return reg, nil
}

// Path returns the file the registry is saved to.
func (r *Registry) Path() (string, error) {
	if r.path != "" {
		return r.path, nil
	}
	return GetConfigPath()
}

// Save writes the registry with 0600 permissions. The new content goes to a
// sibling temp file that is then renamed over the old one, so a crash never
// leaves a half-written config.
func (r *Registry) Save() error {
	saveMu.Lock()
	defer saveMu.Unlock()

	configPath, err := r.Path()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	body, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("# todolist configuration file\n")
	buf.WriteString("# Named collection endpoints and client preferences.\n")
	fmt.Fprintf(&buf, "#\n# Location: %s\n\n", configPath)
	buf.Write(body)

	tmp := configPath + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, configPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", configPath, err)
	}
	return nil
}

// ReloadRegistry drops the registry cached by LoadRegistry and reads the
// file again, picking up changes made by another process.
func ReloadRegistry() (*Registry, error) {
	saveMu.Lock()
	sharedOnce = sync.Once{}
	saveMu.Unlock()
	return LoadRegistry()
}

// CreateDefaultConfig writes a starter configuration file with the built-in
// endpoint saved as "default". It refuses to overwrite an existing file.
func CreateDefaultConfig(defaultURL string) (string, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return "", err
	}
	return configPath, CreateDefaultConfigAt(configPath, defaultURL)
}

// CreateDefaultConfigAt is CreateDefaultConfig for an explicit path.
func CreateDefaultConfigAt(configPath string, defaultURL string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s", configPath)
	}

	registry := NewRegistry()
	registry.path = configPath
	if err := registry.SetEndpoint("default", defaultURL, ""); err != nil {
		return err
	}
	registry.Endpoints["local"] = &Endpoint{
		URL:  "http://127.0.0.1:8080/todos",
		Feed: "ws://127.0.0.1:8080/ws",
	}

	return registry.Save()
}
