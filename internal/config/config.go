package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains data and log directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Server contains configuration for the HTTP API server.
type Server struct {
	Bind                string `toml:"bind"`
	APIToken            string `toml:"api_token"`
	ReadTimeoutSeconds  int    `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `toml:"write_timeout_seconds"`
	MaxUploadMiB        int    `toml:"max_upload_mib"`
}

// LLM contains connection settings for the chat completion model used to
// structure and classify notes.
type LLM struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	Referer        string `toml:"referer"`
	Title          string `toml:"title"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	ProxyAddr      string `toml:"proxy_addr"`
}

// Transcription contains configuration for the speech-to-text endpoint.
// Connection details fall back to [llm] when unset.
type Transcription struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	Language       string `toml:"language"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Client contains configuration for CLI commands that talk to a running server.
type Client struct {
	ServerURL      string `toml:"server_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format  string `toml:"format"`
	Level   string `toml:"level"`
	Journal bool   `toml:"journal"`
}

// Config encapsulates all configuration values for standup.
//
// Configuration sections by subsystem:
//   - Paths: note database and log directories
//   - Server: API bind address, bearer token, and timeouts
//   - LLM: chat completion model used for structuring and classification
//   - Transcription: speech-to-text model settings
//   - Client: API endpoint used by CLI and MCP commands
//   - Logging: log format, level, and journald forwarding
type Config struct {
	Paths         Paths         `toml:"paths"`
	Server        Server        `toml:"server"`
	LLM           LLM           `toml:"llm"`
	Transcription Transcription `toml:"transcription"`
	Client        Client        `toml:"client"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, "", false, fmt.Errorf("parse config: %s", strict.String())
			}
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("standup.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the location of the SQLite note database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "standup.db")
}

// LockPath returns the location of the server's single-instance lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "standup.lock")
}

// LogPath returns the location of the server log file.
func (c *Config) LogPath() string {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return ""
	}
	return filepath.Join(c.Paths.LogDir, "standup.log")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// LLMConfig contains the connection settings handed to model clients.
type LLMConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	Referer        string
	Title          string
	TimeoutSeconds int
	ProxyAddr      string
}

// Configured reports whether an API key is available.
func (l LLMConfig) Configured() bool {
	return strings.TrimSpace(l.APIKey) != ""
}

// GetLLM returns the chat completion connection settings.
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		APIKey:         strings.TrimSpace(c.LLM.APIKey),
		BaseURL:        strings.TrimSpace(c.LLM.BaseURL),
		Model:          strings.TrimSpace(c.LLM.Model),
		Referer:        strings.TrimSpace(c.LLM.Referer),
		Title:          strings.TrimSpace(c.LLM.Title),
		TimeoutSeconds: c.LLM.TimeoutSeconds,
		ProxyAddr:      strings.TrimSpace(c.LLM.ProxyAddr),
	}
}

// TranscriptionConfig contains speech-to-text connection settings.
type TranscriptionConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	Language       string
	TimeoutSeconds int
	ProxyAddr      string
}

// Configured reports whether an API key is available.
func (t TranscriptionConfig) Configured() bool {
	return strings.TrimSpace(t.APIKey) != ""
}

// GetTranscription returns the speech-to-text settings.
// Falls back to [llm] credentials when not explicitly configured.
func (c *Config) GetTranscription() TranscriptionConfig {
	cfg := TranscriptionConfig{
		APIKey:         strings.TrimSpace(c.Transcription.APIKey),
		BaseURL:        strings.TrimSpace(c.Transcription.BaseURL),
		Model:          strings.TrimSpace(c.Transcription.Model),
		Language:       strings.TrimSpace(c.Transcription.Language),
		TimeoutSeconds: c.Transcription.TimeoutSeconds,
		ProxyAddr:      strings.TrimSpace(c.LLM.ProxyAddr),
	}
	if cfg.APIKey == "" {
		cfg.APIKey = strings.TrimSpace(c.LLM.APIKey)
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = c.LLM.TimeoutSeconds
	}
	return cfg
}
