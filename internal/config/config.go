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

	"foldersort/internal/rules"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directories owned by foldersort itself.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format   string `toml:"format"`
	Level    string `toml:"level"`
	Truncate bool   `toml:"truncate"`
}

// Organize contains run behaviour settings.
type Organize struct {
	// Journal records every run and move in the state directory.
	Journal bool `toml:"journal"`
	// LockTimeoutSeconds is how long to wait for another run on the same
	// directory to finish. Zero fails immediately.
	LockTimeoutSeconds int `toml:"lock_timeout_seconds"`
	// RulesFile is an optional JSON rule file ({"Images": [".jpg"]}). When set
	// it replaces the [[rules]] tables.
	RulesFile string `toml:"rules_file"`
}

// Config encapsulates all configuration values for foldersort.
//
// Configuration sections:
//   - Paths: state (journal, locks) and log directories
//   - Logging: log format, level, and truncation
//   - Organize: journal, locking and rule file settings
//   - Rules: ordered category to extension table
type Config struct {
	Paths    Paths        `toml:"paths"`
	Logging  Logging      `toml:"logging"`
	Organize Organize     `toml:"organize"`
	Rules    []rules.Rule `toml:"rules"`

	table *rules.Table
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/foldersort/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and its rule table resolved.
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

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("foldersort.toml")
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

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RuleTable returns the resolved rule table. Precedence: organize.rules_file,
// then [[rules]], then the built-in defaults.
func (c *Config) RuleTable() (*rules.Table, error) {
	if c.table != nil {
		return c.table, nil
	}
	table, err := c.buildRuleTable()
	if err != nil {
		return nil, err
	}
	c.table = table
	return table, nil
}

func (c *Config) buildRuleTable() (*rules.Table, error) {
	if path := strings.TrimSpace(c.Organize.RulesFile); path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("organize.rules_file: %w", err)
		}
		defer file.Close()
		parsed, err := rules.ParseJSON(file)
		if err != nil {
			return nil, fmt.Errorf("organize.rules_file %s: %w", path, err)
		}
		table, err := rules.New(parsed)
		if err != nil {
			return nil, fmt.Errorf("organize.rules_file %s: %w", path, err)
		}
		return table, nil
	}
	if len(c.Rules) > 0 {
		return rules.New(c.Rules)
	}
	return rules.Default(), nil
}

// LockDir is where per-directory run locks live.
func (c *Config) LockDir() string {
	return filepath.Join(c.Paths.StateDir, "locks")
}

// JournalPath is the SQLite journal location.
func (c *Config) JournalPath() string {
	return filepath.Join(c.Paths.StateDir, "journal.db")
}

// LogFilePath is the persistent log file location.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.Paths.LogDir, "foldersort.log")
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
