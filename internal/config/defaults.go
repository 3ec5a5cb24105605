package config

const (
	defaultStateDir           = "~/.local/share/foldersort"
	defaultLogDir             = "~/.local/share/foldersort/logs"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultJournalEnabled     = true
	defaultLockTimeoutSeconds = 5
)

// Default returns a Config populated with repository defaults. Rules are left
// empty so the built-in table applies unless the config file provides its own.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Organize: Organize{
			Journal:            defaultJournalEnabled,
			LockTimeoutSeconds: defaultLockTimeoutSeconds,
		},
	}
}
