// Config loading and environment setup shared by the commands.
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/assistant/internal/logger"
	"github.com/mesh-intelligence/assistant/internal/paths"
	"github.com/mesh-intelligence/assistant/internal/repl"
	"github.com/mesh-intelligence/assistant/internal/store"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix = "ASSISTANT"

	cfgKeyBackend  = "backend"
	cfgKeyDataDir  = "data_dir"
	cfgKeyLogLevel = "log_level"

	defaultBackend  = store.BackendJSONL
	defaultLogLevel = "warn"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Assistant configuration

# Storage backend: jsonl or sqlite
backend: jsonl

# Data directory (optional; overridable by --data-dir)
# data_dir:

# Diagnostic log level: debug, info, warn, error
log_level: warn
`

// loadConfig reads config.yaml from configDir using Viper. It creates the
// directory and a default config.yaml on first run. Flags bound from cmd take
// precedence over ASSISTANT_BACKEND and ASSISTANT_LOG_LEVEL, which take
// precedence over the file.
func loadConfig(configDir string, cmd *cobra.Command) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	for _, key := range []string{cfgKeyBackend, cfgKeyLogLevel} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	if cmd != nil {
		pf := cmd.Root().PersistentFlags()
		if err := v.BindPFlag(cfgKeyBackend, pf.Lookup("backend")); err != nil {
			return nil, fmt.Errorf("bind flag backend: %w", err)
		}
		if err := v.BindPFlag(cfgKeyLogLevel, pf.Lookup("log-level")); err != nil {
			return nil, fmt.Errorf("bind flag log-level: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// ensureDefaultConfigFile creates a default config.yaml if none exists.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// environment is everything a command needs after flags and config are resolved.
type environment struct {
	configDir string
	dataDir   string
	storeCfg  store.Config
	store     store.Store
	log       *logger.Logger
}

// setup resolves directories, reads config, and opens the store. Invalid
// settings are user errors; anything else is a system error.
func setup(cmd *cobra.Command, flags *rootFlags) (*environment, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return nil, sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	v, err := loadConfig(configDir, cmd)
	if err != nil {
		return nil, sysError(fmt.Errorf("load config: %w", err))
	}

	log, err := logger.New(logger.Options{Level: v.GetString(cfgKeyLogLevel)})
	if err != nil {
		return nil, userError(err)
	}

	dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return nil, sysError(fmt.Errorf("resolve data dir: %w", err))
	}

	backend := v.GetString(cfgKeyBackend)
	ext, err := store.Extension(backend)
	if err != nil {
		return nil, userError(err)
	}
	contactsPath, notesPath, err := paths.StoreFiles(dataDir, ext)
	if err != nil {
		return nil, userError(err)
	}
	cfg := store.Config{Backend: backend, ContactsPath: contactsPath, NotesPath: notesPath}
	st, err := store.New(cfg)
	if err != nil {
		return nil, userError(err)
	}

	log.Debug("environment resolved", "config_dir", configDir, "data_dir", dataDir, "backend", backend)
	return &environment{
		configDir: configDir,
		dataDir:   dataDir,
		storeCfg:  cfg,
		store:     st,
		log:       log,
	}, nil
}

// session loads both books and returns a session writing to cmd's output.
// Load problems are reported on cmd's error stream and do not stop the session.
func (e *environment) session(cmd *cobra.Command) *repl.Session {
	contacts, notes, warnings := store.LoadOrEmpty(e.store, e.log)
	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", w)
	}
	return repl.NewSession(repl.Options{
		Contacts:  contacts,
		Notes:     notes,
		Store:     e.store,
		Locations: repl.Locations{Contacts: e.storeCfg.ContactsPath, Notes: e.storeCfg.NotesPath},
		Log:       e.log,
		Out:       cmd.OutOrStdout(),
	})
}
