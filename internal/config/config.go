// Package config assembles run settings from built-in defaults, the user
// config file, environment variables and command-line flags, in increasing
// order of precedence.
//
// The config file lives at $XDG_CONFIG_HOME/pdfsummary/config.yaml, or
// ~/.config/pdfsummary/config.yaml when XDG_CONFIG_HOME is unset.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Errors.
var (
	// ErrUnknownKey indicates a key that is not a config setting.
	ErrUnknownKey = errors.New("unknown config key")

	// ErrInvalidValue indicates a value that cannot be converted to the key's type.
	ErrInvalidValue = errors.New("invalid config value")
)

const (
	appDir   = "pdfsummary"
	fileName = "config.yaml"
)

// Settings holds the resolved configuration of one run.
type Settings struct {
	OutputDir string
	Format    string

	LLM     string
	Model   string
	Command string
	Timeout time.Duration

	Language        string
	EnsureLanguage  bool
	LanguageRetries int

	SinglePass bool
	Split      string
	ChunkSize  int
	Overlap    int

	MaxBullets      int
	ChunkMaxBullets int
	MergeMaxBullets int
	IncludeActions  bool
	IncludeRisks    bool

	SystemPrompt      string
	SummaryPromptFile string
	ChunkPromptFile   string
	MergePromptFile   string
	PromptFile        string
}

// Loader loads Settings for a run.
type Loader struct {
	path   string
	getenv func(string) string
	flags  *pflag.FlagSet
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithPath sets the config file path. Empty disables the file layer.
func WithPath(p string) LoaderOption {
	return func(l *Loader) { l.path = p }
}

// WithGetenv sets the environment lookup.
func WithGetenv(fn func(string) string) LoaderOption {
	return func(l *Loader) { l.getenv = fn }
}

// WithFlags binds a flag set. Only flags the user changed override other layers.
func WithFlags(fs *pflag.FlagSet) LoaderOption {
	return func(l *Loader) { l.flags = fs }
}

// NewLoader creates a Loader reading the default config file and the process
// environment.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{getenv: os.Getenv}
	if p, err := Path(os.Getenv); err == nil {
		l.path = p
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load resolves every setting: flag > environment > config file > default.
// A missing config file is not an error.
func (l *Loader) Load() (Settings, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	for _, s := range settings {
		v.SetDefault(s.key, s.def)
	}

	if l.path != "" {
		v.SetConfigFile(l.path)
		if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
			return Settings{}, fmt.Errorf("read config %s: %w", l.path, err)
		}
	}

	// The environment layer is merged over the file so that it wins, while
	// bound flags still take precedence over both.
	if env := l.environment(); len(env) > 0 {
		if err := v.MergeConfigMap(env); err != nil {
			return Settings{}, fmt.Errorf("merge environment: %w", err)
		}
	}

	if l.flags != nil {
		for _, s := range settings {
			if f := l.flags.Lookup(s.key); f != nil {
				if err := v.BindPFlag(s.key, f); err != nil {
					return Settings{}, fmt.Errorf("bind flag %s: %w", s.key, err)
				}
			}
		}
	}

	return decode(v)
}

// environment collects the first non-empty variable of every key.
func (l *Loader) environment() map[string]any {
	env := make(map[string]any)
	for _, s := range settings {
		for _, name := range s.env {
			if val := l.getenv(name); val != "" {
				env[s.key] = val
				break
			}
		}
	}
	return env
}

func decode(v *viper.Viper) (Settings, error) {
	values := make(map[string]any, len(settings))
	for _, s := range settings {
		val, err := s.coerce(v.Get(s.key))
		if err != nil {
			return Settings{}, err
		}
		values[s.key] = val
	}

	str := func(k string) string { return values[k].(string) }
	num := func(k string) int { return values[k].(int) }
	flag := func(k string) bool { return values[k].(bool) }

	cfg := Settings{
		OutputDir:         ExpandPath(str(KeyOutputDir)),
		Format:            str(KeyFormat),
		LLM:               str(KeyLLM),
		Model:             str(KeyModel),
		Command:           str(KeyCommand),
		Timeout:           values[KeyTimeout].(time.Duration),
		Language:          str(KeyLanguage),
		EnsureLanguage:    flag(KeyEnsureLanguage),
		LanguageRetries:   num(KeyLanguageRetries),
		SinglePass:        flag(KeySinglePass),
		Split:             str(KeySplit),
		ChunkSize:         num(KeyChunkSize),
		Overlap:           num(KeyOverlap),
		MaxBullets:        num(KeyMaxBullets),
		ChunkMaxBullets:   num(KeyChunkMaxBullets),
		MergeMaxBullets:   num(KeyMergeMaxBullets),
		IncludeActions:    flag(KeyIncludeActions),
		IncludeRisks:      flag(KeyIncludeRisks),
		SystemPrompt:      str(KeySystemPrompt),
		SummaryPromptFile: ExpandPath(str(KeySummaryPromptFile)),
		ChunkPromptFile:   ExpandPath(str(KeyChunkPromptFile)),
		MergePromptFile:   ExpandPath(str(KeyMergePromptFile)),
		PromptFile:        ExpandPath(str(KeyPromptFile)),
	}
	return cfg, cfg.validate()
}

// validate rejects values no run can use. Finer checks (language tags, mode
// names, split policies) belong to the packages that own those concepts.
func (s Settings) validate() error {
	if s.Timeout <= 0 {
		return fmt.Errorf("%s must be positive, got %s: %w", KeyTimeout, s.Timeout, ErrInvalidValue)
	}
	for key, n := range map[string]int{
		KeyMaxBullets:      s.MaxBullets,
		KeyChunkMaxBullets: s.ChunkMaxBullets,
		KeyMergeMaxBullets: s.MergeMaxBullets,
	} {
		if n < 1 {
			return fmt.Errorf("%s must be at least 1, got %d: %w", key, n, ErrInvalidValue)
		}
	}
	if s.LanguageRetries < 0 {
		return fmt.Errorf("%s cannot be negative, got %d: %w", KeyLanguageRetries, s.LanguageRetries, ErrInvalidValue)
	}
	return nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}

// Dir returns the configuration directory.
// Uses $XDG_CONFIG_HOME/pdfsummary if set, otherwise ~/.config/pdfsummary.
func Dir(getenv func(string) string) (string, error) {
	if xdg := getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDir), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appDir), nil
}

// Path returns the config file path.
func Path(getenv func(string) string) (string, error) {
	d, err := Dir(getenv)
	if err != nil {
		return "", err
	}
	return filepath.Join(d, fileName), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, p[1:])
	}
	return p
}
