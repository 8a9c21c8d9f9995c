package cli

import (
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/spf13/pflag"

	"github.com/alnah/go-pdfsummary/internal/config"
	"github.com/alnah/go-pdfsummary/internal/pdftext"
	"github.com/alnah/go-pdfsummary/internal/summarize"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// All fields have sensible defaults via DefaultEnv(). Tests can override
// specific fields using the With* options or by creating a custom Env.
//
// Env must not be nil when passed to command functions. Use DefaultEnv()
// or NewEnv() to create a valid instance.
type Env struct {
	// I/O and environment
	Stderr   io.Writer
	Stdout   io.Writer
	Getenv   func(string) string
	LookPath func(string) (string, error)
	Now      func() time.Time

	// Factories for domain objects
	Extractor         pdftext.Extractor
	SummarizerFactory SummarizerFactory
	ConfigLoader      ConfigLoader
	ConfigStore       ConfigStore
}

// SummarizerFactory creates the summarizer of a resolved backend.
type SummarizerFactory interface {
	NewSummarizer(b summarize.Backend, cfg summarize.Config) (summarize.Summarizer, error)
}

// ConfigLoader assembles run settings. Flags the user changed in fs take
// precedence over getenv, which takes precedence over the config file.
type ConfigLoader interface {
	Load(fs *pflag.FlagSet, getenv func(string) string) (config.Settings, error)
}

// ConfigStore persists settings for the config command.
type ConfigStore interface {
	Set(key, value string) error
	Get(key string) (string, error)
	List() (map[string]string, error)
	Path() string
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithStdout sets the stdout writer.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stdout = w
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithLookPath sets the executable lookup.
func WithLookPath(fn func(string) (string, error)) EnvOption {
	return func(e *Env) {
		e.LookPath = fn
	}
}

// WithNow sets the time provider.
func WithNow(fn func() time.Time) EnvOption {
	return func(e *Env) {
		e.Now = fn
	}
}

// WithExtractor sets the PDF text extractor.
func WithExtractor(x pdftext.Extractor) EnvOption {
	return func(e *Env) {
		e.Extractor = x
	}
}

// WithSummarizerFactory sets the summarizer factory.
func WithSummarizerFactory(f SummarizerFactory) EnvOption {
	return func(e *Env) {
		e.SummarizerFactory = f
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithConfigStore sets the config store.
func WithConfigStore(s ConfigStore) EnvOption {
	return func(e *Env) {
		e.ConfigStore = s
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stderr:            os.Stderr,
		Stdout:            os.Stdout,
		Getenv:            os.Getenv,
		LookPath:          exec.LookPath,
		Now:               time.Now,
		Extractor:         pdftext.NewPDFExtractor(),
		SummarizerFactory: &defaultSummarizerFactory{},
		ConfigLoader:      NewFileConfigLoader(""),
		ConfigStore:       &defaultConfigStore{},
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// defaultSummarizerFactory implements SummarizerFactory with summarize.New.
type defaultSummarizerFactory struct{}

func (defaultSummarizerFactory) NewSummarizer(b summarize.Backend, cfg summarize.Config) (summarize.Summarizer, error) {
	return summarize.New(b, cfg)
}

// FileConfigLoader implements ConfigLoader with the config package.
type FileConfigLoader struct {
	path string
}

// NewFileConfigLoader creates a loader reading the config file at path.
// An empty path selects the standard location derived from the environment.
func NewFileConfigLoader(path string) *FileConfigLoader {
	return &FileConfigLoader{path: path}
}

// NoConfigFile is a FileConfigLoader path that disables the file layer.
const NoConfigFile = "-"

func (l *FileConfigLoader) Load(fs *pflag.FlagSet, getenv func(string) string) (config.Settings, error) {
	path := l.path
	switch path {
	case NoConfigFile:
		path = ""
	case "":
		p, err := config.Path(getenv)
		if err != nil {
			return config.Settings{}, err
		}
		path = p
	}
	return config.NewLoader(config.WithPath(path), config.WithGetenv(getenv), config.WithFlags(fs)).Load()
}

// defaultConfigStore implements ConfigStore on the standard config file.
// The path is resolved on every call so XDG_CONFIG_HOME changes are honored.
type defaultConfigStore struct{}

func (defaultConfigStore) store() *config.Store {
	p, err := config.Path(os.Getenv)
	if err != nil {
		p = "config.yaml"
	}
	return config.NewStore(p)
}

func (s defaultConfigStore) Set(key, value string) error      { return s.store().Set(key, value) }
func (s defaultConfigStore) Get(key string) (string, error)   { return s.store().Get(key) }
func (s defaultConfigStore) List() (map[string]string, error) { return s.store().List() }
func (s defaultConfigStore) Path() string                     { return s.store().Path() }

// Compile-time interface verification.
var (
	_ SummarizerFactory = (*defaultSummarizerFactory)(nil)
	_ ConfigLoader      = (*FileConfigLoader)(nil)
	_ ConfigStore       = (*defaultConfigStore)(nil)
	_ ConfigStore       = (*config.Store)(nil)
)
