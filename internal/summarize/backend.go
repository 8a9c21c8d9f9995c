package summarize

import (
	"fmt"
	"os/exec"
	"strings"
)

// Mode selects how the backend is chosen.
type Mode string

// Backend modes.
const (
	ModeAuto      Mode = "auto"
	ModeCommand   Mode = "cmd"
	ModeOllama    Mode = "ollama"
	ModeOpenAI    Mode = "openai"
	ModeAnthropic Mode = "anthropic"
)

// Modes returns every accepted mode in resolution order.
func Modes() []Mode {
	return []Mode{ModeAuto, ModeCommand, ModeOllama, ModeOpenAI, ModeAnthropic}
}

// ParseMode validates a mode name. Empty selects ModeAuto.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if m == "" {
		return ModeAuto, nil
	}
	for _, valid := range Modes() {
		if m == valid {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q (use auto, cmd, ollama, openai or anthropic): %w", s, ErrInvalidMode)
}

// Environment variables consulted during resolution.
const (
	EnvSummarizeCmd       = "SUMMARIZE_CMD"
	EnvCursorSummarizeCmd = "CURSOR_SUMMARIZE_CMD"
	EnvOllamaHost         = "OLLAMA_HOST"
	EnvOpenAIKey          = "OPENAI_API_KEY"
	EnvOpenAIBaseURL      = "OPENAI_BASE_URL"
	EnvAnthropicKey       = "ANTHROPIC_API_KEY"
	EnvAnthropicBaseURL   = "ANTHROPIC_BASE_URL"
)

// Backend describes the resolved summarization backend of a run.
type Backend struct {
	Mode    Mode
	Command string // ModeCommand only.
	Model   string // Empty uses the backend default.
	Host    string // ModeOllama only.
	BaseURL string // API modes; empty uses the public endpoint.
	APIKey  string
	Source  string // Probe that selected the backend, for display.
}

// String describes the backend without secrets.
func (b Backend) String() string {
	switch b.Mode {
	case ModeCommand:
		return fmt.Sprintf("command %q (from %s)", b.Command, b.Source)
	case ModeOllama:
		return fmt.Sprintf("ollama %s (from %s)", b.modelOr(DefaultOllamaModel), b.Source)
	case ModeOpenAI:
		return fmt.Sprintf("openai %s (from %s)", b.modelOr(DefaultOpenAIModel), b.Source)
	case ModeAnthropic:
		return fmt.Sprintf("anthropic %s (from %s)", b.modelOr(DefaultAnthropicModel), b.Source)
	default:
		return string(b.Mode)
	}
}

func (b Backend) modelOr(def string) string {
	if b.Model != "" {
		return b.Model
	}
	return def
}

// ResolveOptions holds the inputs of backend resolution.
// The caller assembles them from flags, environment and config file;
// resolution itself never reads the process environment.
type ResolveOptions struct {
	Mode     Mode
	Command  string // Explicit command (flag, PDFSUMMARY_LLM_CMD or config).
	Model    string
	Getenv   func(string) string
	LookPath func(string) (string, error)
}

// probe is one capability check of the resolution chain.
type probe struct {
	name string
	try  func(o ResolveOptions) (Backend, bool)
}

var (
	explicitCommandProbe = probe{"--cmd / PDFSUMMARY_LLM_CMD", func(o ResolveOptions) (Backend, bool) {
		if strings.TrimSpace(o.Command) == "" {
			return Backend{}, false
		}
		return Backend{Mode: ModeCommand, Command: o.Command, Source: "explicit command"}, true
	}}

	legacyCommandProbe = probe{EnvSummarizeCmd + " / " + EnvCursorSummarizeCmd, func(o ResolveOptions) (Backend, bool) {
		for _, key := range []string{EnvSummarizeCmd, EnvCursorSummarizeCmd} {
			if cmd := strings.TrimSpace(o.Getenv(key)); cmd != "" {
				return Backend{Mode: ModeCommand, Command: cmd, Source: key}, true
			}
		}
		return Backend{}, false
	}}

	ollamaPathProbe = probe{"ollama in PATH", func(o ResolveOptions) (Backend, bool) {
		if _, err := o.LookPath("ollama"); err != nil {
			return Backend{}, false
		}
		return Backend{Mode: ModeOllama, Model: o.Model, Host: o.Getenv(EnvOllamaHost), Source: "ollama in PATH"}, true
	}}

	ollamaHostProbe = probe{EnvOllamaHost, func(o ResolveOptions) (Backend, bool) {
		host := o.Getenv(EnvOllamaHost)
		if host == "" {
			return Backend{}, false
		}
		return Backend{Mode: ModeOllama, Model: o.Model, Host: host, Source: EnvOllamaHost}, true
	}}

	openAIProbe = probe{EnvOpenAIKey, func(o ResolveOptions) (Backend, bool) {
		key := o.Getenv(EnvOpenAIKey)
		if key == "" {
			return Backend{}, false
		}
		return Backend{Mode: ModeOpenAI, Model: o.Model, APIKey: key, BaseURL: o.Getenv(EnvOpenAIBaseURL), Source: EnvOpenAIKey}, true
	}}

	anthropicProbe = probe{EnvAnthropicKey, func(o ResolveOptions) (Backend, bool) {
		key := o.Getenv(EnvAnthropicKey)
		if key == "" {
			return Backend{}, false
		}
		return Backend{Mode: ModeAnthropic, Model: o.Model, APIKey: key, BaseURL: o.Getenv(EnvAnthropicBaseURL), Source: EnvAnthropicKey}, true
	}}
)

// autoProbes is the resolution chain of ModeAuto, first success wins.
var autoProbes = []probe{
	explicitCommandProbe,
	legacyCommandProbe,
	ollamaPathProbe,
	openAIProbe,
	anthropicProbe,
}

// Resolve selects the backend once for a run.
// In ModeAuto the probes are tried in order and ErrNoBackend names all of
// them on exhaustion. Explicit modes check only their own prerequisite.
func Resolve(opts ResolveOptions) (Backend, error) {
	if opts.Getenv == nil {
		opts.Getenv = func(string) string { return "" }
	}
	if opts.LookPath == nil {
		opts.LookPath = exec.LookPath
	}
	if opts.Mode == "" {
		opts.Mode = ModeAuto
	}

	switch opts.Mode {
	case ModeAuto:
		return firstOf(opts, autoProbes...)
	case ModeCommand:
		return firstOf(opts, explicitCommandProbe, legacyCommandProbe)
	case ModeOllama:
		return firstOf(opts, ollamaPathProbe, ollamaHostProbe)
	case ModeOpenAI:
		if b, ok := openAIProbe.try(opts); ok {
			return b, nil
		}
		return Backend{}, fmt.Errorf("mode openai requires %s: %w", EnvOpenAIKey, ErrAPIKeyMissing)
	case ModeAnthropic:
		if b, ok := anthropicProbe.try(opts); ok {
			return b, nil
		}
		return Backend{}, fmt.Errorf("mode anthropic requires %s: %w", EnvAnthropicKey, ErrAPIKeyMissing)
	default:
		return Backend{}, fmt.Errorf("unknown mode %q: %w", opts.Mode, ErrInvalidMode)
	}
}

func firstOf(opts ResolveOptions, probes ...probe) (Backend, error) {
	names := make([]string, 0, len(probes))
	for _, p := range probes {
		if b, ok := p.try(opts); ok {
			return b, nil
		}
		names = append(names, p.name)
	}
	return Backend{}, fmt.Errorf("mode %s, checked %s: %w", opts.Mode, strings.Join(names, ", "), ErrNoBackend)
}

// New builds the Summarizer for a resolved backend.
func New(b Backend, cfg Config) (Summarizer, error) {
	cfg = cfg.withDefaults()
	switch b.Mode {
	case ModeCommand:
		return NewCommandSummarizer(b.Command, WithCommandTimeout(cfg.Timeout)), nil
	case ModeOllama:
		return NewOllamaSummarizer(b.Host, WithOllamaModel(b.Model), WithOllamaConfig(cfg))
	case ModeOpenAI:
		return NewOpenAISummarizer(b.APIKey, b.BaseURL, WithOpenAIModel(b.Model), WithOpenAIConfig(cfg)), nil
	case ModeAnthropic:
		return NewAnthropicSummarizer(b.APIKey, b.BaseURL, WithAnthropicModel(b.Model), WithAnthropicConfig(cfg)), nil
	default:
		return nil, fmt.Errorf("cannot build backend for mode %q: %w", b.Mode, ErrInvalidMode)
	}
}
