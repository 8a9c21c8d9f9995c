package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alnah/go-pdfsummary/internal/config"
	"github.com/alnah/go-pdfsummary/internal/format"
	"github.com/alnah/go-pdfsummary/internal/lang"
	"github.com/alnah/go-pdfsummary/internal/pages"
	"github.com/alnah/go-pdfsummary/internal/pdftext"
	"github.com/alnah/go-pdfsummary/internal/segment"
	"github.com/alnah/go-pdfsummary/internal/summarize"
	"github.com/alnah/go-pdfsummary/internal/template"
)

// stdoutPath selects standard output explicitly with --out.
const stdoutPath = "-"

// summarizeOptions holds the flags that are not persistent settings.
type summarizeOptions struct {
	pages  string
	output string
	title  string
	force  bool
}

// SummarizeCmd creates the summarize command.
// The env parameter provides injectable dependencies for testing.
func SummarizeCmd(env *Env) *cobra.Command {
	var opts summarizeOptions

	cmd := &cobra.Command{
		Use:   "summarize <pdf>",
		Short: "Summarize a PDF document",
		Long: `Summarize the text layer of a PDF document into Markdown.

Long documents are split into parts, each part is summarized, and the partial
summaries are merged into one document. Short documents, or any document with
--single-pass, are summarized in one request.

The backend is chosen once per run (--llm):
  auto        First available of: --cmd / PDFSUMMARY_LLM_CMD, SUMMARIZE_CMD,
              ollama on PATH, OPENAI_API_KEY, ANTHROPIC_API_KEY
  cmd         Shell command reading the prompt on stdin
  ollama      Local model via the Ollama API (OLLAMA_HOST)
  openai      OpenAI chat completions (OPENAI_API_KEY, OPENAI_BASE_URL)
  anthropic   Anthropic messages (ANTHROPIC_API_KEY, ANTHROPIC_BASE_URL)

Every flag below except --pages, --out, --title and --force can also be set
with "pdfsummary config set" or a PDFSUMMARY_* environment variable.

Without --out (and without a configured output-dir) the summary is printed to
stdout.`,
		Example: `  pdfsummary summarize report.pdf
  pdfsummary summarize report.pdf -o report.md --title "Q3 report"
  pdfsummary summarize report.pdf --pages 1-5,9 --single-pass
  pdfsummary summarize paper.pdf -l en --llm openai --model gpt-4o-mini
  pdfsummary summarize paper.pdf --cmd 'ollama run llama3' --split paragraph
  pdfsummary summarize paper.pdf --format html -o paper.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummarize(cmd.Context(), env, cmd.Flags(), args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.pages, "pages", "", "Pages to summarize, e.g. 1-3,7 (default: all)")
	f.StringVarP(&opts.output, "out", "o", "", `Output file path, "-" for stdout (default: stdout, or output-dir)`)
	f.StringVar(&opts.title, "title", "", "Document title (default: PDF file name)")
	f.BoolVar(&opts.force, "force", false, "Overwrite the output file if it exists")

	registerSettingFlags(f)

	return cmd
}

// registerSettingFlags declares one flag per persistent setting. Flag names
// equal config keys; the config loader only honors flags the user changed.
func registerSettingFlags(f *pflag.FlagSet) {
	f.String(config.KeyOutputDir, "", "Directory for output files")
	f.String(config.KeyFormat, config.Default(config.KeyFormat), "Output format: md, html")
	f.String(config.KeyLLM, config.Default(config.KeyLLM), "Backend: auto, cmd, ollama, openai, anthropic")
	f.String(config.KeyModel, "", "Model name for ollama, openai or anthropic")
	f.String(config.KeyCommand, "", "Summarization command reading the prompt on stdin")
	f.Duration(config.KeyTimeout, defaultDuration(config.KeyTimeout), "Timeout of each summarization request")
	f.StringP(config.KeyLanguage, "l", config.Default(config.KeyLanguage), "Output language (e.g. ja, en, pt-BR)")
	f.Bool(config.KeyEnsureLanguage, defaultBool(config.KeyEnsureLanguage), "Retry when the output is not in the target language")
	f.Int(config.KeyLanguageRetries, defaultInt(config.KeyLanguageRetries), "Retries per request when the output language is wrong")
	f.Bool(config.KeySinglePass, defaultBool(config.KeySinglePass), "Summarize the whole text in one request")
	f.String(config.KeySplit, config.Default(config.KeySplit), "Split policy: window, paragraph")
	f.Int(config.KeyChunkSize, defaultInt(config.KeyChunkSize), "Maximum part size in characters (0 disables splitting)")
	f.Int(config.KeyOverlap, defaultInt(config.KeyOverlap), "Characters shared by consecutive parts (window policy)")
	f.Int(config.KeyMaxBullets, defaultInt(config.KeyMaxBullets), "Maximum key points of a single-pass summary")
	f.Int(config.KeyChunkMaxBullets, defaultInt(config.KeyChunkMaxBullets), "Maximum bullets per part summary")
	f.Int(config.KeyMergeMaxBullets, defaultInt(config.KeyMergeMaxBullets), "Maximum key points of the merged summary")
	f.Bool(config.KeyIncludeActions, defaultBool(config.KeyIncludeActions), `Add a "Next Actions" section`)
	f.Bool(config.KeyIncludeRisks, defaultBool(config.KeyIncludeRisks), `Add a "Risks" section`)
	f.String(config.KeySystemPrompt, "", "System prompt for API backends")
	f.String(config.KeySummaryPromptFile, "", "Template file for single-pass requests")
	f.String(config.KeyChunkPromptFile, "", "Template file for part requests")
	f.String(config.KeyMergePromptFile, "", "Template file for the merge request")
	f.String(config.KeyPromptFile, "", "File with an extra instruction added to every request")
}

func defaultInt(key string) int {
	n, _ := strconv.Atoi(config.Default(key))
	return n
}

func defaultBool(key string) bool {
	b, _ := strconv.ParseBool(config.Default(key))
	return b
}

func defaultDuration(key string) time.Duration {
	d, _ := time.ParseDuration(config.Default(key))
	return d
}

// runPlan holds the settings of one run after validation.
type runPlan struct {
	config.Settings
	language string
	kind     format.Kind
	policy   segment.Policy
	mode     summarize.Mode
}

// newRunPlan validates the values owned by domain packages.
func newRunPlan(s config.Settings) (runPlan, error) {
	p := runPlan{Settings: s, language: lang.Normalize(s.Language)}
	if p.language == "" {
		p.language = lang.Default
	}
	if err := lang.Validate(p.language); err != nil {
		return runPlan{}, err
	}

	var err error
	if p.kind, err = format.ParseKind(s.Format); err != nil {
		return runPlan{}, err
	}
	if p.policy, err = segment.ParsePolicy(s.Split); err != nil {
		return runPlan{}, err
	}
	if p.mode, err = summarize.ParseMode(s.LLM); err != nil {
		return runPlan{}, err
	}
	if s.ChunkSize > 0 && s.Overlap >= s.ChunkSize {
		return runPlan{}, fmt.Errorf("%s (%d) must be smaller than %s (%d): %w",
			config.KeyOverlap, s.Overlap, config.KeyChunkSize, s.ChunkSize, config.ErrInvalidValue)
	}
	return p, nil
}

// systemPrompt returns the configured system prompt, or the default one
// pinned to the target language.
func (p runPlan) systemPrompt() string {
	if strings.TrimSpace(p.SystemPrompt) != "" {
		return p.SystemPrompt
	}
	return fmt.Sprintf("%s Always answer in %s.", summarize.DefaultSystemPrompt, lang.DisplayName(p.language))
}

// runSummarize executes the summarization pipeline.
// Validation order: input file -> pages -> settings -> output -> backend.
// Every configuration and input error surfaces before the first request.
func runSummarize(ctx context.Context, env *Env, fs *pflag.FlagSet, input string, opts summarizeOptions) error {
	start := env.Now()

	// === VALIDATION (fail-fast) ===

	// 1. Input file exists
	info, err := os.Stat(input)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, input)
		}
		return fmt.Errorf("cannot access input file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s: %w", input, ErrNotAFile)
	}
	source, err := filepath.Abs(input)
	if err != nil {
		return fmt.Errorf("cannot resolve input path: %w", err)
	}

	// 2. Page selection
	sel, err := pages.Parse(opts.pages)
	if err != nil {
		return err
	}

	// 3. Settings (flag > env > config file > default)
	settings, err := env.ConfigLoader.Load(fs, env.Getenv)
	if err != nil {
		return err
	}
	plan, err := newRunPlan(settings)
	if err != nil {
		return err
	}

	// 4. Output path, checked before any request
	outPath, err := resolveOutput(env, opts, plan, source)
	if err != nil {
		return err
	}

	// 5. Backend, resolved once for the whole run
	backend, err := summarize.Resolve(summarize.ResolveOptions{
		Mode:     plan.mode,
		Command:  plan.Command,
		Model:    plan.Model,
		Getenv:   env.Getenv,
		LookPath: env.LookPath,
	})
	if err != nil {
		return err
	}

	// === SETUP ===

	builder := newBuilder(env, plan)

	summarizer, err := env.SummarizerFactory.NewSummarizer(backend, summarize.Config{
		Timeout:      plan.Timeout,
		SystemPrompt: plan.systemPrompt(),
		Temperature:  summarize.DefaultTemperature,
	})
	if err != nil {
		return err
	}

	// === EXTRACTION ===

	fmt.Fprintf(env.Stderr, "Extracting text from %s (%s)...\n", filepath.Base(input), format.Size(info.Size()))
	extracted, err := env.Extractor.Extract(ctx, input, sel)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.Stderr, "Extracted %s of %d\n", format.Count(extracted.Extracted, "page"), extracted.PageCount)

	text := segment.Normalize(extracted.Text)
	if text == "" {
		return fmt.Errorf("%s: %w", input, pdftext.ErrNoText)
	}
	chunks := segment.Split(extracted.Text, segment.Options{
		Policy:  plan.policy,
		MaxSize: plan.ChunkSize,
		Overlap: plan.Overlap,
	})

	// === SUMMARIZATION ===

	controller := summarize.NewController(summarizer, controllerOptions(env, plan, builder)...)
	aggregator := summarize.NewAggregator(controller, builder,
		summarize.WithProgress(defaultProgressCallback(env.Stderr)))

	limit := format.DurationHuman(plan.Timeout)
	if plan.SinglePass || len(chunks) <= 1 {
		fmt.Fprintf(env.Stderr, "Summarizing in one request with %s, %s per request...\n", backend, limit)
	} else {
		fmt.Fprintf(env.Stderr, "Summarizing %s with %s, %s per request...\n", format.Count(len(chunks), "part"), backend, limit)
	}

	result, err := aggregator.Run(ctx, text, chunks, plan.SinglePass)
	if err != nil {
		return err
	}

	// === RENDER & WRITE ===

	title := strings.TrimSpace(opts.title)
	if title == "" {
		base := filepath.Base(input)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	doc := format.Document{
		Source:   source,
		Date:     env.Now(),
		Title:    title,
		Language: plan.language,
		Body:     result.Body,
	}
	rendered, err := doc.Render(plan.kind)
	if err != nil {
		return err
	}

	if outPath == "" {
		_, err := fmt.Fprint(env.Stdout, rendered)
		return err
	}

	if err := writeOutput(outPath, rendered, opts.force); err != nil {
		return err
	}
	fmt.Fprintln(env.Stdout, outPath)
	fmt.Fprintf(env.Stderr, "Done in %s: %s\n", format.Duration(env.Now().Sub(start)), outPath)
	return nil
}

// resolveOutput returns the output file path, or "" for stdout.
func resolveOutput(env *Env, opts summarizeOptions, plan runPlan, source string) (string, error) {
	if opts.output == stdoutPath || (opts.output == "" && plan.OutputDir == "") {
		return "", nil
	}

	if plan.OutputDir != "" {
		if err := config.EnsureOutputDir(plan.OutputDir); err != nil {
			return "", fmt.Errorf("invalid %s: %w", config.KeyOutputDir, err)
		}
	}

	defaultName := config.DefaultOutputName(source, env.Now(), plan.kind.Extension())
	out := config.ResolveOutputPath(opts.output, plan.OutputDir, defaultName)

	if info, err := os.Stat(filepath.Dir(out)); err != nil || !info.IsDir() {
		return "", fmt.Errorf("output directory does not exist: %s", filepath.Dir(out))
	}
	if err := checkOutputAvailable(out, opts.force); err != nil {
		return "", err
	}
	warnExtensionMismatch(env.Stderr, out, plan.kind)
	return out, nil
}

// newBuilder creates the prompt builder and warns about template files that
// were configured but could not be used.
func newBuilder(env *Env, plan runPlan) *template.Builder {
	extra := ""
	if plan.PromptFile != "" {
		text, ok := template.LoadFile(plan.PromptFile)
		if ok {
			extra = text
		} else {
			fmt.Fprintf(env.Stderr, "Warning: cannot read prompt file %s, ignoring it\n", plan.PromptFile)
		}
	}

	builder := template.NewBuilder(template.Options{
		Language:          plan.language,
		SummaryMaxBullets: plan.MaxBullets,
		ChunkMaxBullets:   plan.ChunkMaxBullets,
		MergeMaxBullets:   plan.MergeMaxBullets,
		IncludeActions:    plan.IncludeActions,
		IncludeRisks:      plan.IncludeRisks,
		ExtraInstruction:  extra,
		ChunkFile:         plan.ChunkPromptFile,
		MergeFile:         plan.MergePromptFile,
		SummaryFile:       plan.SummaryPromptFile,
	})

	for name, path := range map[template.Name]string{
		template.ChunkName:   plan.ChunkPromptFile,
		template.MergeName:   plan.MergePromptFile,
		template.SummaryName: plan.SummaryPromptFile,
	} {
		if path != "" && !builder.Overridden(name) {
			fmt.Fprintf(env.Stderr, "Warning: cannot read %s template %s, using the built-in one\n", name, path)
		}
	}
	return builder
}

// controllerOptions configures the language check. Languages without a
// script table skip it with a notice.
func controllerOptions(env *Env, plan runPlan, builder *template.Builder) []summarize.ControllerOption {
	if !plan.EnsureLanguage {
		return nil
	}
	checker, ok := lang.CheckerFor(plan.language)
	if !ok {
		fmt.Fprintf(env.Stderr, "Note: output language is not verified for %s\n", lang.DisplayName(plan.language))
		return nil
	}

	name := lang.DisplayName(plan.language)
	return []summarize.ControllerOption{
		summarize.WithChecker(checker),
		summarize.WithRetries(plan.LanguageRetries),
		summarize.WithCorrective(builder.Corrective),
		summarize.WithRetryNotice(func(attempt, max int) {
			fmt.Fprintf(env.Stderr, "  Output is not in %s, retrying (%d/%d)...\n", name, attempt, max)
		}),
	}
}
