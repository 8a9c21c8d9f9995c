package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alnah/go-pdfsummary/internal/template"
)

// TemplateCmd creates the template command with subcommands.
func TemplateCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Inspect the built-in prompt templates",
		Long: `Inspect the built-in prompt templates.

A template file set with --chunk-prompt-file, --merge-prompt-file or
--summary-prompt-file replaces the built-in one. Templates may use these
placeholders:

  {chunk} {text}       Content of the part (chunk) or whole document (summary)
  {partials}           Partial summaries to merge (merge)
  {max_bullets}        Bullet cap of the request
  {language}           Name of the output language
  {include_actions}    "true" or "false"
  {include_risks}      "true" or "false"
  {instruction}        Extra instruction from --prompt-file
  {sections}           Optional section rules of the built-in templates

Unknown placeholders are kept as written. Use {{ and }} for literal braces.`,
		Example: `  pdfsummary template list
  pdfsummary template show merge > merge.txt`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List built-in templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTemplateList(env)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:       "show <name>",
		Short:     "Print a built-in template",
		Args:      cobra.ExactArgs(1),
		ValidArgs: template.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTemplateShow(env, args[0])
		},
	})

	return cmd
}

// runTemplateList handles the "template list" command.
func runTemplateList(env *Env) error {
	for _, name := range template.Names() {
		fmt.Fprintln(env.Stdout, name)
	}
	return nil
}

// runTemplateShow handles the "template show" command.
func runTemplateShow(env *Env, name string) error {
	text, err := template.Get(name)
	if err != nil {
		return err
	}
	fmt.Fprintln(env.Stdout, strings.TrimRight(text, "\n"))
	return nil
}
