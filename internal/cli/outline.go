package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rtjson/internal/logging"
	"github.com/yaklabco/rtjson/internal/ui/pretty"
	"github.com/yaklabco/rtjson/pkg/config"
	"github.com/yaklabco/rtjson/pkg/fsutil"
	"github.com/yaklabco/rtjson/pkg/richtext"
	"github.com/yaklabco/rtjson/pkg/runner"
)

func newOutlineCommand() *cobra.Command {
	flags := &compileFlags{}
	var width int
	var plain bool

	cmd := &cobra.Command{
		Use:   "outline [file|-]",
		Short: "Print the compiled document as a tree",
		Long: `Compile a Markdown document and print its rich-text tree, one node per
line. Text runs show their format ranges as "style start+length", table
cells their alignment and footnotes their number.

Examples:
  rtjson outline README.md
  rtjson outline --width 0 post.md   # Never truncate lines
  rtjson outline --plain post.md     # Print the plain text only`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := fsutil.StdinPath
			if len(args) == 1 {
				input = args[0]
			}

			ctx := commandContext(cmd)
			cliCfg := &config.Config{}
			flags.apply(cmd, cliCfg)

			cfg, _, err := loadConfig(ctx, cmd, cliCfg)
			if err != nil {
				return err
			}

			content, err := fsutil.ReadInput(ctx, input, cmd.InOrStdin())
			if err != nil {
				return err
			}

			logger := logging.FromContext(ctx)
			doc, err := runner.NewPipeline(cfg, logger).Compile(ctx, content)
			if err != nil {
				return fmt.Errorf("compile %s: %w", input, err)
			}
			if errs := richtext.Validate(doc); len(errs) > 0 {
				logger.Warn("invalid format ranges", logging.FieldError, errors.Join(errs...))
			}

			out := cmd.OutOrStdout()
			if plain {
				_, err := fmt.Fprintln(out, doc.PlainText())
				return err
			}

			if !cmd.Flags().Changed("width") {
				width = pretty.TerminalWidth(out, 0)
			}
			colorEnabled := pretty.IsColorEnabled(colorMode(cmd), out)

			return pretty.RenderOutline(out, doc, pretty.OutlineOptions{
				Styles: pretty.NewStyles(colorEnabled),
				Width:  width,
			})
		},
	}

	addCompileFlags(cmd, flags)
	cmd.Flags().IntVar(&width, "width", 0, "truncate lines to this width (default: terminal width, 0 = never)")
	cmd.Flags().BoolVar(&plain, "plain", false, "print the document's plain text instead of the tree")

	return cmd
}
