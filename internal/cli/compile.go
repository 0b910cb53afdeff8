package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rtjson/internal/logging"
	"github.com/yaklabco/rtjson/pkg/config"
	"github.com/yaklabco/rtjson/pkg/fsutil"
	"github.com/yaklabco/rtjson/pkg/runner"
)

func newCompileCommand() *cobra.Command {
	flags := &compileFlags{}
	var output string

	cmd := &cobra.Command{
		Use:   "compile [file|-]",
		Short: "Compile one Markdown document to RTJSON",
		Long: `Compile a single Markdown document and write its RTJSON encoding.

The document is read from the named file, or from standard input when the
argument is "-" or omitted. The result goes to standard output unless
--output names a file, which is then replaced atomically.

Examples:
  rtjson compile README.md
  rtjson compile --indent 2 < post.md
  rtjson compile post.md --output post.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := fsutil.StdinPath
			if len(args) == 1 {
				input = args[0]
			}
			return runCompile(cmd, input, output, flags)
		},
	}

	addCompileFlags(cmd, flags)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write RTJSON to this file instead of stdout")

	return cmd
}

func runCompile(cmd *cobra.Command, input, output string, flags *compileFlags) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	cliCfg := &config.Config{Output: output}
	flags.apply(cmd, cliCfg)

	cfg, _, err := loadConfig(ctx, cmd, cliCfg)
	if err != nil {
		return err
	}

	content, err := fsutil.ReadInput(ctx, input, cmd.InOrStdin())
	if err != nil {
		return err
	}

	pipeline := runner.NewPipeline(cfg, logger)
	doc, err := pipeline.Compile(ctx, content)
	if err != nil {
		return fmt.Errorf("compile %s: %w", input, err)
	}

	data, err := pipeline.Encode(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", input, err)
	}

	logger.Debug("compiled document",
		logging.FieldInput, input,
		logging.FieldBlocks, len(doc.Blocks),
	)

	if cfg.Output == "" {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}

	if err := fsutil.WriteAtomic(ctx, cfg.Output, data, fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("write %s: %w", cfg.Output, err)
	}
	logger.Debug("wrote output", logging.FieldOutput, cfg.Output)

	return nil
}
