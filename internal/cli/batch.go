package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rtjson/internal/logging"
	"github.com/yaklabco/rtjson/pkg/config"
	"github.com/yaklabco/rtjson/pkg/reporter"
	"github.com/yaklabco/rtjson/pkg/runner"
)

type batchFlags struct {
	compileFlags

	format         string
	ignore         []string
	extensions     []string
	suffix         string
	jobs           int
	dryRun         bool
	verbose        bool
	compact        bool
	followSymlinks bool
}

func newBatchCommand() *cobra.Command {
	flags := &batchFlags{}

	cmd := &cobra.Command{
		Use:   "batch [paths...]",
		Short: "Compile every Markdown file under the given paths",
		Long:  batchLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args, flags)
		},
	}

	addCompileFlags(cmd, &flags.compileFlags)
	cmd.Flags().StringVar(&flags.format, "format", string(config.FormatText), "summary format: text, table, json")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to skip")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil, "file extensions to compile (default .md, .markdown)")
	cmd.Flags().StringVar(&flags.suffix, "suffix", "", "suffix appended to each input path for its output")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "compile without writing outputs")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "list every file, not only failures")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact JSON summary")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "descend into symlinked directories")

	return cmd
}

const batchLongDescription = `Compile Markdown files in bulk.

By default, compiles all .md and .markdown files in the current directory
and subdirectories. Each input is written next to itself with the configured
suffix appended (default ".rtjson.json"). Outputs whose content did not
change are left untouched.

Examples:
  rtjson batch                       # Compile the current directory
  rtjson batch docs/ --jobs 4        # Compile docs with four workers
  rtjson batch --ignore "drafts/**"  # Skip a directory
  rtjson batch --dry-run -v          # Show what would be written
  rtjson batch --format json         # Machine-readable summary`

func runBatch(cmd *cobra.Command, args []string, flags *batchFlags) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	cliCfg := &config.Config{
		Ignore:       flags.ignore,
		OutputSuffix: flags.suffix,
		Jobs:         flags.jobs,
	}
	if cmd.Flags().Changed("format") {
		cliCfg.Format = config.OutputFormat(flags.format)
	}
	flags.apply(cmd, cliCfg)

	cfg, workDir, err := loadConfig(ctx, cmd, cliCfg)
	if err != nil {
		return err
	}

	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	runOpts := runner.Options{
		Paths:          args,
		WorkingDir:     workDir,
		Extensions:     flags.extensions,
		ExcludeGlobs:   cfg.Ignore,
		FollowSymlinks: flags.followSymlinks,
		Jobs:           cfg.Jobs,
		DryRun:         flags.dryRun,
		Config:         cfg,
		Logger:         logger,
	}

	logger.Debug("starting batch run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := runner.New(runner.NewPipeline(cfg, logger)).Run(ctx, runOpts)
	if err != nil {
		return fmt.Errorf("batch run failed: %w", err)
	}

	logger.Debug("batch run finished",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesCompiled, result.Stats.FilesCompiled,
		logging.FieldFilesFailed, result.Stats.FilesFailed,
	)

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       colorMode(cmd),
		ShowSummary: true,
		Verbose:     flags.verbose,
		Compact:     flags.compact,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrFilesFailed
	}
	return nil
}
