package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rtjson/internal/configloader"
	"github.com/yaklabco/rtjson/internal/logging"
	"github.com/yaklabco/rtjson/pkg/config"
)

// compileFlags holds the compiler switches shared by compile, batch and
// outline.
type compileFlags struct {
	flavor         string
	noEntityLinks  bool
	noSpoilers     bool
	noEscape       bool
	detectLanguage bool
	indent         int
}

func addCompileFlags(cmd *cobra.Command, flags *compileFlags) {
	cmd.Flags().StringVar(&flags.flavor, "flavor", string(config.FlavorGFM), "Markdown flavor: commonmark, gfm")
	cmd.Flags().BoolVar(&flags.noEntityLinks, "no-entity-links", false, "keep u/ and r/ mentions as plain text")
	cmd.Flags().BoolVar(&flags.noSpoilers, "no-spoilers", false, "keep >!text!< as plain text")
	cmd.Flags().BoolVar(&flags.noEscape, "no-escape", false, "do not HTML-escape text and URLs")
	cmd.Flags().BoolVar(&flags.detectLanguage, "detect-language", false, "guess a language for untagged code blocks")
	cmd.Flags().IntVar(&flags.indent, "indent", 0, "JSON indentation width (0 = compact)")
}

// apply copies the flags the user actually set into cfg so that unset
// flags do not override configuration files.
func (f *compileFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("flavor") {
		cfg.Flavor = config.Flavor(f.flavor)
	}
	if changed("no-entity-links") {
		cfg.EntityLinks = config.Bool(!f.noEntityLinks)
	}
	if changed("no-spoilers") {
		cfg.Spoilers = config.Bool(!f.noSpoilers)
	}
	if changed("no-escape") {
		cfg.EscapeText = config.Bool(!f.noEscape)
	}
	if changed("detect-language") {
		cfg.DetectCodeLanguage = config.Bool(f.detectLanguage)
	}
	if changed("indent") {
		cfg.Indent = f.indent
	}
}

// commandContext returns the command context carrying the default logger.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logging.WithLogger(ctx, logging.Default())
}

// loadConfig resolves the configuration for the working directory with
// cliCfg on top.
func loadConfig(ctx context.Context, cmd *cobra.Command, cliCfg *config.Config) (*config.Config, string, error) {
	logger := logging.FromContext(ctx)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		Logger:       logger,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrConfig, err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	logger.Debug("configuration resolved",
		logging.FieldFlavor, cfg.Flavor,
		logging.FieldJobs, cfg.Jobs,
		"entity_links", cfg.EntityLinksEnabled(),
		"spoilers", cfg.SpoilersEnabled(),
	)

	return cfg, workDir, nil
}

func colorMode(cmd *cobra.Command) string {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return "auto"
	}
	return mode
}
