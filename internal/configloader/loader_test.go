package configloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yaklabco/rtjson/pkg/config"
)

// isolated returns options that only see files under dir and the given
// environment.
func isolated(dir string, env map[string]string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		Environment: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), isolated(t.TempDir(), nil))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.Flavor != config.FlavorGFM {
		t.Errorf("expected flavor %q, got %q", config.FlavorGFM, cfg.Flavor)
	}
	if !cfg.EntityLinksEnabled() || !cfg.SpoilersEnabled() || !cfg.EscapeTextEnabled() {
		t.Error("expected entity links, spoilers and escaping to default on")
	}
	if cfg.DetectCodeLanguageEnabled() {
		t.Error("expected language detection to default off")
	}
	if len(result.LoadedFrom) != 0 {
		t.Errorf("expected no loaded files, got %v", result.LoadedFrom)
	}
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".rtjson.yml"), `
flavor: commonmark
spoilers: false
indent: 2
`)

	result, err := Load(context.Background(), isolated(tmpDir, nil))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Flavor != config.FlavorCommonMark {
		t.Errorf("expected flavor %q, got %q", config.FlavorCommonMark, result.Config.Flavor)
	}
	if result.Config.SpoilersEnabled() {
		t.Error("expected spoilers to be disabled")
	}
	if !result.Config.EntityLinksEnabled() {
		t.Error("expected entity links to keep the default")
	}
	if result.Config.Indent != 2 {
		t.Errorf("expected indent 2, got %d", result.Config.Indent)
	}
	if len(result.LoadedFrom) != 1 {
		t.Errorf("expected 1 loaded file, got %d", len(result.LoadedFrom))
	}
}

func TestLoad_ProjectConfigUpward(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".rtjson.yaml"), "indent: 4\n")
	nested := filepath.Join(root, "docs", "guide")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	result, err := Load(context.Background(), isolated(nested, nil))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config.Indent != 4 {
		t.Errorf("expected indent 4 from parent config, got %d", result.Config.Indent)
	}
}

func TestLoad_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".rtjson.yml"), "indent: 4\n")
	repo := filepath.Join(root, "repo")
	if err := os.MkdirAll(filepath.Join(repo, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	path, err := FindProjectConfig(context.Background(), repo)
	if err != nil {
		t.Fatalf("FindProjectConfig() error = %v", err)
	}
	if path != "" {
		t.Errorf("expected search to stop at the repository root, found %q", path)
	}
}

func TestLoad_ExplicitConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".rtjson.yml"), "flavor: commonmark\nindent: 2\n")
	customPath := filepath.Join(tmpDir, "custom.yml")
	writeFile(t, customPath, "flavor: gfm\n")

	opts := isolated(tmpDir, nil)
	opts.ExplicitPath = customPath

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Flavor != config.FlavorGFM {
		t.Errorf("expected explicit flavor %q, got %q", config.FlavorGFM, result.Config.Flavor)
	}
	if result.Config.Indent != 2 {
		t.Errorf("expected project indent to survive, got %d", result.Config.Indent)
	}
	if len(result.LoadedFrom) != 2 || result.LoadedFrom[1] != customPath {
		t.Errorf("expected explicit config loaded last, got %v", result.LoadedFrom)
	}
}

func TestLoad_EnvAndCLIPrecedence(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".rtjson.yml"), "flavor: commonmark\nindent: 2\n")

	opts := isolated(tmpDir, map[string]string{
		"RTJSON_FLAVOR":       "gfm",
		"RTJSON_ENTITY_LINKS": "false",
		"RTJSON_INDENT":       "3",
		"RTJSON_IGNORE":       "vendor/**, ,drafts/*",
	})
	opts.CLIConfig = &config.Config{Indent: 8, Jobs: 2}

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.Flavor != config.FlavorGFM {
		t.Errorf("expected env flavor, got %q", cfg.Flavor)
	}
	if cfg.EntityLinksEnabled() {
		t.Error("expected env to disable entity links")
	}
	if cfg.Indent != 8 {
		t.Errorf("expected CLI indent 8, got %d", cfg.Indent)
	}
	if cfg.Jobs != 2 {
		t.Errorf("expected CLI jobs 2, got %d", cfg.Jobs)
	}
	if strings.Join(cfg.Ignore, "|") != "vendor/**|drafts/*" {
		t.Errorf("unexpected ignore patterns %v", cfg.Ignore)
	}
}

func TestLoad_IgnoreEnv(t *testing.T) {
	t.Parallel()

	opts := isolated(t.TempDir(), map[string]string{"RTJSON_INDENT": "3"})
	opts.IgnoreEnv = true

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config.Indent != 0 {
		t.Errorf("expected env to be ignored, got indent %d", result.Config.Indent)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		env     map[string]string
		wantSub string
	}{
		{
			name:    "invalid flavor in file",
			file:    "flavor: markdown\n",
			wantSub: "invalid flavor",
		},
		{
			name:    "unknown key",
			file:    "rules: {}\n",
			wantSub: "rules",
		},
		{
			name:    "bad env boolean",
			env:     map[string]string{"RTJSON_SPOILERS": "maybe"},
			wantSub: "RTJSON_SPOILERS",
		},
		{
			name:    "bad env integer",
			env:     map[string]string{"RTJSON_JOBS": "many"},
			wantSub: "RTJSON_JOBS",
		},
		{
			name:    "invalid env format",
			env:     map[string]string{"RTJSON_FORMAT": "sarif"},
			wantSub: "invalid format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tmpDir := t.TempDir()
			if tt.file != "" {
				writeFile(t, filepath.Join(tmpDir, ".rtjson.yml"), tt.file)
			}

			_, err := Load(context.Background(), isolated(tmpDir, tt.env))
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not contain %q", err, tt.wantSub)
			}
		})
	}
}

func TestLoad_FileValidationErrorCarriesPath(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ".rtjson.yml")
	writeFile(t, path, "indent: 99\n")

	_, err := Load(context.Background(), isolated(tmpDir, nil))

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.FilePath != path || verr.Field != "indent" {
		t.Errorf("unexpected validation error %+v", verr)
	}
}

func TestLoad_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, isolated(t.TempDir(), nil))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	base := &config.Config{
		Flavor:      config.FlavorGFM,
		EntityLinks: config.Bool(true),
		Indent:      2,
		Ignore:      []string{"a"},
	}
	override := &config.Config{
		EntityLinks: config.Bool(false),
		Spoilers:    config.Bool(false),
		Ignore:      []string{"b"},
	}

	got := merge(base, override)

	if got.Flavor != config.FlavorGFM || got.Indent != 2 {
		t.Errorf("unset override fields changed base: %+v", got)
	}
	if got.EntityLinksEnabled() || got.SpoilersEnabled() {
		t.Error("explicit false toggles did not override")
	}
	if len(got.Ignore) != 1 || got.Ignore[0] != "b" {
		t.Errorf("expected ignore to be replaced, got %v", got.Ignore)
	}
	if !*base.EntityLinks {
		t.Error("merge modified base")
	}

	if merge(nil, override) != override || merge(base, nil) != base {
		t.Error("nil side should return the other config")
	}
	if MergeAll() != nil {
		t.Error("MergeAll() of nothing should be nil")
	}
	if all := MergeAll(base, override, &config.Config{Indent: 6}); all.Indent != 6 {
		t.Errorf("expected last config to win, got indent %d", all.Indent)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		cfg       *config.Config
		wantField string
		warning   bool
	}{
		{"nil", nil, "", false},
		{"defaults", config.NewConfig(), "", false},
		{"bad flavor", &config.Config{Flavor: "rst"}, "flavor", false},
		{"bad format", &config.Config{Format: "xml"}, "format", false},
		{"negative indent", &config.Config{Indent: -1}, "indent", false},
		{"negative jobs", &config.Config{Jobs: -2}, "jobs", false},
		{"suffix with separator", &config.Config{OutputSuffix: "out/x.json"}, "output_suffix", false},
		{"suffix without dot", &config.Config{OutputSuffix: "-rt.json"}, "output_suffix", true},
		{"bad glob", &config.Config{Ignore: []string{"[a-"}}, "ignore[0]", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := Validate(tt.cfg)
			var findings []ValidationError
			if tt.warning {
				findings = result.Warnings
				if !result.Valid() {
					t.Fatalf("expected only warnings, got %v", result.AllMessages())
				}
			} else {
				findings = result.Errors
			}

			if tt.wantField == "" {
				if len(result.AllMessages()) != 0 {
					t.Fatalf("expected no findings, got %v", result.AllMessages())
				}
				return
			}
			if len(findings) != 1 || findings[0].Field != tt.wantField {
				t.Fatalf("expected one finding for %q, got %v", tt.wantField, result.AllMessages())
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	err := &ValidationError{FilePath: ".rtjson.yml", Field: "indent", Message: "too big"}
	if got := err.Error(); got != ".rtjson.yml: indent: too big" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestListEnvVars(t *testing.T) {
	t.Parallel()

	vars := ListEnvVars()
	for _, name := range []string{"RTJSON_FLAVOR", "RTJSON_INDENT", "RTJSON_IGNORE", "RTJSON_DETECT_CODE_LANGUAGE"} {
		if vars[name] == "" {
			t.Errorf("missing description for %s", name)
		}
	}
}
