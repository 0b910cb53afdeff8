package cli_test

import (
	"bytes"
	"testing"

	"github.com/yaklabco/rtjson/internal/cli"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{
		Version: "test",
		Commit:  "test",
		Date:    "test",
	}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	if cmd == nil {
		t.Fatal("NewRootCommand returned nil")
	}

	if cmd.Use != "rtjson" {
		t.Errorf("expected Use to be 'rtjson', got %q", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("expected Short description to be set")
	}

	if cmd.Long == "" {
		t.Error("expected Long description to be set")
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, name := range []string{"compile", "batch", "outline", "init", "version"} {
		subCmd, _, err := cmd.Find([]string{name})
		if err != nil {
			t.Errorf("expected subcommand %q to exist, got error: %v", name, err)
			continue
		}

		if subCmd.Name() != name {
			t.Errorf("expected subcommand name %q, got %q", name, subCmd.Name())
		}
	}
}

func TestCommandFlags(t *testing.T) {
	t.Parallel()

	compileFlags := []string{"flavor", "no-entity-links", "no-spoilers", "no-escape", "detect-language", "indent"}

	tests := []struct {
		command string
		flags   []string
	}{
		{"compile", append([]string{"output"}, compileFlags...)},
		{"batch", append([]string{
			"format", "ignore", "ext", "suffix", "jobs", "dry-run", "verbose", "compact", "follow-symlinks",
		}, compileFlags...)},
		{"outline", append([]string{"width", "plain"}, compileFlags...)},
		{"init", []string{"force", "full", "output"}},
		{"version", []string{"short"}},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			t.Parallel()

			cmd := cli.NewRootCommand(testInfo())
			sub, _, err := cmd.Find([]string{tt.command})
			if err != nil {
				t.Fatalf("%s command not found: %v", tt.command, err)
			}

			for _, name := range tt.flags {
				if sub.Flags().Lookup(name) == nil {
					t.Errorf("expected flag %q to exist on %s command", name, tt.command)
				}
			}
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, flagName := range []string{"debug", "config", "color"} {
		if cmd.PersistentFlags().Lookup(flagName) == nil {
			t.Errorf("expected global flag %q to exist", flagName)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{
		Version: "1.2.3",
		Commit:  "abc123",
		Date:    "2024-01-01",
	})
	cmd.SetArgs([]string{"version"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	for _, want := range []string{"rtjson", "1.2.3", "abc123", "2024-01-01"} {
		if !bytes.Contains(out.Bytes(), []byte(want)) {
			t.Errorf("expected version output to contain %q, got %q", want, out.String())
		}
	}
}

func TestVersionCommand_Short(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "1.2.3"})
	cmd.SetArgs([]string{"version", "--short"})

	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version --short failed: %v", err)
	}
	if out.String() != "1.2.3\n" {
		t.Errorf("expected %q, got %q", "1.2.3\n", out.String())
	}
}

func TestArgumentCounts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		command string
		args    []string
		wantErr bool
	}{
		{"batch", []string{"file1.md", "file2.md", "docs/"}, false},
		{"compile", nil, false},
		{"compile", []string{"a.md"}, false},
		{"compile", []string{"a.md", "b.md"}, true},
		{"outline", []string{"a.md", "b.md"}, true},
		{"init", []string{"extra"}, true},
	}

	for _, tt := range tests {
		cmd := cli.NewRootCommand(testInfo())
		sub, _, err := cmd.Find([]string{tt.command})
		if err != nil {
			t.Fatalf("%s command not found: %v", tt.command, err)
		}

		err = sub.Args(sub, tt.args)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s %v: got error %v, wantErr %v", tt.command, tt.args, err, tt.wantErr)
		}
	}
}

func TestHelpListsCommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	cmd.SetArgs([]string{"--help", "--color", "never"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("help failed: %v", err)
	}

	for _, want := range []string{"Usage:", "Commands:", "compile", "batch", "--config"} {
		if !bytes.Contains(out.Bytes(), []byte(want)) {
			t.Errorf("expected help to contain %q", want)
		}
	}
}
