package runner_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rtjson/internal/logging"
	"github.com/yaklabco/rtjson/pkg/config"
	"github.com/yaklabco/rtjson/pkg/fsutil"
	"github.com/yaklabco/rtjson/pkg/richtext"
	"github.com/yaklabco/rtjson/pkg/runner"
)

func TestPipeline_Compile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cfg   *config.Config
		input string
		want  string
	}{
		{
			name:  "defaults",
			input: "Hi u/bob & >!secret!<\n",
			want: `{"document":[{"e":"par","c":[{"e":"text","t":"Hi "},{"e":"u/","t":"bob"},` +
				`{"e":"text","t":" &amp; "},{"e":"spoilertext","c":[{"e":"text","t":"secret"}]}]}]}`,
		},
		{
			name: "features off",
			cfg: &config.Config{
				EntityLinks: config.Bool(false),
				Spoilers:    config.Bool(false),
				EscapeText:  config.Bool(false),
			},
			input: "Hi u/bob & >!secret!<\n",
			want:  `{"document":[{"e":"par","c":[{"e":"text","t":"Hi u/bob & >!secret!<"}]}]}`,
		},
		{
			name:  "commonmark has no tables",
			cfg:   &config.Config{Flavor: config.FlavorCommonMark},
			input: "| a |\n|---|\n",
			want:  `{"document":[{"e":"par","c":[{"e":"text","t":"| a |\\n|---|"}]}]}`,
		},
		{
			name:  "language detection",
			cfg:   &config.Config{DetectCodeLanguage: config.Bool(true)},
			input: "```\npackage main\n\nfunc main() {}\n```\n",
			want: `{"document":[{"e":"code","l":"go","c":[{"e":"raw","t":"package main"},` +
				`{"e":"raw","t":""},{"e":"raw","t":"func main() {}"}]}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := runner.NewPipeline(tt.cfg, nil)
			doc, err := p.Compile(context.Background(), []byte(tt.input))
			require.NoError(t, err)

			data, err := p.Encode(doc)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
			assert.Equal(t, byte('\n'), data[len(data)-1])
		})
	}
}

func TestPipeline_CompileCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.NewPipeline(nil, nil).Compile(ctx, []byte("# x"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestPipeline_EncodeIndent(t *testing.T) {
	t.Parallel()

	p := runner.NewPipeline(&config.Config{Indent: 2}, nil)
	data, err := p.Encode(&richtext.Document{})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"document\": []\n}\n", string(data))
}

func TestPipeline_DebugValidation(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "debug")

	_, err := runner.NewPipeline(nil, logger).Compile(context.Background(), []byte("**a** b\n"))
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "invalid format range")
}

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	result, err := runner.New(nil).Run(context.Background(), runner.Options{WorkingDir: t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	assert.Equal(t, runner.Stats{}, result.Stats)
	assert.False(t, result.HasFailures())
}

func TestRunner_Run_WritesOutputs(t *testing.T) {
	t.Parallel()

	dir := tree(t, map[string]string{
		"a.md":      "# A\n\ntext\n",
		"docs/b.md": "- one\n- two\n",
	})
	opts := runner.Options{WorkingDir: dir, Config: config.NewConfig()}

	result, err := runner.New(nil).Run(context.Background(), opts)
	require.NoError(t, err)

	require.Len(t, result.Files, 2)
	assert.Equal(t, filepath.Join(dir, "a.md"), result.Files[0].Path)
	assert.Equal(t, runner.Stats{
		FilesDiscovered: 2,
		FilesCompiled:   2,
		FilesWritten:    2,
		Blocks:          3,
	}, result.Stats)

	data, err := os.ReadFile(filepath.Join(dir, "a.md.rtjson.json"))
	require.NoError(t, err)
	var decoded map[string][]map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded["document"], 2)
	assert.Equal(t, "h", decoded["document"][0]["e"])

	// A second run finds the outputs current and does not compile them
	// as inputs.
	result, err = runner.New(nil).Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Stats.FilesDiscovered)
	assert.Equal(t, 2, result.Stats.FilesUnchanged)
	assert.Equal(t, fsutil.Unchanged, result.Files[1].Result.Status)
}

func TestRunner_Run_DryRun(t *testing.T) {
	t.Parallel()

	dir := tree(t, map[string]string{"a.md": "x\n"})

	result, err := runner.New(nil).Run(context.Background(), runner.Options{WorkingDir: dir, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Stats.FilesCompiled)
	assert.Equal(t, 0, result.Stats.FilesWritten)

	_, err = os.Stat(filepath.Join(dir, "a.md.rtjson.json"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRunner_Run_CustomSuffix(t *testing.T) {
	t.Parallel()

	dir := tree(t, map[string]string{"a.md": "x\n"})
	cfg := config.NewConfig()
	cfg.OutputSuffix = ".json"

	_, err := runner.New(nil).Run(context.Background(), runner.Options{WorkingDir: dir, Config: cfg})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "a.md.json"))
}

func TestRunner_Run_FailuresAreRecorded(t *testing.T) {
	t.Parallel()

	dir := tree(t, map[string]string{"a.md": "x\n", "b.md": "y\n"})
	// A directory in the way of the output makes the write fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "b.md.rtjson.json"), 0o755))

	result, err := runner.New(nil).Run(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)

	assert.True(t, result.HasFailures())
	assert.Equal(t, 1, result.Stats.FilesCompiled)
	assert.Equal(t, 1, result.Stats.FilesFailed)

	failures := result.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, filepath.Join(dir, "b.md"), failures[0].Path)
}

func TestRunner_Run_SerialVsParallelConsistency(t *testing.T) {
	t.Parallel()

	files := make(map[string]string)
	for i := range 20 {
		files[fmt.Sprintf("doc%02d.md", i)] = fmt.Sprintf("# Doc %d\n\n**bold** u/user%d\n", i, i)
	}

	run := func(jobs int) *runner.Result {
		dir := tree(t, files)
		result, err := runner.New(nil).Run(context.Background(), runner.Options{
			WorkingDir: dir,
			Jobs:       jobs,
			DryRun:     true,
		})
		require.NoError(t, err)
		return result
	}

	serial, parallel := run(1), run(8)
	assert.Equal(t, serial.Stats, parallel.Stats)
	require.Len(t, parallel.Files, len(serial.Files))
	for i := range serial.Files {
		assert.Equal(t, filepath.Base(serial.Files[i].Path), filepath.Base(parallel.Files[i].Path))
		assert.Equal(t, serial.Files[i].Result.Bytes, parallel.Files[i].Result.Bytes)
	}
}

func TestRunner_Run_ContextCancellation(t *testing.T) {
	t.Parallel()

	dir := tree(t, map[string]string{"a.md": "x\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.New(nil).Run(ctx, runner.Options{WorkingDir: dir})
	require.ErrorIs(t, err, context.Canceled)
}

func TestResult_NilSafe(t *testing.T) {
	t.Parallel()

	var r *runner.Result
	assert.False(t, r.HasFailures())
	assert.Nil(t, r.Failures())
	assert.True(t, r.Empty())
}
