package runner

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/rtjson/internal/logging"
	"github.com/yaklabco/rtjson/pkg/compiler"
	"github.com/yaklabco/rtjson/pkg/config"
	"github.com/yaklabco/rtjson/pkg/escape"
	"github.com/yaklabco/rtjson/pkg/fsutil"
	"github.com/yaklabco/rtjson/pkg/langdetect"
	"github.com/yaklabco/rtjson/pkg/parser/goldmark"
	"github.com/yaklabco/rtjson/pkg/richtext"
	"github.com/yaklabco/rtjson/pkg/rtjson"
)

// Pipeline turns Markdown into RTJSON according to a configuration. A
// Pipeline is safe for concurrent use; every call compiles with its own
// Compiler.
type Pipeline struct {
	parser     *goldmark.Parser
	compile    []compiler.Option
	indent     int
	suffix     string
	logger     *log.Logger
	checkRange bool
}

// NewPipeline builds a pipeline for cfg. A nil cfg means defaults and a nil
// logger means silent.
func NewPipeline(cfg *config.Config, logger *log.Logger) *Pipeline {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	var escaper compiler.Escaper = escape.None
	if cfg.EscapeTextEnabled() {
		escaper = escape.Default
	}

	opts := []compiler.Option{compiler.WithEscaper(escaper), compiler.WithLogger(logger)}
	if cfg.DetectCodeLanguageEnabled() {
		opts = append(opts, compiler.WithLanguageDetector(langdetect.New()))
	}

	return &Pipeline{
		parser: goldmark.New(string(cfg.Flavor),
			goldmark.WithEntityLinks(cfg.EntityLinksEnabled()),
			goldmark.WithSpoilers(cfg.SpoilersEnabled()),
		),
		compile:    opts,
		indent:     cfg.Indent,
		suffix:     cfg.Suffix(),
		logger:     logger,
		checkRange: logger != nil && logger.GetLevel() <= log.DebugLevel,
	}
}

// Compile parses content and compiles it into a document.
func (p *Pipeline) Compile(ctx context.Context, content []byte) (*richtext.Document, error) {
	stream, err := p.parser.Events(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	doc, err := compiler.New(p.compile...).Compile(stream)
	// A cancelled stream ends early, so its error explains any compile error.
	if serr := stream.Err(); serr != nil {
		return nil, fmt.Errorf("parse: %w", serr)
	}
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	if p.checkRange {
		for _, rerr := range richtext.Validate(doc) {
			p.logger.Debug("invalid format range", logging.FieldError, rerr)
		}
	}

	return doc, nil
}

// Encode returns the RTJSON encoding of doc followed by a newline.
func (p *Pipeline) Encode(doc *richtext.Document) ([]byte, error) {
	data, err := rtjson.Marshal(doc, rtjson.WithIndent(p.indent))
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// ProcessFile compiles the file at path and, unless dryRun is set, writes
// the encoding next to it.
func (p *Pipeline) ProcessFile(ctx context.Context, path string, dryRun bool) (*FileResult, error) {
	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	doc, err := p.Compile(ctx, content)
	if err != nil {
		return nil, err
	}

	data, err := p.Encode(doc)
	if err != nil {
		return nil, err
	}

	result := &FileResult{
		Output: fsutil.OutputPath(path, p.suffix),
		Blocks: len(doc.Blocks),
		Bytes:  len(data),
	}
	if dryRun {
		result.Status = fsutil.Unchanged
		return result, nil
	}

	status, err := fsutil.WriteAtomicIfChanged(ctx, result.Output, data, 0)
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", result.Output, err)
	}
	result.Status = status
	result.Written = status == fsutil.Written

	return result, nil
}
