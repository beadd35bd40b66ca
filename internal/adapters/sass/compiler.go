// Package sass compiles stylesheet sources by invoking the sass command line compiler.
package sass

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"go.trai.ch/sassy/internal/core/domain"
	"go.trai.ch/sassy/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Transformer = (*Compiler)(nil)

// Compiler implements ports.Transformer on top of the sass executable.
type Compiler struct {
	command []string
	opts    domain.SassOptions
	logger  ports.Logger
	tracer  ports.Tracer
}

// NewCompiler creates a Compiler. The options are fixed for its lifetime.
// Options the compiler cannot honour are reported once as warnings.
func NewCompiler(opts domain.SassOptions, logger ports.Logger, tracer ports.Tracer) *Compiler {
	command := strings.Fields(opts.Executable)
	if len(command) == 0 {
		command = []string{domain.DefaultSassExecutable}
	}
	for _, option := range Unsupported(opts) {
		logger.Warn("sass option has no effect: " + option)
	}
	return &Compiler{
		command: command,
		opts:    opts,
		logger:  logger,
		tracer:  tracer,
	}
}

// Transform compiles the source at path and returns the CSS written to stdout.
func (c *Compiler) Transform(ctx context.Context, path string) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "sass.transform")
	defer span.End()
	span.SetAttribute("path", path)

	if _, err := os.Stat(path); err != nil {
		err = errors.Join(domain.ErrTransformFailed, domain.ErrSourceNotFound, zerr.With(zerr.Wrap(err, "stat source"), "path", path))
		span.RecordError(err)
		return nil, err
	}

	args := append(append([]string{}, c.command[1:]...), Args(c.opts, path)...)
	cmd := exec.CommandContext(ctx, c.command[0], args...) //nolint:gosec // configured compiler

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "sass exited unsuccessfully"
		}
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		err = zerr.With(zerr.With(zerr.Wrap(err, msg), "path", path), "exit_code", exitCode)
		err = errors.Join(domain.ErrTransformFailed, err)
		span.RecordError(err)
		return nil, err
	}

	if warnings := strings.TrimSpace(stderr.String()); warnings != "" {
		c.logger.Warn(path + ": " + warnings)
	}

	span.SetAttribute("bytes", stdout.Len())
	return stdout.Bytes(), nil
}

// Args builds the compiler arguments for one source.
// Output goes to stdout, so source maps can only be embedded.
func Args(opts domain.SassOptions, path string) []string {
	args := []string{"--style=" + cliStyle(opts.OutputStyle)}

	if opts.InputSyntax == domain.SyntaxSass {
		args = append(args, "--indented")
	}

	for _, dir := range opts.IncludePaths {
		args = append(args, "--load-path="+dir)
	}

	if opts.GenerateSourceMap && opts.EmbedSourceMapInCSS {
		args = append(args, "--embed-source-map")
		if opts.EmbedSourceContentsInSourceMap {
			args = append(args, "--embed-sources")
		}
	} else {
		args = append(args, "--no-source-map")
	}

	return append(args, path)
}

// Unsupported lists the options set to values the sass command line cannot honour.
// They are accepted but have no effect on the output.
func Unsupported(opts domain.SassOptions) []string {
	var ignored []string
	if opts.Precision != domain.DefaultPrecision {
		ignored = append(ignored, "precision="+strconv.Itoa(opts.Precision)+" (the compiler uses a fixed precision)")
	}
	if opts.GenerateSourceComments {
		ignored = append(ignored, "generate_source_comments (the compiler cannot emit source comments)")
	}
	if opts.GenerateSourceMap && !opts.EmbedSourceMapInCSS {
		ignored = append(ignored, "generate_source_map without embed_source_map_in_css (maps can only be embedded)")
	}
	if !opts.OmitSourceMappingURL {
		ignored = append(ignored, "omit_source_mapping_url=false (a mapping URL is only written for embedded maps)")
	}
	return ignored
}

// cliStyle maps legacy style names onto the two styles the compiler knows.
func cliStyle(style domain.OutputStyle) string {
	switch style {
	case domain.StyleNested, domain.StyleExpanded:
		return string(domain.StyleExpanded)
	default:
		return string(domain.StyleCompressed)
	}
}
