// Package pipeline runs compiled CSS through a chain of external processes.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/sassy/internal/core/domain"
	"go.trai.ch/sassy/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.PostProcessor = (*Pipeline)(nil)

// Pipeline implements ports.PostProcessor.
// Each stage reads the previous stage's output on stdin and writes its own
// result to stdout, unless its arguments name temporary files instead.
type Pipeline struct {
	stages  []domain.Stage
	tempDir string
	tracer  ports.Tracer
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTempDir sets the parent directory for stage temporary files.
func WithTempDir(dir string) Option {
	return func(p *Pipeline) {
		p.tempDir = dir
	}
}

// New creates a Pipeline running stages in order.
func New(stages []domain.Stage, tracer ports.Tracer, opts ...Option) *Pipeline {
	p := &Pipeline{
		stages: stages,
		tracer: tracer,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Len returns the number of stages.
func (p *Pipeline) Len() int {
	return len(p.stages)
}

// Process feeds input through every stage. With no stages the input is returned as is.
func (p *Pipeline) Process(ctx context.Context, input []byte) ([]byte, error) {
	data := input
	for i, stage := range p.stages {
		out, err := p.runStage(ctx, stage, data)
		if err != nil {
			return nil, zerr.With(zerr.With(zerr.Wrap(err, "post-processing stage failed"), "stage", i), "command", stage.String())
		}
		data = out
	}
	return data, nil
}

func (p *Pipeline) runStage(ctx context.Context, stage domain.Stage, input []byte) ([]byte, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.stage")
	defer span.End()
	span.SetAttribute("command", stage.String())
	span.SetAttribute("input_bytes", len(input))

	out, err := p.execStage(ctx, stage, input)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttribute("output_bytes", len(out))
	return out, nil
}

func (p *Pipeline) execStage(ctx context.Context, stage domain.Stage, input []byte) ([]byte, error) {
	if !stage.UsesFiles() {
		return run(ctx, stage.Executable, stage.Args, input)
	}

	dir, err := os.MkdirTemp(p.tempDir, "sassy-stage-*")
	if err != nil {
		return nil, &domain.PostProcessError{Command: stage.Executable, ExitCode: -1, Err: err}
	}
	defer func() {
		_ = os.RemoveAll(dir)
	}()

	inPath := filepath.Join(dir, "in.css")
	outPath := filepath.Join(dir, "out.css")
	if err := os.WriteFile(inPath, input, 0o600); err != nil {
		return nil, &domain.PostProcessError{Command: stage.Executable, ExitCode: -1, Err: err}
	}

	args, readsFile, writesFile := expand(stage.Args, inPath, outPath)
	stdin := input
	if readsFile {
		stdin = nil
	}

	stdout, err := run(ctx, stage.Executable, args, stdin)
	if err != nil {
		return nil, err
	}
	if !writesFile {
		return stdout, nil
	}

	out, err := os.ReadFile(outPath) //nolint:gosec // path inside our temp dir
	if err != nil {
		return nil, &domain.PostProcessError{Command: stage.Executable, Err: zerr.Wrap(err, "stage produced no output file")}
	}
	return out, nil
}

// expand substitutes the file placeholders and reports which ones were used.
func expand(args []string, inPath, outPath string) (expanded []string, readsFile, writesFile bool) {
	expanded = make([]string, len(args))
	for i, arg := range args {
		if strings.Contains(arg, domain.InPlaceholder) {
			readsFile = true
			arg = strings.ReplaceAll(arg, domain.InPlaceholder, inPath)
		}
		if strings.Contains(arg, domain.OutPlaceholder) {
			writesFile = true
			arg = strings.ReplaceAll(arg, domain.OutPlaceholder, outPath)
		}
		expanded[i] = arg
	}
	return expanded, readsFile, writesFile
}

// run starts one process, writes stdin while draining stdout, and waits for it.
// Both streams are serviced concurrently so large payloads cannot deadlock.
func run(ctx context.Context, name string, args []string, stdin []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec // configured post-processor

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	in, err := cmd.StdinPipe()
	if err != nil {
		return nil, &domain.PostProcessError{Command: name, ExitCode: -1, Err: err}
	}
	outPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &domain.PostProcessError{Command: name, ExitCode: -1, Err: err}
	}

	if err := cmd.Start(); err != nil {
		return nil, &domain.PostProcessError{Command: name, ExitCode: -1, Err: err}
	}

	var out bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		// A process may exit without consuming stdin; its exit status decides.
		_, _ = in.Write(stdin)
		_ = in.Close()
		return nil
	})
	g.Go(func() error {
		_, err := io.Copy(&out, outPipe)
		return err
	})
	copyErr := g.Wait()

	if err := cmd.Wait(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return nil, &domain.PostProcessError{
			Command:  name,
			ExitCode: exitCode,
			Stderr:   stderr.String(),
			Err:      err,
		}
	}
	if copyErr != nil {
		return nil, &domain.PostProcessError{Command: name, Stderr: stderr.String(), Err: copyErr}
	}

	return out.Bytes(), nil
}
