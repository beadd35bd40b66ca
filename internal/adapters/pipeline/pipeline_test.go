package pipeline_test

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sassy/internal/adapters/pipeline"
	"go.trai.ch/sassy/internal/adapters/telemetry"
	"go.trai.ch/sassy/internal/core/domain"
)

func newPipeline(t *testing.T, stages ...domain.Stage) (*pipeline.Pipeline, string) {
	t.Helper()
	tmp := t.TempDir()
	return pipeline.New(stages, telemetry.NewNoOpTracer(), pipeline.WithTempDir(tmp)), tmp
}

func TestProcess_NoStages(t *testing.T) {
	p, _ := newPipeline(t)
	input := []byte("a{color:red}")

	out, err := p.Process(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, input, out)
	assert.Zero(t, p.Len())
}

func TestProcess_Passthrough(t *testing.T) {
	p, _ := newPipeline(t, domain.Stage{Executable: "cat"})

	out, err := p.Process(context.Background(), []byte("a{color:red}"))
	require.NoError(t, err)
	assert.Equal(t, "a{color:red}", string(out))
}

func TestProcess_ChainsInOrder(t *testing.T) {
	p, _ := newPipeline(t,
		domain.Stage{Executable: "tr", Args: []string{"a-z", "A-Z"}},
		domain.Stage{Executable: "sed", Args: []string{"s/RED/blue/"}},
	)

	out, err := p.Process(context.Background(), []byte("a{color:red}"))
	require.NoError(t, err)
	assert.Equal(t, "A{COLOR:blue}", string(out))
}

func TestProcess_ExitCode(t *testing.T) {
	p, _ := newPipeline(t,
		domain.Stage{Executable: "cat"},
		domain.Stage{Executable: "sh", Args: []string{"-c", "cat >/dev/null; echo 'bad input' >&2; exit 3"}},
	)

	out, err := p.Process(context.Background(), []byte("a{}"))
	require.Error(t, err)
	assert.Nil(t, out)
	require.ErrorIs(t, err, domain.ErrPostProcessFailed)

	var ppErr *domain.PostProcessError
	require.ErrorAs(t, err, &ppErr)
	assert.Equal(t, 3, ppErr.ExitCode)
	assert.Equal(t, "sh", ppErr.Command)
	assert.Equal(t, "bad input\n", ppErr.Stderr)
}

func TestProcess_ExitWithoutReadingInput(t *testing.T) {
	p, _ := newPipeline(t, domain.Stage{Executable: "sh", Args: []string{"-c", "exit 2"}})

	_, err := p.Process(context.Background(), bytes.Repeat([]byte("x"), 1<<20))

	var ppErr *domain.PostProcessError
	require.ErrorAs(t, err, &ppErr)
	assert.Equal(t, 2, ppErr.ExitCode)
}

func TestProcess_MissingExecutable(t *testing.T) {
	p, _ := newPipeline(t, domain.Stage{Executable: "/nonexistent/postcss"})

	_, err := p.Process(context.Background(), []byte("a{}"))

	var ppErr *domain.PostProcessError
	require.ErrorAs(t, err, &ppErr)
	assert.Equal(t, -1, ppErr.ExitCode)
}

func TestProcess_LargePayload(t *testing.T) {
	p, _ := newPipeline(t, domain.Stage{Executable: "cat"}, domain.Stage{Executable: "cat"})
	input := bytes.Repeat([]byte(".rule{margin:0}\n"), 8<<20/16)

	out, err := p.Process(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, len(input), len(out))
	assert.True(t, bytes.Equal(input, out))
}

func TestProcess_TempFiles(t *testing.T) {
	p, tmp := newPipeline(t, domain.Stage{
		Executable: "sh",
		Args:       []string{"-c", `tr a-z A-Z < "$0" > "$1"`, domain.InPlaceholder, domain.OutPlaceholder},
	})

	out, err := p.Process(context.Background(), []byte("a{color:red}"))
	require.NoError(t, err)
	assert.Equal(t, "A{COLOR:RED}", string(out))

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary files are removed")
}

func TestProcess_TempFileInputStdout(t *testing.T) {
	p, _ := newPipeline(t, domain.Stage{Executable: "cat", Args: []string{domain.InPlaceholder}})

	out, err := p.Process(context.Background(), []byte("a{}"))
	require.NoError(t, err)
	assert.Equal(t, "a{}", string(out))
}

func TestProcess_TempFilesRemovedOnFailure(t *testing.T) {
	p, tmp := newPipeline(t, domain.Stage{
		Executable: "sh",
		Args:       []string{"-c", "exit 1", domain.InPlaceholder, domain.OutPlaceholder},
	})

	_, err := p.Process(context.Background(), []byte("a{}"))
	require.ErrorIs(t, err, domain.ErrPostProcessFailed)

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestProcess_MissingOutputFile(t *testing.T) {
	p, _ := newPipeline(t, domain.Stage{
		Executable: "true",
		Args:       []string{domain.OutPlaceholder},
	})

	_, err := p.Process(context.Background(), []byte("a{}"))
	assert.ErrorIs(t, err, domain.ErrPostProcessFailed)
}
