package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sassy/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func newPretty(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	l := logger.New()
	l.SetJSON(false)
	l.SetOutput(&buf)
	return l, &buf
}

func TestLogger_PrettyInfoAndWarn(t *testing.T) {
	l, buf := newPretty(t)

	l.Info("watching /srv/www")
	l.Warn("post-processor slow")

	out := buf.String()
	assert.Contains(t, out, "watching /srv/www")
	assert.Contains(t, out, "! post-processor slow")
}

func TestLogger_PrettyErrorChain(t *testing.T) {
	l, buf := newPretty(t)

	err := zerr.Wrap(zerr.Wrap(errors.New("exit status 1"), "sass failed"), "compile /srv/www/a.scss")
	l.Error(err)

	out := buf.String()
	assert.Contains(t, out, "Error: compile /srv/www/a.scss")
	assert.Contains(t, out, "Caused by:")
	assert.Contains(t, out, "→ sass failed")
	assert.Contains(t, out, "→ exit status 1")
	assert.Less(t, strings.Index(out, "sass failed"), strings.Index(out, "exit status 1"))
}

func TestLogger_ErrorNil(t *testing.T) {
	l, buf := newPretty(t)
	l.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New()
	l.SetOutput(&buf)
	l.SetJSON(true)

	l.Error(errors.New("boom"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "operation failed", record["msg"])
	assert.Equal(t, "boom", record["error"])
}

func TestLogger_SetOutputKeepsMode(t *testing.T) {
	l := logger.New()
	l.SetJSON(true)

	var buf bytes.Buffer
	l.SetOutput(&buf)
	l.Info("hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "hello", record["msg"])
}
