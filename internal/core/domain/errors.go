package domain

import (
	"fmt"
	"strings"

	"go.trai.ch/zerr"
)

var (
	// ErrTransformFailed is returned when the stylesheet compiler rejects a source.
	ErrTransformFailed = zerr.New("stylesheet compilation failed")

	// ErrPostProcessFailed is returned when a post-processing stage exits non-zero or cannot run.
	ErrPostProcessFailed = zerr.New("post-processing failed")

	// ErrWatchSubscriptionFailed is returned when file system notifications cannot be set up.
	ErrWatchSubscriptionFailed = zerr.New("failed to subscribe to file system changes")

	// ErrSourceNotFound is returned when a source file does not exist.
	ErrSourceNotFound = zerr.New("source file not found")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when the configuration fails validation.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrWatchRequiresCache is returned when watching is enabled without the cache.
	ErrWatchRequiresCache = zerr.New("watch requires cache to be enabled")

	// ErrInvalidOutputStyle is returned for an unknown output style.
	ErrInvalidOutputStyle = zerr.New("invalid output style, expected 'nested', 'expanded', 'compact' or 'compressed'")

	// ErrInvalidInputSyntax is returned for an unknown input syntax.
	ErrInvalidInputSyntax = zerr.New("invalid input syntax, expected 'scss' or 'sass'")

	// ErrEmptyStage is returned when a post-processing stage has no executable.
	ErrEmptyStage = zerr.New("post-processing stage has no executable")

	// ErrServerFailed is returned when the HTTP server stops with an error.
	ErrServerFailed = zerr.New("http server failed")
)

// PostProcessError reports a post-processing stage that exited unsuccessfully.
type PostProcessError struct {
	// Command is the executable of the failing stage.
	Command string
	// ExitCode is the process exit status, or -1 when the process never ran to completion.
	ExitCode int
	// Stderr holds whatever the process wrote to its error stream.
	Stderr string
	// Err is the underlying cause.
	Err error
}

func (e *PostProcessError) Error() string {
	msg := fmt.Sprintf("post-processor %q failed with exit code %d", e.Command, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *PostProcessError) Unwrap() error {
	return e.Err
}

// Is makes every PostProcessError match ErrPostProcessFailed.
func (e *PostProcessError) Is(target error) bool {
	return target == ErrPostProcessFailed
}
