// Package config loads the sassy.yaml configuration file.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/sassy/internal/core/domain"
	"go.trai.ch/sassy/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*FileConfigLoader)(nil)

// FileConfigLoader implements ports.ConfigLoader on YAML files.
type FileConfigLoader struct {
	logger ports.Logger
}

// NewLoader creates a new FileConfigLoader.
func NewLoader(logger ports.Logger) *FileConfigLoader {
	return &FileConfigLoader{logger: logger}
}

// Load reads the configuration at path on top of domain.DefaultOptions.
// An empty path means DefaultConfigFile in the working directory, which may be absent.
func (l *FileConfigLoader) Load(path string) (*domain.Options, error) {
	explicit := path != ""
	if !explicit {
		path = domain.DefaultConfigFile
	}

	opts, err := Load(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			defaults := domain.DefaultOptions()
			return &defaults, nil
		}
		return nil, err
	}

	l.logger.Info("loaded configuration from " + path)
	return opts, nil
}

// Load parses the configuration file at path.
// Unknown keys are rejected. Relative paths are resolved against the file's directory.
func Load(path string) (*domain.Options, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user provided config path
	if err != nil {
		return nil, errors.Join(domain.ErrConfigReadFailed, zerr.With(err, "path", path))
	}

	file := fromOptions(domain.DefaultOptions())
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Join(domain.ErrConfigParseFailed, zerr.With(err, "path", path))
	}

	opts, err := file.toOptions(filepath.Dir(path))
	if err != nil {
		return nil, errors.Join(domain.ErrConfigParseFailed, zerr.With(err, "path", path))
	}
	return opts, nil
}
