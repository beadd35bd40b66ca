package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/sassy/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Sassyfile represents the structure of the sassy.yaml configuration file.
type Sassyfile struct {
	Root   string `yaml:"root"`
	Listen string `yaml:"listen"`

	Cache    bool   `yaml:"cache"`
	Watch    bool   `yaml:"watch"`
	Debounce string `yaml:"debounce"`

	Autoprefix         bool       `yaml:"autoprefix"`
	AutoprefixerPath   string     `yaml:"autoprefixer_path"`
	AutoprefixBrowsers string     `yaml:"autoprefix_browsers"`
	PostProcessors     []StageDTO `yaml:"post_processors"`

	Sass SassDTO `yaml:"sass"`

	Gzip         bool   `yaml:"gzip"`
	Metrics      bool   `yaml:"metrics"`
	TraceStdout  bool   `yaml:"trace_stdout"`
	ExpiresAfter string `yaml:"expires_after"`
	LogJSON      bool   `yaml:"log_json"`
}

// StageDTO represents one post-processing stage in the configuration.
type StageDTO struct {
	Executable string   `yaml:"executable"`
	Args       []string `yaml:"args"`
}

// SassDTO represents the compiler options in the configuration.
type SassDTO struct {
	Executable                     string   `yaml:"sass_path"`
	IncludePaths                   PathList `yaml:"include_paths"`
	InputSyntax                    string   `yaml:"input_syntax"`
	OutputStyle                    string   `yaml:"output_style"`
	Precision                      int      `yaml:"precision"`
	GenerateSourceMap              bool     `yaml:"generate_source_map"`
	EmbedSourceMapInCSS            bool     `yaml:"embed_source_map_in_css"`
	EmbedSourceContentsInSourceMap bool     `yaml:"embed_source_contents_in_source_map"`
	GenerateSourceComments         bool     `yaml:"generate_source_comments"`
	OmitSourceMappingURL           bool     `yaml:"omit_source_mapping_url"`
}

// PathList accepts either a YAML sequence or a single string joined with the
// OS path list separator.
type PathList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *PathList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*p = SplitPathList(node.Value)
		return nil
	}
	var list []string
	if err := node.Decode(&list); err != nil {
		return err
	}
	*p = list
	return nil
}

// SplitPathList splits s on the OS path list separator, dropping empty parts.
func SplitPathList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, string(os.PathListSeparator)) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// fromOptions seeds a file schema with opts so absent keys keep their values.
func fromOptions(opts domain.Options) Sassyfile {
	stages := make([]StageDTO, 0, len(opts.PostProcessors))
	for _, s := range opts.PostProcessors {
		stages = append(stages, StageDTO{Executable: s.Executable, Args: s.Args})
	}
	return Sassyfile{
		Root:               opts.Root,
		Listen:             opts.Listen,
		Cache:              opts.Cache,
		Watch:              opts.Watch,
		Debounce:           opts.Debounce.String(),
		Autoprefix:         opts.Autoprefix,
		AutoprefixerPath:   opts.AutoprefixerPath,
		AutoprefixBrowsers: opts.AutoprefixBrowsers,
		PostProcessors:     stages,
		Sass: SassDTO{
			Executable:                     opts.Sass.Executable,
			IncludePaths:                   opts.Sass.IncludePaths,
			InputSyntax:                    string(opts.Sass.InputSyntax),
			OutputStyle:                    string(opts.Sass.OutputStyle),
			Precision:                      opts.Sass.Precision,
			GenerateSourceMap:              opts.Sass.GenerateSourceMap,
			EmbedSourceMapInCSS:            opts.Sass.EmbedSourceMapInCSS,
			EmbedSourceContentsInSourceMap: opts.Sass.EmbedSourceContentsInSourceMap,
			GenerateSourceComments:         opts.Sass.GenerateSourceComments,
			OmitSourceMappingURL:           opts.Sass.OmitSourceMappingURL,
		},
		Gzip:         opts.Gzip,
		Metrics:      opts.Metrics,
		TraceStdout:  opts.TraceStdout,
		ExpiresAfter: opts.ExpiresAfter.String(),
		LogJSON:      opts.LogJSON,
	}
}

// toOptions converts the schema into domain options.
// Relative root and include paths are resolved against baseDir.
func (f *Sassyfile) toOptions(baseDir string) (*domain.Options, error) {
	debounce, err := time.ParseDuration(f.Debounce)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "invalid duration"), "debounce", f.Debounce)
	}
	expires, err := time.ParseDuration(f.ExpiresAfter)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "invalid duration"), "expires_after", f.ExpiresAfter)
	}

	stages := make([]domain.Stage, 0, len(f.PostProcessors))
	for _, s := range f.PostProcessors {
		stages = append(stages, domain.Stage{Executable: s.Executable, Args: s.Args})
	}

	includes := make([]string, 0, len(f.Sass.IncludePaths))
	for _, dir := range f.Sass.IncludePaths {
		includes = append(includes, resolve(baseDir, dir))
	}

	return &domain.Options{
		Root:               resolve(baseDir, f.Root),
		Listen:             f.Listen,
		Cache:              f.Cache,
		Watch:              f.Watch,
		Debounce:           debounce,
		Autoprefix:         f.Autoprefix,
		AutoprefixerPath:   f.AutoprefixerPath,
		AutoprefixBrowsers: f.AutoprefixBrowsers,
		PostProcessors:     stages,
		Sass: domain.SassOptions{
			Executable:                     f.Sass.Executable,
			IncludePaths:                   includes,
			InputSyntax:                    domain.InputSyntax(f.Sass.InputSyntax),
			OutputStyle:                    domain.OutputStyle(f.Sass.OutputStyle),
			Precision:                      f.Sass.Precision,
			GenerateSourceMap:              f.Sass.GenerateSourceMap,
			EmbedSourceMapInCSS:            f.Sass.EmbedSourceMapInCSS,
			EmbedSourceContentsInSourceMap: f.Sass.EmbedSourceContentsInSourceMap,
			GenerateSourceComments:         f.Sass.GenerateSourceComments,
			OmitSourceMappingURL:           f.Sass.OmitSourceMappingURL,
		},
		Gzip:         f.Gzip,
		Metrics:      f.Metrics,
		TraceStdout:  f.TraceStdout,
		ExpiresAfter: expires,
		LogJSON:      f.LogJSON,
	}, nil
}

func resolve(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}
