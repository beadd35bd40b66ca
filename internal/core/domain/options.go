package domain

import (
	"errors"
	"strings"
	"time"

	"go.trai.ch/zerr"
)

// OutputStyle selects the formatting of compiled CSS.
type OutputStyle string

// Supported output styles.
const (
	StyleNested     OutputStyle = "nested"
	StyleExpanded   OutputStyle = "expanded"
	StyleCompact    OutputStyle = "compact"
	StyleCompressed OutputStyle = "compressed"
)

// InputSyntax selects the stylesheet dialect.
type InputSyntax string

// Supported input syntaxes.
const (
	SyntaxSCSS InputSyntax = "scss"
	SyntaxSass InputSyntax = "sass"
)

// Stage describes one external post-processing step.
// Args may contain the InPlaceholder and OutPlaceholder tokens, in which case
// the stage reads and writes temporary files instead of its standard streams.
type Stage struct {
	Executable string   `yaml:"executable"`
	Args       []string `yaml:"args"`
}

// Placeholders recognized in Stage.Args.
const (
	InPlaceholder  = "{in}"
	OutPlaceholder = "{out}"
)

// UsesFiles reports whether the stage exchanges data through temporary files.
func (s Stage) UsesFiles() bool {
	for _, arg := range s.Args {
		if strings.Contains(arg, InPlaceholder) || strings.Contains(arg, OutPlaceholder) {
			return true
		}
	}
	return false
}

// String renders the stage as a command line for logs.
func (s Stage) String() string {
	return strings.TrimSpace(s.Executable + " " + strings.Join(s.Args, " "))
}

// SassOptions are passed through to the stylesheet compiler.
// They are fixed at startup and apply to every compilation.
type SassOptions struct {
	Executable                     string      `yaml:"sass_path"`
	IncludePaths                   []string    `yaml:"include_paths"`
	InputSyntax                    InputSyntax `yaml:"input_syntax"`
	OutputStyle                    OutputStyle `yaml:"output_style"`
	Precision                      int         `yaml:"precision"`
	GenerateSourceMap              bool        `yaml:"generate_source_map"`
	EmbedSourceMapInCSS            bool        `yaml:"embed_source_map_in_css"`
	EmbedSourceContentsInSourceMap bool        `yaml:"embed_source_contents_in_source_map"`
	GenerateSourceComments         bool        `yaml:"generate_source_comments"`
	OmitSourceMappingURL           bool        `yaml:"omit_source_mapping_url"`
}

// Options is the complete, validated configuration of the server.
type Options struct {
	Root   string `yaml:"root"`
	Listen string `yaml:"listen"`

	Cache    bool          `yaml:"cache"`
	Watch    bool          `yaml:"watch"`
	Debounce time.Duration `yaml:"debounce"`

	Autoprefix         bool    `yaml:"autoprefix"`
	AutoprefixerPath   string  `yaml:"autoprefixer_path"`
	AutoprefixBrowsers string  `yaml:"autoprefix_browsers"`
	PostProcessors     []Stage `yaml:"post_processors"`

	Sass SassOptions `yaml:"sass"`

	Gzip         bool          `yaml:"gzip"`
	Metrics      bool          `yaml:"metrics"`
	TraceStdout  bool          `yaml:"trace_stdout"`
	ExpiresAfter time.Duration `yaml:"expires_after"`
	LogJSON      bool          `yaml:"log_json"`
}

// DefaultOptions returns the configuration used when nothing is set.
func DefaultOptions() Options {
	return Options{
		Root:               DefaultRoot,
		Listen:             DefaultListen,
		Debounce:           DefaultDebounce,
		AutoprefixerPath:   DefaultAutoprefixerPath,
		AutoprefixBrowsers: DefaultAutoprefixBrowsers,
		ExpiresAfter:       DefaultExpiresAfter,
		Sass: SassOptions{
			Executable:           DefaultSassExecutable,
			InputSyntax:          SyntaxSCSS,
			OutputStyle:          StyleCompact,
			Precision:            DefaultPrecision,
			OmitSourceMappingURL: true,
		},
	}
}

// Validate checks option combinations and value ranges.
func (o *Options) Validate() error {
	var errs error

	if o.Watch && !o.Cache {
		errs = errors.Join(errs, ErrWatchRequiresCache)
	}

	switch o.Sass.OutputStyle {
	case StyleNested, StyleExpanded, StyleCompact, StyleCompressed:
	default:
		errs = errors.Join(errs, zerr.With(zerr.Wrap(ErrInvalidOutputStyle, "unsupported value"), "output_style", string(o.Sass.OutputStyle)))
	}

	switch o.Sass.InputSyntax {
	case SyntaxSCSS, SyntaxSass:
	default:
		errs = errors.Join(errs, zerr.With(zerr.Wrap(ErrInvalidInputSyntax, "unsupported value"), "input_syntax", string(o.Sass.InputSyntax)))
	}

	if o.Sass.Precision < 0 {
		errs = errors.Join(errs, zerr.With(zerr.New("precision must not be negative"), "precision", o.Sass.Precision))
	}
	if o.Debounce < 0 {
		errs = errors.Join(errs, zerr.With(zerr.New("debounce must not be negative"), "debounce", o.Debounce.String()))
	}
	if o.ExpiresAfter < 0 {
		errs = errors.Join(errs, zerr.With(zerr.New("expires_after must not be negative"), "expires_after", o.ExpiresAfter.String()))
	}
	for i, stage := range o.PostProcessors {
		if strings.TrimSpace(stage.Executable) == "" {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(ErrEmptyStage, "post_processors"), "stage", i))
		}
	}

	if errs != nil {
		return errors.Join(ErrInvalidConfig, errs)
	}
	return nil
}

// Stages returns the ordered post-processing pipeline described by the options.
// The autoprefixer stage, when enabled, always runs first.
func (o *Options) Stages() []Stage {
	var stages []Stage
	if o.Autoprefix {
		fields := strings.Fields(o.AutoprefixerPath)
		if len(fields) > 0 {
			args := append([]string{}, fields[1:]...)
			args = append(args, "-b", o.AutoprefixBrowsers)
			stages = append(stages, Stage{Executable: fields[0], Args: args})
		}
	}
	return append(stages, o.PostProcessors...)
}
