package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/sassy/internal/core/domain"
)

// addCompileFlags registers the flags shared by serve and compile.
func addCompileFlags(cmd *cobra.Command) {
	defaults := domain.DefaultOptions()
	f := cmd.Flags()
	f.String("sass-path", defaults.Sass.Executable, "Sass compiler executable")
	f.StringSliceP("include-path", "I", nil, "Additional load path for @import and @use (repeatable)")
	f.String("input-syntax", string(defaults.Sass.InputSyntax), "Source syntax: scss or sass")
	f.String("output-style", string(defaults.Sass.OutputStyle), "Output style: nested, expanded, compact or compressed")
	f.Int("precision", defaults.Sass.Precision, "Numeric precision (fixed by the sass CLI, has no effect)")
	f.Bool("source-map", false, "Generate source maps")
	f.Bool("embed-source-map", false, "Embed the source map in the CSS")
	f.Bool("embed-sources", false, "Embed source contents in the source map")
	f.Bool("source-comments", false, "Emit source comments (unsupported by the sass CLI, has no effect)")
	f.Bool("autoprefix", false, "Run the autoprefixer on compiled CSS")
	f.String("autoprefixer-path", defaults.AutoprefixerPath, "Autoprefixer command line")
	f.String("autoprefix-browsers", defaults.AutoprefixBrowsers, "Browser targets passed to the autoprefixer")
	f.Bool("trace-stdout", false, "Write trace spans to stdout")
	f.Bool("log-json", false, "Write logs as JSON")
}

// addServeFlags registers the flags only meaningful for the server.
func addServeFlags(cmd *cobra.Command) {
	defaults := domain.DefaultOptions()
	f := cmd.Flags()
	f.StringP("root", "r", defaults.Root, "Content directory to serve")
	f.StringP("listen", "l", defaults.Listen, "Address to listen on")
	f.Bool("cache", false, "Keep compiled stylesheets in memory")
	f.BoolP("watch", "w", false, "Recompile cached stylesheets when sources change (requires --cache)")
	f.Duration("debounce", defaults.Debounce, "Quiet period before reacting to file changes")
	f.Bool("gzip", false, "Compress responses")
	f.Bool("metrics", false, "Expose Prometheus metrics on /metrics")
	f.Duration("expires-after", defaults.ExpiresAfter, "Freshness horizon of the Expires header")
}

// applyFlags overrides opts with every flag set explicitly on the command line.
//
//nolint:cyclop,gocognit // flat list of overrides
func applyFlags(cmd *cobra.Command, opts *domain.Options) {
	f := cmd.Flags()
	changed := func(name string) bool {
		return f.Lookup(name) != nil && f.Changed(name)
	}

	if changed("sass-path") {
		opts.Sass.Executable, _ = f.GetString("sass-path")
	}
	if changed("include-path") {
		opts.Sass.IncludePaths, _ = f.GetStringSlice("include-path")
	}
	if changed("input-syntax") {
		v, _ := f.GetString("input-syntax")
		opts.Sass.InputSyntax = domain.InputSyntax(v)
	}
	if changed("output-style") {
		v, _ := f.GetString("output-style")
		opts.Sass.OutputStyle = domain.OutputStyle(v)
	}
	if changed("precision") {
		opts.Sass.Precision, _ = f.GetInt("precision")
	}
	if changed("source-map") {
		opts.Sass.GenerateSourceMap, _ = f.GetBool("source-map")
	}
	if changed("embed-source-map") {
		opts.Sass.EmbedSourceMapInCSS, _ = f.GetBool("embed-source-map")
	}
	if changed("embed-sources") {
		opts.Sass.EmbedSourceContentsInSourceMap, _ = f.GetBool("embed-sources")
	}
	if changed("source-comments") {
		opts.Sass.GenerateSourceComments, _ = f.GetBool("source-comments")
	}
	if changed("autoprefix") {
		opts.Autoprefix, _ = f.GetBool("autoprefix")
	}
	if changed("autoprefixer-path") {
		opts.AutoprefixerPath, _ = f.GetString("autoprefixer-path")
	}
	if changed("autoprefix-browsers") {
		opts.AutoprefixBrowsers, _ = f.GetString("autoprefix-browsers")
	}
	if changed("trace-stdout") {
		opts.TraceStdout, _ = f.GetBool("trace-stdout")
	}
	if changed("log-json") {
		opts.LogJSON, _ = f.GetBool("log-json")
	}
	if changed("root") {
		opts.Root, _ = f.GetString("root")
	}
	if changed("listen") {
		opts.Listen, _ = f.GetString("listen")
	}
	if changed("cache") {
		opts.Cache, _ = f.GetBool("cache")
	}
	if changed("watch") {
		opts.Watch, _ = f.GetBool("watch")
	}
	if changed("debounce") {
		opts.Debounce, _ = f.GetDuration("debounce")
	}
	if changed("gzip") {
		opts.Gzip, _ = f.GetBool("gzip")
	}
	if changed("metrics") {
		opts.Metrics, _ = f.GetBool("metrics")
	}
	if changed("expires-after") {
		opts.ExpiresAfter, _ = f.GetDuration("expires-after")
	}
}

// loadOptions reads the config file named by --config and applies flag overrides.
func (c *CLI) loadOptions(cmd *cobra.Command) (*domain.Options, error) {
	path, _ := cmd.Flags().GetString("config")
	opts, err := c.app.LoadOptions(path)
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, opts)
	return opts, nil
}
