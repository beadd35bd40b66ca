package domain

import "time"

const (
	// DefaultRoot is the content directory served when none is configured.
	DefaultRoot = "."

	// DefaultListen is the default HTTP listen address.
	DefaultListen = ":8080"

	// DefaultDebounce is the window used to coalesce file system events into one batch.
	DefaultDebounce = 50 * time.Millisecond

	// DefaultExpiresAfter is the freshness horizon sent in the Expires header.
	DefaultExpiresAfter = 3 * time.Hour

	// DefaultSassExecutable is the stylesheet compiler looked up on PATH.
	DefaultSassExecutable = "sass"

	// DefaultPrecision is the numeric precision of compiled output.
	DefaultPrecision = 5

	// DefaultAutoprefixerPath is the autoprefixer command line, split on whitespace.
	DefaultAutoprefixerPath = "postcss -u autoprefixer"

	// DefaultAutoprefixBrowsers is the browser query handed to the autoprefixer.
	DefaultAutoprefixBrowsers = "last 2 versions, ie 10"

	// DefaultConfigFile is the config file looked up in the working directory.
	DefaultConfigFile = "sassy.yaml"

	// ContentTypeCSS is the media type of every compiled response.
	ContentTypeCSS = "text/css"
)
