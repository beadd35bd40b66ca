// Package httpd serves compiled stylesheets over HTTP.
package httpd

import (
	"net/http"
	"time"
)

// Decision is the outcome of a conditional request check.
type Decision struct {
	// NotModified is true when the client copy is current and no body must be sent.
	NotModified bool
	// LastModified is the source modification time, truncated to whole seconds.
	LastModified time.Time
	// Expires is the freshness horizon for a full response.
	Expires time.Time
}

// Decide compares the source modification time with an If-Modified-Since value.
// A missing or malformed header never yields NotModified.
// HTTP dates carry whole seconds, so modTime is truncated before comparing.
func Decide(modTime time.Time, ifModifiedSince string, now time.Time, horizon time.Duration) Decision {
	modified := modTime.Truncate(time.Second)

	if ifModifiedSince != "" {
		if since, err := http.ParseTime(ifModifiedSince); err == nil && !modified.After(since) {
			return Decision{NotModified: true, LastModified: modified}
		}
	}

	return Decision{
		LastModified: modified,
		Expires:      now.Add(horizon),
	}
}

// SetHeaders writes the caching headers of a full response.
func (d Decision) SetHeaders(h http.Header) {
	if d.NotModified {
		return
	}
	h.Set("Expires", d.Expires.UTC().Format(http.TimeFormat))
	h.Set("Last-Modified", d.LastModified.UTC().Format(http.TimeFormat))
}
