package httpd_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/sassy/internal/adapters/httpd"
)

func TestDecide(t *testing.T) {
	modTime := time.Date(2026, 3, 14, 15, 9, 26, 535_000_000, time.UTC)
	now := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)
	horizon := 3 * time.Hour

	tests := []struct {
		name        string
		header      string
		notModified bool
	}{
		{name: "no header", header: ""},
		{name: "malformed header", header: "yesterday-ish"},
		{name: "client older", header: modTime.Add(-time.Second).Format(http.TimeFormat)},
		{name: "client equal", header: modTime.Format(http.TimeFormat), notModified: true},
		{name: "client newer", header: modTime.Add(time.Hour).Format(http.TimeFormat), notModified: true},
		{name: "rfc850 date", header: modTime.Add(time.Hour).Format("Monday, 02-Jan-06 15:04:05 GMT"), notModified: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := httpd.Decide(modTime, tt.header, now, horizon)
			assert.Equal(t, tt.notModified, d.NotModified)
			assert.Equal(t, modTime.Truncate(time.Second), d.LastModified)
			if !tt.notModified {
				assert.Equal(t, now.Add(horizon), d.Expires)
			}
		})
	}
}

func TestDecision_SetHeaders(t *testing.T) {
	modTime := time.Date(2026, 3, 14, 15, 9, 26, 0, time.FixedZone("CET", 3600))
	now := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)

	h := http.Header{}
	httpd.Decide(modTime, "", now, 3*time.Hour).SetHeaders(h)

	assert.Equal(t, "Sun, 15 Mar 2026 11:00:00 GMT", h.Get("Expires"))
	assert.Equal(t, "Sat, 14 Mar 2026 14:09:26 GMT", h.Get("Last-Modified"))

	h = http.Header{}
	httpd.Decide(modTime, modTime.Format(http.TimeFormat), now, 3*time.Hour).SetHeaders(h)
	assert.Empty(t, h)
}
