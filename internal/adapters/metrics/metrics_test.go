package metrics_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sassy/internal/adapters/metrics"
)

func TestPrometheus_Counters(t *testing.T) {
	m := metrics.New()

	m.CacheHit()
	m.CacheHit()
	m.CacheMiss()
	m.Compiled(20*time.Millisecond, nil)
	m.Compiled(5*time.Millisecond, errors.New("boom"))
	m.Invalidated(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)

	assert.Contains(t, text, "sassy_cache_hits_total 2")
	assert.Contains(t, text, "sassy_cache_misses_total 1")
	assert.Contains(t, text, `sassy_compilations_total{result="success"} 1`)
	assert.Contains(t, text, `sassy_compilations_total{result="failure"} 1`)
	assert.Contains(t, text, "sassy_compile_duration_seconds_count 2")
	assert.Contains(t, text, "sassy_invalidations_total 1")
	assert.Contains(t, text, "sassy_recompiled_keys_total 3")
}

func TestPrometheus_Scrape(t *testing.T) {
	m := metrics.New()
	m.CacheMiss()
	m.Invalidated(2)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	expected := `
# HELP sassy_cache_misses_total Total number of requests that required a compilation.
# TYPE sassy_cache_misses_total counter
sassy_cache_misses_total 1
# HELP sassy_recompiled_keys_total Total number of cache entries recompiled after a change.
# TYPE sassy_recompiled_keys_total counter
sassy_recompiled_keys_total 2
`
	err := testutil.ScrapeAndCompare(srv.URL, strings.NewReader(expected),
		"sassy_cache_misses_total", "sassy_recompiled_keys_total")
	require.NoError(t, err)
}

func TestPrometheus_SeparateRegistries(t *testing.T) {
	a := metrics.New()
	b := metrics.New()
	a.CacheHit()

	rec := httptest.NewRecorder()
	b.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "sassy_cache_hits_total 0")
}

func TestDiscard(t *testing.T) {
	var d metrics.Discard
	assert.NotPanics(t, func() {
		d.CacheHit()
		d.CacheMiss()
		d.Compiled(time.Second, nil)
		d.Invalidated(1)
	})
}
