package httpd_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sassy/internal/adapters/httpd"
	"go.trai.ch/sassy/internal/adapters/telemetry"
	"go.trai.ch/sassy/internal/core/domain"
	"go.trai.ch/sassy/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

var (
	modTime = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	now     = time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)
)

type handlerFixture struct {
	cache  *mocks.MockCompileCache
	logger *mocks.MockLogger
	root   string
	server http.Handler
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	f := &handlerFixture{
		cache:  mocks.NewMockCompileCache(ctrl),
		logger: mocks.NewMockLogger(ctrl),
		root:   root,
	}
	h := httpd.NewHandler(
		httpd.NewResolver(root),
		f.cache,
		f.logger,
		telemetry.NewNoOpTracer(),
		3*time.Hour,
		httpd.WithClock(func() time.Time { return now }),
	)
	f.server = h.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("next"))
	}))
	return f
}

func (f *handlerFixture) source(t *testing.T, name string) domain.CacheKey {
	t.Helper()
	path := filepath.Join(f.root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte("a { b { c: d } }"), 0o600))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
	key, err := domain.NewCacheKey(path)
	require.NoError(t, err)
	return key
}

func (f *handlerFixture) do(method, target, ifModifiedSince string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if ifModifiedSince != "" {
		req.Header.Set("If-Modified-Since", ifModifiedSince)
	}
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func TestMiddleware_FullResponse(t *testing.T) {
	f := newHandlerFixture(t)
	key := f.source(t, "styles/main.scss")
	f.cache.EXPECT().GetOrCompute(gomock.Any(), key).Return([]byte("a b{c:d}"), nil)

	rec := f.do(http.MethodGet, "/styles/main.css", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a b{c:d}", rec.Body.String())
	assert.Equal(t, "text/css", rec.Header().Get("Content-Type"))
	assert.Equal(t, "8", rec.Header().Get("Content-Length"))
	assert.Equal(t, "Sun, 15 Mar 2026 11:00:00 GMT", rec.Header().Get("Expires"))
	assert.Equal(t, "Sat, 14 Mar 2026 15:09:26 GMT", rec.Header().Get("Last-Modified"))
}

func TestMiddleware_Conditional(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "same instant", header: "Sat, 14 Mar 2026 15:09:26 GMT", want: http.StatusNotModified},
		{name: "client newer", header: "Sun, 15 Mar 2026 00:00:00 GMT", want: http.StatusNotModified},
		{name: "client older", header: "Sat, 14 Mar 2026 15:09:25 GMT", want: http.StatusOK},
		{name: "malformed", header: "not a date", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture(t)
			key := f.source(t, "main.scss")
			if tt.want == http.StatusOK {
				f.cache.EXPECT().GetOrCompute(gomock.Any(), key).Return([]byte("a{}"), nil)
			}

			rec := f.do(http.MethodGet, "/main.scss", tt.header)

			require.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "text/css", rec.Header().Get("Content-Type"))
			if tt.want == http.StatusNotModified {
				assert.Empty(t, rec.Body.String())
				assert.Empty(t, rec.Header().Get("Expires"))
			} else {
				assert.Equal(t, "a{}", rec.Body.String())
			}
		})
	}
}

func TestMiddleware_CompileFailure(t *testing.T) {
	f := newHandlerFixture(t)
	key := f.source(t, "broken.scss")
	f.cache.EXPECT().GetOrCompute(gomock.Any(), key).Return(nil, errors.Join(domain.ErrTransformFailed, errors.New("expected }")))
	f.logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, domain.ErrTransformFailed)
	})

	rec := f.do(http.MethodGet, "/broken.css", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Header().Get("Content-Type"), "text/css")
	assert.Empty(t, rec.Header().Get("Expires"))
}

func TestMiddleware_FallsThrough(t *testing.T) {
	f := newHandlerFixture(t)
	require.NoError(t, os.Mkdir(filepath.Join(f.root, "dir.scss"), 0o750))

	for _, target := range []string{"/app.js", "/missing.css", "/dir.scss"} {
		rec := f.do(http.MethodGet, target, "")
		assert.Equal(t, http.StatusTeapot, rec.Code, target)
		assert.Equal(t, "next", rec.Body.String(), target)
	}

	f.source(t, "main.scss")
	rec := f.do(http.MethodPost, "/main.css", "")
	assert.Equal(t, http.StatusTeapot, rec.Code, "only GET and HEAD are served")
}

func TestMiddleware_Head(t *testing.T) {
	f := newHandlerFixture(t)
	key := f.source(t, "main.scss")
	f.cache.EXPECT().GetOrCompute(gomock.Any(), key).Return([]byte("a{}"), nil)

	rec := f.do(http.MethodHead, "/main.css", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3", rec.Header().Get("Content-Length"))
	assert.Empty(t, rec.Body.String())
}
