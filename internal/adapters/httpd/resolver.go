package httpd

import (
	"net/http"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"go.trai.ch/sassy/internal/core/domain"
	"go.trai.ch/sassy/internal/core/ports"
)

var _ ports.PathResolver = (*Resolver)(nil)

// facesResource matches JSF resource URLs such as /app/javax.faces.resource/theme.css.xhtml?ln=site.
var facesResource = regexp.MustCompile(`^.*/javax\.faces\.resource/(.*)\.s?css\.xhtml$`)

// Resolver maps request paths onto stylesheet sources below a root directory.
type Resolver struct {
	root string
}

// NewResolver creates a Resolver for the content directory root.
func NewResolver(root string) *Resolver {
	return &Resolver{root: root}
}

// Resolve implements ports.PathResolver.
//
//   - JSF resource paths map to resources/[ln/]name.scss
//   - paths ending in .css map to the sibling .scss file
//   - paths ending in .scss map to themselves
//
// Every other request is a miss.
func (r *Resolver) Resolve(req *http.Request) (domain.CacheKey, bool) {
	rel, ok := sourcePath(req)
	if !ok {
		return domain.CacheKey{}, false
	}

	// Cleaning a rooted path drops any ".." that would climb above root.
	rel = path.Clean("/" + rel)
	key, err := domain.NewCacheKey(filepath.Join(r.root, filepath.FromSlash(rel)))
	if err != nil {
		return domain.CacheKey{}, false
	}
	return key, true
}

func sourcePath(req *http.Request) (string, bool) {
	p := req.URL.Path

	if m := facesResource.FindStringSubmatch(p); m != nil {
		if ln := req.URL.Query().Get("ln"); ln != "" {
			return "resources/" + ln + "/" + m[1] + domain.SourceSuffix, true
		}
		return "resources/" + m[1] + domain.SourceSuffix, true
	}

	if base, ok := strings.CutSuffix(p, ".css"); ok {
		return base + domain.SourceSuffix, true
	}
	if domain.HasSourceSuffix(p) {
		return p, true
	}
	return "", false
}
