package assets

import (
	"net/url"
	"strings"
)

// BaseURLResolver turns stored asset references into URLs under a base URL.
// References that already are absolute URLs pass through unchanged.
type BaseURLResolver struct {
	base string
}

func NewBaseURLResolver(baseURL string) *BaseURLResolver {
	return &BaseURLResolver{base: strings.TrimRight(strings.TrimSpace(baseURL), "/")}
}

// Resolve never fails; a broken reference shows up as a broken media URL.
func (r *BaseURLResolver) Resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if u, err := url.Parse(ref); err == nil && (u.IsAbs() || strings.HasPrefix(ref, "//")) {
		return ref
	}
	if r.base == "" {
		return ref
	}
	return r.base + "/" + strings.TrimLeft(ref, "/")
}
