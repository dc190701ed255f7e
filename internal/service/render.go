package service

import (
	"site-content-be/internal/config"
	"site-content-be/pkg/lexical"
)

// NewRenderer returns a renderer for one locale: assets resolve against the
// configured base URL and RTL locales set dir="rtl" on the container.
func NewRenderer(cfg config.ContentConfig, assets lexical.AssetResolver, locale string) *lexical.Renderer {
	opts := []lexical.RendererOption{lexical.WithAssetResolver(assets)}
	if cfg.IsRTL(locale) {
		opts = append(opts, lexical.WithDirection(lexical.DirectionRTL))
	}
	return lexical.NewRenderer(opts...)
}
