// Package exporter writes rendered documents to static HTML and Markdown files.
package exporter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"site-content-be/internal/config"
	"site-content-be/internal/dto"
	"site-content-be/internal/service"
	"site-content-be/pkg/lexical"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const (
	FormatHTML     = "html"
	FormatMarkdown = "md"
)

var extensions = map[string]string{
	FormatHTML:     ".html",
	FormatMarkdown: ".md",
}

// ParseFormats turns "html,md" into a list of formats. "both" and "" select
// every format.
func ParseFormats(raw string) ([]string, error) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" || raw == "both" {
		return []string{FormatHTML, FormatMarkdown}, nil
	}
	var out []string
	for _, f := range strings.Split(raw, ",") {
		f = strings.TrimSpace(f)
		if f == "markdown" {
			f = FormatMarkdown
		}
		if _, ok := extensions[f]; !ok {
			return nil, fmt.Errorf("unknown format %q (want html, md or both)", f)
		}
		out = append(out, f)
	}
	return out, nil
}

// OutputPath is <outDir>/<locale>/<slug>.<ext>.
func OutputPath(outDir, slug, locale, format string) string {
	return filepath.Join(outDir, locale, slug+extensions[format])
}

// Result describes one exported document.
type Result struct {
	Key      dto.ContentKey
	Files    []string
	Fallback bool
}

// RenderBody renders a serialized document in each format. A malformed body
// is rendered as plain text and reported through the returned flag.
func RenderBody(cfg config.ContentConfig, assets lexical.AssetResolver, body, locale string, formats []string) (map[string]string, bool, error) {
	var out *lexical.OutputNode
	fallback := false
	if doc, err := lexical.ParseDocument(body); err != nil {
		out = lexical.Fallback(body)
		fallback = true
	} else {
		out = service.NewRenderer(cfg, assets, locale).Render(doc)
	}

	rendered := make(map[string]string, len(formats))
	for _, format := range formats {
		var s string
		var err error
		switch format {
		case FormatHTML:
			s, err = lexical.RenderHTML(out)
		case FormatMarkdown:
			s, err = lexical.RenderMarkdown(out)
		default:
			err = fmt.Errorf("unknown format %q", format)
		}
		if err != nil {
			return nil, fallback, err
		}
		rendered[format] = s
	}
	return rendered, fallback, nil
}

// Write stores rendered output under outDir.
func Write(outDir string, key dto.ContentKey, rendered map[string]string) ([]string, error) {
	var files []string
	for format, content := range rendered {
		path := OutputPath(outDir, key.Slug, key.Locale, format)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return files, err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return files, err
		}
		files = append(files, path)
	}
	return files, nil
}

// Source yields stored documents.
type Source interface {
	List(ctx context.Context, locale string) ([]dto.ContentSummary, error)
	LoadDocument(ctx context.Context, key dto.ContentKey) (string, error)
}

// Exporter renders stored documents to files with a bounded worker pool.
type Exporter struct {
	Source  Source
	Config  config.ContentConfig
	Assets  lexical.AssetResolver
	OutDir  string
	Formats []string
	Workers int
}

// ExportAll exports every document of locale ("" for all). One failing
// document does not stop the others; all failures are returned together.
func (e *Exporter) ExportAll(ctx context.Context, locale string, progress func(Result, error)) error {
	summaries, err := e.Source.List(ctx, locale)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	workers := e.Workers
	if workers <= 0 {
		workers = 4
	}

	var mu sync.Mutex
	var errs error

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, s := range summaries {
		key := dto.ContentKey{Slug: s.Slug, Locale: s.Locale}
		g.Go(func() error {
			res, err := e.exportOne(gctx, key)
			if err != nil {
				err = fmt.Errorf("%s/%s: %w", key.Locale, key.Slug, err)
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
			}
			if progress != nil {
				progress(res, err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return errs
}

func (e *Exporter) exportOne(ctx context.Context, key dto.ContentKey) (Result, error) {
	res := Result{Key: key}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	body, err := e.Source.LoadDocument(ctx, key)
	if err != nil {
		return res, err
	}
	rendered, fallback, err := RenderBody(e.Config, e.Assets, body, key.Locale, e.Formats)
	if err != nil {
		return res, err
	}
	res.Fallback = fallback
	res.Files, err = Write(e.OutDir, key, rendered)
	return res, err
}
