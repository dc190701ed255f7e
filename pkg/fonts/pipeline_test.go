package fonts

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"site-content-be/pkg/assets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

var (
	fontA = FontDescriptor{ID: "a", DisplayName: "Vazirmatn", FileRef: "fonts/vazirmatn.woff2", Weight: 400}
	fontB = FontDescriptor{ID: "b", DisplayName: "Vazirmatn Bold", Family: "Vazirmatn", FileRef: "fonts/vazirmatn-bold.woff2", Weight: 700}
)

func newTestPipeline(registry Registry) *Pipeline {
	return NewPipeline(registry, assets.NewBaseURLResolver("https://cdn.test"))
}

func countMarked(t *testing.T, registry Registry, marker string) int {
	t.Helper()
	rules, err := registry.Rules(context.Background(), marker)
	require.NoError(t, err)
	n := 0
	for _, r := range rules {
		if r.Marker == marker {
			n++
		}
	}
	return n
}

func TestInjectFontsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	registry := NewMemoryRegistry()
	p := newTestPipeline(registry)

	require.NoError(t, p.InjectFonts(ctx, []FontDescriptor{fontA, fontB}))
	require.NoError(t, p.InjectFonts(ctx, []FontDescriptor{fontA, fontB}))

	assert.Equal(t, 2, countMarked(t, registry, p.Marker()))
}

func TestInjectFontsEmptyListClears(t *testing.T) {
	ctx := context.Background()
	registry := NewMemoryRegistry()
	p := newTestPipeline(registry)

	require.NoError(t, p.InjectFonts(ctx, []FontDescriptor{fontA, fontB}))
	require.NoError(t, p.InjectFonts(ctx, nil))

	assert.Equal(t, 0, countMarked(t, registry, p.Marker()))
	css, err := p.Stylesheet(ctx)
	require.NoError(t, err)
	assert.Empty(t, css)
}

func TestInjectFontsLeavesOtherMarkersAlone(t *testing.T) {
	ctx := context.Background()
	registry := NewMemoryRegistry()
	require.NoError(t, registry.Swap(ctx, "theme", []Rule{{Marker: "theme", Family: "Inter"}}))

	p := newTestPipeline(registry)
	require.NoError(t, p.InjectFonts(ctx, []FontDescriptor{fontA}))
	require.NoError(t, p.InjectFonts(ctx, nil))

	assert.Equal(t, 1, countMarked(t, registry, "theme"))
}

func TestInjectFontsDeduplicates(t *testing.T) {
	ctx := context.Background()
	registry := NewMemoryRegistry()
	p := newTestPipeline(registry)

	dup := fontA
	dup.ID = "a-copy"
	require.NoError(t, p.InjectFonts(ctx, []FontDescriptor{fontA, dup}))
	assert.Equal(t, 1, countMarked(t, registry, p.Marker()))
}

func TestInjectFontsReportsInvalidDescriptors(t *testing.T) {
	ctx := context.Background()
	registry := NewMemoryRegistry()
	p := newTestPipeline(registry)

	noFile := FontDescriptor{DisplayName: "Broken"}
	badStyle := FontDescriptor{DisplayName: "Slanted", FileRef: "s.woff2", Style: "wobbly"}

	err := p.InjectFonts(ctx, []FontDescriptor{fontA, noFile, badStyle})
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)

	var loadErr *FontLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "validate", loadErr.Op)

	assert.Equal(t, 1, countMarked(t, registry, p.Marker()))
}

func TestRuleCSS(t *testing.T) {
	ctx := context.Background()
	p := newTestPipeline(NewMemoryRegistry())
	require.NoError(t, p.InjectFonts(ctx, []FontDescriptor{fontB}))

	css, err := p.Stylesheet(ctx)
	require.NoError(t, err)
	assert.Contains(t, css, "/* "+DefaultMarker+" */")
	assert.Contains(t, css, `font-family: "Vazirmatn";`)
	assert.Contains(t, css, `src: url("https://cdn.test/fonts/vazirmatn-bold.woff2") format("woff2");`)
	assert.Contains(t, css, "font-weight: 700;")
	assert.Contains(t, css, "font-style: normal;")
	assert.Contains(t, css, "font-display: swap;")
}

type stubSource struct {
	descriptors []FontDescriptor
	err         error
	delay       time.Duration
}

func (s stubSource) ListFontDescriptors(ctx context.Context) ([]FontDescriptor, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.descriptors, s.err
}

func TestSyncKeepsRulesWhenFetchFails(t *testing.T) {
	ctx := context.Background()
	registry := NewMemoryRegistry()
	p := NewPipeline(registry, assets.NewBaseURLResolver(""), WithFetchTimeout(20*time.Millisecond))

	require.NoError(t, p.Sync(ctx, stubSource{descriptors: []FontDescriptor{fontA, fontB}}))
	assert.Equal(t, 2, countMarked(t, registry, p.Marker()))

	err := p.Sync(ctx, stubSource{err: errors.New("storage down")})
	var loadErr *FontLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "fetch", loadErr.Op)
	assert.Equal(t, 2, countMarked(t, registry, p.Marker()))

	err = p.Sync(ctx, stubSource{delay: time.Second})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 2, countMarked(t, registry, p.Marker()))
}

func TestConcurrentInjectionNeverInterleaves(t *testing.T) {
	ctx := context.Background()
	registry := NewMemoryRegistry()
	p := newTestPipeline(registry)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_ = p.InjectFonts(ctx, []FontDescriptor{fontA, fontB})
			} else {
				_ = p.InjectFonts(ctx, []FontDescriptor{fontA})
			}
		}(i)
	}
	wg.Wait()

	n := countMarked(t, registry, p.Marker())
	assert.True(t, n == 1 || n == 2, "unexpected rule count %d", n)
}
