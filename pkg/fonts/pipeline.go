package fonts

import (
	"context"
	"fmt"
	"sync"
	"time"

	"site-content-be/pkg/lexical"

	"go.uber.org/multierr"
)

const DefaultMarker = "site-content-fonts"

// FontLoadError reports a descriptor that could not be fetched, validated or
// injected. Rendering continues with fallback fonts.
type FontLoadError struct {
	Op   string
	Font string
	Err  error
}

func (e *FontLoadError) Error() string {
	if e.Font == "" {
		return fmt.Sprintf("font %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("font %s failed for %q: %v", e.Op, e.Font, e.Err)
}

func (e *FontLoadError) Unwrap() error {
	return e.Err
}

// DescriptorSource lists the stored font descriptors.
type DescriptorSource interface {
	ListFontDescriptors(ctx context.Context) ([]FontDescriptor, error)
}

// Pipeline turns font descriptors into @font-face rules and owns the rule
// set tagged with its marker in the registry.
type Pipeline struct {
	mu       sync.Mutex
	registry Registry
	assets   lexical.AssetResolver
	marker   string
	timeout  time.Duration
}

type Option func(*Pipeline)

func WithMarker(marker string) Option {
	return func(p *Pipeline) {
		if marker != "" {
			p.marker = marker
		}
	}
}

// WithFetchTimeout bounds Sync's descriptor fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.timeout = d
		}
	}
}

func NewPipeline(registry Registry, assets lexical.AssetResolver, opts ...Option) *Pipeline {
	p := &Pipeline{
		registry: registry,
		assets:   assets,
		marker:   DefaultMarker,
		timeout:  5 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) Marker() string {
	return p.marker
}

// InjectFonts replaces the pipeline's rules with one rule per descriptor.
// Duplicates collapse to one rule and an empty list clears the set.
// Invalid descriptors are skipped and reported together; the valid ones are
// still injected.
func (p *Pipeline) InjectFonts(ctx context.Context, descriptors []FontDescriptor) error {
	rules, invalid := p.buildRules(descriptors)

	p.mu.Lock()
	err := p.registry.Swap(ctx, p.marker, rules)
	p.mu.Unlock()

	if err != nil {
		return multierr.Append(&FontLoadError{Op: "inject", Err: err}, invalid)
	}
	return invalid
}

func (p *Pipeline) buildRules(descriptors []FontDescriptor) ([]Rule, error) {
	var errs error
	seen := make(map[string]bool, len(descriptors))
	rules := make([]Rule, 0, len(descriptors))

	for _, d := range descriptors {
		d = d.Normalize()
		if err := d.Validate(); err != nil {
			errs = multierr.Append(errs, &FontLoadError{Op: "validate", Font: d.Name(), Err: err})
			continue
		}
		if seen[d.key()] {
			continue
		}
		seen[d.key()] = true

		rules = append(rules, Rule{
			Marker: p.marker,
			Family: d.Family,
			Weight: d.Weight,
			Style:  d.Style,
			Source: p.assets.Resolve(d.FileRef),
		})
	}
	return rules, errs
}

// Sync fetches the descriptors from source and injects them. When the fetch
// fails the previously injected rules stay in place.
func (p *Pipeline) Sync(ctx context.Context, source DescriptorSource) error {
	fetchCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	descriptors, err := source.ListFontDescriptors(fetchCtx)
	if err != nil {
		return &FontLoadError{Op: "fetch", Err: err}
	}
	return p.InjectFonts(ctx, descriptors)
}

// Rules returns the rules currently tagged with the pipeline's marker.
func (p *Pipeline) Rules(ctx context.Context) ([]Rule, error) {
	rules, err := p.registry.Rules(ctx, p.marker)
	if err != nil {
		return nil, &FontLoadError{Op: "read", Err: err}
	}
	return rules, nil
}

// Stylesheet renders the injected rules as CSS.
func (p *Pipeline) Stylesheet(ctx context.Context) (string, error) {
	rules, err := p.Rules(ctx)
	if err != nil {
		return "", err
	}
	return Stylesheet(rules), nil
}
