package fonts

import (
	"context"
	"sync"
)

// Registry is the shared style registry fonts are injected into. Swap
// replaces every rule tagged with marker in one step, so readers see either
// the old or the new set.
type Registry interface {
	Swap(ctx context.Context, marker string, rules []Rule) error
	Rules(ctx context.Context, marker string) ([]Rule, error)
}

// MemoryRegistry keeps rules in process memory.
type MemoryRegistry struct {
	mu    sync.RWMutex
	rules map[string][]Rule
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{rules: make(map[string][]Rule)}
}

func (r *MemoryRegistry) Swap(_ context.Context, marker string, rules []Rule) error {
	next := append([]Rule(nil), rules...)

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(next) == 0 {
		delete(r.rules, marker)
		return nil
	}
	r.rules[marker] = next
	return nil
}

func (r *MemoryRegistry) Rules(_ context.Context, marker string) ([]Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Rule(nil), r.rules[marker]...), nil
}
