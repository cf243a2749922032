package content

import (
	"context"
	"sync"

	types "github.com/kinfolkhq/kinfolk-backend/internal/domain"
)

// MemoryPool is an in-process Pool used in tests and when Redis is not
// configured. A single mutex guards every partition, so Take keeps the
// one-taker-per-entry guarantee.
type MemoryPool struct {
	mu    sync.Mutex
	items map[types.ContentCategory][]string
}

func NewMemoryPool() *MemoryPool {
	return &MemoryPool{items: map[types.ContentCategory][]string{}}
}

func (p *MemoryPool) Insert(_ context.Context, category types.ContentCategory, items []string) error {
	if len(items) == 0 {
		return nil
	}
	p.mu.Lock()
	p.items[category] = append(p.items[category], items...)
	p.mu.Unlock()
	return nil
}

func (p *MemoryPool) Take(_ context.Context, category types.ContentCategory) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	list := p.items[category]
	if len(list) == 0 {
		return "", false
	}
	val := list[0]
	p.items[category] = list[1:]
	return val, true
}

func (p *MemoryPool) Size(_ context.Context, category types.ContentCategory) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items[category])
}
