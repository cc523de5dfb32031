package strategy

import (
	"fmt"
	"sync"
)

// Factory — реестр стратегий по идентификатору.
type Factory struct {
	mu    sync.RWMutex
	impls map[string]Strategy
}

func NewFactory() *Factory {
	f := &Factory{
		impls: make(map[string]Strategy),
	}
	f.Register(NewSuperTrend())
	f.Register(NewDonchian())
	return f
}

func (f *Factory) Register(s Strategy) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.impls[s.Name()] = s
}

func (f *Factory) Get(id string) (Strategy, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	s, ok := f.impls[id]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q", id)
	}
	return s, nil
}
