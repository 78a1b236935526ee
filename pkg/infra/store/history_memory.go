package store

import (
	"context"
	"sync"

	"github.com/jguan/ollama-model-manager/pkg/service"
)

// MemoryHistory is the fallback history store used when the SQLite
// database cannot be opened. Events are lost on restart.
type MemoryHistory struct {
	mu     sync.RWMutex
	events []service.DownloadEvent
}

func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{}
}

func (m *MemoryHistory) Append(ctx context.Context, ev service.DownloadEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return nil
}

// List returns events newest first, optionally filtered by model.
func (m *MemoryHistory) List(ctx context.Context, model string, limit int) ([]service.DownloadEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var events []service.DownloadEvent
	for i := len(m.events) - 1; i >= 0; i-- {
		ev := m.events[i]
		if model != "" && ev.Model != model {
			continue
		}
		events = append(events, ev)
		if limit > 0 && len(events) == limit {
			break
		}
	}
	return events, nil
}

func (m *MemoryHistory) Close() error {
	return nil
}
