package session

import "sync"

// Hint keys persisted on the client.
const (
	HintTheme          = "theme"
	HintActiveChurchID = "activeChurchId"
)

// Hints is a client-side key/value store. The resolver writes hints for the
// workspace to pick up but never reads them to make a decision.
type Hints interface {
	Set(key, value string)
	Delete(key string)
}

// MemoryHints is a Hints held in memory.
type MemoryHints struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryHints creates an empty hint store.
func NewMemoryHints() *MemoryHints {
	return &MemoryHints{values: make(map[string]string)}
}

func (h *MemoryHints) Set(key, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.values[key] = value
}

func (h *MemoryHints) Delete(key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.values, key)
}

// Get returns a hint and whether it is set.
func (h *MemoryHints) Get(key string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.values[key]
	return v, ok
}

// All returns a copy of every hint.
func (h *MemoryHints) All() map[string]string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make(map[string]string, len(h.values))
	for k, v := range h.values {
		out[k] = v
	}
	return out
}

type noHints struct{}

func (noHints) Set(string, string) {}
func (noHints) Delete(string)      {}
