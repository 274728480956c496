// Package memory holds recent prediction results in process memory.
package memory

import (
	"sync"

	"github.com/pu9052473/shoreline-project/internal/domain"
)

// History is a thread-safe LRU of prediction results keyed by result id.
type History struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value domain.PredictionResult
	prev  *entry
	next  *entry
}

// NewHistory creates a store that keeps at most maxEntries results.
// Values below one are treated as one.
func NewHistory(maxEntries int) *History {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &History{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

// Get returns the result with id and marks it recently used.
func (h *History) Get(id string) (domain.PredictionResult, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	e, ok := h.entries[id]
	if !ok {
		return domain.PredictionResult{}, false
	}
	h.moveToFront(e)
	return e.value, true
}

// Put stores result, evicting the least recently used entry when full.
func (h *History) Put(result domain.PredictionResult) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if e, ok := h.entries[result.ID]; ok {
		e.value = result
		h.moveToFront(e)
		return
	}

	e := &entry{key: result.ID, value: result}
	h.entries[result.ID] = e
	h.addToFront(e)

	if len(h.entries) > h.maxEntries {
		h.evictTail()
	}
}

// Recent returns stored results, most recently used first.
func (h *History) Recent() []domain.PredictionResult {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]domain.PredictionResult, 0, len(h.entries))
	for e := h.head; e != nil; e = e.next {
		out = append(out, e.value)
	}
	return out
}

// Len reports the number of stored results.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

func (h *History) moveToFront(e *entry) {
	if e == h.head {
		return
	}
	h.remove(e)
	h.addToFront(e)
}

func (h *History) addToFront(e *entry) {
	e.next = h.head
	e.prev = nil
	if h.head != nil {
		h.head.prev = e
	}
	h.head = e
	if h.tail == nil {
		h.tail = e
	}
}

func (h *History) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		h.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		h.tail = e.prev
	}
}

func (h *History) evictTail() {
	if h.tail == nil {
		return
	}
	delete(h.entries, h.tail.key)
	h.remove(h.tail)
}
