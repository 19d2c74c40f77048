package workspace

import (
	"context"
	"log/slog"
	"sync"
)

// slot names one read model whose fetches are sequenced.
type slot int

const (
	slotCalls slot = iota
	slotDetail
	slotTasks
	slotSuggestions
	slotTags
	slotTemplates
	slotCount
)

// sequencer numbers fetches per slot so that only the most recently issued
// fetch of a slot may write its result.
type sequencer struct {
	latest [slotCount]uint64
}

func (s *sequencer) next(sl slot) uint64 {
	s.latest[sl]++
	return s.latest[sl]
}

func (s *sequencer) current(sl slot, n uint64) bool {
	return s.latest[sl] == n
}

// guarded holds the lock shared by a workspace's state and its sequencer.
type guarded struct {
	mu  sync.Mutex
	seq sequencer
}

func (g *guarded) begin(sl slot) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seq.next(sl)
}

func (g *guarded) invalidate(slots ...slot) {
	for _, sl := range slots {
		g.seq.next(sl)
	}
}

// commit runs apply under the lock when n is still the latest fetch of sl.
func (g *guarded) commit(sl slot, n uint64, apply func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.seq.current(sl, n) {
		return false
	}
	apply()
	return true
}

// refetch reloads one slot. A failed fetch leaves the slot untouched; a
// superseded fetch is dropped and reported as not applied.
func refetch[T any](ctx context.Context, g *guarded, sl slot, fetch func(context.Context) (T, error), apply func(T)) (bool, error) {
	n := g.begin(sl)
	v, err := fetch(ctx)
	if err != nil {
		return false, err
	}
	return g.commit(sl, n, func() { apply(v) }), nil
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}

func orDiscardNotifier(n Notifier) Notifier {
	if n == nil {
		return DiscardNotifier{}
	}
	return n
}
