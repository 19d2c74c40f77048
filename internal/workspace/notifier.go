package workspace

import (
	"log/slog"
	"sync"
	"time"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Notifier receives user-facing outcome messages.
type Notifier interface {
	Notify(kind Kind, text string)
}

type NotifierFunc func(kind Kind, text string)

func (f NotifierFunc) Notify(kind Kind, text string) { f(kind, text) }

type DiscardNotifier struct{}

func (DiscardNotifier) Notify(Kind, string) {}

type Notice struct {
	Kind Kind
	Text string
	At   time.Time
}

// ChanNotifier queues notices for a single consumer. Notify never blocks.
// When the buffer is full an error notice evicts the oldest queued notice;
// any other notice is dropped. Every drop is logged.
type ChanNotifier struct {
	mu     sync.Mutex
	ch     chan Notice
	logger *slog.Logger
}

func NewChanNotifier(buffer int, logger *slog.Logger) *ChanNotifier {
	if buffer <= 0 {
		buffer = 16
	}
	return &ChanNotifier{ch: make(chan Notice, buffer), logger: orDiscard(logger)}
}

func (n *ChanNotifier) Notify(kind Kind, text string) {
	notice := Notice{Kind: kind, Text: text, At: time.Now().UTC()}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.offer(notice) {
		return
	}
	if kind == KindError {
		select {
		case evicted := <-n.ch:
			n.dropped(evicted)
		default:
		}
		if n.offer(notice) {
			return
		}
	}
	n.dropped(notice)
}

func (n *ChanNotifier) offer(notice Notice) bool {
	select {
	case n.ch <- notice:
		return true
	default:
		return false
	}
}

func (n *ChanNotifier) dropped(notice Notice) {
	n.logger.Warn("notice dropped", "kind", notice.Kind, "text", notice.Text)
}

func (n *ChanNotifier) C() <-chan Notice {
	return n.ch
}
