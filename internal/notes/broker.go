package notes

import (
	"slices"
	"sync"

	"github.com/pathakanu/myNotes/internal/model"
)

// broker fans snapshots out to subscribers. Each channel holds at most one
// pending snapshot; a newer one replaces it.
type broker struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan []model.Note
}

func newBroker() *broker {
	return &broker{subs: map[int]chan []model.Note{}}
}

func (b *broker) add() (chan []model.Note, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	ch := make(chan []model.Note, 1)
	b.subs[b.nextID] = ch
	return ch, b.nextID
}

func (b *broker) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

func (b *broker) empty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs) == 0
}

func (b *broker) broadcast(notes []model.Note) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		b.offerLocked(ch, slices.Clone(notes))
	}
}

// offer delivers to one subscriber if it is still registered.
func (b *broker) offer(ch chan []model.Note, notes []model.Note) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.subs {
		if c == ch {
			b.offerLocked(ch, notes)
			return
		}
	}
}

func (b *broker) offerLocked(ch chan []model.Note, notes []model.Note) {
	select {
	case <-ch:
	default:
	}
	ch <- notes
}
