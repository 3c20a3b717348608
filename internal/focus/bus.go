package focus

import "sync"

// Bus carries the focus-mode signal. Subscribers are called synchronously,
// in subscription order, on the emitting goroutine.
type Bus struct {
	mu     sync.Mutex
	on     bool
	nextID uint64
	subs   []subscriber
}

type subscriber struct {
	id uint64
	fn func(on bool)
}

func NewBus() *Bus {
	return &Bus{}
}

// Emit records the mode and notifies every subscriber.
func (b *Bus) Emit(on bool) {
	b.emit(on, 0)
}

// Subscribe registers fn and returns a function that removes it.
func (b *Bus) Subscribe(fn func(on bool)) (unsubscribe func()) {
	_, unsubscribe = b.subscribe(fn)
	return unsubscribe
}

// On reports the last emitted mode.
func (b *Bus) On() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.on
}

func (b *Bus) subscribe(fn func(on bool)) (uint64, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscriber{id: id, fn: fn})

	var once sync.Once
	return id, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, s := range b.subs {
				if s.id == id {
					b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// emit notifies every subscriber except skip (0 skips none).
func (b *Bus) emit(on bool, skip uint64) {
	b.mu.Lock()
	b.on = on
	subs := make([]subscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		if s.id != skip {
			s.fn(on)
		}
	}
}
