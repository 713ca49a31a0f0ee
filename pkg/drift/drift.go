// Package drift adapts external position signals (simulated GPS) into
// screen-space drift offsets for a camera.
package drift

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/ChicagoDave/ridemap/pkg/camera"
	"github.com/ChicagoDave/ridemap/pkg/geo"
)

// Handler receives a raw, unclamped offset.
type Handler func(offset geo.Point)

// Source delivers offsets to subscribers on its own schedule. The returned
// function unsubscribes; calling it more than once is harmless.
type Source interface {
	Subscribe(h Handler) (unsubscribe func())
}

// Feed is an in-process Source that forwards whatever is pushed into it.
type Feed struct {
	mu   sync.RWMutex
	next int
	subs map[int]*subscription
}

type subscription struct {
	h      Handler
	active atomic.Bool
}

// NewFeed returns an empty feed.
func NewFeed() *Feed {
	return &Feed{subs: make(map[int]*subscription)}
}

// Subscribe registers h for future pushes. Once unsubscribe returns, h is
// not called again, including by a Push already in progress.
func (f *Feed) Subscribe(h Handler) func() {
	sub := &subscription{h: h}
	sub.active.Store(true)

	f.mu.Lock()
	id := f.next
	f.next++
	f.subs[id] = sub
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.subs, id)
		sub.active.Store(false)
		f.mu.Unlock()
	}
}

// Push delivers offset to every subscriber in subscription order and
// returns how many received it. Handlers run on the caller's goroutine.
func (f *Feed) Push(offset geo.Point) int {
	f.mu.RLock()
	ids := make([]int, 0, len(f.subs))
	for id := range f.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	subs := make([]*subscription, 0, len(ids))
	for _, id := range ids {
		subs = append(subs, f.subs[id])
	}
	f.mu.RUnlock()

	n := 0
	for _, sub := range subs {
		if !sub.active.Load() {
			continue
		}
		sub.h(offset)
		n++
	}
	return n
}

// Subscribers returns the number of active subscriptions.
func (f *Feed) Subscribers() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}

// Attach wires src into cam: every offset is clamped into the camera's
// drift and onUpdate (if set) is called so the caller can recompute its
// transform. The subscription is bound to the camera's current epoch: after
// cam.Reset it writes nothing, even if src still delivers. The returned
// function detaches; call it when the scene ends.
func Attach(src Source, cam *camera.Controller, onUpdate func()) func() {
	epoch := cam.Epoch()
	return src.Subscribe(func(offset geo.Point) {
		if !cam.ApplyDriftAt(epoch, offset) {
			return
		}
		if onUpdate != nil {
			onUpdate()
		}
	})
}
