package objectstore

import (
	"sync"

	"github.com/go-git/go-git/v5/plumbing"
)

// Prefetcher walks an ordered id list in the background, skipping ids
// already cached, and populating the session's BlobCache ahead of the
// consumer. It signals no progress; callers simply benefit from warmer
// cache hits while it runs.
type Prefetcher struct {
	session *Session
	ids     []plumbing.Hash

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewPrefetcher creates a prefetcher over ids for session. Call Start to
// launch it and Stop to terminate it early.
func NewPrefetcher(session *Session, ids []plumbing.Hash) *Prefetcher {
	return &Prefetcher{
		session: session,
		ids:     ids,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start launches the prefetch loop in a new goroutine. It returns
// immediately.
func (p *Prefetcher) Start() {
	go p.run()
}

func (p *Prefetcher) run() {
	defer close(p.done)
	for _, id := range p.ids {
		select {
		case <-p.stop:
			return
		default:
		}

		if p.session.Cache().Has(id) {
			continue
		}
		// Best effort: a prefetch failure is not fatal, the consumer will
		// hit the same error (and surface it) when it reaches this id.
		_, _ = p.session.GetBlob(id)
	}
}

// Stop requests the prefetcher terminate and blocks until it has.
// Safe to call more than once and safe to call after the prefetcher has
// already exhausted its id list.
func (p *Prefetcher) Stop() {
	p.once.Do(func() { close(p.stop) })
	<-p.done
}
