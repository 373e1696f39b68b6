// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package timer

import (
	"runtime"
	"sync/atomic"
)

// ErrInsufficientCPUs is returned by NewNotimeSource when fewer than two
// CPUs are available, per §4.E: "Requires >= 2 CPUs; otherwise allocation
// fails."
var ErrInsufficientCPUs = notimeError("internal timer requires at least 2 CPUs")

type notimeError string

func (e notimeError) Error() string { return string(e) }

// NotimeSource is the software timer used when no hardware counter is
// suitable (§4.E): a background goroutine increments a counter in a tight
// loop; NowTicks spins, yielding cooperatively, until the counter differs
// from its previous reading, then returns that reading as "the time".
//
// The goroutine is spawned immediately before a read_entropy call and
// joined immediately after (Start/Stop), denying an attacker a long-lived
// known-ticking background task to correlate against.
type NotimeSource struct {
	counter atomic.Uint64
	prev    uint64
	stop    chan struct{}
	done    chan struct{}
}

// NewNotimeSource constructs a NotimeSource, failing if fewer than two
// CPUs are available to let the ticking goroutine and the reader actually
// run concurrently.
func NewNotimeSource() (*NotimeSource, error) {
	if runtime.NumCPU() < 2 {
		return nil, ErrInsufficientCPUs
	}
	return &NotimeSource{}, nil
}

// Start spawns the ticking goroutine. It must be paired with a later Stop.
func (n *NotimeSource) Start() {
	n.stop = make(chan struct{})
	n.done = make(chan struct{})
	go func() {
		defer close(n.done)
		for {
			select {
			case <-n.stop:
				return
			default:
				n.counter.Add(1)
			}
		}
	}()
}

// Stop signals the ticking goroutine to exit and waits for it to do so,
// joining it before read_entropy returns (§4.E).
func (n *NotimeSource) Stop() {
	if n.stop == nil {
		return
	}
	close(n.stop)
	<-n.done
	n.stop = nil
	n.done = nil
}

// NowTicks spins until the shared counter advances past its previous
// observed value, yielding the processor between polls so the ticking
// goroutine can make progress on a single-core scheduler slice.
func (n *NotimeSource) NowTicks() uint64 {
	for {
		cur := n.counter.Load()
		if cur != n.prev {
			n.prev = cur
			return cur
		}
		runtime.Gosched()
	}
}
