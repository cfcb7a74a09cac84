// Package stream provides the ordered step queue between the search worker
// and the playback loop.
//
// [Channel] is unbounded on purpose: a paused playback loop must never stall
// the worker. The cost is that steps pile up in memory while playback is
// paused, bounded only by the length of one run's stream.
package stream

import (
	"sync"

	"github.com/matzehuels/dijkstraviz/pkg/search"
)

const initialCapacity = 64

// Channel is an unbounded FIFO of search steps for one producer and one
// consumer. Push and TryPop never block on each other beyond a short
// critical section.
type Channel struct {
	mu   sync.Mutex
	buf  []search.Step
	head int
	size int
}

// New returns an empty channel.
func New() *Channel {
	return &Channel{buf: make([]search.Step, initialCapacity)}
}

// Push appends s. It never blocks waiting for the consumer.
func (c *Channel) Push(s search.Step) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.size == len(c.buf) {
		c.grow()
	}
	c.buf[(c.head+c.size)%len(c.buf)] = s
	c.size++
}

// TryPop removes and returns the oldest step, or false if the channel is
// empty. It never blocks waiting for the producer.
func (c *Channel) TryPop() (search.Step, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.size == 0 {
		return search.Step{}, false
	}
	s := c.buf[c.head]
	c.head = (c.head + 1) % len(c.buf)
	c.size--
	return s, true
}

// Len returns the number of queued steps.
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// grow doubles the ring, unwrapping it so head is at index 0.
func (c *Channel) grow() {
	next := make([]search.Step, max(2*len(c.buf), initialCapacity))
	n := copy(next, c.buf[c.head:])
	copy(next[n:], c.buf[:c.head])
	c.buf = next
	c.head = 0
}

var _ search.Sink = (*Channel)(nil)
