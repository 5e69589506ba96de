// Package dedupe tracks player ids already claimed within one resolution batch.
package dedupe

import (
	"context"
	"sync"
)

// Claims records player ids matched earlier in a batch so that no two lines
// resolve to the same player.
type Claims interface {
	// Claim atomically checks whether id was claimed and claims it if not.
	// Returns true if id was already claimed, false if it was newly claimed.
	Claim(ctx context.Context, id string) bool

	// Claimed reports whether id is claimed without claiming it.
	Claimed(id string) bool

	// Release drops a claim so the player becomes a candidate again.
	Release(ctx context.Context, id string)

	// IDs returns the claimed ids in claim order.
	IDs() []string

	Size() int
}

type claims struct {
	mu       sync.RWMutex
	seen     map[string]struct{}
	order    []string
	capacity int
}

// NewClaims creates an empty claim set.
func NewClaims(opts ...Option) Claims {
	c := &claims{capacity: 16}
	for _, opt := range opts {
		opt(c)
	}
	c.seen = make(map[string]struct{}, c.capacity)
	c.order = make([]string, 0, c.capacity)
	return c
}

func (c *claims) Claim(_ context.Context, id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.seen[id]; ok {
		return true
	}
	c.seen[id] = struct{}{}
	c.order = append(c.order, id)
	return false
}

func (c *claims) Claimed(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.seen[id]
	return ok
}

func (c *claims) Release(_ context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.seen[id]; !ok {
		return
	}
	delete(c.seen, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *claims) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.order...)
}

func (c *claims) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.seen)
}
