package core

import (
	"errors"
	"fmt"
	"math/rand"
)

// DefaultQueueDepth is the number of upcoming blocks a conveyor keeps.
const DefaultQueueDepth = 2

// ErrNoSpawnableTypes is returned when no block type has a positive weight.
var ErrNoSpawnableTypes = errors.New("core: no spawnable block types")

// Conveyor is the fixed-depth queue of upcoming blocks.
// New blocks are drawn by weighted random sampling over the enabled types.
type Conveyor struct {
	rng     *rand.Rand
	depth   int
	weights map[BlockType]int
	enabled map[BlockType]bool
	sample  []BlockType // Each type repeated weight times
	queue   []*Block
}

// NewConveyor creates a conveyor and fills its queue.
// Types with a non-positive weight are never sampled.
func NewConveyor(rng *rand.Rand, weights map[BlockType]int, depth int) (*Conveyor, error) {
	if depth < 1 {
		depth = DefaultQueueDepth
	}
	c := &Conveyor{
		rng:     rng,
		depth:   depth,
		weights: make(map[BlockType]int, len(weights)),
		enabled: make(map[BlockType]bool, len(weights)),
	}
	for t, w := range weights {
		if t >= BlockTypeCount {
			return nil, fmt.Errorf("core: unknown block type %d in spawn weights", t)
		}
		c.weights[t] = w
		c.enabled[t] = true
	}
	if err := c.rebuild(); err != nil {
		return nil, err
	}
	c.Refresh(depth)
	return c, nil
}

// rebuild regenerates the weighted sample list.
// Iterates in catalog order so sampling is deterministic for a given seed.
func (c *Conveyor) rebuild() error {
	var sample []BlockType
	for _, t := range AllBlockTypes() {
		if !c.enabled[t] {
			continue
		}
		for range c.weights[t] {
			sample = append(sample, t)
		}
	}
	if len(sample) == 0 {
		return ErrNoSpawnableTypes
	}
	c.sample = sample
	return nil
}

// draw samples one fresh block.
func (c *Conveyor) draw() *Block {
	return NewBlock(c.sample[c.rng.Intn(len(c.sample))])
}

// Next dequeues the head block, enqueues one freshly sampled block and
// returns the dequeued one. The queue depth is unchanged.
func (c *Conveyor) Next() *Block {
	head := c.queue[0]
	copy(c.queue, c.queue[1:])
	c.queue[len(c.queue)-1] = c.draw()
	return head
}

// Peek returns the head block without removing it.
func (c *Conveyor) Peek() *Block {
	return c.queue[0]
}

// Upcoming returns a copy of the queued blocks, head first.
func (c *Conveyor) Upcoming() []*Block {
	out := make([]*Block, len(c.queue))
	copy(out, c.queue)
	return out
}

// Refresh clears the queue and refills it with n freshly sampled blocks.
// n also becomes the new queue depth.
func (c *Conveyor) Refresh(n int) {
	if n < 1 {
		n = c.depth
	}
	c.depth = n
	c.queue = make([]*Block, n)
	for i := range c.queue {
		c.queue[i] = c.draw()
	}
}

// Depth returns the fixed queue depth.
func (c *Conveyor) Depth() int {
	return c.depth
}

// SetEnabled toggles whether a type can be sampled. Blocks already in the
// queue are left alone. Disabling the last spawnable type is rejected.
func (c *Conveyor) SetEnabled(t BlockType, enabled bool) error {
	if t >= BlockTypeCount {
		return fmt.Errorf("core: unknown block type %d", t)
	}
	prev, had := c.enabled[t]
	c.enabled[t] = enabled
	if err := c.rebuild(); err != nil {
		if had {
			c.enabled[t] = prev
		} else {
			delete(c.enabled, t)
		}
		return err
	}
	return nil
}

// Enabled reports whether a type is currently sampled.
func (c *Conveyor) Enabled(t BlockType) bool {
	return c.enabled[t] && c.weights[t] > 0
}

// ActiveTypes returns the sampled types in catalog order.
func (c *Conveyor) ActiveTypes() []BlockType {
	var types []BlockType
	for _, t := range AllBlockTypes() {
		if c.Enabled(t) {
			types = append(types, t)
		}
	}
	return types
}
