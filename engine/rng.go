package engine

import "math/rand"

// Roller produces uniform die rolls. Tests inject scripted rollers;
// sessions use RNG.
type Roller interface {
	// Roll returns a random integer in [1, sides]. sides below 1 rolls 1.
	Roll(sides int) int
}

// countingSource counts draws from the underlying source so the exact
// stream position can be reproduced on restore.
type countingSource struct {
	src   rand.Source64
	draws int64
}

func (c *countingSource) Int63() int64 {
	c.draws++
	return c.src.Int63()
}

func (c *countingSource) Uint64() uint64 {
	c.draws++
	return c.src.Uint64()
}

func (c *countingSource) Seed(seed int64) {
	c.draws = 0
	c.src.Seed(seed)
}

// RNG wraps math/rand.Rand with deterministic position tracking.
// Position counts source draws, enabling save/restore.
type RNG struct {
	seed int64
	cs   *countingSource
	src  *rand.Rand
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	cs := &countingSource{src: rand.NewSource(seed).(rand.Source64)}
	return &RNG{
		seed: seed,
		cs:   cs,
		src:  rand.New(cs),
	}
}

// Roll returns a random integer in [1, sides]. A zero-sided roll still
// consumes a draw and yields 1, matching floor(random*0)+1.
func (r *RNG) Roll(sides int) int {
	if sides < 1 {
		r.src.Int63()
		return 1
	}
	return r.src.Intn(sides) + 1
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of source draws made since creation.
func (r *RNG) Position() int64 {
	return r.cs.draws
}

// RestoreRNG creates an RNG and advances it to the given position.
// This reproduces the exact RNG state for save/load.
func RestoreRNG(seed int64, position int64) *RNG {
	rng := NewRNG(seed)
	for i := int64(0); i < position; i++ {
		rng.cs.Int63()
	}
	return rng
}
