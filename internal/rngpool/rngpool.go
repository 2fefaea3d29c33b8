// Package rngpool provides deterministic, seed-controlled pseudo-random
// generators and a substream splitter so that intra-query parallelism
// (spec.md §5) can hand each worker its own generator while the overall
// query remains reproducible given a fixed seed.
package rngpool

import "math/rand"

// DefaultSeed is a fixed seed for callers that have none of their own,
// keeping their output reproducible (spec.md §5). New and Substream always
// use the seed they are given and never fall back to this one.
const DefaultSeed int64 = 1234

// New returns a seeded generator. Two calls with the same seed produce
// identical draw sequences.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Substream derives a worker-local generator from a query seed and a
// worker index. Each worker gets a distinct, deterministic stream so that
// parallel trial workers never share PRNG state, while the set of streams
// produced for a given (seed, workerCount) pair is itself deterministic.
func Substream(seed int64, worker int) *rand.Rand {
	// splitmix64-style mix to decorrelate adjacent worker indices before
	// seeding math/rand's generator.
	z := uint64(seed) + uint64(worker)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z = z ^ (z >> 31)
	return rand.New(rand.NewSource(int64(z)))
}
