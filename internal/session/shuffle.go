package session

import (
	"hash/fnv"
	"math/rand"
)

// shuffleSeed derives a deterministic seed from the session identity
// and a per-session generation counter, so re-enabling shuffle in the
// same session produces a fresh permutation while replaying the same
// (session, generation) pair reproduces it exactly.
func shuffleSeed(sessionID string, generation uint64) int64 {
	h := fnv.New64a()
	h.Write([]byte(sessionID))
	return int64(h.Sum64() ^ generation)
}

// NewOrder returns a shuffled permutation of [0, n).
func NewOrder(sessionID string, generation uint64, n int) []int {
	rng := rand.New(rand.NewSource(shuffleSeed(sessionID, generation)))
	return rng.Perm(n)
}
