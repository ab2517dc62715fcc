package sim

import (
	"hash/fnv"
	"math/rand"
)

// === Key ===

// Key uniquely identifies a reproducible generation run.
// Two runs with the same Key and identical configuration MUST emit
// bit-for-bit identical command streams.
type Key int64

// NewKey creates a Key from a seed value.
func NewKey(seed int64) Key {
	return Key(seed)
}

// === Subsystem Constants ===

const (
	// SubsystemFactory is the RNG subsystem for catalog and student creation.
	SubsystemFactory = "factory"

	// SubsystemSchedule is the RNG subsystem for day counts, close draws and
	// skip intervals.
	SubsystemSchedule = "schedule"

	// SubsystemActions is the RNG subsystem for action and target sampling.
	SubsystemActions = "actions"
)

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula: masterSeed XOR fnv1a64(subsystemName).
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedRNG struct {
	key        Key
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a Key.
func NewPartitionedRNG(key Key) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	derivedSeed := int64(p.key) ^ fnv1a64(name)
	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the Key used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() Key {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
