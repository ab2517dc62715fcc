package sim

import (
	"fmt"
	"math/rand"
)

// Factory creates new students and the initial catalog at configured
// ratios. Ids follow the external protocol's formats: titles are
// "T-NNNN" with a unique random sequence, copies "T-NNNN-NN", students
// "2337NNNN" assigned sequentially.
type Factory struct {
	cfg *Config
	lib *Library
	rng *rand.Rand

	nextStudent int
}

// NewFactory creates a Factory drawing from the given RNG subsystem.
func NewFactory(cfg *Config, lib *Library, rng *rand.Rand) *Factory {
	return &Factory{cfg: cfg, lib: lib, rng: rng}
}

// SeedCatalog creates the initial inventory: InitTypes distinct titles,
// each with a copy count drawn uniformly from [InitMinCopies,
// InitMaxCopies]. Title types follow the category priorities (AReadPriority
// for A, BPriority for B, CPriority for C).
func (f *Factory) SeedCatalog() error {
	created := 0
	seen := make(map[string]bool)
	// Random 4-digit sequences can collide; bound the retries.
	for attempts := 0; created < f.cfg.InitTypes && attempts < f.cfg.InitTypes*10; attempts++ {
		t := f.chooseType()
		isbn := fmt.Sprintf("%c-%04d", t, f.rng.Intn(10000))
		if seen[isbn] {
			continue
		}
		seen[isbn] = true
		copies := randRange(f.rng, f.cfg.InitMinCopies, f.cfg.InitMaxCopies)
		for i := 1; i <= copies; i++ {
			b := &Book{
				ID:      fmt.Sprintf("%s-%02d", isbn, i),
				ISBN:    isbn,
				Type:    t,
				CopyNum: i,
			}
			if err := f.lib.AddBook(b); err != nil {
				return err
			}
		}
		created++
	}
	if created < f.cfg.InitTypes {
		return fmt.Errorf("generated %d of %d requested titles before exhausting id retries", created, f.cfg.InitTypes)
	}
	return nil
}

// NewStudent registers the next student from the id pool.
func (f *Factory) NewStudent() *Student {
	f.nextStudent++
	return f.lib.AddStudent(fmt.Sprintf("2337%04d", f.nextStudent))
}

// chooseType draws a book type using the category priorities as
// probabilities. All-zero priorities fall back to a uniform draw.
func (f *Factory) chooseType() BookType {
	a, b, c := f.cfg.AReadPriority, f.cfg.BPriority, f.cfg.CPriority
	total := a + b + c
	if total <= 0 {
		return []BookType{TypeA, TypeB, TypeC}[f.rng.Intn(3)]
	}
	r := f.rng.Float64() * total
	if r < a {
		return TypeA
	}
	if r < a+b {
		return TypeB
	}
	return TypeC
}

// randRange draws uniformly from [lo, hi] inclusive.
func randRange(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}
