package sim

import (
	"math/rand"
	"sort"
)

// ActionKind enumerates the commands the generator can emit.
type ActionKind int

const (
	ActionOpen ActionKind = iota
	ActionClose
	ActionBorrow
	ActionOrder
	ActionQuery
	ActionPick
	ActionFailedOrder
	ActionRead
	ActionRestore
	ActionReturn
)

// Verb returns the wire verb for this kind. Failed orders render as plain
// orders; the consumer is expected to reject them.
func (k ActionKind) Verb() string {
	switch k {
	case ActionOpen:
		return "OPEN"
	case ActionClose:
		return "CLOSE"
	case ActionBorrow:
		return "borrowed"
	case ActionOrder, ActionFailedOrder:
		return "ordered"
	case ActionQuery:
		return "queried"
	case ActionPick:
		return "picked"
	case ActionRead:
		return "read"
	case ActionRestore:
		return "restored"
	case ActionReturn:
		return "returned"
	}
	return "?"
}

// Action is one drawn command before rendering. Target is an ISBN for
// borrow/order/pick/read and a copy id for return/restore/query, matching
// the wire grammar.
type Action struct {
	Kind    ActionKind
	Student string
	Target  string
	// Infeasible marks a deliberately invalid probe drawn from the
	// failed-order bucket. It is emitted without touching the model.
	Infeasible bool
	// Reason is the feasibility deny code behind an infeasible probe.
	Reason DenyReason
}

// Sampler draws weighted actions against the current library state.
// Draws compose two independent categorical choices: first the action kind
// from the configured weights, then a target biased by the category
// priorities and picked uniformly within the chosen category.
type Sampler struct {
	cfg *Config
	lib *Library
	rng *rand.Rand
}

// NewSampler creates a Sampler drawing from the given RNG subsystem.
func NewSampler(cfg *Config, lib *Library, rng *rand.Rand) *Sampler {
	return &Sampler{cfg: cfg, lib: lib, rng: rng}
}

// Next draws one action for the current day. A legitimate draw with no
// feasible target falls back to a query; ok is false only when even a
// query is impossible (an empty catalog).
func (sp *Sampler) Next(clock *Clock) (Action, bool) {
	kind := sp.drawKind()
	if a, ok := sp.generate(kind, clock); ok {
		return a, true
	}
	return sp.Query()
}

// drawKind picks an action kind from the categorical weight distribution.
func (sp *Sampler) drawKind() ActionKind {
	w := sp.cfg.Weights
	kinds := []ActionKind{
		ActionBorrow, ActionOrder, ActionQuery, ActionPick,
		ActionFailedOrder, ActionRead, ActionRestore,
	}
	weights := []int{w.Borrow, w.Order, w.Query, w.Pick, w.FailedOrder, w.Read, w.Restore}
	r := sp.rng.Intn(sp.cfg.Weights.Sum())
	for i, wt := range weights {
		if r < wt {
			return kinds[i]
		}
		r -= wt
	}
	return ActionQuery
}

func (sp *Sampler) generate(kind ActionKind, clock *Clock) (Action, bool) {
	switch kind {
	case ActionBorrow:
		return sp.borrow()
	case ActionOrder:
		return sp.order()
	case ActionQuery:
		return sp.Query()
	case ActionPick:
		return sp.pick(clock)
	case ActionFailedOrder:
		return sp.failedOrder()
	case ActionRead:
		return sp.read()
	case ActionRestore:
		return sp.restore()
	}
	return Action{}, false
}

// borrow draws a student, filters the shelf for titles they may borrow,
// and biases the title choice by category priority.
func (sp *Sampler) borrow() (Action, bool) {
	s := sp.randomStudent()
	if s == nil {
		return Action{}, false
	}
	var candidates []string
	for _, isbn := range sp.lib.ShelfISBNs() {
		if CanBorrow(s, sp.lib.ShelfCopy(isbn), sp.cfg.MaxHoldings).OK() {
			candidates = append(candidates, isbn)
		}
	}
	isbn, ok := sp.pickByPriority(candidates, 0, sp.cfg.BPriority, sp.cfg.CPriority)
	if !ok {
		return Action{}, false
	}
	return Action{Kind: ActionBorrow, Student: s.ID, Target: isbn}, true
}

func (sp *Sampler) order() (Action, bool) {
	s := sp.randomStudent()
	if s == nil {
		return Action{}, false
	}
	var candidates []string
	for _, isbn := range sp.lib.ShelfISBNs() {
		if CanOrder(s, sp.lib.ShelfCopy(isbn)).OK() {
			candidates = append(candidates, isbn)
		}
	}
	isbn, ok := sp.pickByPriority(candidates, 0, sp.cfg.BPriority, sp.cfg.CPriority)
	if !ok {
		return Action{}, false
	}
	return Action{Kind: ActionOrder, Student: s.ID, Target: isbn}, true
}

// read tries students in random order until one without a pending read has
// something readable; A titles compete here via the read priority.
func (sp *Sampler) read() (Action, bool) {
	students := sp.lib.Students()
	sp.rng.Shuffle(len(students), func(i, j int) {
		students[i], students[j] = students[j], students[i]
	})
	for _, s := range students {
		if s.PendingRead != "" {
			continue
		}
		var candidates []string
		for _, isbn := range sp.lib.ShelfISBNs() {
			if CanRead(s, sp.lib.ShelfCopy(isbn)).OK() {
				candidates = append(candidates, isbn)
			}
		}
		if isbn, ok := sp.pickByPriority(candidates,
			sp.cfg.AReadPriority, sp.cfg.BPriority, sp.cfg.CPriority); ok {
			return Action{Kind: ActionRead, Student: s.ID, Target: isbn}, true
		}
	}
	return Action{}, false
}

// restore is additionally gated by the restore propensity: an unwilling
// reader simply leaves the copy in the reading room.
func (sp *Sampler) restore() (Action, bool) {
	if sp.rng.Float64() >= sp.cfg.RestorePropensity {
		return Action{}, false
	}
	type candidate struct{ student, book string }
	var candidates []candidate
	for _, s := range sp.lib.Students() {
		if s.PendingRead != "" {
			candidates = append(candidates, candidate{s.ID, s.PendingRead})
		}
	}
	if len(candidates) == 0 {
		return Action{}, false
	}
	c := candidates[sp.rng.Intn(len(candidates))]
	return Action{Kind: ActionRestore, Student: c.student, Target: c.book}, true
}

// pick selects uniformly among all reservations still inside their pickup
// window.
func (sp *Sampler) pick(clock *Clock) (Action, bool) {
	type candidate struct{ student, isbn string }
	var candidates []candidate
	for _, s := range sp.lib.Students() {
		for _, b := range sp.reservedCopies(s) {
			if CanPick(s, b, clock.Day).OK() {
				candidates = append(candidates, candidate{s.ID, b.ISBN})
			}
		}
	}
	if len(candidates) == 0 {
		return Action{}, false
	}
	c := candidates[sp.rng.Intn(len(candidates))]
	return Action{Kind: ActionPick, Student: c.student, Target: c.isbn}, true
}

// Query draws a uniformly random copy to ask the consumer about. Queries
// are never infeasible, which makes them the fallback for starved draws.
func (sp *Sampler) Query() (Action, bool) {
	ids := sp.lib.BookIDs()
	s := sp.randomStudent()
	if len(ids) == 0 || s == nil {
		return Action{}, false
	}
	return Action{Kind: ActionQuery, Student: s.ID, Target: ids[sp.rng.Intn(len(ids))]}, true
}

// OpportunisticReturn draws a held copy to give back, uniformly across all
// (student, copy) holdings.
func (sp *Sampler) OpportunisticReturn() (Action, bool) {
	type candidate struct{ student, book string }
	var candidates []candidate
	for _, s := range sp.lib.Students() {
		if s.HeldB != "" {
			candidates = append(candidates, candidate{s.ID, s.HeldB})
		}
		for _, isbn := range sortedKeys(s.HeldC) {
			candidates = append(candidates, candidate{s.ID, s.HeldC[isbn]})
		}
	}
	if len(candidates) == 0 {
		return Action{}, false
	}
	c := candidates[sp.rng.Intn(len(candidates))]
	return Action{Kind: ActionReturn, Student: c.student, Target: c.book}, true
}

// OpportunisticPick draws an eligible pickup the same way.
func (sp *Sampler) OpportunisticPick(clock *Clock) (Action, bool) {
	return sp.pick(clock)
}

// failedOrder builds an order known to be infeasible, probing the
// consumer's rejection path. Probes: ordering a B title while holding or
// reserving one, re-ordering a held or reserved C ISBN, ordering a
// read-only A title.
func (sp *Sampler) failedOrder() (Action, bool) {
	s := sp.randomStudent()
	if s == nil {
		return Action{}, false
	}
	var probes []string
	if s.HasB() {
		if isbn, ok := sp.randomISBNOfType(TypeB); ok {
			probes = append(probes, isbn)
		}
	}
	for _, isbn := range sortedKeys(s.HeldC) {
		probes = append(probes, isbn)
	}
	for _, isbn := range sortedKeys(s.ReservedC) {
		probes = append(probes, isbn)
	}
	if isbn, ok := sp.randomISBNOfType(TypeA); ok {
		probes = append(probes, isbn)
	}
	if len(probes) == 0 {
		return Action{}, false
	}
	isbn := probes[sp.rng.Intn(len(probes))]
	v := sp.lib.OrderVerdict(s, isbn)
	if v.OK() {
		// The probe turned out feasible after all; skip rather than
		// corrupt the rejection bucket.
		return Action{}, false
	}
	return Action{
		Kind:       ActionFailedOrder,
		Student:    s.ID,
		Target:     isbn,
		Infeasible: true,
		Reason:     v.Reason,
	}, true
}

// === Draw helpers ===

// randomStudent picks uniformly among registered students.
func (sp *Sampler) randomStudent() *Student {
	students := sp.lib.Students()
	if len(students) == 0 {
		return nil
	}
	return students[sp.rng.Intn(len(students))]
}

// reservedCopies lists the copies waiting for a student at the
// appointment office, B reservation first, C reservations in ISBN order.
func (sp *Sampler) reservedCopies(s *Student) []*Book {
	var books []*Book
	if s.ReservedB != "" {
		if b := sp.lib.Book(s.ReservedB); b != nil {
			books = append(books, b)
		}
	}
	for _, isbn := range sortedKeys(s.ReservedC) {
		if b := sp.lib.Book(s.ReservedC[isbn]); b != nil {
			books = append(books, b)
		}
	}
	return books
}

// randomISBNOfType picks uniformly among catalog titles of one type.
func (sp *Sampler) randomISBNOfType(t BookType) (string, bool) {
	var matches []string
	for _, isbn := range sp.lib.ISBNs() {
		if TypeOf(isbn) == t {
			matches = append(matches, isbn)
		}
	}
	if len(matches) == 0 {
		return "", false
	}
	return matches[sp.rng.Intn(len(matches))], true
}

// pickByPriority partitions candidate titles by category, draws a category
// proportionally to the priorities, then picks uniformly inside it. Empty
// chosen categories and all-zero priorities fall back to a uniform draw
// over every candidate.
func (sp *Sampler) pickByPriority(candidates []string, aPrio, bPrio, cPrio float64) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	var byType [3][]string // A, B, C
	for _, isbn := range candidates {
		switch TypeOf(isbn) {
		case TypeA:
			byType[0] = append(byType[0], isbn)
		case TypeB:
			byType[1] = append(byType[1], isbn)
		case TypeC:
			byType[2] = append(byType[2], isbn)
		}
	}
	prios := [3]float64{aPrio, bPrio, cPrio}
	total := aPrio + bPrio + cPrio
	if total > 0 {
		r := sp.rng.Float64() * total
		for i, p := range prios {
			if r < p {
				if len(byType[i]) > 0 {
					return byType[i][sp.rng.Intn(len(byType[i]))], true
				}
				break
			}
			r -= p
		}
	}
	return candidates[sp.rng.Intn(len(candidates))], true
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Deterministic iteration; map order would leak into the stream.
	sort.Strings(keys)
	return keys
}
