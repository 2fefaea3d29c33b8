// Package rrset holds the Reverse-Reachable-set store: two parallel
// containers that must always satisfy spec.md §3's bijection invariant
// (i in byNode[v] iff v in byIdx[i]). A Store is created at the start of
// an IMM or minimization query and discarded at its end; it is never
// mutated outside of Commit.
package rrset

// Store holds RR sets indexed both by set index and by member node.
type Store struct {
	byIdx  [][]int // byIdx[i] = ordered, duplicate-free members of RR-set i
	byNode [][]int // byNode[v] = indices of RR sets containing v, in build order
	n      int
}

// New creates an empty store over a node space of size n.
func New(n int) *Store {
	return &Store{
		byNode: make([][]int, n),
		n:      n,
	}
}

// NumSets returns how many RR sets have been added so far.
func (s *Store) NumSets() int { return len(s.byIdx) }

// Members returns the node ids belonging to RR-set i, in visit order.
// Callers must not mutate the returned slice.
func (s *Store) Members(i int) []int { return s.byIdx[i] }

// SetsContaining returns the RR-set indices containing v, in the order
// they were built. Callers must not mutate the returned slice.
func (s *Store) SetsContaining(v int) []int { return s.byNode[v] }

// Builder accumulates one RR set's members before it is committed with
// Commit. Samplers append to a Builder node by node in visit order.
type Builder struct {
	members []int
	seen    map[int]bool
}

// NewBuilder starts a fresh RR-set builder.
func NewBuilder() *Builder {
	return &Builder{seen: make(map[int]bool)}
}

// Add appends v to the set being built if it is not already a member.
// Returns true if v was newly added.
func (b *Builder) Add(v int) bool {
	if b.seen[v] {
		return false
	}
	b.seen[v] = true
	b.members = append(b.members, v)
	return true
}

// Contains reports whether v has already been added to this builder.
func (b *Builder) Contains(v int) bool { return b.seen[v] }

// Commit appends the accumulated RR set to the store, assigning it the
// next index and updating byNode for every member, preserving the
// bijection invariant by construction.
func (s *Store) Commit(b *Builder) int {
	idx := len(s.byIdx)
	s.byIdx = append(s.byIdx, b.members)
	for _, v := range b.members {
		s.byNode[v] = append(s.byNode[v], idx)
	}
	return idx
}
