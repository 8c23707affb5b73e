package packed

// Store is the flat node array of a built trie. Index 0 is the root.
//
// Mutation is confined to the build phase: Reserve appends a zeroed block
// of slots, Set fills one slot. Freeze makes the store read-only; after
// that the store may be shared by any number of concurrent readers.
type Store struct {
	frozen bool
	words  []uint32
}

// Len returns the number of allocated node slots.
func (s *Store) Len() int { return len(s.words) }

// Reserve appends n zeroed slots and returns the index of the first.
// It reports false when the store would outgrow the next address space.
func (s *Store) Reserve(n int) (int, bool) {
	if s.frozen {
		panic("packed: Reserve on frozen store")
	}
	if len(s.words)+n > MaxNodes {
		return 0, false
	}
	base := len(s.words)
	s.words = append(s.words, make([]uint32, n)...)
	return base, true
}

// Set writes the node at slot i.
// Expects Branch <= MaxBranch, Skip <= MaxSkip and Next < MaxNodes.
func (s *Store) Set(i int, n Node) {
	if s.frozen {
		panic("packed: Set on frozen store")
	}
	s.words[i] = n.pack()
}

// Node returns the unpacked node at slot i.
func (s *Store) Node(i int) Node { return unpack(s.words[i]) }

// Freeze makes the store read-only.
func (s *Store) Freeze() { s.frozen = true }
