package packed

// Field widths of the packed 32-bit node layout.
const (
	branchBits = 5
	skipBits   = 7
	nextBits   = 20
)

const (
	// MaxBranch and MaxSkip bound the fields an internal node can carry.
	MaxBranch = 1<<branchBits - 1
	MaxSkip   = 1<<skipBits - 1

	// MaxNodes bounds the store: next must be able to address every node.
	MaxNodes = 1 << nextBits
)

// Node is the unpacked form of one trie node.
//   - Branch is the number of key bits consumed when branching here;
//     Branch == 0 marks a leaf.
//   - Skip is the number of key bits skipped (implied by the path, not
//     re-examined) before branching.
//   - Next is the base index of the children block for an internal node
//     (children occupy Next .. Next+2^Branch-1, contiguously), or the
//     key-table index of the matching entry for a leaf.
//
// Packing to and from the bit-field word happens only in this package;
// algorithmic code works on the unpacked form.
type Node struct {
	Branch uint8
	Skip   uint8
	Next   uint32
}

// IsLeaf reports whether n addresses a key-table entry instead of a
// children block.
func (n Node) IsLeaf() bool { return n.Branch == 0 }

// ChildBase returns the store index of the first child.
// Defined only for internal nodes.
func (n Node) ChildBase() uint32 { return n.Next }

// LeafTarget returns the key-table index of the matching entry.
// Defined only for leaves.
func (n Node) LeafTarget() uint32 { return n.Next }

// pack expects Branch <= MaxBranch, Skip <= MaxSkip, Next < MaxNodes.
func (n Node) pack() uint32 {
	return uint32(n.Branch)<<(skipBits+nextBits) | uint32(n.Skip)<<nextBits | n.Next
}

func unpack(word uint32) Node {
	return Node{
		Branch: uint8(word >> (skipBits + nextBits)),
		Skip:   uint8(word>>nextBits) & MaxSkip,
		Next:   word & (MaxNodes - 1),
	}
}
