package lctrie

import (
	"fmt"
	"math/bits"
	"sort"

	"github.com/npillmayer/lctrie/packed"
)

// builder emits the packed node array for a sorted key table.
//
// Construction is a single recursion over index ranges of the key table.
// Each call owns one already-reserved slot of the store; it reserves a
// contiguous block for its children and writes its own slot with the
// block base, so every next field is final the moment it is written.
// Recursion depth is bounded by keyBits, since the consumed-bit count
// strictly increases on every level.
type builder struct {
	keys  []keyEntry
	store *packed.Store
}

func (b *builder) build() error {
	root, ok := b.store.Reserve(1)
	if !ok {
		return fmt.Errorf("%w: %d keys", ErrTrieTooLarge, len(b.keys))
	}
	return b.emit(0, len(b.keys), 0, root)
}

// emit writes the node covering keys[first:first+nkeys) into slot at.
// pre is the number of key bits already consumed by ancestors.
func (b *builder) emit(first, nkeys, pre, at int) error {
	if nkeys == 1 {
		b.store.Set(at, packed.Node{Next: uint32(first)})
		return nil
	}
	skip := b.skipBits(first, nkeys, pre)
	if pre+skip >= keyBits {
		// Unreachable for unique keys: two keys sharing all bits are the
		// same key. Defended against regardless.
		tracer().Errorf("branch overflow: pre=%d skip=%d nkeys=%d", pre, skip, nkeys)
		return fmt.Errorf("%w: pre=%d skip=%d nkeys=%d", ErrBranchOverflow, pre, skip, nkeys)
	}
	branch := b.branchBits(first, nkeys, pre+skip)
	base, ok := b.store.Reserve(1 << branch)
	if !ok {
		return fmt.Errorf("%w: %d nodes plus a fanout of %d",
			ErrTrieTooLarge, b.store.Len(), 1<<branch)
	}
	b.store.Set(at, packed.Node{Branch: uint8(branch), Skip: uint8(skip), Next: uint32(base)})
	pos := uint(keyBits - 1 - (pre + skip))
	lo := first
	for field := 0; field < 1<<branch; field++ {
		hi := first + b.bucketEnd(first, nkeys, pos, uint(branch), uint32(field))
		assert(hi > lo, "fill rule violated: empty child bucket")
		if err := b.emit(lo, hi-lo, pre+skip+branch, base+field); err != nil {
			return err
		}
		lo = hi
	}
	assert(lo == first+nkeys, "child partition did not exhaust the key range")
	return nil
}

// skipBits returns the count of leading bits, beyond the pre bits the
// ancestors consumed, that every key of the range has in common.
//
// The range is sorted, so bits common to the first and last key are
// common to every key in between; one XOR of the endpoints suffices.
func (b *builder) skipBits(first, nkeys, pre int) int {
	diff := b.keys[first].key ^ b.keys[first+nkeys-1].key
	skip := bits.LeadingZeros32(diff << pre)
	if skip > keyBits-pre {
		skip = keyBits - pre
	}
	return skip
}

// branchBits chooses the branching degree for a range whose first used
// bits are fixed.
//
// The degree must satisfy the fill rule: every value of the branch-bit
// field below the fixed prefix is realized by at least one key. Degree 1
// always qualifies because the skip is maximal, so bit `used` differs
// between the range endpoints and both halves are populated. Fillability
// is downward closed, so the search walks upward until a wider field
// would leave a bucket empty, or until the remaining bit budget or the
// key count (2^branch <= nkeys) is exhausted.
func (b *builder) branchBits(first, nkeys, used int) int {
	pos := uint(keyBits - 1 - used)
	branch := 1
	for {
		next := branch + 1
		if next > keyBits-used || 1<<next > nkeys {
			break
		}
		if !b.filled(first, nkeys, pos, uint(next)) {
			break
		}
		branch = next
	}
	return branch
}

// filled reports whether every value of the branch-bit field at pos is
// realized by at least one key of the range.
func (b *builder) filled(first, nkeys int, pos, branch uint) bool {
	lo := 0
	for field := uint32(0); field < 1<<branch; field++ {
		hi := b.bucketEnd(first, nkeys, pos, branch, field)
		if hi == lo {
			return false
		}
		lo = hi
	}
	return true
}

// bucketEnd returns the number of keys in the range whose field at pos
// is <= field. The field value is monotone non-decreasing across the
// sorted range, so a monotone-predicate binary search finds the
// boundary.
func (b *builder) bucketEnd(first, nkeys int, pos, branch uint, field uint32) int {
	return sort.Search(nkeys, func(i int) bool {
		return extract(pos, branch, b.keys[first+i].key) > field
	})
}
