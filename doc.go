/*
Package lctrie implements a static level-compressed trie (LC-trie) over
32-bit keys.

An LC-trie skips prefix bits that a whole subtree has in common and
branches on a variable number of the following bits, which keeps the tree
shallow and the representation a single flat array of packed nodes. The
trie is built once from a batch of key/value pairs and is immutable
afterwards; lookups perform no writes and are safe for concurrent use
without locking. The technique follows Nilsson and Karlsson,
"IP-Address Lookup Using LC-Tries" (IEEE JSAC, 1999).

Values are interned: each distinct value occupies one slot of a compact
table addressed by an 8-bit offset, so arbitrarily many keys may share a
value at a cost of one byte per key.

Further Reading

	https://www.csc.kth.se/~snilsson/publications/IP-address-lookup-using-LC-tries/
	https://www.csc.kth.se/~snilsson/publications/Dynamic-trie-compression-implementation/

----------------------------------------------------------------------

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer@com>

All rights reserved.

License information is available in the LICENSE file.
*/
package lctrie

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'lctrie'
func tracer() tracing.Trace {
	return tracing.Select("lctrie")
}

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
