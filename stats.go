package lctrie

// Stats reports density metrics of a built trie.
type Stats struct {
	Keys      int // entries of the key table
	Values    int // distinct interned values
	Nodes     int // packed nodes, internal and leaf
	Leaves    int
	Internal  int
	MaxDepth  int // deepest leaf, counted in nodes from the root
	MaxFanout int // widest children block
}

// Stats walks the node array and computes density metrics.
// The walk visits every node exactly once.
func (t *Trie) Stats() Stats {
	if t == nil || t.nodes == nil {
		return Stats{}
	}
	stats := Stats{Keys: len(t.keys), Values: len(t.values)}
	if t.nodes.Len() == 0 {
		return stats
	}
	stats.Nodes = t.nodes.Len()
	type frame struct {
		index int
		depth int
	}
	stack := []frame{{index: 0, depth: 1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := t.nodes.Node(f.index)
		if f.depth > stats.MaxDepth {
			stats.MaxDepth = f.depth
		}
		if node.IsLeaf() {
			stats.Leaves++
			continue
		}
		stats.Internal++
		fanout := 1 << node.Branch
		if fanout > stats.MaxFanout {
			stats.MaxFanout = fanout
		}
		for i := 0; i < fanout; i++ {
			stack = append(stack, frame{index: int(node.ChildBase()) + i, depth: f.depth + 1})
		}
	}
	return stats
}
