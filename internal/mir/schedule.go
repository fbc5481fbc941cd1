package mir

// Schedule orders every subgraph's nodes into a topological instruction
// sequence, per spec.md §4.9. Grounded on
// original_source/lib/passes/mc/InstSched.cc's InstSched::runOnFunction,
// buildAdjacencyList and topoSort.
//
// The adjacency list is built parent -> child (every non-leaf child a
// node reaches, operand or chain edge alike), so Kahn's sort — which
// pops zero-indegree nodes first — visits the subgraph root before its
// operands and leaves last. The instruction order callers actually want
// is the reverse of that (values computed before they're consumed, the
// terminator last), so each popped node is spliced in immediately after
// the node popped right after it: the very last node Kahn pops (the
// deepest leaf) ends up at the head of the resulting list, and the root
// ends up at the tail. Subgraph.Entry is set to that head.
//
// Once every node has its topological index, its live-range-end is extended to the
// lowest topological index among the users that consume it as an
// operand (not a chain edge), so the interval [TopoIndex, LiveRangeEnd]
// covers definition through last use in final instruction order.
func Schedule(mcf *MCFunction) {
	for _, sg := range mcf.Subgraphs {
		sg.Entry = scheduleSubgraph(sg.Root)
	}
}

func scheduleSubgraph(root *Node) *Node {
	adj, order := buildAdjacency(root)

	inDegree := make(map[*Node]int, len(order))
	for _, n := range order {
		inDegree[n] = 0
	}
	for _, n := range order {
		for _, c := range adj[n] {
			inDegree[c]++
		}
	}

	var queue []*Node
	for _, n := range order {
		if inDegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	var topoOrder []*Node
	idx := 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		cur.topoIndex = idx
		cur.liveRangeEnd = idx
		idx++
		topoOrder = append(topoOrder, cur)
		for _, nb := range adj[cur] {
			inDegree[nb]--
			if inDegree[nb] == 0 {
				queue = append(queue, nb)
			}
		}
	}
	if len(topoOrder) == 0 {
		return root
	}

	for i := 1; i < len(topoOrder); i++ {
		updateLiveRangeFromUsers(topoOrder[i])
	}
	// Each earlier-popped node goes immediately after the node popped
	// right after it. Splicing from the back keeps every spliced node a
	// lone node, so no link already made is overwritten.
	for i := len(topoOrder) - 2; i >= 0; i-- {
		topoOrder[i].spliceAfter(topoOrder[i+1])
	}
	return topoOrder[len(topoOrder)-1]
}

// buildAdjacency walks every non-leaf node reachable from root (via
// operand and chain children alike) and records, for each, the
// non-leaf children it points at. order is the discovery order of that
// walk, used to seed Kahn's sort deterministically instead of relying
// on Go's randomized map iteration.
func buildAdjacency(root *Node) (adj map[*Node][]*Node, order []*Node) {
	adj = map[*Node][]*Node{}
	visited := map[*Node]bool{}
	var walk func(n *Node)
	walk = func(n *Node) {
		if visited[n] {
			return
		}
		visited[n] = true
		order = append(order, n)
		for _, c := range n.children {
			if c == nil || c.Arity() == 0 {
				continue
			}
			adj[n] = append(adj[n], c)
		}
		for _, c := range n.children {
			if c == nil || c.Arity() == 0 {
				continue
			}
			walk(c)
		}
	}
	walk(root)
	return adj, order
}

// spliceAfter inserts n immediately after node in node's scheduled list.
func (n *Node) spliceAfter(node *Node) {
	if node.next != nil {
		node.next.prev = n
	}
	n.next = node.next
	n.prev = node
	node.next = n
}

// updateLiveRangeFromUsers extends n's live-range-end using every
// distinct user that consumes n as an operand (chain-edge references
// don't keep a value's register live).
func updateLiveRangeFromUsers(n *Node) {
	seen := map[*Node]bool{}
	for _, u := range n.users {
		if seen[u] {
			continue
		}
		seen[u] = true
		if u.topoIndex < 0 {
			continue
		}
		for i, c := range u.children {
			if c != n || i >= u.arity {
				continue
			}
			if u.topoIndex < n.liveRangeEnd {
				n.liveRangeEnd = u.topoIndex
			}
		}
	}
}
