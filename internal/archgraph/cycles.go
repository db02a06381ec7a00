package archgraph

// DetectCycles enumerates all circular dependency groups using Tarjan's
// strongly-connected-components algorithm in O(V+E).
//
// The traversal is iterative: each DFS frame (node + next child index) lives
// on an explicit stack, so graphs with thousands of nodes cannot exhaust the
// call stack. All bookkeeping (discovery indices, low-links, component stack)
// is local to one call.
//
// Components are returned in the order their root is finalized (reverse
// topological order of the condensation); members are listed in discovery
// order within the component, so a simple cycle reads as a closed path. A
// singleton component is a cycle only if the node has a self-edge.
func DetectCycles(g *Graph) []Cycle {
	var (
		counter int
		index   = make(map[string]int, len(g.order))
		lowlink = make(map[string]int, len(g.order))
		onStack = make(map[string]bool, len(g.order))
		stack   []string
		cycles  []Cycle
	)

	type frame struct {
		node string
		next int // index of the next out-edge to examine
	}
	var frames []frame

	discover := func(n string) {
		index[n] = counter
		lowlink[n] = counter
		counter++
		stack = append(stack, n)
		onStack[n] = true
		frames = append(frames, frame{node: n})
	}

	for _, root := range g.order {
		if _, seen := index[root]; seen {
			continue
		}
		discover(root)

		for len(frames) > 0 {
			f := &frames[len(frames)-1]
			deps := g.adj[f.node]

			if f.next < len(deps) {
				w := deps[f.next]
				f.next++
				if _, seen := index[w]; !seen {
					discover(w)
				} else if onStack[w] && index[w] < lowlink[f.node] {
					lowlink[f.node] = index[w]
				}
				continue
			}

			// All out-edges of f.node examined; retire the frame.
			v := f.node
			frames = frames[:len(frames)-1]
			if len(frames) > 0 {
				parent := frames[len(frames)-1].node
				if lowlink[v] < lowlink[parent] {
					lowlink[parent] = lowlink[v]
				}
			}

			if lowlink[v] != index[v] {
				continue
			}

			// v is a component root: pop the stack down to and including v.
			var members []string
			for {
				n := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[n] = false
				members = append(members, n)
				if n == v {
					break
				}
			}
			if len(members) > 1 || g.hasSelfEdge(v) {
				// Popping yields reverse discovery order; flip so a simple
				// cycle's members read as a closed path.
				for i, j := 0, len(members)-1; i < j; i, j = i+1, j-1 {
					members[i], members[j] = members[j], members[i]
				}
				cycles = append(cycles, Cycle{Members: members})
			}
		}
	}

	return cycles
}
