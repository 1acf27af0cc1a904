package graph

// Resolve computes the ordered set of modules invalidated by a change to
// changedID: the changed module first, then every transitive importer in
// first-discovery order (breadth-first over Parents edges). A visited set
// keeps cyclic import graphs terminating with each id appearing exactly
// once.
//
// The ordering matters downstream: the changed module must be re-emitted
// before its ancestors, whose re-registration may re-request its fresh
// exports.
//
// A changed id with no graph entry (new, untracked file) resolves to just
// itself; escalation to a full reload happens at the transform step.
func Resolve(g *Graph, changedID string) []string {
	result := []string{changedID}

	if _, ok := g.Get(changedID); !ok {
		return result
	}

	visited := map[string]bool{changedID: true}
	queue := []string{changedID}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		mod, ok := g.Get(id)
		if !ok {
			continue
		}
		for _, parent := range mod.Parents {
			if visited[parent] {
				continue
			}
			visited[parent] = true
			result = append(result, parent)
			queue = append(queue, parent)
		}
	}

	return result
}
