package navigation

import (
	"github.com/paulmach/orb/planar"
)

// ExitField stores, per node, the shortest road distance to a despawn point
// Computed with Dijkstra from every exit over reversed active links
type ExitField struct {
	Distances []float64 // Per NodeID; -1 if no exit is reachable or the node is removed
	Next      []NodeID  // Successor on the shortest exit path; NoNode at exits and unreachable nodes
}

// Distance returns the exit distance of id, -1 if unreachable
func (f *ExitField) Distance(id NodeID) float64 {
	if id < 0 || int(id) >= len(f.Distances) {
		return -1
	}
	return f.Distances[id]
}

// Reachable reports whether a vehicle at id can ever despawn
func (f *ExitField) Reachable(id NodeID) bool {
	return f.Distance(id) >= 0
}

// --- Min-heap for Dijkstra ---

type heapEntry struct {
	id   NodeID
	dist float64
}

type minHeap []heapEntry

func (h *minHeap) push(e heapEntry) {
	*h = append(*h, e)
	// Sift up
	i := len(*h) - 1
	for i > 0 {
		parent := (i - 1) / 2
		if (*h)[parent].dist <= (*h)[i].dist {
			break
		}
		(*h)[parent], (*h)[i] = (*h)[i], (*h)[parent]
		i = parent
	}
}

func (h *minHeap) pop() heapEntry {
	old := *h
	n := len(old)
	e := old[0]
	old[0] = old[n-1]
	*h = old[:n-1]

	// Sift down
	i := 0
	for {
		left := 2*i + 1
		if left >= len(*h) {
			break
		}
		smallest := left
		if right := left + 1; right < len(*h) && (*h)[right].dist < (*h)[left].dist {
			smallest = right
		}
		if (*h)[i].dist <= (*h)[smallest].dist {
			break
		}
		(*h)[i], (*h)[smallest] = (*h)[smallest], (*h)[i]
		i = smallest
	}
	return e
}

// ExitField computes exit distances under the current segment states
// Edge weight is the planar distance between waypoints
func (g *Graph) ExitField() *ExitField {
	n := len(g.nodes)
	f := &ExitField{
		Distances: make([]float64, n),
		Next:      make([]NodeID, n),
	}
	preds := make([][]NodeID, n)

	var h minHeap
	for i := range g.nodes {
		f.Distances[i] = -1
		f.Next[i] = NoNode
		id := NodeID(i)
		if _, live := g.Node(id); !live {
			continue
		}
		succ := g.ActiveSuccessors(id)
		if len(succ) == 0 {
			f.Distances[i] = 0
			h.push(heapEntry{id: id})
		}
		for _, s := range succ {
			preds[s] = append(preds[s], id)
		}
	}

	for len(h) > 0 {
		cur := h.pop()
		if cur.dist > f.Distances[cur.id] {
			continue // Stale entry
		}
		to := g.nodes[cur.id].Pos
		for _, p := range preds[cur.id] {
			d := cur.dist + planar.Distance(g.nodes[p].Pos, to)
			if f.Distances[p] < 0 || d < f.Distances[p] {
				f.Distances[p] = d
				f.Next[p] = cur.id
				h.push(heapEntry{id: p, dist: d})
			}
		}
	}
	return f
}

// Unreachable returns live nodes on active segments that can never reach an exit
// Vehicles routed into them circulate until a segment toggles or a node is removed
func (g *Graph) Unreachable() []*Waypoint {
	f := g.ExitField()
	var out []*Waypoint
	for _, n := range g.Nodes() {
		if g.SegmentActive(n.Segment) && !f.Reachable(n.ID) {
			out = append(out, n)
		}
	}
	return out
}
