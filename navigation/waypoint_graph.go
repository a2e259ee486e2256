package navigation

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/paulmach/orb"
	"github.com/samber/lo"
)

// NodeID is a dense index into the graph's node arena
type NodeID int

// NoNode marks the absence of a node
const NoNode NodeID = -1

var (
	// ErrUnknownNode is returned when a node name or id is not in the graph
	ErrUnknownNode = errors.New("unknown waypoint")

	// ErrDuplicateNode is returned when a node name is registered twice
	ErrDuplicateNode = errors.New("duplicate waypoint")
)

// Waypoint is a point on the road network with successor links
type Waypoint struct {
	ID         NodeID
	Name       string
	Pos        orb.Point
	Heading    float64 // Spawn heading in radians, valid when HasHeading
	HasHeading bool
	Segment    string // Owning road segment, empty means always active
	Terminal   bool   // Declared despawn point
	Successors []NodeID

	removed bool
}

// Graph is a directed waypoint graph that owns its nodes
// Successors are non-owning indices; removed nodes stay as tombstones so indices remain stable
type Graph struct {
	nodes    []*Waypoint
	byName   map[string]NodeID
	segments map[string]bool
}

// NewGraph returns an empty graph
func NewGraph() *Graph {
	return &Graph{
		nodes:    make([]*Waypoint, 0, 32),
		byName:   make(map[string]NodeID),
		segments: make(map[string]bool),
	}
}

// AddNode registers a waypoint and returns its id
func (g *Graph) AddNode(name string, pos orb.Point, segment string) (NodeID, error) {
	if _, exists := g.byName[name]; exists {
		return NoNode, fmt.Errorf("%w: %q", ErrDuplicateNode, name)
	}
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, &Waypoint{
		ID:      id,
		Name:    name,
		Pos:     pos,
		Segment: segment,
	})
	g.byName[name] = id
	return id, nil
}

// Link adds a directed successor edge from -> to
func (g *Graph) Link(from, to NodeID) error {
	src, ok := g.Node(from)
	if !ok {
		return fmt.Errorf("%w: id %d", ErrUnknownNode, from)
	}
	if _, ok := g.Node(to); !ok {
		return fmt.Errorf("%w: id %d", ErrUnknownNode, to)
	}
	if lo.Contains(src.Successors, to) {
		return nil
	}
	src.Successors = append(src.Successors, to)
	return nil
}

// SetHeading sets the spawn heading used when a vehicle enters at this node
func (g *Graph) SetHeading(id NodeID, heading float64) {
	if n, ok := g.Node(id); ok {
		n.Heading = heading
		n.HasHeading = true
	}
}

// SetTerminal marks a node as a declared despawn point
func (g *Graph) SetTerminal(id NodeID, terminal bool) {
	if n, ok := g.Node(id); ok {
		n.Terminal = terminal
	}
}

// Node returns a live node by id
func (g *Graph) Node(id NodeID) (*Waypoint, bool) {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil, false
	}
	n := g.nodes[id]
	if n.removed {
		return nil, false
	}
	return n, true
}

// Lookup resolves a node name to its id
func (g *Graph) Lookup(name string) (NodeID, bool) {
	id, ok := g.byName[name]
	if !ok {
		return NoNode, false
	}
	if _, live := g.Node(id); !live {
		return NoNode, false
	}
	return id, true
}

// Len returns the number of live nodes
func (g *Graph) Len() int {
	return lo.CountBy(g.nodes, func(n *Waypoint) bool { return !n.removed })
}

// Nodes returns all live nodes in id order
func (g *Graph) Nodes() []*Waypoint {
	return lo.Filter(g.nodes, func(n *Waypoint, _ int) bool { return !n.removed })
}

// RemoveNode tombstones a node; vehicles targeting it lose their target
func (g *Graph) RemoveNode(id NodeID) error {
	n, ok := g.Node(id)
	if !ok {
		return fmt.Errorf("%w: id %d", ErrUnknownNode, id)
	}
	n.removed = true
	delete(g.byName, n.Name)
	return nil
}

// SetSegmentActive toggles a road segment; inactive segments hide their nodes from routing
func (g *Graph) SetSegmentActive(segment string, active bool) {
	g.segments[segment] = active
}

// SegmentActive reports a segment's state; unknown and empty segments are active
func (g *Graph) SegmentActive(segment string) bool {
	if segment == "" {
		return true
	}
	active, ok := g.segments[segment]
	return !ok || active
}

// ActiveSuccessors returns successors that exist and whose owning segment is active
func (g *Graph) ActiveSuccessors(id NodeID) []NodeID {
	n, ok := g.Node(id)
	if !ok {
		return nil
	}
	return lo.Filter(n.Successors, func(s NodeID, _ int) bool {
		succ, live := g.Node(s)
		return live && g.SegmentActive(succ.Segment)
	})
}

// PickRandom chooses uniformly from set
// Returns false on an empty set, which the caller treats as "no route"
func PickRandom(rng *rand.Rand, set []NodeID) (NodeID, bool) {
	if len(set) == 0 {
		return NoNode, false
	}
	return set[rng.Intn(len(set))], true
}

// Dangling returns live non-terminal nodes that have no successors at all
// These are configuration faults: vehicles reaching them despawn unexpectedly
func (g *Graph) Dangling() []*Waypoint {
	return lo.Filter(g.nodes, func(n *Waypoint, _ int) bool {
		return !n.removed && !n.Terminal && len(n.Successors) == 0
	})
}

// Bounds returns the bounding box of all live nodes
func (g *Graph) Bounds() orb.Bound {
	live := g.Nodes()
	if len(live) == 0 {
		return orb.Bound{}
	}
	b := live[0].Pos.Bound()
	for _, n := range live[1:] {
		b = b.Extend(n.Pos)
	}
	return b
}
