package system

import "sort"

// Node is one handler in the scheduler tree. Fire runs the node's own
// handler, then fires its children depth-first in phase order.
type Node struct {
	name     string
	handler  Handler
	children []*Node
	sorted   bool
}

// NewNode wraps h. A nil handler makes a pure grouping node.
func NewNode(name string, h Handler) *Node {
	return &Node{
		name:     name,
		handler:  h,
		children: make([]*Node, 0, 8),
	}
}

func (n *Node) Name() string { return n.name }

// Phase is the handler's phase; grouping nodes sort first.
func (n *Node) Phase() Phase {
	if n.handler == nil {
		return PhaseInit
	}
	return n.handler.Phase()
}

// Add appends child and returns it so trees can be built inline.
func (n *Node) Add(child *Node) *Node {
	n.children = append(n.children, child)
	n.sorted = false
	return child
}

// Children returns the children in firing order.
func (n *Node) Children() []*Node {
	n.ensureSorted()
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Fire executes the handler and then every child, left to right.
func (n *Node) Fire() {
	if n.handler != nil {
		n.handler.Execute()
	}
	n.ensureSorted()
	for _, c := range n.children {
		c.Fire()
	}
}

// Walk visits n and its descendants in firing order.
func (n *Node) Walk(fn func(depth int, node *Node)) {
	n.walk(0, fn)
}

func (n *Node) walk(depth int, fn func(int, *Node)) {
	fn(depth, n)
	n.ensureSorted()
	for _, c := range n.children {
		c.walk(depth+1, fn)
	}
}

// ensureSorted keeps insertion order among children sharing a phase.
func (n *Node) ensureSorted() {
	if !n.sorted {
		sort.SliceStable(n.children, func(i, j int) bool {
			return n.children[i].Phase() < n.children[j].Phase()
		})
		n.sorted = true
	}
}
