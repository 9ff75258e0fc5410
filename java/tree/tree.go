package tree

import (
	"errors"
	"fmt"

	"fortio.org/safecast"
)

// NodeID is a generation-checked handle into a Tree's arena. The low 32 bits
// hold the 1-based slot index, the high 32 bits the slot generation at the time
// the handle was issued.
type NodeID uint64

const NoNode NodeID = 0

func makeID(index, gen uint32) NodeID {
	return NodeID(uint64(gen)<<32 | uint64(index))
}

func (id NodeID) index() uint32 { return uint32(id) }
func (id NodeID) gen() uint32   { return uint32(id >> 32) }

func (id NodeID) IsValid() bool { return id != NoNode }

func (id NodeID) String() string {
	if id == NoNode {
		return "#none"
	}
	return fmt.Sprintf("#%d.%d", id.index(), id.gen())
}

var (
	// ErrStaleHandle is returned when a handle refers to a freed or reused slot.
	ErrStaleHandle = errors.New("stale node handle")
	// ErrAttached is returned when attaching a node that already has a parent.
	ErrAttached = errors.New("node is already attached")
	// ErrDetached is returned when an edit needs a parent the node does not have.
	ErrDetached = errors.New("node has no parent")
)

// Tree is an arena of nodes forming one program. Children are owned top-down;
// Parent links are plain back-references.
type Tree struct {
	nodes   []Node
	free    []uint32
	root    NodeID
	version uint64
}

// NewTree returns a tree holding an empty Program root.
func NewTree() *Tree {
	t := &Tree{nodes: make([]Node, 0, 64)}
	t.root = t.alloc(Node{Kind: KindProgram})
	return t
}

func (t *Tree) Root() NodeID { return t.root }

// Version increases with every structural edit.
func (t *Tree) Version() uint64 { return t.version }

func (t *Tree) alloc(n Node) NodeID {
	n.live = true
	if k := len(t.free); k > 0 {
		index := t.free[k-1]
		t.free = t.free[:k-1]
		slot := &t.nodes[index-1]
		n.gen = slot.gen + 1
		*slot = n
		return makeID(index, n.gen)
	}
	n.gen = 1
	t.nodes = append(t.nodes, n)
	index, err := safecast.Conv[uint32](len(t.nodes))
	if err != nil {
		panic(fmt.Errorf("tree: arena overflow: %w", err))
	}
	return makeID(index, n.gen)
}

func (t *Tree) release(id NodeID) {
	slot := &t.nodes[id.index()-1]
	slot.live = false
	slot.Children = nil
	slot.Parent = NoNode
	t.free = append(t.free, id.index())
}

// Valid reports whether id still resolves to a live node.
func (t *Tree) Valid(id NodeID) bool {
	index := id.index()
	if index == 0 || int(index) > len(t.nodes) {
		return false
	}
	slot := &t.nodes[index-1]
	return slot.live && slot.gen == id.gen()
}

// Node returns the node for id, or nil when the handle is stale.
func (t *Tree) Node(id NodeID) *Node {
	if !t.Valid(id) {
		return nil
	}
	return &t.nodes[id.index()-1]
}

func (t *Tree) mustNode(id NodeID) *Node {
	n := t.Node(id)
	if n == nil {
		panic(fmt.Errorf("tree: %v: %w", id, ErrStaleHandle))
	}
	return n
}

// Kind returns KindInvalid for stale handles.
func (t *Tree) Kind(id NodeID) NodeKind {
	if n := t.Node(id); n != nil {
		return n.Kind
	}
	return KindInvalid
}

func (t *Tree) Parent(id NodeID) NodeID {
	if n := t.Node(id); n != nil {
		return n.Parent
	}
	return NoNode
}

// Children returns the child list of id. Callers must not modify it.
func (t *Tree) Children(id NodeID) []NodeID {
	if n := t.Node(id); n != nil {
		return n.Children
	}
	return nil
}

func (t *Tree) Child(id NodeID, i int) NodeID {
	children := t.Children(id)
	if i < 0 || i >= len(children) {
		return NoNode
	}
	return children[i]
}

// IndexOf returns the position of id among its parent's children, or -1.
func (t *Tree) IndexOf(id NodeID) int {
	for i, c := range t.Children(t.Parent(id)) {
		if c == id {
			return i
		}
	}
	return -1
}

func (t *Tree) Name(id NodeID) string {
	if n := t.Node(id); n != nil {
		return n.Name
	}
	return ""
}

// Len returns the number of live nodes.
func (t *Tree) Len() int {
	return len(t.nodes) - len(t.free)
}

// Units returns the compilation units of the program.
func (t *Tree) Units() []NodeID {
	return t.Children(t.root)
}
