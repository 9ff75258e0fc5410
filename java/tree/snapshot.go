package tree

// Snapshot is a deep copy of a tree's arena. Restoring it brings back every
// handle that was valid when it was taken.
type Snapshot struct {
	nodes   []Node
	free    []uint32
	root    NodeID
	version uint64
}

func (t *Tree) Snapshot() *Snapshot {
	s := &Snapshot{
		nodes:   make([]Node, len(t.nodes)),
		free:    append([]uint32(nil), t.free...),
		root:    t.root,
		version: t.version,
	}
	for i := range t.nodes {
		s.nodes[i] = t.nodes[i]
		s.nodes[i].Children = append([]NodeID(nil), t.nodes[i].Children...)
		s.nodes[i].Mods = t.nodes[i].Mods.clone()
		if t.nodes[i].Comments != nil {
			s.nodes[i].Comments = append([]string(nil), t.nodes[i].Comments...)
		}
	}
	return s
}

// Restore rolls the tree back to s. The version keeps increasing so that
// observers notice the change.
func (t *Tree) Restore(s *Snapshot) {
	version := t.version
	t.nodes = s.nodes
	t.free = s.free
	t.root = s.root
	t.version = version + 1
	// s must not be shared with the live tree after restoring.
	*s = *t.Snapshot()
}

// Atomic runs fn as one mutation transaction: if fn returns an error or
// panics, the tree is restored to its state before the call. Panics are
// re-raised after the rollback.
func Atomic(t *Tree, fn func() error) (err error) {
	snap := t.Snapshot()
	committed := false
	defer func() {
		if !committed {
			t.Restore(snap)
		}
	}()
	if err = fn(); err != nil {
		return err
	}
	committed = true
	return nil
}
