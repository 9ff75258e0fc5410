package tree

import (
	"fmt"
	"slices"
)

// Insert attaches the detached node child to parent at position index.
// An index past the end appends.
func (t *Tree) Insert(parent NodeID, index int, child NodeID) error {
	p := t.Node(parent)
	c := t.Node(child)
	if p == nil || c == nil {
		return fmt.Errorf("insert %v into %v: %w", child, parent, ErrStaleHandle)
	}
	if c.Parent.IsValid() || child == t.root {
		return fmt.Errorf("insert %v into %v: %w", child, parent, ErrAttached)
	}
	if index < 0 || index > len(p.Children) {
		index = len(p.Children)
	}
	p.Children = slices.Insert(p.Children, index, child)
	c.Parent = parent
	t.version++
	return nil
}

func (t *Tree) Append(parent, child NodeID) error {
	return t.Insert(parent, -1, child)
}

// InsertBefore attaches child as the sibling immediately preceding anchor.
func (t *Tree) InsertBefore(anchor, child NodeID) error {
	parent := t.Parent(anchor)
	if !parent.IsValid() {
		return fmt.Errorf("insert before %v: %w", anchor, ErrDetached)
	}
	return t.Insert(parent, t.IndexOf(anchor), child)
}

// InsertAfter attaches child as the sibling immediately following anchor.
func (t *Tree) InsertAfter(anchor, child NodeID) error {
	parent := t.Parent(anchor)
	if !parent.IsValid() {
		return fmt.Errorf("insert after %v: %w", anchor, ErrDetached)
	}
	return t.Insert(parent, t.IndexOf(anchor)+1, child)
}

// Detach unlinks id from its parent. The subtree stays alive and can be
// attached elsewhere.
func (t *Tree) Detach(id NodeID) error {
	n := t.Node(id)
	if n == nil {
		return fmt.Errorf("detach %v: %w", id, ErrStaleHandle)
	}
	if !n.Parent.IsValid() {
		return nil
	}
	p := t.mustNode(n.Parent)
	if i := slices.Index(p.Children, id); i >= 0 {
		p.Children = slices.Delete(p.Children, i, i+1)
	}
	n.Parent = NoNode
	t.version++
	return nil
}

// Delete detaches id and frees its whole subtree. Every handle into the
// subtree becomes stale.
func (t *Tree) Delete(id NodeID) error {
	if id == t.root {
		return fmt.Errorf("delete root: %w", ErrAttached)
	}
	if err := t.Detach(id); err != nil {
		return err
	}
	t.free1(id)
	return nil
}

func (t *Tree) free1(id NodeID) {
	for _, c := range t.mustNode(id).Children {
		t.free1(c)
	}
	t.release(id)
}

// Replace puts the detached node repl where old is and frees old's subtree.
func (t *Tree) Replace(old, repl NodeID) error {
	o := t.Node(old)
	r := t.Node(repl)
	if o == nil || r == nil {
		return fmt.Errorf("replace %v with %v: %w", old, repl, ErrStaleHandle)
	}
	if r.Parent.IsValid() {
		return fmt.Errorf("replace %v with %v: %w", old, repl, ErrAttached)
	}
	if !o.Parent.IsValid() {
		return fmt.Errorf("replace %v: %w", old, ErrDetached)
	}
	p := t.mustNode(o.Parent)
	i := slices.Index(p.Children, old)
	p.Children[i] = repl
	r.Parent = o.Parent
	o.Parent = NoNode
	t.free1(old)
	t.version++
	return nil
}

// Swap exchanges old with the detached node repl, leaving old alive and
// detached. It is used to re-parent a statement under a new block.
func (t *Tree) Swap(old, repl NodeID) error {
	o := t.Node(old)
	r := t.Node(repl)
	if o == nil || r == nil {
		return fmt.Errorf("swap %v with %v: %w", old, repl, ErrStaleHandle)
	}
	if r.Parent.IsValid() {
		return fmt.Errorf("swap %v with %v: %w", old, repl, ErrAttached)
	}
	if !o.Parent.IsValid() {
		return fmt.Errorf("swap %v: %w", old, ErrDetached)
	}
	p := t.mustNode(o.Parent)
	i := slices.Index(p.Children, old)
	p.Children[i] = repl
	r.Parent = o.Parent
	o.Parent = NoNode
	t.version++
	return nil
}

// Clone deep-copies the subtree at id into a detached subtree. References
// pointing inside the subtree are redirected to the copies; references to
// outside declarations are kept.
func (t *Tree) Clone(id NodeID) NodeID {
	mapping := make(map[NodeID]NodeID)
	copied := t.cloneInto(id, mapping)
	Walk(t, copied, func(c NodeID) bool {
		n := t.mustNode(c)
		if repl, ok := mapping[n.Ref]; ok {
			n.Ref = repl
		}
		return true
	})
	return copied
}

func (t *Tree) cloneInto(id NodeID, mapping map[NodeID]NodeID) NodeID {
	payload := t.mustNode(id).clonePayload()
	copied := t.alloc(payload)
	mapping[id] = copied
	for _, c := range t.mustNode(id).Children {
		cc := t.cloneInto(c, mapping)
		t.mustNode(cc).Parent = copied
		n := t.mustNode(copied)
		n.Children = append(n.Children, cc)
	}
	return copied
}
