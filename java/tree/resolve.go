package tree

import "github.com/dhamidi/jintro/java"

// Lookup resolves a simple name as seen from site, following Java scoping:
// locals declared earlier in enclosing blocks, loop variables, parameters,
// then fields of each enclosing class (including inherited ones found in
// the program). Declarations for which skip returns true are ignored.
func (t *Tree) Lookup(site NodeID, name string, skip func(NodeID) bool) NodeID {
	if skip == nil {
		skip = func(NodeID) bool { return false }
	}
	prev := site
	for cur := t.Parent(site); cur.IsValid(); prev, cur = cur, t.Parent(cur) {
		switch t.Kind(cur) {
		case KindBlock:
			children := t.Children(cur)
			for i := len(children) - 1; i >= 0; i-- {
				if children[i] != prev {
					continue
				}
				for j := i - 1; j >= 0; j-- {
					c := children[j]
					if t.Kind(c) == KindLocalVarDecl && t.Name(c) == name && !skip(c) {
						return c
					}
				}
				break
			}
		case KindForEachStmt:
			if prev != t.Child(cur, 0) && t.Name(cur) == name && !skip(cur) {
				return cur
			}
		case KindMethodDecl, KindConstructorDecl, KindLambda:
			for _, p := range t.Params(cur) {
				if t.Name(p) == name && !skip(p) {
					return p
				}
			}
		case KindClassDecl:
			if f := t.lookupField(cur, name, skip, map[NodeID]bool{}); f.IsValid() {
				return f
			}
		case KindCompilationUnit, KindProgram:
			return NoNode
		}
	}
	return NoNode
}

func (t *Tree) lookupField(class NodeID, name string, skip func(NodeID) bool, seen map[NodeID]bool) NodeID {
	if seen[class] {
		return NoNode
	}
	seen[class] = true
	for _, c := range t.Children(class) {
		k := t.Kind(c)
		if (k == KindFieldDecl || k == KindEnumConstant) && t.Name(c) == name && !skip(c) {
			return c
		}
	}
	n := t.Node(class)
	if n == nil || n.Super == "" {
		return NoNode
	}
	super := t.ClassNamed(n.Super)
	if !super.IsValid() {
		return NoNode
	}
	f := t.lookupField(super, name, skip, seen)
	if f.IsValid() && t.Node(f).Mods.Visibility == java.VisibilityPrivate {
		return NoNode
	}
	return f
}

// IsSubclass reports whether class extends base, directly or transitively,
// as far as the superclass chain is declared in the program.
func (t *Tree) IsSubclass(class, base NodeID) bool {
	seen := map[NodeID]bool{}
	for cur := class; cur.IsValid() && !seen[cur]; {
		if cur == base {
			return true
		}
		seen[cur] = true
		n := t.Node(cur)
		if n == nil || n.Super == "" {
			return false
		}
		cur = t.ClassNamed(n.Super)
	}
	return false
}

// Resolve binds every unbound Name to its declaration, and every
// this-qualified FieldAccess to the field of the corresponding class. It
// returns the number of names left unbound, which includes type names used
// as qualifiers.
func Resolve(t *Tree) int {
	unbound := 0
	Walk(t, t.root, func(id NodeID) bool {
		n := t.Node(id)
		if n.Ref.IsValid() && t.Valid(n.Ref) {
			return true
		}
		switch n.Kind {
		case KindName:
			n.Ref = t.Lookup(id, n.Name, nil)
			if !n.Ref.IsValid() {
				unbound++
			}
		case KindFieldAccess:
			qual := t.Child(id, 0)
			if t.Kind(qual) != KindThis {
				break
			}
			class := t.EnclosingClass(id)
			if outer := t.Name(qual); outer != "" {
				for class.IsValid() && t.Name(class) != outer {
					class = t.EnclosingClass(class)
				}
			}
			if class.IsValid() {
				n.Ref = t.lookupField(class, n.Name, func(NodeID) bool { return false }, map[NodeID]bool{})
			}
		}
		return true
	})
	return unbound
}
