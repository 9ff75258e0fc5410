package tree

import (
	"sort"

	"github.com/dhamidi/jintro/java"
)

// Walk visits id and its descendants in document order. Returning false from
// fn skips the children of the visited node.
func Walk(t *Tree, id NodeID, fn func(NodeID) bool) {
	if !t.Valid(id) || !fn(id) {
		return
	}
	for _, c := range t.Children(id) {
		Walk(t, c, fn)
	}
}

// Collect returns every node under id (inclusive) matching pred, in document order.
func Collect(t *Tree, id NodeID, pred func(NodeID) bool) []NodeID {
	var result []NodeID
	Walk(t, id, func(c NodeID) bool {
		if pred(c) {
			result = append(result, c)
		}
		return true
	})
	return result
}

// IsAncestor reports whether anc is id or one of its ancestors.
func (t *Tree) IsAncestor(anc, id NodeID) bool {
	for cur := id; cur.IsValid(); cur = t.Parent(cur) {
		if cur == anc {
			return true
		}
	}
	return false
}

// Path returns the chain from the root down to id, inclusive.
func (t *Tree) Path(id NodeID) []NodeID {
	var path []NodeID
	for cur := id; cur.IsValid(); cur = t.Parent(cur) {
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Enclosing returns the nearest strict ancestor of id satisfying pred.
func (t *Tree) Enclosing(id NodeID, pred func(NodeKind) bool) NodeID {
	for cur := t.Parent(id); cur.IsValid(); cur = t.Parent(cur) {
		if pred(t.Kind(cur)) {
			return cur
		}
	}
	return NoNode
}

func (t *Tree) EnclosingClass(id NodeID) NodeID {
	return t.Enclosing(id, func(k NodeKind) bool { return k == KindClassDecl })
}

// EnclosingStatement returns the nearest statement that is id or contains it.
func (t *Tree) EnclosingStatement(id NodeID) NodeID {
	if t.Kind(id).IsStatement() {
		return id
	}
	return t.Enclosing(id, func(k NodeKind) bool { return k.IsStatement() })
}

// EnclosingMember returns the class member containing id: a method,
// constructor, initializer, field or enum constant.
func (t *Tree) EnclosingMember(id NodeID) NodeID {
	for cur := id; cur.IsValid(); cur = t.Parent(cur) {
		if t.Kind(t.Parent(cur)) == KindClassDecl && t.Kind(cur) != KindClassDecl {
			return cur
		}
		if t.Kind(cur) == KindClassDecl {
			return NoNode
		}
	}
	return NoNode
}

func (t *Tree) Unit(id NodeID) NodeID {
	for cur := id; cur.IsValid(); cur = t.Parent(cur) {
		if t.Kind(cur) == KindCompilationUnit {
			return cur
		}
	}
	return NoNode
}

// TopLevelClass returns the outermost class containing id (inclusive).
func (t *Tree) TopLevelClass(id NodeID) NodeID {
	top := NoNode
	for cur := id; cur.IsValid(); cur = t.Parent(cur) {
		if t.Kind(cur) == KindClassDecl {
			top = cur
		}
	}
	return top
}

// ComparePosition orders two attached nodes by document position. An
// ancestor sorts before its descendants.
func (t *Tree) ComparePosition(a, b NodeID) int {
	if a == b {
		return 0
	}
	pa, pb := t.Path(a), t.Path(b)
	i := 0
	for i < len(pa) && i < len(pb) && pa[i] == pb[i] {
		i++
	}
	switch {
	case i == len(pa):
		return -1
	case i == len(pb):
		return 1
	case i == 0:
		return 0
	}
	parent := pa[i-1]
	ia, ib := -1, -1
	for k, c := range t.Children(parent) {
		if c == pa[i] {
			ia = k
		}
		if c == pb[i] {
			ib = k
		}
	}
	if ia < ib {
		return -1
	}
	return 1
}

// SortByPosition sorts ids in document order, keeping equal elements stable.
func (t *Tree) SortByPosition(ids []NodeID) {
	sort.SliceStable(ids, func(i, j int) bool {
		return t.ComparePosition(ids[i], ids[j]) < 0
	})
}

// Members returns the children of class with the given kind.
func (t *Tree) Members(class NodeID, kind NodeKind) []NodeID {
	var result []NodeID
	for _, c := range t.Children(class) {
		if t.Kind(c) == kind {
			result = append(result, c)
		}
	}
	return result
}

func (t *Tree) Fields(class NodeID) []NodeID {
	return t.Members(class, KindFieldDecl)
}

func (t *Tree) Constructors(class NodeID) []NodeID {
	return t.Members(class, KindConstructorDecl)
}

// FieldNamed returns the field or enum constant of class called name.
func (t *Tree) FieldNamed(class NodeID, name string) NodeID {
	for _, c := range t.Children(class) {
		k := t.Kind(c)
		if (k == KindFieldDecl || k == KindEnumConstant) && t.Name(c) == name {
			return c
		}
	}
	return NoNode
}

// ClassNamed finds a class declaration by simple name anywhere in the program.
func (t *Tree) ClassNamed(name string) NodeID {
	found := NoNode
	Walk(t, t.root, func(id NodeID) bool {
		if found.IsValid() {
			return false
		}
		if t.Kind(id) == KindClassDecl && t.Name(id) == name {
			found = id
			return false
		}
		return t.Kind(id) == KindProgram || t.Kind(id) == KindCompilationUnit || t.Kind(id) == KindClassDecl
	})
	return found
}

// Body returns the Block of a method, constructor, initializer or lambda.
func (t *Tree) Body(id NodeID) NodeID {
	children := t.Children(id)
	if len(children) == 0 {
		return NoNode
	}
	last := children[len(children)-1]
	if t.Kind(last) == KindBlock {
		return last
	}
	return NoNode
}

// Params returns the Parameter children of a method, constructor or lambda.
func (t *Tree) Params(id NodeID) []NodeID {
	return t.Members(id, KindParameter)
}

// Initializer returns the initializer expression of a field or local variable.
func (t *Tree) Initializer(id NodeID) NodeID {
	switch t.Kind(id) {
	case KindFieldDecl, KindLocalVarDecl:
		return t.Child(id, 0)
	}
	return NoNode
}

// LeadingCtorCall returns the explicit this(...) or super(...) call opening
// the constructor's body, if any.
func (t *Tree) LeadingCtorCall(ctor NodeID) NodeID {
	first := t.Child(t.Body(ctor), 0)
	if t.Kind(first) == KindExplicitCtorCall {
		return first
	}
	return NoNode
}

// IsDelegatingConstructor reports whether ctor opens with this(...).
func (t *Tree) IsDelegatingConstructor(ctor NodeID) bool {
	call := t.LeadingCtorCall(ctor)
	return call.IsValid() && t.Name(call) == "this"
}

// IsStaticMember reports whether a member is static, counting interface
// fields and enum constants as implicitly static.
func (t *Tree) IsStaticMember(id NodeID) bool {
	n := t.Node(id)
	if n == nil {
		return false
	}
	switch n.Kind {
	case KindEnumConstant:
		return true
	case KindClassDecl:
		if n.ClassKind != "" && n.ClassKind != java.ClassKindClass && t.Kind(n.Parent) == KindClassDecl {
			return true
		}
	case KindFieldDecl:
		if owner := t.Node(n.Parent); owner != nil && owner.ClassKind == java.ClassKindInterface {
			return true
		}
	}
	return n.Mods.Static
}

// InStaticContext reports whether code at id cannot refer to instance
// members of class, which must enclose id.
func (t *Tree) InStaticContext(id, class NodeID) bool {
	for cur := id; cur.IsValid() && cur != class; cur = t.Parent(cur) {
		k := t.Kind(cur)
		if (k.IsMember() || k == KindClassDecl) && t.IsStaticMember(cur) {
			return true
		}
	}
	return false
}
