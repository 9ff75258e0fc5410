package refactor

import (
	"github.com/dhamidi/jintro/java/tree"
)

// ForwardReference is what the initializer reads that constrains where the
// new member can go.
type ForwardReference struct {
	// Field is the latest-declared field with its own initializer, owned by
	// the owner class or a class enclosing it, that the initializer reads.
	// It is NoNode when Locals is not empty.
	Field tree.NodeID
	// Locals are local variable, loop variable and parameter declarations
	// the initializer reads but that are not moved along with it.
	Locals []tree.NodeID
}

func (f ForwardReference) HasLocals() bool { return len(f.Locals) > 0 }

// CheckForwardReference walks the references of init. Declarations inside
// init itself, and those for which moving returns true, are ignored.
func CheckForwardReference(t *tree.Tree, init, owner tree.NodeID, moving func(tree.NodeID) bool) ForwardReference {
	var result ForwardReference
	seen := map[tree.NodeID]bool{}
	tree.Walk(t, init, func(id tree.NodeID) bool {
		n := t.Node(id)
		if n.Kind != tree.KindName && n.Kind != tree.KindFieldAccess {
			return true
		}
		decl := n.Ref
		if !t.Valid(decl) || seen[decl] || t.IsAncestor(init, decl) {
			return true
		}
		seen[decl] = true
		if moving != nil && moving(decl) {
			return true
		}
		switch t.Kind(decl) {
		case tree.KindLocalVarDecl, tree.KindParameter, tree.KindForEachStmt:
			result.Locals = append(result.Locals, decl)
		case tree.KindFieldDecl:
			class := t.Parent(decl)
			if !t.IsAncestor(class, owner) || !t.Initializer(decl).IsValid() {
				break
			}
			if !result.Field.IsValid() || t.ComparePosition(decl, result.Field) > 0 {
				result.Field = decl
			}
		}
		return true
	})
	if result.HasLocals() {
		result.Field = tree.NoNode
	}
	return result
}

// localNames renders declarations for error messages.
func localNames(t *tree.Tree, ids []tree.NodeID) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = t.Name(id)
	}
	return names
}

func refOf(t *tree.Tree, id tree.NodeID) tree.NodeID {
	if n := t.Node(id); n != nil {
		return n.Ref
	}
	return tree.NoNode
}
