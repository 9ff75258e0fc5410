package refactor

import (
	"github.com/dhamidi/jintro/java"
	"github.com/dhamidi/jintro/java/tree"
)

// ConstantClassifier decides whether expr is a compile-time constant.
type ConstantClassifier func(t *tree.Tree, expr tree.NodeID) bool

// IsCompileTimeConstant approximates JLS 15.29 on an untyped tree:
// non-null literals, operators over constants, casts to primitives or
// String, and simple or qualified names of final variables whose
// initializer is itself constant.
func IsCompileTimeConstant(t *tree.Tree, expr tree.NodeID) bool {
	return isConstant(t, expr, map[tree.NodeID]bool{})
}

func isConstant(t *tree.Tree, id tree.NodeID, visiting map[tree.NodeID]bool) bool {
	n := t.Node(id)
	if n == nil {
		return false
	}
	switch n.Kind {
	case tree.KindLiteral:
		return n.Value != "" && n.Value != "null"
	case tree.KindUnary:
		if n.Value == "++" || n.Value == "--" {
			return false
		}
		return isConstant(t, t.Child(id, 0), visiting)
	case tree.KindBinary, tree.KindConditional, tree.KindParen:
		for _, c := range n.Children {
			if !isConstant(t, c, visiting) {
				return false
			}
		}
		return len(n.Children) > 0
	case tree.KindCast:
		if !java.IsPrimitiveType(n.Type) && n.Type != "String" && n.Type != "java.lang.String" {
			return false
		}
		return isConstant(t, t.Child(id, 0), visiting)
	case tree.KindName, tree.KindFieldAccess:
		decl := t.Node(n.Ref)
		if decl == nil || visiting[n.Ref] {
			return false
		}
		if !decl.Mods.Final && !isInterfaceField(t, n.Ref) {
			return false
		}
		if decl.Kind != tree.KindFieldDecl && decl.Kind != tree.KindLocalVarDecl {
			return false
		}
		init := t.Initializer(n.Ref)
		if !init.IsValid() {
			return false
		}
		visiting[n.Ref] = true
		defer delete(visiting, n.Ref)
		return isConstant(t, init, visiting)
	}
	return false
}

// Interface fields are implicitly public static final.
func isInterfaceField(t *tree.Tree, field tree.NodeID) bool {
	owner := t.Node(t.Parent(field))
	return t.Kind(field) == tree.KindFieldDecl && owner != nil && owner.ClassKind == java.ClassKindInterface
}
