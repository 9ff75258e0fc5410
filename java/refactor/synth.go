package refactor

import (
	"fmt"
	"strings"

	"github.com/dhamidi/jintro/java"
	"github.com/dhamidi/jintro/java/tree"
)

// BuildMember synthesizes the detached declaration of the new member. The
// initializer is copied into it only for InlineAtDeclaration; enum
// constants always take their arguments from it.
func BuildMember(t *tree.Tree, dest tree.NodeID, s Settings, placement PlacementKind, init tree.NodeID, fr ForwardReference, annotation string) (tree.NodeID, error) {
	if s.EnumConstant {
		return buildEnumConstant(t, dest, s, init)
	}
	if placement == InlineAtDeclaration && fr.HasLocals() {
		return tree.NoNode, &ForwardReferenceViolation{Locals: localNames(t, fr.Locals)}
	}
	d := tree.Field(s.Name, s.Type, nil)
	d.Mods.Visibility = s.Visibility
	if d.Mods.Visibility == "" {
		d.Mods.Visibility = java.VisibilityPackage
	}
	d.Mods.Static = s.static()
	d.Mods.Final = s.final()
	if s.Annotate && annotation != "" {
		d.Annotate(annotation)
	}
	member := t.Materialize(d)
	if placement == InlineAtDeclaration {
		if err := t.Append(member, t.Clone(init)); err != nil {
			return tree.NoNode, err
		}
	}
	return member, nil
}

func buildEnumConstant(t *tree.Tree, dest tree.NodeID, s Settings, init tree.NodeID) (tree.NodeID, error) {
	if t.Node(dest).ClassKind != java.ClassKindEnum {
		return tree.NoNode, fmt.Errorf("%w: %s is not an enum", ErrInvalidTarget, t.Name(dest))
	}
	member := t.Materialize(tree.EnumConst(s.Name))
	args := []tree.NodeID{init}
	if n := t.Node(init); n != nil && n.Kind == tree.KindNew && sameTypeName(n.Type, t.Name(dest)) {
		args = n.Children
	}
	for _, a := range args {
		if err := t.Append(member, t.Clone(a)); err != nil {
			return tree.NoNode, err
		}
	}
	return member, nil
}

func sameTypeName(typ, class string) bool {
	return typ == class || strings.HasSuffix(typ, "."+class)
}

// MemberIndex is where the new member goes among dest's members: right
// after the forward-referenced field, after the last enum constant for
// enum constants, before an initializer block holding the anchor, before
// the first field of the same staticness, or at the end.
func MemberIndex(t *tree.Tree, dest tree.NodeID, s Settings, fr ForwardReference, anchorMember tree.NodeID) int {
	members := t.Children(dest)
	lastConst := -1
	for i, m := range members {
		if t.Kind(m) == tree.KindEnumConstant {
			lastConst = i
		}
	}
	if s.EnumConstant {
		return lastConst + 1
	}

	index := len(members)
	switch {
	case fr.Field.IsValid() && t.Parent(fr.Field) == dest:
		index = t.IndexOf(fr.Field) + 1
	case t.Kind(anchorMember) == tree.KindInitializer && t.Parent(anchorMember) == dest:
		index = t.IndexOf(anchorMember)
	default:
		for i, m := range members {
			if t.Kind(m) == tree.KindFieldDecl && t.IsStaticMember(m) == s.static() {
				index = i
				break
			}
		}
	}
	if index <= lastConst {
		index = lastConst + 1
	}
	return index
}
