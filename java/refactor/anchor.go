package refactor

import (
	"fmt"

	"github.com/dhamidi/jintro/java/tree"
)

// AnchorPoint is where a synthesized assignment can go.
type AnchorPoint struct {
	Stmt   tree.NodeID // statement that contains every covered occurrence
	Cursor tree.NodeID // statement the assignment is inserted before
	Member tree.NodeID // enclosing method, constructor, initializer or field

	InExplicitCtorCall bool // an occurrence is an argument of this(...) or super(...)
	Conditional        bool // Cursor sits under an if, loop or lambda within Member
}

// AnchorGroup collects the occurrences of one enclosing member.
type AnchorGroup struct {
	Member      tree.NodeID
	Kind        MemberKind
	Occurrences []Occurrence
	Anchor      AnchorPoint
}

// SingleAnchor anchors one occurrence at its nearest enclosing statement.
func SingleAnchor(t *tree.Tree, occ Occurrence) (AnchorPoint, error) {
	return AllAnchor(t, []Occurrence{occ})
}

// AllAnchor computes the lowest common statement covering every
// occurrence. The occurrences must share one enclosing member; use
// GroupAnchors otherwise.
func AllAnchor(t *tree.Tree, occs []Occurrence) (AnchorPoint, error) {
	if len(occs) == 0 {
		return AnchorPoint{}, fmt.Errorf("%w: no occurrences to anchor", ErrInvalidTarget)
	}
	member := tree.NoNode
	for i, o := range occs {
		if !t.Valid(o.Expr) {
			return AnchorPoint{}, &UnresolvedOccurrenceError{Handle: o.Expr, Role: "occurrence"}
		}
		m := t.EnclosingMember(o.Expr)
		if i == 0 {
			member = m
		} else if m != member {
			return AnchorPoint{}, ErrSpansMembers
		}
	}
	anchor := AnchorPoint{Member: member}

	var lca []tree.NodeID
	for _, o := range occs {
		if !o.Stmt.IsValid() {
			// Field initializers and enum constant arguments have no statement.
			return anchor, nil
		}
		if t.Kind(o.Stmt) == tree.KindExplicitCtorCall {
			anchor.InExplicitCtorCall = true
		}
		path := t.Path(o.Stmt)
		if lca == nil {
			lca = path
			continue
		}
		n := 0
		for n < len(lca) && n < len(path) && lca[n] == path[n] {
			n++
		}
		lca = lca[:n]
	}
	if len(lca) == 0 {
		return anchor, fmt.Errorf("%w: occurrences share no statement", ErrInvalidTarget)
	}
	anchor.Stmt = t.EnclosingStatement(lca[len(lca)-1])
	if !anchor.Stmt.IsValid() {
		return anchor, nil
	}

	anchor.Cursor = anchor.Stmt
	if t.Kind(anchor.Stmt) == tree.KindBlock {
		first := firstByPosition(t, occs)
		for _, c := range t.Children(anchor.Stmt) {
			if t.IsAncestor(c, first.Stmt) {
				anchor.Cursor = c
				break
			}
		}
	}
	anchor.Conditional = isConditional(t, anchor.Cursor, member)
	return anchor, nil
}

// GroupAnchors splits occurrences by enclosing member and anchors each
// group. Groups are ordered by their first occurrence.
func GroupAnchors(t *tree.Tree, occs []Occurrence) ([]AnchorGroup, error) {
	var groups []AnchorGroup
	index := map[tree.NodeID]int{}
	for _, o := range occs {
		if !t.Valid(o.Expr) {
			return nil, &UnresolvedOccurrenceError{Handle: o.Expr, Role: "occurrence"}
		}
		m := t.EnclosingMember(o.Expr)
		i, ok := index[m]
		if !ok {
			i = len(groups)
			index[m] = i
			groups = append(groups, AnchorGroup{Member: m, Kind: classifyMember(t, m)})
		}
		groups[i].Occurrences = append(groups[i].Occurrences, o)
	}
	for i := range groups {
		anchor, err := AllAnchor(t, groups[i].Occurrences)
		if err != nil {
			return nil, err
		}
		groups[i].Anchor = anchor
	}
	return groups, nil
}

func classifyMember(t *tree.Tree, member tree.NodeID) MemberKind {
	switch t.Kind(member) {
	case tree.KindMethodDecl:
		return MemberMethod
	case tree.KindConstructorDecl:
		if t.IsDelegatingConstructor(member) {
			return MemberDelegatingConstructor
		}
		return MemberConstructor
	case tree.KindInitializer:
		if t.Node(member).Mods.Static {
			return MemberStaticInitializer
		}
		return MemberInstanceInitializer
	case tree.KindFieldDecl, tree.KindEnumConstant:
		return MemberField
	}
	return MemberNone
}

func firstByPosition(t *tree.Tree, occs []Occurrence) Occurrence {
	first := occs[0]
	for _, o := range occs[1:] {
		if t.ComparePosition(o.Stmt, first.Stmt) < 0 {
			first = o
		}
	}
	return first
}

// isConditional reports whether stmt may not run every time member runs.
func isConditional(t *tree.Tree, stmt, member tree.NodeID) bool {
	for cur := t.Parent(stmt); cur.IsValid() && cur != member; cur = t.Parent(cur) {
		switch t.Kind(cur) {
		case tree.KindIfStmt, tree.KindWhileStmt, tree.KindForEachStmt, tree.KindLambda:
			return true
		}
	}
	return false
}
