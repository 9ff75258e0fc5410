package refactor

import (
	"fmt"

	"github.com/dhamidi/jintro/java/tree"
)

// Occurrence is one use site captured before any mutation. Stmt is the
// nearest enclosing statement, or NoNode for uses inside a field
// initializer or enum constant argument.
type Occurrence struct {
	Expr tree.NodeID
	Stmt tree.NodeID
}

// FindOccurrences lists the use sites of target inside scope in document
// order. For a local variable these are all references bound to it, reads
// and writes, within its declaring block. For an expression target they
// are the caller's expressions that lie in scope; expressions nested in
// another one of the set are dropped.
//
// A valid scope without matches yields nil and no error. Malformed input
// yields ErrInvalidTarget.
func FindOccurrences(t *tree.Tree, target Target, scope tree.NodeID) ([]Occurrence, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: no tree", ErrInvalidTarget)
	}
	if scope.IsValid() && t.Kind(scope) != tree.KindClassDecl {
		return nil, fmt.Errorf("%w: scope %v is %s, not a class", ErrInvalidTarget, scope, t.Kind(scope))
	}
	var exprs []tree.NodeID
	if target.IsLocal() {
		found, err := localReferences(t, target.Local, scope)
		if err != nil {
			return nil, err
		}
		exprs = found
	} else {
		found, err := selectedExpressions(t, target.Exprs, scope)
		if err != nil {
			return nil, err
		}
		exprs = found
	}
	if len(exprs) == 0 {
		return nil, nil
	}
	occs := make([]Occurrence, len(exprs))
	for i, e := range exprs {
		occs[i] = Occurrence{Expr: e, Stmt: t.EnclosingStatement(e)}
	}
	return occs, nil
}

func localReferences(t *tree.Tree, local, scope tree.NodeID) ([]tree.NodeID, error) {
	if t.Kind(local) != tree.KindLocalVarDecl {
		return nil, fmt.Errorf("%w: %v is %s, not a local variable", ErrInvalidTarget, local, t.Kind(local))
	}
	block := t.Parent(local)
	if !block.IsValid() {
		return nil, fmt.Errorf("%w: local %s is detached", ErrInvalidTarget, t.Name(local))
	}
	if scope.IsValid() && !t.IsAncestor(scope, block) {
		return nil, nil
	}
	return tree.Collect(t, block, func(id tree.NodeID) bool {
		n := t.Node(id)
		return n.Kind == tree.KindName && n.Ref == local
	}), nil
}

func selectedExpressions(t *tree.Tree, exprs []tree.NodeID, scope tree.NodeID) ([]tree.NodeID, error) {
	if len(exprs) == 0 {
		return nil, fmt.Errorf("%w: empty selection", ErrInvalidTarget)
	}
	seen := make(map[tree.NodeID]bool, len(exprs))
	var kept []tree.NodeID
	for _, e := range exprs {
		if !t.Valid(e) {
			return nil, fmt.Errorf("%w: %v does not resolve", ErrInvalidTarget, e)
		}
		if !t.Kind(e).IsExpression() {
			return nil, fmt.Errorf("%w: %v is %s, not an expression", ErrInvalidTarget, e, t.Kind(e))
		}
		if seen[e] || !t.EnclosingClass(e).IsValid() {
			continue
		}
		seen[e] = true
		if scope.IsValid() && !t.IsAncestor(scope, e) {
			continue
		}
		kept = append(kept, e)
	}
	t.SortByPosition(kept)

	// An ancestor sorts before its descendants.
	var result []tree.NodeID
	for _, e := range kept {
		if n := len(result); n > 0 && t.IsAncestor(result[n-1], e) {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

// Exprs returns the expression handles of occs.
func Exprs(occs []Occurrence) []tree.NodeID {
	ids := make([]tree.NodeID, len(occs))
	for i, o := range occs {
		ids[i] = o.Expr
	}
	return ids
}
