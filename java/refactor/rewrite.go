package refactor

import (
	"fmt"

	"github.com/dhamidi/jintro/java"
	"github.com/dhamidi/jintro/java/tree"
)

// rewriter applies one analysed introduction. Every method assumes it runs
// inside the caller's transaction.
type rewriter struct {
	t          *tree.Tree
	a          *analysis
	placement  PlacementKind
	annotation string

	member   tree.NodeID
	original tree.NodeID // statement removed in the last step, if any
	outcome  Outcome
}

// skip hides the promoted local from lookups: it is removed in the last
// step, so references must not bind to it.
func (r *rewriter) skip(decl tree.NodeID) bool {
	return r.a.target.IsLocal() && decl == r.a.target.Local
}

func (r *rewriter) run() (Outcome, error) {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"insert member", r.insertMember},
		{"adjust visibility", r.adjustVisibility},
		{"write initializer", r.writeInitializer},
		{"replace occurrences", r.replaceOccurrences},
		{"delete original", r.deleteOriginal},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			return Outcome{}, fmt.Errorf("%s: %w", step.name, err)
		}
		log.Debugf("%s: done (tree version %d)", step.name, r.t.Version())
	}
	r.outcome.Member = r.member
	r.outcome.Placement = r.placement
	return r.outcome, nil
}

func (r *rewriter) insertMember() error {
	a := r.a
	member, err := BuildMember(r.t, a.dest, a.settings, r.placement, a.init, a.forward, r.annotation)
	if err != nil {
		return err
	}
	index := MemberIndex(r.t, a.dest, a.settings, a.forward, a.anchorMember())
	if err := r.t.Insert(a.dest, index, member); err != nil {
		return err
	}
	r.member = member
	for _, c := range r.t.Children(member) {
		if err := r.requalify(c); err != nil {
			return err
		}
	}
	return nil
}

func (r *rewriter) adjustVisibility() error {
	n := r.t.Node(r.member)
	if n.Kind == tree.KindEnumConstant {
		return nil
	}
	if r.t.Node(r.a.dest).ClassKind == java.ClassKindInterface {
		n.Mods.Visibility = java.VisibilityPublic
		r.outcome.Visibility = java.VisibilityPublic
		return nil
	}
	var sites []tree.NodeID
	for _, o := range r.a.replaced {
		if !r.standalone(o) {
			sites = append(sites, o.Expr)
		}
	}
	requested := n.Mods.Visibility
	v, unreachable := RequiredVisibility(r.t, r.a.dest, requested, sites)
	if v != requested {
		log.Infof("%s: visibility %s raised to %s", n.Name, requested, v)
	}
	n.Mods.Visibility = v
	r.outcome.Visibility = v
	if len(unreachable) > 0 {
		w := &VisibilityWideningWarning{Member: n.Name, Requested: requested, Sites: unreachable}
		log.Warningf("%s", w)
		r.outcome.Warnings = append(r.outcome.Warnings, w)
	}
	return nil
}

func (r *rewriter) writeInitializer() error {
	switch r.placement {
	case InlineAtDeclaration:
		return nil
	case InCurrentMethod:
		cursor := r.a.groups[0].Anchor.Cursor
		if !r.t.Valid(cursor) {
			return &UnresolvedOccurrenceError{Handle: cursor, Role: "anchor"}
		}
		return r.assignBefore(cursor)
	case InConstructors:
		return r.writeConstructors()
	case InFixtureSetup:
		return r.writeSetup()
	}
	panic(fmt.Errorf("unexpected placement %v", r.placement))
}

// newAssignment materializes a detached `member = initializer;`.
func (r *rewriter) newAssignment() tree.NodeID {
	target := tree.Ident(r.t.Name(r.member)).BindsTo(r.member)
	stmt := r.t.Materialize(tree.Stmt(tree.Assign(target, nil)))
	assign := r.t.Child(stmt, 0)
	if err := r.t.Append(assign, r.t.Clone(r.a.init)); err != nil {
		panic(err)
	}
	return stmt
}

// placed finishes an assignment that was just attached.
func (r *rewriter) placed(stmt tree.NodeID) error {
	assign := r.t.Child(stmt, 0)
	if _, err := r.bind(r.t.Child(assign, 0), r.member); err != nil {
		return err
	}
	if err := r.requalify(r.t.Child(assign, 1)); err != nil {
		return err
	}
	r.outcome.Assignments = append(r.outcome.Assignments, stmt)
	return nil
}

// assignBefore inserts a new assignment right before cursor. A cursor that
// is the brace-less body of an if or loop is first wrapped in a block so
// that both statements stay under it.
func (r *rewriter) assignBefore(cursor tree.NodeID) error {
	if r.t.Kind(r.t.Parent(cursor)) != tree.KindBlock {
		block := r.t.Materialize(tree.Block())
		if err := r.t.Swap(cursor, block); err != nil {
			return err
		}
		if err := r.t.Append(block, cursor); err != nil {
			return err
		}
		log.Debugf("wrapped %s in a block", r.t.Kind(cursor))
	}
	stmt := r.newAssignment()
	if err := r.t.InsertBefore(cursor, stmt); err != nil {
		return err
	}
	return r.placed(stmt)
}

func (r *rewriter) appendAssignment(block tree.NodeID) error {
	stmt := r.newAssignment()
	if err := r.t.Append(block, stmt); err != nil {
		return err
	}
	return r.placed(stmt)
}

func (r *rewriter) assignAfter(anchor tree.NodeID) error {
	stmt := r.newAssignment()
	if err := r.t.InsertAfter(anchor, stmt); err != nil {
		return err
	}
	return r.placed(stmt)
}

// standalone reports whether o is the whole expression of an expression
// statement. Such an occurrence cannot become a bare reference: the
// statement is deleted when it is the selection and DeleteOriginal is set,
// and left alone otherwise.
func (r *rewriter) standalone(o Occurrence) bool {
	return r.t.Kind(r.t.Parent(o.Expr)) == tree.KindExprStmt
}

func (r *rewriter) replaceOccurrences() error {
	occs := r.a.replaced
	for _, o := range occs {
		if !r.t.Valid(o.Expr) {
			return &UnresolvedOccurrenceError{Handle: o.Expr, Role: "occurrence"}
		}
	}
	rewritten := make([]tree.NodeID, 0, len(occs))
	for i := len(occs) - 1; i >= 0; i-- {
		o := occs[i]
		if r.standalone(o) {
			if o.Expr == r.a.target.Selection() && r.a.settings.DeleteOriginal {
				r.original = r.t.Parent(o.Expr)
			}
			continue
		}
		ref := r.t.Materialize(tree.Ident(r.t.Name(r.member)).BindsTo(r.member))
		if err := r.t.Replace(o.Expr, ref); err != nil {
			return err
		}
		final, err := r.bind(ref, r.member)
		if err != nil {
			return err
		}
		rewritten = append(rewritten, final)
	}
	for i, j := 0, len(rewritten)-1; i < j; i, j = i+1, j-1 {
		rewritten[i], rewritten[j] = rewritten[j], rewritten[i]
	}
	r.outcome.Rewritten = rewritten
	return nil
}

func (r *rewriter) deleteOriginal() error {
	if r.a.target.IsLocal() {
		r.original = r.a.target.Local
	}
	orig := r.original
	if !orig.IsValid() {
		return nil
	}
	if !r.t.Valid(orig) {
		return &UnresolvedOccurrenceError{Handle: orig, Role: "original declaration"}
	}
	comments := r.t.Node(orig).Comments
	prev := r.t.Child(r.t.Parent(orig), r.t.IndexOf(orig)-1)

	if r.t.Kind(r.t.Parent(orig)) == tree.KindBlock {
		if err := r.t.Delete(orig); err != nil {
			return err
		}
	} else {
		if err := r.t.Replace(orig, r.t.Materialize(tree.Empty())); err != nil {
			return err
		}
	}
	if len(comments) == 0 {
		return nil
	}
	home := r.member
	for _, s := range r.outcome.Assignments {
		if s == prev {
			home = s
		}
	}
	n := r.t.Node(home)
	n.Comments = append(append([]string(nil), comments...), n.Comments...)
	return nil
}

// bind makes the attached reference ref, which names decl, resolve to
// decl from where it stands, qualifying it when the simple name is
// shadowed or out of scope. It returns the final reference node.
func (r *rewriter) bind(ref, decl tree.NodeID) (tree.NodeID, error) {
	name := r.t.Name(decl)
	if r.t.Lookup(ref, name, r.skip) == decl {
		return ref, nil
	}
	class := r.t.Parent(decl)
	var qualifier *tree.Draft
	if r.t.IsStaticMember(decl) {
		qualifier = tree.Ident(r.t.Name(class))
	} else {
		qualifier = tree.ThisExpr(r.outerThis(ref, class))
	}
	qualified := r.t.Materialize(tree.Dot(qualifier, name).BindsTo(decl))
	if err := r.t.Replace(ref, qualified); err != nil {
		return tree.NoNode, err
	}
	return qualified, nil
}

// outerThis returns the class name to put before `.this` when the instance
// of class is not the innermost one at site.
func (r *rewriter) outerThis(site, class tree.NodeID) string {
	inner := r.t.EnclosingClass(site)
	for c := inner; c.IsValid(); c = r.t.EnclosingClass(c) {
		if r.t.IsSubclass(c, class) {
			if c == inner {
				return ""
			}
			return r.t.Name(c)
		}
	}
	return ""
}

// requalify binds every field reference in a copied expression from its
// new position.
func (r *rewriter) requalify(expr tree.NodeID) error {
	names := tree.Collect(r.t, expr, func(id tree.NodeID) bool {
		n := r.t.Node(id)
		k := r.t.Kind(n.Ref)
		return n.Kind == tree.KindName && (k == tree.KindFieldDecl || k == tree.KindEnumConstant)
	})
	for i := len(names) - 1; i >= 0; i-- {
		if _, err := r.bind(names[i], r.t.Node(names[i]).Ref); err != nil {
			return err
		}
	}
	return nil
}
