package refactor

import (
	"github.com/dhamidi/jintro/java"
	"github.com/dhamidi/jintro/java/tree"
)

// writeConstructors assigns the member in every constructor that does not
// delegate with this(...), synthesizing a default constructor first when
// the class declares none. Constructors without occurrences get the
// assignment after a leading super(...) or at the end.
//
// A constructor that holds occurrences is not appended to: its replaced
// occurrences read the member, so the assignment must run first. It goes
// before the top-level statement containing the first occurrence, or right
// before the occurrence's anchor when the initializer reads locals, since
// those are only in scope there.
func (r *rewriter) writeConstructors() error {
	dest := r.a.dest
	ctors := r.t.Constructors(dest)
	if len(ctors) == 0 {
		ctor, err := r.synthesizeConstructor()
		if err != nil {
			return err
		}
		ctors = []tree.NodeID{ctor}
	}
	for _, c := range ctors {
		if r.t.IsDelegatingConstructor(c) {
			log.Debugf("skipping %s(...): delegates with this(...)", r.t.Name(c))
			continue
		}
		body := r.t.Body(c)
		if g, ok := r.a.group(c); ok && g.Anchor.Cursor.IsValid() {
			if err := r.assignBefore(ctorInsertionPoint(r.t, body, g.Anchor, r.a.forward)); err != nil {
				return err
			}
			continue
		}
		if call := r.t.LeadingCtorCall(c); call.IsValid() {
			if err := r.assignAfter(call); err != nil {
				return err
			}
			continue
		}
		if err := r.appendAssignment(body); err != nil {
			return err
		}
	}
	return nil
}

func (r *rewriter) synthesizeConstructor() (tree.NodeID, error) {
	dest := r.t.Node(r.a.dest)
	d := tree.Ctor(nil, tree.Block())
	d.Name = dest.Name
	if dest.ClassKind != java.ClassKindEnum {
		d.Mods.Visibility = dest.Mods.Visibility
	}
	ctor := r.t.Materialize(d)
	if err := r.t.Insert(r.a.dest, firstMethodIndex(r.t, r.a.dest), ctor); err != nil {
		return tree.NoNode, err
	}
	log.Infof("synthesized default constructor for %s", dest.Name)
	return ctor, nil
}

// ctorInsertionPoint is the statement the constructor assignment goes
// before. The planner checks local scope at the same statement.
func ctorInsertionPoint(t *tree.Tree, body tree.NodeID, anchor AnchorPoint, fr ForwardReference) tree.NodeID {
	if fr.HasLocals() {
		return anchor.Cursor
	}
	return topLevelStatement(t, body, anchor.Cursor)
}

// topLevelStatement climbs from stmt to the statement directly in body.
func topLevelStatement(t *tree.Tree, body, stmt tree.NodeID) tree.NodeID {
	for cur := stmt; cur.IsValid(); cur = t.Parent(cur) {
		if t.Parent(cur) == body {
			return cur
		}
	}
	return stmt
}

// firstMethodIndex is the position of the first method or constructor of
// class, or the end of its member list.
func firstMethodIndex(t *tree.Tree, class tree.NodeID) int {
	for i, m := range t.Children(class) {
		if k := t.Kind(m); k == tree.KindMethodDecl || k == tree.KindConstructorDecl {
			return i
		}
	}
	return len(t.Children(class))
}
