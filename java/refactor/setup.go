package refactor

// writeSetup assigns the member in the fixture's setup method, creating
// one in the style of the test class when it is missing. When the
// occurrences lived in the setup method the assignment goes before their
// anchor, otherwise at the end.
func (r *rewriter) writeSetup() error {
	setup := FindSetup(r.t, r.a.dest)
	if !setup.IsValid() {
		setup = r.t.Materialize(setupDraft(detectStyle(r.t, r.a.dest)))
		if err := r.t.Insert(r.a.dest, firstMethodIndex(r.t, r.a.dest), setup); err != nil {
			return err
		}
		log.Infof("synthesized setUp() for %s", r.t.Name(r.a.dest))
	}
	if g, ok := r.a.group(setup); ok && g.Anchor.Cursor.IsValid() {
		return r.assignBefore(g.Anchor.Cursor)
	}
	return r.appendAssignment(r.t.Body(setup))
}
