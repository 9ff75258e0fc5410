package refactor

import (
	"errors"
	"fmt"
	"slices"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/jintro/java"
	"github.com/dhamidi/jintro/java/tree"
)

var log = commonlog.GetLogger("jintro.refactor")

// Transactor runs fn with write access to t. Implementations must leave t
// as it was when fn fails.
type Transactor interface {
	Run(t *tree.Tree, fn func() error) error
}

type TransactorFunc func(t *tree.Tree, fn func() error) error

func (f TransactorFunc) Run(t *tree.Tree, fn func() error) error { return f(t, fn) }

// Engine introduces fields, constants and enum constants into a tree.
type Engine struct {
	classify   ConstantClassifier
	fixture    FixturePredicate
	tx         Transactor
	annotation string
}

type Option func(*Engine)

func WithConstantClassifier(c ConstantClassifier) Option { return func(e *Engine) { e.classify = c } }
func WithFixturePredicate(p FixturePredicate) Option     { return func(e *Engine) { e.fixture = p } }
func WithTransactor(tx Transactor) Option                { return func(e *Engine) { e.tx = tx } }

// WithAnnotation sets the annotation added when Settings.Annotate is set.
func WithAnnotation(name string) Option { return func(e *Engine) { e.annotation = name } }

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		classify:   IsCompileTimeConstant,
		fixture:    IsTestFixture,
		tx:         TransactorFunc(tree.Atomic),
		annotation: "NonNls",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// PreviewOccurrences lists the occurrences of target for highlighting. It
// never mutates t.
func (e *Engine) PreviewOccurrences(t *tree.Tree, target Target, scope tree.NodeID) ([]Occurrence, error) {
	return FindOccurrences(t, target, scope)
}

// ComputePlacementPlan analyses req without mutating anything and returns
// the legal placements for its settings.
func (e *Engine) ComputePlacementPlan(req Request) (Plan, error) {
	a, err := e.analyze(req)
	if err != nil {
		return Plan{}, err
	}
	return a.plan, a.planErr
}

// Introduce runs the whole refactoring as one transaction. Every check
// that can fail is done before the first edit; an error from inside the
// transaction leaves the tree as it was.
func (e *Engine) Introduce(req Request) (Outcome, error) {
	a, err := e.analyze(req)
	if err != nil {
		return Outcome{}, err
	}
	t := req.Tree
	s := a.settings

	if unit := t.Node(t.Unit(a.dest)); unit != nil && unit.ReadOnly {
		return Outcome{}, &ReadOnlyTargetError{Class: t.Name(a.dest), Unit: unit.Name}
	}
	if a.planErr != nil {
		return Outcome{}, a.planErr
	}
	placement := s.Placement
	if s.AutoPlacement {
		placement = a.plan.Default
	}
	if !a.plan.Legal.Has(placement) {
		return Outcome{}, &IllegalPlacementError{Requested: placement, Legal: a.plan.Legal, Reasons: a.plan.Excluded}
	}
	if existing := t.FieldNamed(a.dest, s.Name); existing.IsValid() && !s.ConfirmCollision {
		return Outcome{}, &NameCollisionError{Class: t.Name(a.dest), Name: s.Name, Existing: existing}
	}

	log.Infof("introducing %s %s in %s (placement: %s, %d occurrence(s))",
		s.Type, s.Name, t.Name(a.dest), placement, len(a.replaced))
	r := &rewriter{t: t, a: a, placement: placement, annotation: e.annotation}
	var outcome Outcome
	err = e.transact(t, func() error {
		var err error
		outcome, err = r.run()
		return err
	})
	if err != nil {
		return Outcome{}, err
	}
	outcome.Session = req.Session.Remember(placement)
	return outcome, nil
}

// transact turns everything but stale handles into an InternalFault.
func (e *Engine) transact(t *tree.Tree, fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			log.Criticalf("introduce: %v", p)
			err = &InternalFault{Cause: p}
		}
	}()
	err = e.tx.Run(t, fn)
	var unresolved *UnresolvedOccurrenceError
	if err != nil && !errors.As(err, &unresolved) {
		log.Criticalf("introduce: %v", err)
		return &InternalFault{Cause: err}
	}
	return err
}

// analysis is everything derived from a request before mutation.
type analysis struct {
	target   Target
	settings Settings
	owner    tree.NodeID
	dest     tree.NodeID
	init     tree.NodeID
	all      []Occurrence
	replaced []Occurrence
	groups   []AnchorGroup
	forward  ForwardReference
	ctx      PlanContext
	plan     Plan
	planErr  error
}

func (a *analysis) group(member tree.NodeID) (AnchorGroup, bool) {
	for _, g := range a.groups {
		if g.Member == member {
			return g, true
		}
	}
	return AnchorGroup{}, false
}

func (a *analysis) anchorMember() tree.NodeID {
	if len(a.groups) == 1 {
		return a.groups[0].Member
	}
	return tree.NoNode
}

func (e *Engine) analyze(req Request) (*analysis, error) {
	t := req.Tree
	if t == nil {
		return nil, fmt.Errorf("%w: no tree", ErrInvalidTarget)
	}
	if err := checkHandles(t, req); err != nil {
		return nil, err
	}
	a := &analysis{target: req.Target, settings: req.Settings}
	s := &a.settings
	if s.Name == "" {
		return nil, fmt.Errorf("%w: member name is required", ErrInvalidTarget)
	}

	selection := req.Target.Selection()
	if a.owner = t.EnclosingClass(selection); !a.owner.IsValid() {
		return nil, fmt.Errorf("%w: %v is not inside a class", ErrInvalidTarget, selection)
	}
	if req.Target.IsLocal() {
		if t.Kind(selection) != tree.KindLocalVarDecl {
			return nil, fmt.Errorf("%w: %v is %s, not a local variable", ErrInvalidTarget, selection, t.Kind(selection))
		}
		if a.init = t.Initializer(selection); !a.init.IsValid() {
			return nil, fmt.Errorf("%s: %w", t.Name(selection), ErrNoInitializer)
		}
		if s.Type == "" {
			s.Type = t.Node(selection).Type
		}
	} else {
		a.init = selection
	}
	if s.Type == "" && !s.EnumConstant {
		return nil, fmt.Errorf("%w: member type is required for an expression", ErrInvalidTarget)
	}

	a.dest = a.owner
	if s.TargetClass != "" {
		if a.dest = t.ClassNamed(s.TargetClass); !a.dest.IsValid() {
			return nil, fmt.Errorf("%w: no class named %s", ErrInvalidTarget, s.TargetClass)
		}
	}
	if s.EnumConstant {
		s.Type = t.Name(a.dest)
	}

	if err := a.collectOccurrences(t, req); err != nil {
		return nil, err
	}
	anchored := a.replaced
	if req.Target.IsLocal() {
		anchored = append([]Occurrence{{Expr: selection, Stmt: selection}}, anchored...)
	}
	groups, err := GroupAnchors(t, anchored)
	if err != nil {
		return nil, err
	}
	a.groups = groups

	var moving func(tree.NodeID) bool
	if req.Target.IsLocal() {
		moving = func(decl tree.NodeID) bool { return decl == selection }
	}
	a.forward = CheckForwardReference(t, a.init, a.owner, moving)
	a.ctx = e.planContext(t, a, req.Session)
	a.plan, a.planErr = ComputePlacementPlan(a.ctx)
	log.Debugf("plan for %s: legal %s, default %s", s.Name, a.plan.Legal, a.plan.Default)
	return a, nil
}

func checkHandles(t *tree.Tree, req Request) error {
	if req.Target.IsLocal() {
		if !t.Valid(req.Target.Local) {
			return &UnresolvedOccurrenceError{Handle: req.Target.Local, Role: "local variable"}
		}
	} else if len(req.Target.Exprs) == 0 {
		return fmt.Errorf("%w: empty selection", ErrInvalidTarget)
	}
	for _, e := range req.Target.Exprs {
		if !t.Valid(e) {
			return &UnresolvedOccurrenceError{Handle: e, Role: "expression"}
		}
	}
	for _, o := range req.Occurrences {
		if !t.Valid(o.Expr) {
			return &UnresolvedOccurrenceError{Handle: o.Expr, Role: "occurrence"}
		}
		if o.Stmt.IsValid() && !t.Valid(o.Stmt) {
			return &UnresolvedOccurrenceError{Handle: o.Stmt, Role: "statement"}
		}
	}
	if req.Scope.IsValid() && !t.Valid(req.Scope) {
		return &UnresolvedOccurrenceError{Handle: req.Scope, Role: "scope"}
	}
	return nil
}

func (a *analysis) collectOccurrences(t *tree.Tree, req Request) error {
	a.all = req.Occurrences
	if a.all == nil {
		scope := req.Scope
		if !scope.IsValid() {
			scope = a.owner
		}
		occs, err := FindOccurrences(t, req.Target, scope)
		if err != nil {
			return err
		}
		a.all = occs
	}
	if req.Target.IsLocal() || a.settings.ReplaceAll {
		a.replaced = a.all
	} else {
		selection := req.Target.Selection()
		for _, o := range a.all {
			if o.Expr == selection {
				a.replaced = []Occurrence{o}
			}
		}
	}
	if !req.Target.IsLocal() && !containsExpr(a.replaced, req.Target.Selection()) {
		selection := req.Target.Selection()
		a.replaced = append(a.replaced, Occurrence{Expr: selection, Stmt: t.EnclosingStatement(selection)})
		slices.SortStableFunc(a.replaced, func(x, y Occurrence) int {
			return t.ComparePosition(x.Expr, y.Expr)
		})
	}
	return nil
}

func containsExpr(occs []Occurrence, expr tree.NodeID) bool {
	for _, o := range occs {
		if o.Expr == expr {
			return true
		}
	}
	return false
}

func (e *Engine) planContext(t *tree.Tree, a *analysis, session Session) PlanContext {
	s := a.settings
	destNode := t.Node(a.dest)
	ctx := PlanContext{
		Static:       s.static(),
		Final:        s.final(),
		Constant:     s.Constant,
		EnumConstant: s.EnumConstant,

		ForeignTarget:     a.dest != a.owner,
		TargetIsInterface: destNode.ClassKind == java.ClassKindInterface,
		TargetIsEnum:      destNode.ClassKind == java.ClassKindEnum,
		TargetIsRecord:    destNode.ClassKind == java.ClassKindRecord,

		HasUnmovedLocals:     a.forward.HasLocals(),
		ConstantInitializer:  e.classify(t, a.init),
		FixtureInitializerOK: fixtureInitializerOK(t, a.init, a.dest),

		CanSynthesizeConstructor: destNode.ClassKind == java.ClassKindClass || destNode.ClassKind == java.ClassKindEnum,
		TestFixture:              e.fixture(t, a.dest),
		Session:                  session,
	}
	for _, c := range t.Constructors(a.dest) {
		if !t.IsDelegatingConstructor(c) {
			ctx.Constructors++
		}
	}
	for _, g := range a.groups {
		ctx.MemberKinds = append(ctx.MemberKinds, g.Kind)
		if g.Anchor.InExplicitCtorCall {
			ctx.ExplicitCtorCallArgument = true
		}
		for _, o := range g.Occurrences {
			if t.IsAncestor(a.dest, o.Expr) && t.InStaticContext(o.Expr, a.dest) {
				ctx.StaticContext = true
			} else if !reachesInstance(t, o.Expr, a.dest) {
				ctx.OutsideInstanceContext = true
			}
		}
		point := g.Anchor.Cursor
		if g.Kind == MemberConstructor && point.IsValid() {
			point = ctorInsertionPoint(t, t.Body(g.Member), g.Anchor, a.forward)
		}
		for _, local := range a.forward.Locals {
			if !point.IsValid() || t.Lookup(point, t.Name(local), nil) != local {
				ctx.LocalsOutOfScope = true
			}
		}
	}
	if len(a.groups) == 1 {
		g := a.groups[0]
		ctx.AnchorMember = g.Kind
		ctx.AnchorConditional = g.Anchor.Conditional
		ctx.AllInSoleConstructor = g.Kind == MemberConstructor && ctx.Constructors == 1
	}
	return ctx
}

// reachesInstance reports whether an instance of class is in scope at site
// without qualification by a type name: site lies in class or a subclass,
// directly or through non-static inner classes, and not in a static member.
func reachesInstance(t *tree.Tree, site, class tree.NodeID) bool {
	for c := t.EnclosingClass(site); c.IsValid(); c = t.EnclosingClass(c) {
		if t.InStaticContext(site, c) {
			return false
		}
		if t.IsSubclass(c, class) {
			return true
		}
	}
	return false
}
