package refactor

import (
	"fmt"
	"strings"
)

// PlacementKind says where the initializer of the new member lives.
type PlacementKind uint8

const (
	InlineAtDeclaration PlacementKind = iota
	InCurrentMethod
	InConstructors
	InFixtureSetup
)

// AllPlacements lists every placement in declaration order.
var AllPlacements = []PlacementKind{InlineAtDeclaration, InCurrentMethod, InConstructors, InFixtureSetup}

var placementNames = map[PlacementKind]string{
	InlineAtDeclaration: "declaration",
	InCurrentMethod:     "method",
	InConstructors:      "constructors",
	InFixtureSetup:      "setup",
}

func (k PlacementKind) String() string {
	if name, ok := placementNames[k]; ok {
		return name
	}
	return fmt.Sprintf("PlacementKind(%d)", uint8(k))
}

func ParsePlacement(s string) (PlacementKind, error) {
	for kind, name := range placementNames {
		if name == s {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown placement %q (want declaration, method, constructors or setup)", s)
}

// PlacementSet is a set of placements.
type PlacementSet uint8

func SetOf(kinds ...PlacementKind) PlacementSet {
	var s PlacementSet
	for _, k := range kinds {
		s = s.With(k)
	}
	return s
}

func (s PlacementSet) Has(k PlacementKind) bool          { return s&(1<<k) != 0 }
func (s PlacementSet) With(k PlacementKind) PlacementSet { return s | 1<<k }
func (s PlacementSet) Empty() bool                       { return s == 0 }

func (s PlacementSet) Kinds() []PlacementKind {
	var kinds []PlacementKind
	for _, k := range AllPlacements {
		if s.Has(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

func (s PlacementSet) String() string {
	var names []string
	for _, k := range s.Kinds() {
		names = append(names, k.String())
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

// MemberKind classifies the class member that encloses an occurrence.
type MemberKind uint8

const (
	MemberNone MemberKind = iota
	MemberMethod
	MemberConstructor
	MemberDelegatingConstructor
	MemberStaticInitializer
	MemberInstanceInitializer
	MemberField
)

var memberKindNames = map[MemberKind]string{
	MemberNone:                  "none",
	MemberMethod:                "method",
	MemberConstructor:           "constructor",
	MemberDelegatingConstructor: "delegating constructor",
	MemberStaticInitializer:     "static initializer",
	MemberInstanceInitializer:   "instance initializer",
	MemberField:                 "field initializer",
}

func (k MemberKind) String() string { return memberKindNames[k] }

// PlanContext holds everything the planner needs. Engine.ComputePlacementPlan
// derives it from a request; callers that only want to grey out choices can
// fill it in themselves.
type PlanContext struct {
	// Requested member shape.
	Static       bool
	Final        bool
	Constant     bool
	EnumConstant bool

	// Destination.
	ForeignTarget     bool // destination differs from the class owning the selection
	TargetIsInterface bool
	TargetIsEnum      bool
	TargetIsRecord    bool

	// Initializer analysis.
	HasUnmovedLocals     bool
	LocalsOutOfScope     bool // some unmoved local is not visible at the anchor
	ConstantInitializer  bool
	FixtureInitializerOK bool

	// Occurrence analysis, restricted to the occurrences being replaced.
	StaticContext bool
	// OutsideInstanceContext: an occurrence has no instance of the
	// destination class in scope.
	OutsideInstanceContext   bool
	MemberKinds              []MemberKind // one per enclosing member group
	AnchorMember             MemberKind
	AnchorConditional        bool // the anchor sits under an if, loop or lambda
	ExplicitCtorCallArgument bool // an occurrence is an argument of this(...) or super(...)
	AllInSoleConstructor     bool

	// Destination class inventory.
	Constructors             int // constructors that do not open with this(...)
	CanSynthesizeConstructor bool
	TestFixture              bool

	Session Session
}

// Plan is the set of legal placements for one invocation.
type Plan struct {
	Legal    PlacementSet
	Default  PlacementKind
	Excluded map[PlacementKind]string
}

// defaultOrder is the least structurally disruptive placement first.
var defaultOrder = []PlacementKind{InCurrentMethod, InlineAtDeclaration, InConstructors, InFixtureSetup}

// ComputePlacementPlan evaluates the legality rules once and picks a
// default. An empty legal set is returned as *IllegalPlacementError.
func ComputePlacementPlan(ctx PlanContext) (Plan, error) {
	plan := Plan{Excluded: map[PlacementKind]string{}}
	exclude := func(k PlacementKind, reason string) {
		if _, done := plan.Excluded[k]; !done {
			plan.Excluded[k] = reason
		}
	}

	if reason := contradiction(ctx); reason != "" {
		for _, k := range AllPlacements {
			exclude(k, reason)
		}
	}

	// InlineAtDeclaration
	if ctx.HasUnmovedLocals {
		exclude(InlineAtDeclaration, "initializer reads locals or parameters that stay behind")
	}
	if ctx.Constant && !ctx.ConstantInitializer {
		exclude(InlineAtDeclaration, "initializer is not a compile-time constant")
	}

	// InCurrentMethod
	switch {
	case ctx.Constant || ctx.EnumConstant:
		exclude(InCurrentMethod, "constants are initialized where they are declared")
	case ctx.TargetIsInterface:
		exclude(InCurrentMethod, "interface fields are initialized where they are declared")
	case len(ctx.MemberKinds) != 1:
		exclude(InCurrentMethod, "occurrences span several methods")
	case ctx.AnchorMember == MemberNone || ctx.AnchorMember == MemberField:
		exclude(InCurrentMethod, "occurrence is not inside a statement")
	case ctx.ExplicitCtorCallArgument:
		exclude(InCurrentMethod, "nothing can precede an explicit constructor call")
	case ctx.LocalsOutOfScope:
		exclude(InCurrentMethod, "initializer reads locals that are not in scope at the anchor")
	case ctx.Final && ctx.AnchorConditional:
		exclude(InCurrentMethod, "a final field must be assigned unconditionally")
	case ctx.Final && ctx.Static && ctx.AnchorMember != MemberStaticInitializer:
		exclude(InCurrentMethod, "a static final field can only be assigned in a static initializer")
	case ctx.Final && !ctx.Static && ctx.AnchorMember == MemberDelegatingConstructor:
		exclude(InCurrentMethod, "a final field cannot be assigned after this(...)")
	case ctx.Final && !ctx.Static && !(ctx.AnchorMember == MemberInstanceInitializer ||
		ctx.AnchorMember == MemberConstructor && ctx.Constructors == 1):
		exclude(InCurrentMethod, "a final field must be assigned in the only constructor or an instance initializer")
	}

	// InConstructors
	switch {
	case ctx.Static || ctx.Constant || ctx.EnumConstant:
		exclude(InConstructors, "static members are not initialized in constructors")
	case ctx.TargetIsInterface:
		exclude(InConstructors, "interfaces have no constructors")
	case ctx.ForeignTarget:
		exclude(InConstructors, "the destination class does not see the initializer's context")
	case ctx.Constructors == 0 && !ctx.CanSynthesizeConstructor:
		exclude(InConstructors, "no constructor exists and none can be synthesized")
	case ctx.HasUnmovedLocals && (!ctx.AllInSoleConstructor || ctx.LocalsOutOfScope):
		exclude(InConstructors, "initializer reads locals or parameters that stay behind")
	case ctx.ExplicitCtorCallArgument:
		exclude(InConstructors, "an occurrence is evaluated before any constructor body runs")
	}

	// InFixtureSetup
	switch {
	case !ctx.TestFixture:
		exclude(InFixtureSetup, "class is not a test fixture")
	case ctx.Static || ctx.Constant || ctx.EnumConstant:
		exclude(InFixtureSetup, "static members are not initialized in setup")
	case ctx.Final:
		exclude(InFixtureSetup, "a final field cannot be assigned in setup")
	case ctx.ForeignTarget:
		exclude(InFixtureSetup, "the destination class does not see the initializer's context")
	case ctx.HasUnmovedLocals:
		exclude(InFixtureSetup, "initializer reads locals or parameters that stay behind")
	case !ctx.FixtureInitializerOK:
		exclude(InFixtureSetup, "initializer reads fields that are not initialized before setup runs")
	}

	for _, k := range AllPlacements {
		if _, excluded := plan.Excluded[k]; !excluded {
			plan.Legal = plan.Legal.With(k)
		}
	}
	if plan.Legal.Empty() {
		return plan, &IllegalPlacementError{Legal: plan.Legal, Reasons: plan.Excluded}
	}

	if hint, ok := ctx.Session.Hint(); ok && plan.Legal.Has(hint) {
		plan.Default = hint
		return plan, nil
	}
	for _, k := range defaultOrder {
		if plan.Legal.Has(k) {
			plan.Default = k
			break
		}
	}
	return plan, nil
}

// contradiction returns a reason when the requested member shape cannot be
// introduced at all.
func contradiction(ctx PlanContext) string {
	switch {
	case ctx.EnumConstant && !ctx.TargetIsEnum:
		return "enum constants can only be added to an enum"
	case ctx.EnumConstant:
		if ctx.HasUnmovedLocals {
			return "enum constant arguments read locals or parameters that stay behind"
		}
		return ""
	case !ctx.Static && ctx.StaticContext:
		return "an instance member cannot be referenced from a static context"
	case !ctx.Static && ctx.ExplicitCtorCallArgument:
		return "an instance member cannot be read in the arguments of this(...) or super(...)"
	case !ctx.Static && ctx.ForeignTarget:
		return "only static members can be introduced in another class"
	case !ctx.Static && ctx.OutsideInstanceContext:
		return "an occurrence lies outside the destination class and its inner classes and subclasses"
	case !ctx.Static && ctx.TargetIsRecord:
		return "records cannot declare instance fields"
	case ctx.TargetIsInterface && !(ctx.Static && ctx.Final):
		return "interface fields are implicitly static and final"
	}
	return ""
}
