package refactor

import (
	"github.com/dhamidi/jintro/java"
	"github.com/dhamidi/jintro/java/tree"
)

// Settings is the caller's final answer for one introduction.
type Settings struct {
	Name       string
	Type       string // defaults to the promoted local's declared type
	Visibility java.Visibility

	Static   bool
	Final    bool
	Constant bool // static final with a compile-time constant initializer

	Placement     PlacementKind
	AutoPlacement bool // use the plan's default instead of Placement

	ReplaceAll bool
	// DeleteOriginal removes the expression statement holding the selection.
	// A promoted local's declaration is always removed: every reference to
	// it is redirected to the member.
	DeleteOriginal bool

	TargetClass  string // simple name of the destination class; empty means the owner
	EnumConstant bool
	Annotate     bool

	// ConfirmCollision answers the name-collision decision point.
	ConfirmCollision bool
}

func (s Settings) static() bool { return s.Static || s.Constant || s.EnumConstant }
func (s Settings) final() bool  { return s.Final || s.Constant || s.EnumConstant }

// Session carries the last placement the user chose. It is passed in and
// handed back by value; nothing in this package keeps it.
type Session struct {
	LastPlacement PlacementKind
	HasHint       bool
}

func (s Session) Hint() (PlacementKind, bool) {
	return s.LastPlacement, s.HasHint
}

// Remember returns a session whose hint is k.
func (s Session) Remember(k PlacementKind) Session {
	return Session{LastPlacement: k, HasHint: true}
}

// Target is what gets promoted: either a local variable declaration or a
// set of expressions the caller already matched, the first of which is the
// user's selection.
type Target struct {
	Local tree.NodeID
	Exprs []tree.NodeID
}

func LocalTarget(local tree.NodeID) Target { return Target{Local: local} }

func ExprTarget(selection tree.NodeID, others ...tree.NodeID) Target {
	return Target{Exprs: append([]tree.NodeID{selection}, others...)}
}

func (t Target) IsLocal() bool { return t.Local.IsValid() }

// Selection is the node the user pointed at.
func (t Target) Selection() tree.NodeID {
	if t.IsLocal() {
		return t.Local
	}
	if len(t.Exprs) == 0 {
		return tree.NoNode
	}
	return t.Exprs[0]
}

// Request is one invocation of the engine.
type Request struct {
	Tree     *tree.Tree
	Target   Target
	Scope    tree.NodeID // class searched for occurrences; defaults to the owner class
	Settings Settings
	Session  Session

	// Occurrences, when set, were captured earlier with PreviewOccurrences
	// and are used instead of searching again. They must still resolve.
	Occurrences []Occurrence
}

// Outcome describes a committed introduction.
type Outcome struct {
	Member      tree.NodeID
	Rewritten   []tree.NodeID // references that replaced occurrences
	Assignments []tree.NodeID // synthesized `member = initializer;` statements
	Placement   PlacementKind
	Visibility  java.Visibility
	Warnings    []error
	Session     Session
}
