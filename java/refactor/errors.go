package refactor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dhamidi/jintro/java"
	"github.com/dhamidi/jintro/java/tree"
)

var (
	// ErrInvalidTarget is returned for malformed inputs: wrong node kinds,
	// handles that never belonged to the tree, a scope that is not a class.
	ErrInvalidTarget = errors.New("invalid introduction target")
	// ErrNoInitializer is returned when promoting a local variable that is
	// declared without an initializer.
	ErrNoInitializer = errors.New("local variable has no initializer")
	// ErrSpansMembers is returned by AllAnchor when the occurrences live in
	// more than one method, constructor or initializer.
	ErrSpansMembers = errors.New("occurrences span several members")
)

// IllegalPlacementError reports a placement outside the plan's legal set.
// No mutation has been performed when it is returned.
type IllegalPlacementError struct {
	Requested PlacementKind
	Legal     PlacementSet
	Reasons   map[PlacementKind]string
}

func (e *IllegalPlacementError) Error() string {
	if e.Legal.Empty() {
		return "no legal initializer placement: " + e.reasonList()
	}
	msg := fmt.Sprintf("placement %s is not legal (legal: %s)", e.Requested, e.Legal)
	if reason, ok := e.Reasons[e.Requested]; ok {
		msg += ": " + reason
	}
	return msg
}

func (e *IllegalPlacementError) reasonList() string {
	var parts []string
	for _, kind := range AllPlacements {
		if reason, ok := e.Reasons[kind]; ok {
			parts = append(parts, kind.String()+": "+reason)
		}
	}
	return strings.Join(parts, "; ")
}

// ForwardReferenceViolation means a member was synthesized with an inline
// initializer that reads locals or parameters which stay behind. Callers
// that consult the plan never see it.
type ForwardReferenceViolation struct {
	Locals []string
}

func (e *ForwardReferenceViolation) Error() string {
	return "inline initializer reads locals that are not moved: " + strings.Join(e.Locals, ", ")
}

// VisibilityWideningWarning is advisory: the member was made public because
// no access level reaches every occurrence.
type VisibilityWideningWarning struct {
	Member    string
	Requested java.Visibility
	Sites     []tree.NodeID
}

func (w *VisibilityWideningWarning) Error() string {
	return fmt.Sprintf("%s widened from %s to public: %d occurrence(s) cannot reach it at any access level",
		w.Member, w.Requested, len(w.Sites))
}

// UnresolvedOccurrenceError reports a captured handle that no longer
// resolves. The transaction is aborted as a whole.
type UnresolvedOccurrenceError struct {
	Handle tree.NodeID
	Role   string
}

func (e *UnresolvedOccurrenceError) Error() string {
	return fmt.Sprintf("%s %v no longer resolves: the tree changed since it was captured", e.Role, e.Handle)
}

// ReadOnlyTargetError is returned before any mutation when the destination
// class lives in a read-only compilation unit.
type ReadOnlyTargetError struct {
	Class string
	Unit  string
}

func (e *ReadOnlyTargetError) Error() string {
	if e.Unit != "" {
		return fmt.Sprintf("cannot add a member to %s: %s is read-only", e.Class, e.Unit)
	}
	return fmt.Sprintf("cannot add a member to %s: its compilation unit is read-only", e.Class)
}

// NameCollisionError is a decision point: the caller either renames the
// member or confirms with Settings.ConfirmCollision.
type NameCollisionError struct {
	Class    string
	Name     string
	Existing tree.NodeID
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("%s already declares a member named %s", e.Class, e.Name)
}

// InternalFault wraps an invariant break discovered while rewriting. The
// tree has been rolled back.
type InternalFault struct {
	Cause any
}

func (e *InternalFault) Error() string {
	return fmt.Sprintf("refactoring could not be completed: %v", e.Cause)
}

func (e *InternalFault) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}
