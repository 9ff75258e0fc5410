package refactor

import (
	"github.com/dhamidi/jintro/java"
	"github.com/dhamidi/jintro/java/tree"
)

// Accessible reports whether code at site can reach a member of class
// declared with visibility v.
func Accessible(t *tree.Tree, class tree.NodeID, v java.Visibility, site tree.NodeID) bool {
	classUnit, siteUnit := t.Node(t.Unit(class)), t.Node(t.Unit(site))
	if classUnit == nil || siteUnit == nil {
		return false
	}
	sameModule := classUnit.Module == siteUnit.Module
	samePackage := sameModule && classUnit.Value == siteUnit.Value

	switch {
	case v == java.VisibilityPrivate:
		return t.TopLevelClass(class) == t.TopLevelClass(site)
	case v == java.VisibilityPackage || v == "":
		return samePackage
	case v == java.VisibilityProtected:
		if samePackage {
			return true
		}
		if !sameModule && !classUnit.Exported {
			return false
		}
		for c := t.EnclosingClass(site); c.IsValid(); c = t.EnclosingClass(c) {
			if t.IsSubclass(c, class) {
				return true
			}
		}
		return false
	case v == java.VisibilityPublic:
		return sameModule || classUnit.Exported
	}
	return false
}

// RequiredVisibility returns the least permissive level at or above
// requested that reaches every site. When no level does, it returns
// public together with the sites that stay unreachable.
func RequiredVisibility(t *tree.Tree, class tree.NodeID, requested java.Visibility, sites []tree.NodeID) (java.Visibility, []tree.NodeID) {
	if requested == "" {
		requested = java.VisibilityPackage
	}
	for _, v := range java.Visibilities {
		if !v.AtLeast(requested) {
			continue
		}
		if reachesAll(t, class, v, sites) {
			return v, nil
		}
	}
	var unreachable []tree.NodeID
	for _, s := range sites {
		if !Accessible(t, class, java.VisibilityPublic, s) {
			unreachable = append(unreachable, s)
		}
	}
	return java.VisibilityPublic, unreachable
}

func reachesAll(t *tree.Tree, class tree.NodeID, v java.Visibility, sites []tree.NodeID) bool {
	for _, s := range sites {
		if !Accessible(t, class, v, s) {
			return false
		}
	}
	return true
}
