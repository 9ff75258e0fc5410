package refactor

import (
	"strings"

	"github.com/dhamidi/jintro/java/tree"
)

// FixturePredicate decides whether class follows test-fixture conventions.
type FixturePredicate func(t *tree.Tree, class tree.NodeID) bool

type fixtureStyle int

const (
	junit4 fixtureStyle = iota
	junit3
	junit5
)

var (
	testAnnotations  = []string{"Test", "ParameterizedTest", "RepeatedTest", "TestFactory", "TestTemplate"}
	junit5Markers    = []string{"BeforeEach", "AfterEach", "BeforeAll", "AfterAll", "ParameterizedTest", "RepeatedTest", "TestFactory", "TestTemplate"}
	setupAnnotations = []string{"BeforeEach", "Before"}
)

// IsTestFixture is the default FixturePredicate: a JUnit 3 TestCase
// subclass, a class with test methods, or a class that already has a
// setup method.
func IsTestFixture(t *tree.Tree, class tree.NodeID) bool {
	if t.Kind(class) != tree.KindClassDecl {
		return false
	}
	if extendsTestCase(t, class) || FindSetup(t, class).IsValid() {
		return true
	}
	for _, m := range t.Members(class, tree.KindMethodDecl) {
		if hasAnyAnnotation(t.Node(m).Mods, testAnnotations) {
			return true
		}
	}
	return false
}

// FindSetup returns the method run before each test: @BeforeEach,
// @Before, or a parameterless setUp().
func FindSetup(t *tree.Tree, class tree.NodeID) tree.NodeID {
	var byName tree.NodeID
	for _, m := range t.Members(class, tree.KindMethodDecl) {
		n := t.Node(m)
		if n.Mods.Static {
			continue
		}
		if hasAnyAnnotation(n.Mods, setupAnnotations) {
			return m
		}
		if n.Name == "setUp" && len(t.Params(m)) == 0 && !byName.IsValid() {
			byName = m
		}
	}
	return byName
}

func extendsTestCase(t *tree.Tree, class tree.NodeID) bool {
	seen := map[tree.NodeID]bool{}
	for cur := class; cur.IsValid() && !seen[cur]; {
		seen[cur] = true
		super := t.Node(cur).Super
		if super == "TestCase" || strings.HasSuffix(super, ".TestCase") {
			return true
		}
		if super == "" {
			return false
		}
		cur = t.ClassNamed(super)
	}
	return false
}

func detectStyle(t *tree.Tree, class tree.NodeID) fixtureStyle {
	if extendsTestCase(t, class) {
		return junit3
	}
	for _, m := range t.Members(class, tree.KindMethodDecl) {
		mods := t.Node(m).Mods
		if hasAnyAnnotation(mods, junit5Markers) {
			return junit5
		}
		for _, a := range mods.Annotations {
			if strings.HasPrefix(a, "org.junit.jupiter.") {
				return junit5
			}
		}
	}
	return junit4
}

// setupDraft synthesizes an empty setup method in the fixture's style.
func setupDraft(style fixtureStyle) *tree.Draft {
	switch style {
	case junit3:
		return tree.Method("setUp", "void", nil, tree.Block(
			tree.Stmt(tree.CallOn(tree.Ident("super"), "setUp")),
		)).Protected().Throws("Exception")
	case junit5:
		return tree.Method("setUp", "void", nil, tree.Block()).Annotate("BeforeEach")
	}
	return tree.Method("setUp", "void", nil, tree.Block()).Annotate("Before").Public()
}

func hasAnyAnnotation(mods tree.Modifiers, names []string) bool {
	for _, name := range names {
		if mods.HasAnnotation(name) {
			return true
		}
	}
	return false
}

// fixtureInitializerOK reports whether every field init reads is set up
// by the time the setup method runs: static fields, fields with their own
// initializer (recursively), fields assigned in setup and fields assigned
// in every constructor.
func fixtureInitializerOK(t *tree.Tree, init, class tree.NodeID) bool {
	setup := FindSetup(t, class)
	return fieldsReady(t, init, class, setup, map[tree.NodeID]bool{})
}

func fieldsReady(t *tree.Tree, expr, class, setup tree.NodeID, visiting map[tree.NodeID]bool) bool {
	ok := true
	tree.Walk(t, expr, func(id tree.NodeID) bool {
		if !ok {
			return false
		}
		n := t.Node(id)
		if n.Kind != tree.KindName && n.Kind != tree.KindFieldAccess {
			return true
		}
		if t.Kind(n.Ref) != tree.KindFieldDecl || visiting[n.Ref] {
			return true
		}
		ok = fieldReady(t, n.Ref, class, setup, visiting)
		return true
	})
	return ok
}

func fieldReady(t *tree.Tree, field, class, setup tree.NodeID, visiting map[tree.NodeID]bool) bool {
	if t.IsStaticMember(field) {
		return true
	}
	if init := t.Initializer(field); init.IsValid() {
		visiting[field] = true
		defer delete(visiting, field)
		return fieldsReady(t, init, class, setup, visiting)
	}
	if setup.IsValid() && assigns(t, setup, field) {
		return true
	}
	ctors := t.Constructors(class)
	if t.Parent(field) != class || len(ctors) == 0 {
		return false
	}
	for _, c := range ctors {
		if !t.IsDelegatingConstructor(c) && !assigns(t, c, field) {
			return false
		}
	}
	return true
}

// assigns reports whether the body of member assigns field.
func assigns(t *tree.Tree, member, field tree.NodeID) bool {
	found := false
	tree.Walk(t, t.Body(member), func(id tree.NodeID) bool {
		if found {
			return false
		}
		if t.Kind(id) == tree.KindAssign && refOf(t, t.Child(id, 0)) == field {
			found = true
		}
		return true
	})
	return found
}
