package refactor

import (
	"errors"
	"slices"
	"testing"

	"github.com/dhamidi/jintro/java"
	"github.com/dhamidi/jintro/java/tree"
)

func TestFindOccurrencesLocal(t *testing.T) {
	tr, ids := buildTree(t, tree.Unit("demo", tree.Class("Foo",
		tree.Method("run", "void", nil, tree.Block(
			tree.Local("n", "int", tree.Lit("1")).As("n"),
			tree.Stmt(tree.Assign(tree.Ident("n").As("write"), tree.Bin("+", tree.Ident("n").As("read1"), tree.Lit("1")))),
			tree.Stmt(tree.Call("use", tree.Ident("n").As("read2"))),
		)),
	).As("Foo")))

	occs, err := FindOccurrences(tr, LocalTarget(ids["n"]), ids["Foo"])
	if err != nil {
		t.Fatalf("FindOccurrences() error = %v", err)
	}
	want := []tree.NodeID{ids["write"], ids["read1"], ids["read2"]}
	if got := Exprs(occs); !slices.Equal(got, want) {
		t.Errorf("occurrences = %v, want %v", got, want)
	}
	for _, o := range occs {
		if o.Stmt != tr.EnclosingStatement(o.Expr) {
			t.Errorf("occurrence %v has statement %v", o.Expr, o.Stmt)
		}
	}

	again, err := FindOccurrences(tr, LocalTarget(ids["n"]), ids["Foo"])
	if err != nil || !slices.Equal(again, occs) {
		t.Errorf("second call = %v, %v; want the same occurrences", again, err)
	}
}

func TestFindOccurrencesExpressions(t *testing.T) {
	tr, ids := buildTree(t,
		tree.Unit("demo", tree.Class("Foo",
			tree.Method("run", "void", nil, tree.Block(
				tree.Stmt(tree.Call("use", tree.Bin("+", tree.Lit("2").As("inner"), tree.Lit("3")).As("outer"))),
				tree.Stmt(tree.Call("use", tree.Lit("4").As("later"))),
			)),
		).As("Foo")),
		tree.Unit("demo", tree.Class("Bar",
			tree.Method("run", "void", nil, tree.Block(
				tree.Stmt(tree.Call("use", tree.Lit("5").As("elsewhere"))),
			)),
		)),
	)

	tests := []struct {
		name   string
		target Target
		scope  tree.NodeID
		want   []tree.NodeID
	}{
		{"document order", ExprTarget(ids["later"], ids["outer"]), ids["Foo"], []tree.NodeID{ids["outer"], ids["later"]}},
		{"nested dropped", ExprTarget(ids["inner"], ids["outer"]), ids["Foo"], []tree.NodeID{ids["outer"]}},
		{"duplicates dropped", ExprTarget(ids["later"], ids["later"]), ids["Foo"], []tree.NodeID{ids["later"]}},
		{"out of scope", ExprTarget(ids["later"], ids["elsewhere"]), ids["Foo"], []tree.NodeID{ids["later"]}},
		{"whole program", ExprTarget(ids["elsewhere"], ids["later"]), tree.NoNode, []tree.NodeID{ids["later"], ids["elsewhere"]}},
		{"nothing in scope", ExprTarget(ids["elsewhere"]), ids["Foo"], nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			occs, err := FindOccurrences(tr, tt.target, tt.scope)
			if err != nil {
				t.Fatalf("FindOccurrences() error = %v", err)
			}
			if got := Exprs(occs); !slices.Equal(got, tt.want) {
				t.Errorf("occurrences = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFindOccurrencesInvalid(t *testing.T) {
	tr, ids := buildTree(t, tree.Unit("demo", tree.Class("Foo",
		tree.Method("run", "void", nil, tree.Block(
			tree.Stmt(tree.Call("use", tree.Lit("1").As("lit"))).As("stmt"),
		)).As("run"),
	)))
	tests := []struct {
		name   string
		target Target
		scope  tree.NodeID
	}{
		{"scope is a method", ExprTarget(ids["lit"]), ids["run"]},
		{"statement selected", ExprTarget(ids["stmt"]), tree.NoNode},
		{"local target is a literal", LocalTarget(ids["lit"]), tree.NoNode},
		{"empty selection", Target{}, tree.NoNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FindOccurrences(tr, tt.target, tt.scope); !errors.Is(err, ErrInvalidTarget) {
				t.Errorf("error = %v, want ErrInvalidTarget", err)
			}
		})
	}
}

func TestAllAnchorContainsEveryOccurrence(t *testing.T) {
	tr, ids := buildTree(t, tree.Unit("demo", tree.Class("Foo",
		tree.Method("run", "void", tree.Params(tree.Param("on", "boolean")), tree.Block(
			tree.Stmt(tree.Call("first")).As("s0"),
			tree.If(tree.Ident("on"), tree.Block(
				tree.Stmt(tree.Call("use", tree.Lit("1").As("a"))),
			), nil).As("if"),
			tree.Stmt(tree.Call("use", tree.Lit("1").As("b"))),
		)).As("run"),
		tree.Method("other", "void", nil, tree.Block(
			tree.Stmt(tree.Call("use", tree.Lit("1").As("c"))),
		)),
	)))
	occs, err := FindOccurrences(tr, ExprTarget(ids["a"], ids["b"]), tree.NoNode)
	if err != nil {
		t.Fatalf("FindOccurrences() error = %v", err)
	}

	anchor, err := AllAnchor(tr, occs)
	if err != nil {
		t.Fatalf("AllAnchor() error = %v", err)
	}
	if anchor.Member != ids["run"] {
		t.Errorf("Member = %v, want run", anchor.Member)
	}
	if anchor.Cursor != ids["if"] {
		t.Errorf("Cursor = %v, want the if statement %v", anchor.Cursor, ids["if"])
	}
	if anchor.Conditional {
		t.Error("anchor at method top level reported as conditional")
	}
	for _, o := range occs {
		if !tr.IsAncestor(anchor.Stmt, o.Expr) {
			t.Errorf("anchor statement %v does not contain %v", anchor.Stmt, o.Expr)
		}
	}

	single, err := SingleAnchor(tr, occs[0])
	if err != nil {
		t.Fatalf("SingleAnchor() error = %v", err)
	}
	if !single.Conditional {
		t.Error("anchor inside if not reported as conditional")
	}

	spread, err := FindOccurrences(tr, ExprTarget(ids["a"], ids["c"]), tree.NoNode)
	if err != nil {
		t.Fatalf("FindOccurrences() error = %v", err)
	}
	if _, err := AllAnchor(tr, spread); !errors.Is(err, ErrSpansMembers) {
		t.Errorf("AllAnchor() error = %v, want ErrSpansMembers", err)
	}
	groups, err := GroupAnchors(tr, spread)
	if err != nil {
		t.Fatalf("GroupAnchors() error = %v", err)
	}
	if len(groups) != 2 || groups[0].Member != ids["run"] || groups[0].Kind != MemberMethod {
		t.Errorf("groups = %+v, want run first", groups)
	}
}

func TestAnchorExplicitConstructorCall(t *testing.T) {
	tr, ids := buildTree(t, tree.Unit("demo", tree.Class("Foo",
		tree.Ctor(nil, tree.Block(
			tree.ThisCall(tree.Call("compute").As("arg")),
		)),
		tree.Ctor(tree.Params(tree.Param("n", "int")), tree.Block()),
	)))
	occs, err := FindOccurrences(tr, ExprTarget(ids["arg"]), tree.NoNode)
	if err != nil {
		t.Fatalf("FindOccurrences() error = %v", err)
	}
	groups, err := GroupAnchors(tr, occs)
	if err != nil {
		t.Fatalf("GroupAnchors() error = %v", err)
	}
	if len(groups) != 1 || groups[0].Kind != MemberDelegatingConstructor || !groups[0].Anchor.InExplicitCtorCall {
		t.Errorf("groups = %+v, want one delegating constructor anchored in this(...)", groups)
	}
}

func TestCheckForwardReference(t *testing.T) {
	tr, ids := buildTree(t, tree.Unit("demo", tree.Class("Foo",
		tree.Field("a", "int", tree.Lit("1")).As("a"),
		tree.Field("b", "int", tree.Lit("2")).As("b"),
		tree.Field("c", "int", nil),
		tree.Method("run", "void", tree.Params(tree.Param("p", "int").As("p")), tree.Block(
			tree.Local("x", "int", tree.Lit("3")).As("x"),
			tree.Stmt(tree.Call("use", tree.Bin("+", tree.Ident("b"), tree.Ident("a")).As("fields"))),
			tree.Stmt(tree.Call("use", tree.Bin("+", tree.Ident("c"), tree.Ident("a")).As("mixed"))),
			tree.Stmt(tree.Call("use", tree.Bin("+", tree.Ident("x"), tree.Ident("p")).As("locals"))),
		)),
	).As("Foo")))
	foo := ids["Foo"]

	if fr := CheckForwardReference(tr, ids["fields"], foo, nil); fr.Field != ids["b"] || fr.HasLocals() {
		t.Errorf("fields: got %+v, want field b and no locals", fr)
	}
	if fr := CheckForwardReference(tr, ids["mixed"], foo, nil); fr.Field != ids["a"] {
		t.Errorf("mixed: got %+v, want field a (c has no initializer)", fr)
	}
	fr := CheckForwardReference(tr, ids["locals"], foo, nil)
	if !slices.Equal(fr.Locals, []tree.NodeID{ids["x"], ids["p"]}) || fr.Field.IsValid() {
		t.Errorf("locals: got %+v, want x and p", fr)
	}
	moving := func(decl tree.NodeID) bool { return decl == ids["x"] }
	if fr := CheckForwardReference(tr, ids["locals"], foo, moving); !slices.Equal(fr.Locals, []tree.NodeID{ids["p"]}) {
		t.Errorf("moving x: got %+v, want only p", fr)
	}
}

func TestIsCompileTimeConstant(t *testing.T) {
	tr, ids := buildTree(t, tree.Unit("demo",
		tree.Class("Foo",
			tree.Field("K", "int", tree.Lit("4")).Static().Final(),
			tree.Field("v", "int", tree.Lit("4")),
			tree.Field("LOOP", "int", tree.Ident("LOOP")).Static().Final(),
			tree.Method("run", "void", nil, tree.Block(
				tree.Stmt(tree.Call("use",
					tree.Lit(`"a"`).As("string"),
					tree.Lit("null").As("null"),
					tree.Bin("*", tree.Ident("K"), tree.Paren(tree.Unary("-", tree.Lit("2")))).As("arith"),
					tree.Ident("v").As("mutable"),
					tree.Cast("long", tree.Ident("K")).As("cast"),
					tree.Cast("Object", tree.Lit("1")).As("objcast"),
					tree.Call("now").As("call"),
					tree.Cond(tree.Lit("true"), tree.Lit("1"), tree.Lit("2")).As("cond"),
					tree.Ident("LOOP").As("loop"),
					tree.Ident("C").As("iface"),
				)),
			)),
		),
		tree.Interface("Limits", tree.Field("C", "int", tree.Lit("9"))),
	))
	tests := []struct {
		label string
		want  bool
	}{
		{"string", true},
		{"null", false},
		{"arith", true},
		{"mutable", false},
		{"cast", true},
		{"objcast", false},
		{"call", false},
		{"cond", true},
		{"loop", false},
		{"iface", false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := IsCompileTimeConstant(tr, ids[tt.label]); got != tt.want {
				t.Errorf("IsCompileTimeConstant(%s) = %v, want %v", tt.label, got, tt.want)
			}
		})
	}
}

func TestIsCompileTimeConstantInterfaceField(t *testing.T) {
	tr, ids := buildTree(t, tree.Unit("demo",
		tree.Interface("Limits",
			tree.Field("C", "int", tree.Lit("9")),
			tree.Field("D", "int", tree.Bin("+", tree.Ident("C"), tree.Lit("1")).As("sum")),
		),
	))
	if !IsCompileTimeConstant(tr, ids["sum"]) {
		t.Error("interface field reference not treated as constant")
	}
}

func TestAccessible(t *testing.T) {
	tr, ids := buildTree(t,
		tree.Unit("core",
			tree.Class("Base",
				tree.Class("Inner", tree.Method("m", "void", nil, tree.Block(tree.Empty().As("inner")))),
			).As("Base").Public(),
			tree.Class("Peer", tree.Method("m", "void", nil, tree.Block(tree.Empty().As("peer")))),
		).InModule("lib", true),
		tree.Unit("ext",
			tree.Class("Sub", tree.Method("m", "void", nil, tree.Block(tree.Empty().As("sub")))).Extends("Base"),
			tree.Class("Other", tree.Method("m", "void", nil, tree.Block(tree.Empty().As("other")))),
		).InModule("app", false),
	)
	base := ids["Base"]
	tests := []struct {
		site string
		v    java.Visibility
		want bool
	}{
		{"inner", java.VisibilityPrivate, true},
		{"peer", java.VisibilityPrivate, false},
		{"peer", java.VisibilityPackage, true},
		{"sub", java.VisibilityPackage, false},
		{"sub", java.VisibilityProtected, true},
		{"other", java.VisibilityProtected, false},
		{"other", java.VisibilityPublic, true},
	}
	for _, tt := range tests {
		t.Run(tt.site+"/"+string(tt.v), func(t *testing.T) {
			if got := Accessible(tr, base, tt.v, ids[tt.site]); got != tt.want {
				t.Errorf("Accessible(Base, %s, %s) = %v, want %v", tt.v, tt.site, got, tt.want)
			}
		})
	}

	v, unreachable := RequiredVisibility(tr, base, java.VisibilityPrivate, []tree.NodeID{ids["inner"], ids["sub"]})
	if v != java.VisibilityProtected || len(unreachable) != 0 {
		t.Errorf("RequiredVisibility() = %s, %v; want protected", v, unreachable)
	}
	for _, site := range []string{"inner", "sub"} {
		if !Accessible(tr, base, v, ids[site]) {
			t.Errorf("required visibility %s does not reach %s", v, site)
		}
	}
}

func TestMemberIndex(t *testing.T) {
	tr, ids := buildTree(t, tree.Unit("demo",
		tree.Class("Foo",
			tree.Field("S", "int", nil).Static(),
			tree.Method("m", "void", nil, tree.Block()),
			tree.Field("a", "int", tree.Lit("1")).As("a"),
			tree.Field("b", "int", nil),
			tree.Init(false, tree.Block()).As("init"),
		).As("Foo"),
		tree.Enum("E", tree.EnumConst("X"), tree.EnumConst("Y"), tree.Field("f", "int", nil)).As("E"),
	))
	foo := ids["Foo"]
	tests := []struct {
		name   string
		dest   tree.NodeID
		s      Settings
		fr     ForwardReference
		anchor tree.NodeID
		want   int
	}{
		{"first instance field", foo, Settings{}, ForwardReference{}, tree.NoNode, 2},
		{"first static field", foo, Settings{Static: true}, ForwardReference{}, tree.NoNode, 0},
		{"after forward reference", foo, Settings{}, ForwardReference{Field: ids["a"]}, tree.NoNode, 3},
		{"before anchoring initializer", foo, Settings{}, ForwardReference{}, ids["init"], 4},
		{"enum constant", ids["E"], Settings{EnumConstant: true}, ForwardReference{}, tree.NoNode, 2},
		{"enum field", ids["E"], Settings{}, ForwardReference{}, tree.NoNode, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MemberIndex(tr, tt.dest, tt.s, tt.fr, tt.anchor); got != tt.want {
				t.Errorf("MemberIndex() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBuildMemberRejectsInlineLocals(t *testing.T) {
	tr, ids := buildTree(t, tree.Unit("demo", tree.Class("Foo",
		tree.Method("run", "void", tree.Params(tree.Param("p", "int").As("p")), tree.Block(
			tree.Stmt(tree.Call("use", tree.Ident("p").As("sel"))),
		)),
	).As("Foo")))
	fr := CheckForwardReference(tr, ids["sel"], ids["Foo"], nil)
	_, err := BuildMember(tr, ids["Foo"], Settings{Name: "q", Type: "int"}, InlineAtDeclaration, ids["sel"], fr, "")
	var v *ForwardReferenceViolation
	if !errors.As(err, &v) || !slices.Equal(v.Locals, []string{"p"}) {
		t.Errorf("BuildMember() error = %v, want ForwardReferenceViolation for p", err)
	}
}

func TestReachesInstance(t *testing.T) {
	use := func(label string) *tree.Draft {
		return tree.Method("m", "void", nil, tree.Block(tree.Stmt(tree.Call("use", tree.Lit("1").As(label)))))
	}
	tr, ids := buildTree(t, tree.Unit("demo",
		tree.Class("Outer",
			use("own"),
			tree.Method("s", "void", nil, tree.Block(tree.Stmt(tree.Call("use", tree.Lit("2").As("static"))))).Static(),
			tree.Class("Inner", use("inner")),
			tree.Class("Nested", use("nested")).Static(),
		).As("Outer"),
		tree.Class("Sub", use("sub")).Extends("Outer"),
		tree.Class("Other", use("other")),
	))
	tests := []struct {
		site string
		want bool
	}{
		{"own", true},
		{"static", false},
		{"inner", true},
		{"nested", false},
		{"sub", true},
		{"other", false},
	}
	for _, tt := range tests {
		t.Run(tt.site, func(t *testing.T) {
			if got := reachesInstance(tr, ids[tt.site], ids["Outer"]); got != tt.want {
				t.Errorf("reachesInstance(%s) = %v, want %v", tt.site, got, tt.want)
			}
		})
	}
}
