package refactor

import (
	"errors"
	"strings"
	"testing"

	"github.com/dhamidi/jintro/format"
	"github.com/dhamidi/jintro/java"
	"github.com/dhamidi/jintro/java/tree"
)

func buildTree(t *testing.T, units ...*tree.Draft) (*tree.Tree, map[string]tree.NodeID) {
	t.Helper()
	b := tree.NewBuilder()
	for _, u := range units {
		b.Unit(u)
	}
	tr, ids, err := b.Finish()
	if err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	return tr, ids
}

func javaOf(tr *tree.Tree) string {
	return format.PrettyPrintTree(tr, tr.Root())
}

func assertJava(t *testing.T, tr *tree.Tree, want string) {
	t.Helper()
	want = strings.TrimLeft(want, "\n")
	if got := javaOf(tr); got != want {
		t.Errorf("printed tree mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func introduce(t *testing.T, req Request) Outcome {
	t.Helper()
	out, err := NewEngine().Introduce(req)
	if err != nil {
		t.Fatalf("Introduce() error = %v", err)
	}
	return out
}

func TestIntroduceLocalInline(t *testing.T) {
	tr, ids := buildTree(t, tree.Unit("demo",
		tree.Class("Foo",
			tree.Method("run", "void", nil, tree.Block(
				tree.Local("x", "int", tree.Lit("42")).As("x"),
				tree.Stmt(tree.Call("use", tree.Ident("x"))),
			)),
		),
	))

	out := introduce(t, Request{
		Tree:   tr,
		Target: LocalTarget(ids["x"]),
		Settings: Settings{
			Name:           "x",
			Visibility:     java.VisibilityPrivate,
			Placement:      InlineAtDeclaration,
			DeleteOriginal: true,
		},
	})

	assertJava(t, tr, `
package demo;

class Foo {
    void run() {
        use(x);
    }
    private int x = 42;
}
`)
	if tr.Valid(ids["x"]) {
		t.Errorf("original declaration %v still resolves", ids["x"])
	}
	if len(out.Rewritten) != 1 || tr.Kind(out.Rewritten[0]) != tree.KindName {
		t.Fatalf("Rewritten = %v, want one bare name", out.Rewritten)
	}
	if got := tr.Node(out.Rewritten[0]).Ref; got != out.Member {
		t.Errorf("rewritten reference binds to %v, want %v", got, out.Member)
	}
	if out.Visibility != java.VisibilityPrivate {
		t.Errorf("Visibility = %s, want private", out.Visibility)
	}
}

func TestIntroduceConstructorsSkipDelegating(t *testing.T) {
	tr, ids := buildTree(t, tree.Unit("demo",
		tree.Class("Counter",
			tree.Field("a", "long", nil),
			tree.Field("b", "long", nil),
			tree.Ctor(nil, tree.Block(
				tree.Stmt(tree.Assign(tree.Ident("a"), tree.Call("now").As("first"))),
			)),
			tree.Ctor(tree.Params(tree.Param("n", "int")), tree.Block(
				tree.SuperCall(),
				tree.Stmt(tree.Assign(tree.Ident("b"), tree.Bin("+", tree.Call("now").As("second"), tree.Ident("n")))),
				tree.Stmt(tree.Call("log", tree.Call("now").As("third"))),
			)),
			tree.Ctor(tree.Params(tree.Param("s", "String")), tree.Block(
				tree.ThisCall(),
			)),
		),
	))

	out := introduce(t, Request{
		Tree:   tr,
		Target: ExprTarget(ids["first"], ids["second"], ids["third"]),
		Settings: Settings{
			Name:       "stamp",
			Type:       "long",
			Visibility: java.VisibilityPrivate,
			Placement:  InConstructors,
			ReplaceAll: true,
		},
	})

	assertJava(t, tr, `
package demo;

class Counter {
    private long stamp;
    long a;
    long b;
    Counter() {
        stamp = now();
        a = stamp;
    }
    Counter(int n) {
        super();
        stamp = now();
        b = stamp + n;
        log(stamp);
    }
    Counter(String s) {
        this();
    }
}
`)
	if len(out.Assignments) != 2 {
		t.Errorf("got %d assignments, want 2", len(out.Assignments))
	}
	if len(out.Rewritten) != 3 {
		t.Errorf("got %d rewritten occurrences, want 3", len(out.Rewritten))
	}
}

func TestIntroduceAfterForwardReference(t *testing.T) {
	tr, ids := buildTree(t, tree.Unit("demo",
		tree.Class("Shapes",
			tree.Field("first", "int", tree.Lit("0")),
			tree.Method("draw", "void", nil, tree.Block(
				tree.Stmt(tree.Call("paint", tree.Bin("+", tree.Ident("size"), tree.Lit("1")).As("sel"))),
			)),
			tree.Field("size", "int", tree.Lit("5")).As("size"),
		),
	))
	req := Request{
		Tree:   tr,
		Target: ExprTarget(ids["sel"]),
		Settings: Settings{
			Name:       "padded",
			Type:       "int",
			Visibility: java.VisibilityPrivate,
			Placement:  InlineAtDeclaration,
		},
	}

	plan, err := NewEngine().ComputePlacementPlan(req)
	if err != nil {
		t.Fatalf("ComputePlacementPlan() error = %v", err)
	}
	if !plan.Legal.Has(InlineAtDeclaration) {
		t.Fatalf("legal placements %s do not include declaration", plan.Legal)
	}

	out := introduce(t, req)
	if got, want := tr.IndexOf(out.Member), tr.IndexOf(ids["size"])+1; got != want {
		t.Errorf("member index = %d, want %d (right after size)", got, want)
	}
	assertJava(t, tr, `
package demo;

class Shapes {
    int first = 0;
    void draw() {
        paint(padded);
    }
    int size = 5;
    private int padded = size + 1;
}
`)
}

func TestIntroduceSynthesizesDefaultConstructor(t *testing.T) {
	tr, ids := buildTree(t, tree.Unit("demo",
		tree.Class("Widget",
			tree.Field("label", "String", nil),
			tree.Method("show", "void", nil, tree.Block(
				tree.Stmt(tree.Call("render", tree.CallOn(tree.Ident("label"), "trim").As("sel"))),
			)),
		),
	))

	introduce(t, Request{
		Tree:   tr,
		Target: ExprTarget(ids["sel"]),
		Settings: Settings{
			Name:       "trimmed",
			Type:       "String",
			Visibility: java.VisibilityPrivate,
			Placement:  InConstructors,
		},
	})

	assertJava(t, tr, `
package demo;

class Widget {
    private String trimmed;
    String label;
    Widget() {
        trimmed = label.trim();
    }
    void show() {
        render(trimmed);
    }
}
`)
}

func TestIntroduceWrapsBracelessBody(t *testing.T) {
	tr, ids := buildTree(t, tree.Unit("demo",
		tree.Class("Guard",
			tree.Method("check", "void", tree.Params(tree.Param("on", "boolean")), tree.Block(
				tree.If(tree.Ident("on"),
					tree.Stmt(tree.Call("emit", tree.Call("compute").As("sel"))),
					nil),
			)),
		),
	))

	introduce(t, Request{
		Tree:   tr,
		Target: ExprTarget(ids["sel"]),
		Settings: Settings{
			Name:       "cached",
			Type:       "int",
			Visibility: java.VisibilityPrivate,
			Placement:  InCurrentMethod,
		},
	})

	assertJava(t, tr, `
package demo;

class Guard {
    void check(boolean on) {
        if (on) {
            cached = compute();
            emit(cached);
        }
    }
    private int cached;
}
`)
}

func TestIntroduceRehomesComments(t *testing.T) {
	tr, ids := buildTree(t, tree.Unit("demo",
		tree.Class("Foo",
			tree.Method("run", "void", nil, tree.Block(
				tree.Local("answer", "int", tree.Lit("42")).As("x").Comment("// the answer"),
				tree.Stmt(tree.Call("use", tree.Ident("answer"))),
			)),
		),
	))

	introduce(t, Request{
		Tree:   tr,
		Target: LocalTarget(ids["x"]),
		Settings: Settings{
			Name:           "answer",
			Visibility:     java.VisibilityPrivate,
			Placement:      InCurrentMethod,
			DeleteOriginal: true,
		},
	})

	assertJava(t, tr, `
package demo;

class Foo {
    void run() {
        // the answer
        answer = 42;
        use(answer);
    }
    private int answer;
}
`)
}

func TestIntroduceCommentsMoveToMember(t *testing.T) {
	tr, ids := buildTree(t, tree.Unit("demo",
		tree.Class("Foo",
			tree.Method("run", "void", nil, tree.Block(
				tree.Local("answer", "int", tree.Lit("42")).As("x").Comment("// the answer"),
				tree.Stmt(tree.Call("use", tree.Ident("answer"))),
			)),
		),
	))

	introduce(t, Request{
		Tree:   tr,
		Target: LocalTarget(ids["x"]),
		Settings: Settings{
			Name:           "answer",
			Visibility:     java.VisibilityPrivate,
			Placement:      InlineAtDeclaration,
			DeleteOriginal: true,
		},
	})

	assertJava(t, tr, `
package demo;

class Foo {
    void run() {
        use(answer);
    }
    // the answer
    private int answer = 42;
}
`)
}

func TestIntroduceQualifiesShadowedName(t *testing.T) {
	tr, ids := buildTree(t, tree.Unit("demo",
		tree.Class("Meter",
			tree.Method("tally", "void", tree.Params(tree.Param("scale", "int")), tree.Block(
				tree.Stmt(tree.Call("show", tree.Bin("*", tree.Ident("scale"), tree.Call("limit").As("sel")))),
			)),
		),
	))

	out := introduce(t, Request{
		Tree:   tr,
		Target: ExprTarget(ids["sel"]),
		Settings: Settings{
			Name:       "scale",
			Type:       "int",
			Visibility: java.VisibilityPrivate,
			Placement:  InCurrentMethod,
		},
	})

	assertJava(t, tr, `
package demo;

class Meter {
    void tally(int scale) {
        this.scale = limit();
        show(scale * this.scale);
    }
    private int scale;
}
`)
	if got := tr.Kind(out.Rewritten[0]); got != tree.KindFieldAccess {
		t.Errorf("rewritten kind = %s, want FieldAccess", got)
	}
}

func TestIntroduceConstantWithAutoPlacement(t *testing.T) {
	tr, ids := buildTree(t, tree.Unit("demo",
		tree.Class("App",
			tree.Method("main", "void", tree.Params(tree.Param("args", "String[]")), tree.Block(
				tree.Stmt(tree.Call("print", tree.Bin("+", tree.Lit(`"v"`), tree.Lit("1")).As("sel"))),
			)).Public().Static(),
		).Public(),
	))

	out := introduce(t, Request{
		Tree:   tr,
		Target: ExprTarget(ids["sel"]),
		Settings: Settings{
			Name:          "VERSION",
			Type:          "String",
			Visibility:    java.VisibilityPrivate,
			Constant:      true,
			AutoPlacement: true,
			Annotate:      true,
		},
		Session: Session{LastPlacement: InConstructors, HasHint: true},
	})

	if out.Placement != InlineAtDeclaration {
		t.Errorf("Placement = %s, want declaration", out.Placement)
	}
	if hint, ok := out.Session.Hint(); !ok || hint != InlineAtDeclaration {
		t.Errorf("session hint = %s, %v; want declaration, true", hint, ok)
	}
	assertJava(t, tr, `
package demo;

public class App {
    public static void main(String[] args) {
        print(VERSION);
    }
    @NonNls
    private static final String VERSION = "v" + 1;
}
`)
}

func TestIntroduceEnumConstant(t *testing.T) {
	tr, ids := buildTree(t,
		tree.Unit("demo",
			tree.Enum("Color",
				tree.EnumConst("RED", tree.Lit("0xff0000")),
				tree.EnumConst("GREEN", tree.Lit("0x00ff00")),
				tree.Ctor(tree.Params(tree.Param("rgb", "int")), tree.Block()),
			),
		),
		tree.Unit("demo",
			tree.Class("Painter",
				tree.Method("paint", "void", nil, tree.Block(
					tree.Stmt(tree.Call("use", tree.New("Color", tree.Lit("0x0000ff")).As("sel"))),
				)),
			),
		),
	)

	out := introduce(t, Request{
		Tree:   tr,
		Target: ExprTarget(ids["sel"]),
		Settings: Settings{
			Name:          "BLUE",
			TargetClass:   "Color",
			EnumConstant:  true,
			AutoPlacement: true,
		},
	})

	if got := tr.Kind(out.Member); got != tree.KindEnumConstant {
		t.Fatalf("member kind = %s, want EnumConstant", got)
	}
	assertJava(t, tr, `
package demo;

enum Color {
    RED(0xff0000),
    GREEN(0x00ff00),
    BLUE(0x0000ff);
    Color(int rgb) {
    }
}

package demo;

class Painter {
    void paint() {
        use(Color.BLUE);
    }
}
`)
}

func TestIntroduceFixtureSetup(t *testing.T) {
	tests := []struct {
		name  string
		class *tree.Draft
		want  string
	}{
		{
			name: "junit4 synthesized",
			class: tree.Class("ParserTest",
				tree.Method("parses", "void", nil, tree.Block(
					tree.Stmt(tree.Call("check", tree.New("Parser").As("sel"))),
				)).Public().Annotate("Test"),
			),
			want: `
package demo;

class ParserTest {
    @Before
    public void setUp() {
        parser = new Parser();
    }
    @Test
    public void parses() {
        check(parser);
    }
    private Parser parser;
}
`,
		},
		{
			name: "junit3 synthesized",
			class: tree.Class("ParserTest",
				tree.Method("testParses", "void", nil, tree.Block(
					tree.Stmt(tree.Call("check", tree.New("Parser").As("sel"))),
				)).Public(),
			).Extends("TestCase"),
			want: `
package demo;

class ParserTest extends TestCase {
    protected void setUp() throws Exception {
        super.setUp();
        parser = new Parser();
    }
    public void testParses() {
        check(parser);
    }
    private Parser parser;
}
`,
		},
		{
			name: "existing junit5 setup",
			class: tree.Class("ParserTest",
				tree.Field("input", "String", nil),
				tree.Method("init", "void", nil, tree.Block(
					tree.Stmt(tree.Assign(tree.Ident("input"), tree.Lit(`"x"`))),
				)).Annotate("BeforeEach"),
				tree.Method("parses", "void", nil, tree.Block(
					tree.Stmt(tree.Call("check", tree.New("Parser", tree.Ident("input")).As("sel"))),
				)).Annotate("Test"),
			),
			want: `
package demo;

class ParserTest {
    private Parser parser;
    String input;
    @BeforeEach
    void init() {
        input = "x";
        parser = new Parser(input);
    }
    @Test
    void parses() {
        check(parser);
    }
}
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, ids := buildTree(t, tree.Unit("demo", tt.class))
			introduce(t, Request{
				Tree:   tr,
				Target: ExprTarget(ids["sel"]),
				Settings: Settings{
					Name:       "parser",
					Type:       "Parser",
					Visibility: java.VisibilityPrivate,
					Placement:  InFixtureSetup,
				},
			})
			assertJava(t, tr, tt.want)
		})
	}
}

func TestIntroduceWidensVisibility(t *testing.T) {
	tr, ids := buildTree(t,
		tree.Unit("lib", tree.Class("Config").Public()).InModule("core", false),
		tree.Unit("app",
			tree.Class("Main",
				tree.Method("main", "void", nil, tree.Block(
					tree.Stmt(tree.Call("print", tree.Lit(`"hi"`).As("sel"))),
				)).Static(),
			),
		).InModule("app", false),
	)

	out := introduce(t, Request{
		Tree:   tr,
		Target: ExprTarget(ids["sel"]),
		Settings: Settings{
			Name:        "GREETING",
			Type:        "String",
			Visibility:  java.VisibilityPrivate,
			Static:      true,
			Final:       true,
			TargetClass: "Config",
			Placement:   InlineAtDeclaration,
		},
	})

	if out.Visibility != java.VisibilityPublic {
		t.Errorf("Visibility = %s, want public", out.Visibility)
	}
	var w *VisibilityWideningWarning
	if len(out.Warnings) != 1 || !errors.As(out.Warnings[0], &w) {
		t.Fatalf("Warnings = %v, want one VisibilityWideningWarning", out.Warnings)
	}
	if w.Requested != java.VisibilityPrivate || len(w.Sites) != 1 {
		t.Errorf("warning = %+v, want private request with one site", w)
	}
	if got := format.PrettyPrintTree(tr, out.Rewritten[0]); got != "Config.GREETING" {
		t.Errorf("rewritten = %q, want %q", got, "Config.GREETING")
	}
}

func TestIntroduceRaisesVisibilityWithoutWarning(t *testing.T) {
	tr, ids := buildTree(t,
		tree.Unit("lib", tree.Class("Config").Public()),
		tree.Unit("app",
			tree.Class("Main",
				tree.Method("main", "void", nil, tree.Block(
					tree.Stmt(tree.Call("print", tree.Lit("7").As("sel"))),
				)).Static(),
			),
		),
	)

	out := introduce(t, Request{
		Tree:   tr,
		Target: ExprTarget(ids["sel"]),
		Settings: Settings{
			Name:        "LIMIT",
			Type:        "int",
			Visibility:  java.VisibilityPrivate,
			Constant:    true,
			TargetClass: "Config",
			Placement:   InlineAtDeclaration,
		},
	})
	if out.Visibility != java.VisibilityPublic {
		t.Errorf("Visibility = %s, want public", out.Visibility)
	}
	if len(out.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", out.Warnings)
	}
}

func TestIntroduceErrorsLeaveTreeUntouched(t *testing.T) {
	type setup struct {
		tr  *tree.Tree
		req Request
	}
	method := func(static bool, stmts ...*tree.Draft) *tree.Draft {
		m := tree.Method("run", "void", nil, tree.Block(stmts...))
		if static {
			m.Static()
		}
		return m
	}
	tests := []struct {
		name  string
		build func(t *testing.T) setup
		check func(t *testing.T, err error)
	}{
		{
			name: "instance member from static context",
			build: func(t *testing.T) setup {
				tr, ids := buildTree(t, tree.Unit("demo", tree.Class("Foo",
					method(true, tree.Stmt(tree.Call("use", tree.Call("make").As("sel")))),
				)))
				return setup{tr, Request{Tree: tr, Target: ExprTarget(ids["sel"]),
					Settings: Settings{Name: "made", Type: "int", Placement: InlineAtDeclaration}}}
			},
			check: func(t *testing.T, err error) {
				var e *IllegalPlacementError
				if !errors.As(err, &e) || !e.Legal.Empty() {
					t.Errorf("error = %v, want IllegalPlacementError with empty legal set", err)
				}
			},
		},
		{
			name: "constant from non-constant expression",
			build: func(t *testing.T) setup {
				tr, ids := buildTree(t, tree.Unit("demo", tree.Class("Foo",
					method(false, tree.Stmt(tree.Call("use", tree.Call("make").As("sel")))),
				)))
				return setup{tr, Request{Tree: tr, Target: ExprTarget(ids["sel"]),
					Settings: Settings{Name: "MADE", Type: "int", Constant: true, Placement: InlineAtDeclaration}}}
			},
			check: func(t *testing.T, err error) {
				var e *IllegalPlacementError
				if !errors.As(err, &e) || !e.Legal.Empty() {
					t.Errorf("error = %v, want IllegalPlacementError with empty legal set", err)
				}
			},
		},
		{
			name: "final field assigned in a method",
			build: func(t *testing.T) setup {
				tr, ids := buildTree(t, tree.Unit("demo", tree.Class("Foo",
					method(false, tree.Stmt(tree.Call("use", tree.Call("make").As("sel")))),
				)))
				return setup{tr, Request{Tree: tr, Target: ExprTarget(ids["sel"]),
					Settings: Settings{Name: "made", Type: "int", Final: true, Placement: InCurrentMethod}}}
			},
			check: func(t *testing.T, err error) {
				var e *IllegalPlacementError
				if !errors.As(err, &e) {
					t.Fatalf("error = %v, want IllegalPlacementError", err)
				}
				if e.Requested != InCurrentMethod || !e.Legal.Has(InConstructors) || e.Reasons[InCurrentMethod] == "" {
					t.Errorf("error = %+v, want method excluded with a reason and constructors legal", e)
				}
			},
		},
		{
			name: "read-only destination",
			build: func(t *testing.T) setup {
				tr, ids := buildTree(t, tree.Unit("demo", tree.Class("Foo",
					method(false, tree.Stmt(tree.Call("use", tree.Lit("1").As("sel")))),
				)).ReadOnlyUnit())
				return setup{tr, Request{Tree: tr, Target: ExprTarget(ids["sel"]),
					Settings: Settings{Name: "one", Type: "int", Placement: InlineAtDeclaration}}}
			},
			check: func(t *testing.T, err error) {
				var e *ReadOnlyTargetError
				if !errors.As(err, &e) || e.Class != "Foo" {
					t.Errorf("error = %v, want ReadOnlyTargetError for Foo", err)
				}
			},
		},
		{
			name: "name collision",
			build: func(t *testing.T) setup {
				tr, ids := buildTree(t, tree.Unit("demo", tree.Class("Foo",
					tree.Field("one", "int", nil).As("existing"),
					method(false, tree.Stmt(tree.Call("use", tree.Lit("1").As("sel")))),
				)))
				return setup{tr, Request{Tree: tr, Target: ExprTarget(ids["sel"]),
					Settings: Settings{Name: "one", Type: "int", Placement: InlineAtDeclaration}}}
			},
			check: func(t *testing.T, err error) {
				var e *NameCollisionError
				if !errors.As(err, &e) || e.Name != "one" || !e.Existing.IsValid() {
					t.Errorf("error = %v, want NameCollisionError for one", err)
				}
			},
		},
		{
			name: "stale occurrence handle",
			build: func(t *testing.T) setup {
				tr, ids := buildTree(t, tree.Unit("demo", tree.Class("Foo",
					method(false,
						tree.Stmt(tree.Call("use", tree.Lit("1").As("sel"))),
						tree.Stmt(tree.Call("use", tree.Lit("1").As("other"))),
					),
				)))
				occs, err := FindOccurrences(tr, ExprTarget(ids["sel"], ids["other"]), tree.NoNode)
				if err != nil {
					t.Fatalf("FindOccurrences() error = %v", err)
				}
				if err := tr.Delete(tr.EnclosingStatement(ids["other"])); err != nil {
					t.Fatalf("Delete() error = %v", err)
				}
				return setup{tr, Request{Tree: tr, Target: ExprTarget(ids["sel"]), Occurrences: occs,
					Settings: Settings{Name: "one", Type: "int", ReplaceAll: true, Placement: InlineAtDeclaration}}}
			},
			check: func(t *testing.T, err error) {
				var e *UnresolvedOccurrenceError
				if !errors.As(err, &e) || e.Role != "occurrence" {
					t.Errorf("error = %v, want UnresolvedOccurrenceError for an occurrence", err)
				}
			},
		},
		{
			name: "instance member used from an unrelated class",
			build: func(t *testing.T) setup {
				tr, ids := buildTree(t, tree.Unit("demo",
					tree.Class("A", tree.Method("m", "void", nil, tree.Block(
						tree.Stmt(tree.Call("use", tree.Call("make").As("a"))),
					))),
					tree.Class("B", tree.Method("n", "void", nil, tree.Block(
						tree.Stmt(tree.Call("use", tree.Call("make").As("b"))),
					))).As("B"),
				))
				return setup{tr, Request{Tree: tr, Target: ExprTarget(ids["a"], ids["b"]), Scope: ids["B"],
					Settings: Settings{Name: "made", Type: "int", ReplaceAll: true, Placement: InlineAtDeclaration}}}
			},
			check: func(t *testing.T, err error) {
				var e *IllegalPlacementError
				if !errors.As(err, &e) || !e.Legal.Empty() {
					t.Errorf("error = %v, want IllegalPlacementError with empty legal set", err)
				}
			},
		},
		{
			name: "instance field in a record",
			build: func(t *testing.T) setup {
				rec := tree.Class("Point",
					method(false, tree.Stmt(tree.Call("use", tree.Call("make").As("sel")))),
				)
				rec.ClassKind = java.ClassKindRecord
				tr, ids := buildTree(t, tree.Unit("demo", rec))
				return setup{tr, Request{Tree: tr, Target: ExprTarget(ids["sel"]),
					Settings: Settings{Name: "made", Type: "int", Placement: InlineAtDeclaration}}}
			},
			check: func(t *testing.T, err error) {
				var e *IllegalPlacementError
				if !errors.As(err, &e) || !e.Legal.Empty() {
					t.Errorf("error = %v, want IllegalPlacementError with empty legal set", err)
				}
			},
		},
		{
			name: "local without initializer",
			build: func(t *testing.T) setup {
				tr, ids := buildTree(t, tree.Unit("demo", tree.Class("Foo",
					method(false, tree.Local("x", "int", nil).As("x")),
				)))
				return setup{tr, Request{Tree: tr, Target: LocalTarget(ids["x"]),
					Settings: Settings{Name: "x", Placement: InlineAtDeclaration}}}
			},
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrNoInitializer) {
					t.Errorf("error = %v, want ErrNoInitializer", err)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.build(t)
			before := javaOf(s.tr)
			version := s.tr.Version()
			_, err := NewEngine().Introduce(s.req)
			if err == nil {
				t.Fatal("Introduce() succeeded, want an error")
			}
			tt.check(t, err)
			if got := javaOf(s.tr); got != before {
				t.Errorf("tree changed after failed introduce\ngot:\n%s\nwant:\n%s", got, before)
			}
			if s.tr.Version() != version {
				t.Errorf("tree version moved from %d to %d", version, s.tr.Version())
			}
		})
	}
}

func TestIntroduceConfirmedCollisionProceeds(t *testing.T) {
	tr, ids := buildTree(t, tree.Unit("demo", tree.Class("Foo",
		tree.Field("one", "int", nil),
		tree.Method("run", "void", nil, tree.Block(
			tree.Stmt(tree.Call("use", tree.Lit("1").As("sel"))),
		)),
	)))
	out, err := NewEngine().Introduce(Request{
		Tree:   tr,
		Target: ExprTarget(ids["sel"]),
		Settings: Settings{
			Name:             "one",
			Type:             "int",
			Placement:        InlineAtDeclaration,
			ConfirmCollision: true,
		},
	})
	if err != nil {
		t.Fatalf("Introduce() error = %v", err)
	}
	if !out.Member.IsValid() {
		t.Error("no member returned")
	}
}

func TestIntroduceRollsBackOnFault(t *testing.T) {
	tr, ids := buildTree(t, tree.Unit("demo", tree.Class("Foo",
		tree.Method("run", "void", nil, tree.Block(
			tree.Stmt(tree.Call("use", tree.Call("make").As("sel"))),
		)),
	)))
	before := javaOf(tr)

	veto := TransactorFunc(func(t *tree.Tree, fn func() error) error {
		return tree.Atomic(t, func() error {
			if err := fn(); err != nil {
				return err
			}
			return errors.New("vetoed")
		})
	})
	_, err := NewEngine(WithTransactor(veto)).Introduce(Request{
		Tree:     tr,
		Target:   ExprTarget(ids["sel"]),
		Settings: Settings{Name: "made", Type: "int", Placement: InCurrentMethod},
	})

	var fault *InternalFault
	if !errors.As(err, &fault) {
		t.Fatalf("error = %v, want InternalFault", err)
	}
	if !strings.Contains(err.Error(), "could not be completed") {
		t.Errorf("error message = %q", err.Error())
	}
	if got := javaOf(tr); got != before {
		t.Errorf("tree not rolled back\ngot:\n%s\nwant:\n%s", got, before)
	}
	if !tr.Valid(ids["sel"]) {
		t.Error("selection handle does not resolve after rollback")
	}
}

func TestIntroduceRollsBackOnPanic(t *testing.T) {
	tr, ids := buildTree(t, tree.Unit("demo", tree.Class("Foo",
		tree.Method("run", "void", nil, tree.Block(
			tree.Stmt(tree.Call("use", tree.Call("make").As("sel"))),
		)),
	)))
	before := javaOf(tr)

	boom := TransactorFunc(func(t *tree.Tree, fn func() error) error {
		return tree.Atomic(t, func() error {
			if err := fn(); err != nil {
				return err
			}
			panic("node kind mismatch")
		})
	})
	_, err := NewEngine(WithTransactor(boom)).Introduce(Request{
		Tree:     tr,
		Target:   ExprTarget(ids["sel"]),
		Settings: Settings{Name: "made", Type: "int", Placement: InCurrentMethod},
	})

	var fault *InternalFault
	if !errors.As(err, &fault) || fault.Cause != "node kind mismatch" {
		t.Fatalf("error = %v, want InternalFault caused by the panic", err)
	}
	if got := javaOf(tr); got != before {
		t.Errorf("tree not rolled back\ngot:\n%s\nwant:\n%s", got, before)
	}
}

func TestIntroduceDeletesSelectedStatement(t *testing.T) {
	tr, ids := buildTree(t, tree.Unit("demo", tree.Class("Loader",
		tree.Method("load", "void", nil, tree.Block(
			tree.Stmt(tree.Call("open").As("sel")).Comment("// connect first"),
			tree.Stmt(tree.Call("read")),
		)),
	)))

	introduce(t, Request{
		Tree:   tr,
		Target: ExprTarget(ids["sel"]),
		Settings: Settings{
			Name:           "handle",
			Type:           "Handle",
			Visibility:     java.VisibilityPrivate,
			Placement:      InCurrentMethod,
			DeleteOriginal: true,
		},
	})

	assertJava(t, tr, `
package demo;

class Loader {
    void load() {
        // connect first
        handle = open();
        read();
    }
    private Handle handle;
}
`)
}

func TestIntroduceInitializerBlockAnchor(t *testing.T) {
	tr, ids := buildTree(t, tree.Unit("demo", tree.Class("Registry",
		tree.Field("names", "List", tree.New("ArrayList")),
		tree.Init(true, tree.Block(
			tree.Stmt(tree.Call("register", tree.Call("defaults").As("sel"))),
		)),
	)))

	introduce(t, Request{
		Tree:   tr,
		Target: ExprTarget(ids["sel"]),
		Settings: Settings{
			Name:       "DEFAULTS",
			Type:       "List",
			Visibility: java.VisibilityPrivate,
			Static:     true,
			Final:      true,
			Placement:  InCurrentMethod,
		},
	})

	assertJava(t, tr, `
package demo;

class Registry {
    List names = new ArrayList();
    private static final List DEFAULTS;
    static {
        DEFAULTS = defaults();
        register(DEFAULTS);
    }
}
`)
}

func TestIntroduceConstructorKeepsLocalsInScope(t *testing.T) {
	tr, ids := buildTree(t, tree.Unit("demo",
		tree.Class("Foo",
			tree.Ctor(tree.Params(tree.Param("n", "int")), tree.Block(
				tree.If(tree.Bin(">", tree.Ident("n"), tree.Lit("0")), tree.Block(
					tree.Local("k", "int", tree.Bin("*", tree.Ident("n"), tree.Lit("2"))),
					tree.Stmt(tree.Call("use", tree.Bin("+", tree.Ident("k"), tree.Lit("1")).As("sel"))),
				), nil),
			)),
		),
	))
	req := Request{
		Tree:   tr,
		Target: ExprTarget(ids["sel"]),
		Settings: Settings{
			Name:       "v",
			Type:       "int",
			Visibility: java.VisibilityPrivate,
			Placement:  InConstructors,
		},
	}

	plan, err := NewEngine().ComputePlacementPlan(req)
	if err != nil {
		t.Fatalf("ComputePlacementPlan() error = %v", err)
	}
	if !plan.Legal.Has(InConstructors) {
		t.Fatalf("legal placements %s do not include constructors", plan.Legal)
	}

	introduce(t, req)
	assertJava(t, tr, `
package demo;

class Foo {
    Foo(int n) {
        if (n > 0) {
            int k = n * 2;
            v = k + 1;
            use(v);
        }
    }
    private int v;
}
`)
}

func TestIntroducePromotedLocalEvaluatedOnce(t *testing.T) {
	tests := []struct {
		name      string
		placement PlacementKind
		want      string
	}{
		{
			name:      "method",
			placement: InCurrentMethod,
			want: `
package demo;

class Foo {
    void run() {
        x = next();
        use(x);
    }
    private int x;
}
`,
		},
		{
			name:      "declaration",
			placement: InlineAtDeclaration,
			want: `
package demo;

class Foo {
    void run() {
        use(x);
    }
    private int x = next();
}
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, ids := buildTree(t, tree.Unit("demo",
				tree.Class("Foo",
					tree.Method("run", "void", nil, tree.Block(
						tree.Local("x", "int", tree.Call("next")).As("x"),
						tree.Stmt(tree.Call("use", tree.Ident("x"))),
					)),
				),
			))
			introduce(t, Request{
				Tree:   tr,
				Target: LocalTarget(ids["x"]),
				Settings: Settings{
					Name:       "x",
					Visibility: java.VisibilityPrivate,
					Placement:  tt.placement,
				},
			})
			if got := strings.Count(javaOf(tr), "next()"); got != 1 {
				t.Errorf("next() appears %d times, want 1", got)
			}
			assertJava(t, tr, tt.want)
		})
	}
}
