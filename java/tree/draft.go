package tree

import (
	"fmt"

	"github.com/dhamidi/jintro/java"
)

// Draft describes a subtree before it is placed in an arena. Drafts are
// used by tests, the JSON decoder and the refactoring engine to synthesize
// nodes.
type Draft struct {
	Node
	Items    []*Draft
	Label    string
	RefLabel string
	ref      NodeID
}

// As names the node so that Builder.Finish reports its handle.
func (d *Draft) As(label string) *Draft { d.Label = label; return d }

// Binds makes a Name or FieldAccess refer to the declaration labelled label.
func (d *Draft) Binds(label string) *Draft { d.RefLabel = label; return d }

// BindsTo makes a Name or FieldAccess refer to an existing declaration.
func (d *Draft) BindsTo(id NodeID) *Draft { d.ref = id; return d }

func (d *Draft) Private() *Draft   { d.Mods.Visibility = java.VisibilityPrivate; return d }
func (d *Draft) Protected() *Draft { d.Mods.Visibility = java.VisibilityProtected; return d }
func (d *Draft) Public() *Draft    { d.Mods.Visibility = java.VisibilityPublic; return d }
func (d *Draft) Static() *Draft    { d.Mods.Static = true; return d }
func (d *Draft) Final() *Draft     { d.Mods.Final = true; return d }
func (d *Draft) Abstract() *Draft  { d.Mods.Abstract = true; return d }

func (d *Draft) Annotate(names ...string) *Draft {
	d.Mods.Annotations = append(d.Mods.Annotations, names...)
	return d
}

func (d *Draft) Comment(lines ...string) *Draft {
	d.Comments = append(d.Comments, lines...)
	return d
}

func (d *Draft) Extends(super string) *Draft { d.Super = super; return d }

// Throws sets the throws clause of a method.
func (d *Draft) Throws(list string) *Draft { d.Value = list; return d }

// Module places a compilation unit in a named module.
func (d *Draft) InModule(module string, exported bool) *Draft {
	d.Module = module
	d.Exported = exported
	return d
}

func (d *Draft) ReadOnlyUnit() *Draft { d.ReadOnly = true; return d }

func draft(kind NodeKind, items ...*Draft) *Draft {
	d := &Draft{Node: Node{Kind: kind}}
	for _, item := range items {
		if item != nil {
			d.Items = append(d.Items, item)
		}
	}
	return d
}

func Unit(pkg string, classes ...*Draft) *Draft {
	d := draft(KindCompilationUnit, classes...)
	d.Value = pkg
	return d
}

func Class(name string, members ...*Draft) *Draft {
	d := draft(KindClassDecl, members...)
	d.Name = name
	d.ClassKind = java.ClassKindClass
	return d
}

func Interface(name string, members ...*Draft) *Draft {
	d := Class(name, members...)
	d.ClassKind = java.ClassKindInterface
	return d
}

func Enum(name string, members ...*Draft) *Draft {
	d := Class(name, members...)
	d.ClassKind = java.ClassKindEnum
	return d
}

func Field(name, typ string, init *Draft) *Draft {
	d := draft(KindFieldDecl, init)
	d.Name, d.Type = name, typ
	return d
}

func EnumConst(name string, args ...*Draft) *Draft {
	d := draft(KindEnumConstant, args...)
	d.Name = name
	return d
}

func Method(name, result string, params []*Draft, body *Draft) *Draft {
	d := draft(KindMethodDecl, append(params, body)...)
	d.Name, d.Type = name, result
	return d
}

// Ctor declares a constructor; its name is taken from the enclosing class.
func Ctor(params []*Draft, body *Draft) *Draft {
	return draft(KindConstructorDecl, append(params, body)...)
}

func Init(static bool, body *Draft) *Draft {
	d := draft(KindInitializer, body)
	d.Mods.Static = static
	return d
}

func Param(name, typ string) *Draft {
	d := draft(KindParameter)
	d.Name, d.Type = name, typ
	return d
}

func Params(params ...*Draft) []*Draft { return params }

func Block(stmts ...*Draft) *Draft { return draft(KindBlock, stmts...) }

func Local(name, typ string, init *Draft) *Draft {
	d := draft(KindLocalVarDecl, init)
	d.Name, d.Type = name, typ
	return d
}

func Stmt(expr *Draft) *Draft { return draft(KindExprStmt, expr) }

func If(cond, then, els *Draft) *Draft { return draft(KindIfStmt, cond, then, els) }

func While(cond, body *Draft) *Draft { return draft(KindWhileStmt, cond, body) }

func ForEach(name, typ string, iterable, body *Draft) *Draft {
	d := draft(KindForEachStmt, iterable, body)
	d.Name, d.Type = name, typ
	return d
}

func Return(expr *Draft) *Draft { return draft(KindReturnStmt, expr) }

func ThisCall(args ...*Draft) *Draft {
	d := draft(KindExplicitCtorCall, args...)
	d.Name = "this"
	return d
}

func SuperCall(args ...*Draft) *Draft {
	d := draft(KindExplicitCtorCall, args...)
	d.Name = "super"
	return d
}

func Empty() *Draft { return draft(KindEmptyStmt) }

func Lit(value string) *Draft {
	d := draft(KindLiteral)
	d.Value = value
	return d
}

func Ident(name string) *Draft {
	d := draft(KindName)
	d.Name = name
	return d
}

// Dot accesses field name of qualifier.
func Dot(qualifier *Draft, name string) *Draft {
	d := draft(KindFieldAccess, qualifier)
	d.Name = name
	return d
}

// ThisExpr is `this`, or `Outer.this` when outer is set.
func ThisExpr(outer string) *Draft {
	d := draft(KindThis)
	d.Name = outer
	return d
}

func Bin(op string, left, right *Draft) *Draft {
	d := draft(KindBinary, left, right)
	d.Value = op
	return d
}

func Unary(op string, x *Draft) *Draft {
	d := draft(KindUnary, x)
	d.Value = op
	return d
}

func PostUnary(op string, x *Draft) *Draft {
	d := Unary(op, x)
	d.Postfix = true
	return d
}

func Call(name string, args ...*Draft) *Draft {
	d := draft(KindCall, args...)
	d.Name = name
	return d
}

func CallOn(recv *Draft, name string, args ...*Draft) *Draft {
	d := draft(KindCall, append([]*Draft{recv}, args...)...)
	d.Name = name
	d.Qualified = true
	return d
}

func New(typ string, args ...*Draft) *Draft {
	d := draft(KindNew, args...)
	d.Type = typ
	return d
}

func Assign(target, value *Draft) *Draft {
	d := draft(KindAssign, target, value)
	d.Value = "="
	return d
}

func Paren(x *Draft) *Draft { return draft(KindParen, x) }

func Cast(typ string, x *Draft) *Draft {
	d := draft(KindCast, x)
	d.Type = typ
	return d
}

func Cond(c, a, b *Draft) *Draft { return draft(KindConditional, c, a, b) }

func Index(array, index *Draft) *Draft { return draft(KindArrayAccess, array, index) }

func Lambda(params []*Draft, body *Draft) *Draft {
	return draft(KindLambda, append(params, body)...)
}

// Materialize allocates d as a detached subtree and returns its root.
func (t *Tree) Materialize(d *Draft) NodeID {
	return t.materialize(d, nil)
}

func (t *Tree) materialize(d *Draft, labels map[string]NodeID) NodeID {
	n := d.Node.clonePayload()
	n.Ref = d.ref
	id := t.alloc(n)
	if labels != nil && d.Label != "" {
		labels[d.Label] = id
	}
	for _, item := range d.Items {
		if item.Kind == KindConstructorDecl && item.Name == "" && d.Kind == KindClassDecl {
			item.Name = d.Name
		}
		child := t.materialize(item, labels)
		t.mustNode(child).Parent = id
		parent := t.mustNode(id)
		parent.Children = append(parent.Children, child)
	}
	return id
}

// Builder assembles a program from drafts.
type Builder struct {
	t       *Tree
	labels  map[string]NodeID
	pending []pendingRef
}

type pendingRef struct {
	node  NodeID
	label string
}

func NewBuilder() *Builder {
	return &Builder{t: NewTree(), labels: map[string]NodeID{}}
}

// Add materializes d and attaches it under parent.
func (b *Builder) Add(parent NodeID, d *Draft) NodeID {
	if d.Kind == KindConstructorDecl && d.Name == "" {
		d.Name = b.t.Name(parent)
	}
	id := b.t.materialize(d, b.labels)
	b.collectRefs(d, id)
	if err := b.t.Append(parent, id); err != nil {
		panic(fmt.Errorf("builder: %w", err))
	}
	return id
}

// Unit adds a compilation unit to the program.
func (b *Builder) Unit(d *Draft) NodeID {
	return b.Add(b.t.Root(), d)
}

func (b *Builder) collectRefs(d *Draft, id NodeID) {
	if d.RefLabel != "" {
		b.pending = append(b.pending, pendingRef{node: id, label: d.RefLabel})
	}
	for i, item := range d.Items {
		b.collectRefs(item, b.t.Child(id, i))
	}
}

// Finish binds labelled references, resolves the remaining names and
// returns the tree with the handles of every labelled draft.
func (b *Builder) Finish() (*Tree, map[string]NodeID, error) {
	for _, p := range b.pending {
		target, ok := b.labels[p.label]
		if !ok {
			return nil, nil, fmt.Errorf("builder: unknown reference label %q", p.label)
		}
		b.t.mustNode(p.node).Ref = target
	}
	Resolve(b.t)
	return b.t, b.labels, nil
}
