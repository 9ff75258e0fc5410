package tree

import (
	"strings"

	"github.com/dhamidi/jintro/java"
)

type NodeKind int

const (
	KindInvalid NodeKind = iota

	// Containers
	KindProgram
	KindCompilationUnit

	// Declarations
	KindClassDecl
	KindFieldDecl
	KindEnumConstant
	KindMethodDecl
	KindConstructorDecl
	KindInitializer
	KindParameter

	// Statements
	KindBlock
	KindLocalVarDecl
	KindExprStmt
	KindIfStmt
	KindWhileStmt
	KindForEachStmt
	KindReturnStmt
	KindExplicitCtorCall
	KindEmptyStmt

	// Expressions
	KindLiteral
	KindName
	KindFieldAccess
	KindThis
	KindBinary
	KindUnary
	KindCall
	KindNew
	KindAssign
	KindParen
	KindCast
	KindConditional
	KindArrayAccess
	KindLambda
)

var nodeKindNames = map[NodeKind]string{
	KindInvalid:          "Invalid",
	KindProgram:          "Program",
	KindCompilationUnit:  "CompilationUnit",
	KindClassDecl:        "ClassDecl",
	KindFieldDecl:        "FieldDecl",
	KindEnumConstant:     "EnumConstant",
	KindMethodDecl:       "MethodDecl",
	KindConstructorDecl:  "ConstructorDecl",
	KindInitializer:      "Initializer",
	KindParameter:        "Parameter",
	KindBlock:            "Block",
	KindLocalVarDecl:     "LocalVarDecl",
	KindExprStmt:         "ExprStmt",
	KindIfStmt:           "IfStmt",
	KindWhileStmt:        "WhileStmt",
	KindForEachStmt:      "ForEachStmt",
	KindReturnStmt:       "ReturnStmt",
	KindExplicitCtorCall: "ExplicitCtorCall",
	KindEmptyStmt:        "EmptyStmt",
	KindLiteral:          "Literal",
	KindName:             "Name",
	KindFieldAccess:      "FieldAccess",
	KindThis:             "This",
	KindBinary:           "Binary",
	KindUnary:            "Unary",
	KindCall:             "Call",
	KindNew:              "New",
	KindAssign:           "Assign",
	KindParen:            "Paren",
	KindCast:             "Cast",
	KindConditional:      "Conditional",
	KindArrayAccess:      "ArrayAccess",
	KindLambda:           "Lambda",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// ParseNodeKind is the inverse of NodeKind.String.
func ParseNodeKind(s string) (NodeKind, bool) {
	for kind, name := range nodeKindNames {
		if name == s && kind != KindInvalid {
			return kind, true
		}
	}
	return KindInvalid, false
}

func (k NodeKind) IsStatement() bool {
	switch k {
	case KindBlock, KindLocalVarDecl, KindExprStmt, KindIfStmt, KindWhileStmt,
		KindForEachStmt, KindReturnStmt, KindExplicitCtorCall, KindEmptyStmt:
		return true
	}
	return false
}

func (k NodeKind) IsExpression() bool {
	switch k {
	case KindLiteral, KindName, KindFieldAccess, KindThis, KindBinary, KindUnary,
		KindCall, KindNew, KindAssign, KindParen, KindCast, KindConditional,
		KindArrayAccess, KindLambda:
		return true
	}
	return false
}

// IsMember reports whether nodes of kind k sit directly in a class body.
func (k NodeKind) IsMember() bool {
	switch k {
	case KindClassDecl, KindFieldDecl, KindEnumConstant, KindMethodDecl,
		KindConstructorDecl, KindInitializer:
		return true
	}
	return false
}

// IsMethodLike reports whether k owns a statement body.
func (k NodeKind) IsMethodLike() bool {
	return k == KindMethodDecl || k == KindConstructorDecl || k == KindInitializer
}

// IsVariable reports whether k declares a name that Name nodes can reference.
func (k NodeKind) IsVariable() bool {
	switch k {
	case KindFieldDecl, KindEnumConstant, KindLocalVarDecl, KindParameter, KindForEachStmt:
		return true
	}
	return false
}

type Modifiers struct {
	Visibility  java.Visibility
	Static      bool
	Final       bool
	Abstract    bool
	Annotations []string
}

func (m Modifiers) HasAnnotation(name string) bool {
	for _, a := range m.Annotations {
		if a == name || strings.HasSuffix(a, "."+name) {
			return true
		}
	}
	return false
}

func (m Modifiers) clone() Modifiers {
	c := m
	if m.Annotations != nil {
		c.Annotations = append([]string(nil), m.Annotations...)
	}
	return c
}

// Node is one slot of the arena. Which payload fields are meaningful depends on Kind:
//
//	CompilationUnit   Name=file, Value=package, Module, Exported, ReadOnly; children are classes
//	ClassDecl         Name, Mods, ClassKind, Super; children are members
//	FieldDecl         Name, Type, Mods; optional initializer child
//	EnumConstant      Name; children are constructor arguments
//	MethodDecl        Name, Type (result), Mods, Value (throws clause); Parameter children then optional Block
//	ConstructorDecl   Name, Mods; Parameter children then Block
//	Initializer       Mods.Static; one Block child
//	Parameter         Name, Type
//	LocalVarDecl      Name, Type, Mods; optional initializer child
//	IfStmt            condition, then, optional else
//	WhileStmt         condition, body
//	ForEachStmt       Name, Type (loop variable); iterable, body
//	ReturnStmt        optional expression
//	ExplicitCtorCall  Name ("this" or "super"); argument children
//	Literal           Value
//	Name              Name, Ref
//	FieldAccess       Name, Ref; qualifier child
//	This              Name (optional outer class qualifier)
//	Binary, Assign    Value (operator); two children
//	Unary             Value (operator), Postfix; one child
//	Call              Name, Qualified (first child is the receiver); arguments
//	New               Type; arguments
//	Cast              Type; one child
//	Lambda            Parameter children then body (expression or Block)
type Node struct {
	Kind     NodeKind
	Parent   NodeID
	Children []NodeID

	Name     string
	Type     string
	Value    string
	Mods     Modifiers
	Ref      NodeID
	Comments []string

	ClassKind java.ClassKind
	Super     string
	Module    string
	Exported  bool
	ReadOnly  bool
	Postfix   bool
	Qualified bool

	gen  uint32
	live bool
}

func (n *Node) clonePayload() Node {
	c := *n
	c.Parent = NoNode
	c.Children = nil
	c.Mods = n.Mods.clone()
	if n.Comments != nil {
		c.Comments = append([]string(nil), n.Comments...)
	}
	return c
}
