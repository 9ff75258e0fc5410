package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/jintro/java"
	"github.com/dhamidi/jintro/java/tree"
)

// LineEncoder writes one tab-separated line per class and member, for
// grepping and diffing member inventories. Nested classes are named
// Outer.Inner; constructors and initializers use the JVM names.
type LineEncoder struct {
	w io.Writer
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(t *tree.Tree, id tree.NodeID) error {
	text, err := e.MarshalText(t, id)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText(t *tree.Tree, id tree.NodeID) ([]byte, error) {
	if !t.Valid(id) {
		return nil, fmt.Errorf("line encoder: %v does not resolve", id)
	}
	var sb strings.Builder
	tree.Walk(t, id, func(c tree.NodeID) bool {
		kind := t.Kind(c)
		if kind == tree.KindClassDecl {
			e.writeClass(&sb, t, c)
		}
		return !kind.IsMember() || kind == tree.KindClassDecl
	})
	return []byte(sb.String()), nil
}

func (e *LineEncoder) writeClass(sb *strings.Builder, t *tree.Tree, class tree.NodeID) {
	n := t.Node(class)
	fmt.Fprintf(sb, "%s\t%s\t%s\t%s\n", n.ClassKind, qualifiedName(t, class), visibility(n.Mods), modifiersStr(n.Mods))

	for _, m := range t.Children(class) {
		mn := t.Node(m)
		switch mn.Kind {
		case tree.KindFieldDecl:
			mods := mn.Mods
			if t.IsStaticMember(m) {
				mods.Static = true
			}
			fmt.Fprintf(sb, "field\t%s\t%s\t%s\t%s\n", mn.Name, mn.Type, visibility(mn.Mods), modifiersStr(mods))
		case tree.KindEnumConstant:
			fmt.Fprintf(sb, "field\t%s\t%s\tpublic\tstatic,final,enum\n", mn.Name, n.Name)
		case tree.KindMethodDecl:
			fmt.Fprintf(sb, "method\t%s\t%s\t%s\t%s\t%s\n",
				mn.Name, mn.Type, parametersStr(t, m), visibility(mn.Mods), modifiersStr(mn.Mods))
		case tree.KindConstructorDecl:
			fmt.Fprintf(sb, "method\t<init>\tvoid\t%s\t%s\t%s\n", parametersStr(t, m), visibility(mn.Mods), modifiersStr(mn.Mods))
		case tree.KindInitializer:
			name := "<init>"
			if mn.Mods.Static {
				name = "<clinit>"
			}
			fmt.Fprintf(sb, "initializer\t%s\n", name)
		}
	}
}

func qualifiedName(t *tree.Tree, class tree.NodeID) string {
	var parts []string
	for c := class; c.IsValid(); c = t.EnclosingClass(c) {
		parts = append([]string{t.Name(c)}, parts...)
	}
	return strings.Join(parts, ".")
}

func visibility(mods tree.Modifiers) java.Visibility {
	if mods.Visibility == "" {
		return java.VisibilityPackage
	}
	return mods.Visibility
}

func modifiersStr(mods tree.Modifiers) string {
	var parts []string
	if mods.Static {
		parts = append(parts, "static")
	}
	if mods.Final {
		parts = append(parts, "final")
	}
	if mods.Abstract {
		parts = append(parts, "abstract")
	}
	for _, a := range mods.Annotations {
		parts = append(parts, "@"+a)
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}

func parametersStr(t *tree.Tree, method tree.NodeID) string {
	params := t.Params(method)
	if len(params) == 0 {
		return "-"
	}
	types := make([]string, len(params))
	for i, p := range params {
		types[i] = t.Node(p).Type
	}
	return strings.Join(types, ",")
}
