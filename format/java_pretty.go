package format

import (
	"bytes"
	"io"
	"strings"

	"github.com/dhamidi/jintro/java/tree"
)

// JavaPrettyPrinter renders program trees as Java source. Output is
// deterministic: four-space indentation, one member or statement per line,
// no blank lines inside class bodies.
type JavaPrettyPrinter struct {
	w           io.Writer
	t           *tree.Tree
	indent      int
	indentStr   string
	atLineStart bool
	err         error
}

func NewJavaPrettyPrinter(w io.Writer) *JavaPrettyPrinter {
	return &JavaPrettyPrinter{
		w:           w,
		indentStr:   "    ",
		atLineStart: true,
	}
}

// Print writes the subtree at id. Any node kind can be printed; expressions
// are written without a trailing newline.
func (p *JavaPrettyPrinter) Print(t *tree.Tree, id tree.NodeID) error {
	p.t = t
	p.err = nil
	p.printNode(id)
	return p.err
}

func (p *JavaPrettyPrinter) Encode(t *tree.Tree, id tree.NodeID) error {
	return p.Print(t, id)
}

// PrettyPrintTree returns the Java source for the subtree at id.
func PrettyPrintTree(t *tree.Tree, id tree.NodeID) string {
	var buf bytes.Buffer
	NewJavaPrettyPrinter(&buf).Print(t, id)
	return buf.String()
}

func (p *JavaPrettyPrinter) printNode(id tree.NodeID) {
	kind := p.t.Kind(id)
	switch {
	case kind == tree.KindProgram:
		for i, unit := range p.t.Children(id) {
			if i > 0 {
				p.newline()
			}
			p.printNode(unit)
		}
	case kind == tree.KindCompilationUnit:
		p.printCompilationUnit(id)
	case kind.IsMember():
		p.printMember(id)
	case kind == tree.KindParameter:
		p.write(p.parameter(id))
	case kind.IsStatement():
		p.printStatement(id)
	case kind.IsExpression():
		p.write(p.expr(id))
	}
}

func (p *JavaPrettyPrinter) printCompilationUnit(id tree.NodeID) {
	n := p.t.Node(id)
	if n.Value != "" {
		p.write("package " + n.Value + ";\n")
		p.atLineStart = true
		p.newline()
	}
	for i, class := range n.Children {
		if i > 0 {
			p.newline()
		}
		p.printMember(class)
	}
}

func (p *JavaPrettyPrinter) writeIndent() {
	if !p.atLineStart {
		return
	}
	for i := 0; i < p.indent; i++ {
		p.write(p.indentStr)
	}
	p.atLineStart = false
}

func (p *JavaPrettyPrinter) write(s string) {
	if p.err != nil {
		return
	}
	if _, err := io.WriteString(p.w, s); err != nil {
		p.err = err
	}
}

func (p *JavaPrettyPrinter) newline() {
	p.write("\n")
	p.atLineStart = true
}

// printLine writes one complete indented line.
func (p *JavaPrettyPrinter) printLine(s string) {
	p.writeIndent()
	p.write(s)
	p.newline()
}

func (p *JavaPrettyPrinter) printComments(id tree.NodeID) {
	for _, c := range p.t.Node(id).Comments {
		for _, line := range strings.Split(c, "\n") {
			p.printLine(strings.TrimSpace(line))
		}
	}
}

func (p *JavaPrettyPrinter) printAnnotationLines(mods tree.Modifiers) {
	for _, a := range mods.Annotations {
		p.printLine("@" + a)
	}
}

func modifierString(mods tree.Modifiers) string {
	var sb strings.Builder
	if kw := mods.Visibility.Keyword(); kw != "" {
		sb.WriteString(kw + " ")
	}
	if mods.Abstract {
		sb.WriteString("abstract ")
	}
	if mods.Static {
		sb.WriteString("static ")
	}
	if mods.Final {
		sb.WriteString("final ")
	}
	return sb.String()
}

func inlineAnnotations(mods tree.Modifiers) string {
	var sb strings.Builder
	for _, a := range mods.Annotations {
		sb.WriteString("@" + a + " ")
	}
	return sb.String()
}
