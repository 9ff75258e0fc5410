package format

import (
	"github.com/dhamidi/jintro/java/tree"
)

// printBlock writes a braced block starting at the current column and leaves
// the cursor right after the closing brace.
func (p *JavaPrettyPrinter) printBlock(id tree.NodeID) {
	p.write("{")
	p.newline()
	p.indent++
	for _, stmt := range p.t.Children(id) {
		p.printStatement(stmt)
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

// printStatement writes one statement, preceded by its comments, and ends
// the line.
func (p *JavaPrettyPrinter) printStatement(id tree.NodeID) {
	p.printComments(id)
	p.writeIndent()
	p.printStatementBody(id)
	if !p.atLineStart {
		p.newline()
	}
}

func (p *JavaPrettyPrinter) printStatementBody(id tree.NodeID) {
	n := p.t.Node(id)
	switch n.Kind {
	case tree.KindBlock:
		p.printBlock(id)
	case tree.KindLocalVarDecl:
		s := inlineAnnotations(n.Mods)
		if n.Mods.Final {
			s += "final "
		}
		s += n.Type + " " + n.Name
		if init := p.t.Initializer(id); init.IsValid() {
			s += " = " + p.expr(init)
		}
		p.write(s + ";")
	case tree.KindExprStmt:
		p.write(p.expr(p.t.Child(id, 0)) + ";")
	case tree.KindIfStmt:
		p.printIfStmt(id)
	case tree.KindWhileStmt:
		p.write("while (" + p.expr(p.t.Child(id, 0)) + ")")
		p.printBody(p.t.Child(id, 1))
	case tree.KindForEachStmt:
		p.write("for (" + n.Type + " " + n.Name + " : " + p.expr(p.t.Child(id, 0)) + ")")
		p.printBody(p.t.Child(id, 1))
	case tree.KindReturnStmt:
		if value := p.t.Child(id, 0); value.IsValid() {
			p.write("return " + p.expr(value) + ";")
		} else {
			p.write("return;")
		}
	case tree.KindExplicitCtorCall:
		p.write(n.Name + "(" + p.exprList(n.Children) + ");")
	case tree.KindEmptyStmt:
		p.write(";")
	}
}

func (p *JavaPrettyPrinter) printIfStmt(id tree.NodeID) {
	p.write("if (" + p.expr(p.t.Child(id, 0)) + ")")
	then := p.t.Child(id, 1)
	p.printBody(then)
	els := p.t.Child(id, 2)
	if !els.IsValid() {
		return
	}
	if p.t.Kind(then) == tree.KindBlock {
		p.write(" else")
	} else {
		p.writeIndent()
		p.write("else")
	}
	if p.t.Kind(els) == tree.KindIfStmt {
		p.write(" ")
		p.printIfStmt(els)
		return
	}
	p.printBody(els)
}

// printBody writes the body of a control statement: a block stays on the
// header line, any other statement goes on its own indented line.
func (p *JavaPrettyPrinter) printBody(id tree.NodeID) {
	if p.t.Kind(id) == tree.KindBlock {
		p.write(" ")
		p.printBlock(id)
		return
	}
	p.newline()
	p.indent++
	p.printStatement(id)
	p.indent--
}
