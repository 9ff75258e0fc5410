package format

import (
	"strings"

	"github.com/dhamidi/jintro/java"
	"github.com/dhamidi/jintro/java/tree"
)

func (p *JavaPrettyPrinter) printMember(id tree.NodeID) {
	switch p.t.Kind(id) {
	case tree.KindClassDecl:
		p.printClassDecl(id)
	case tree.KindFieldDecl:
		p.printFieldDecl(id)
	case tree.KindEnumConstant:
		p.printLine(p.enumConstant(id) + ";")
	case tree.KindMethodDecl:
		p.printMethodDecl(id)
	case tree.KindConstructorDecl:
		p.printConstructorDecl(id)
	case tree.KindInitializer:
		p.printInitializer(id)
	}
}

func classKeyword(kind java.ClassKind) string {
	switch kind {
	case java.ClassKindInterface:
		return "interface"
	case java.ClassKindEnum:
		return "enum"
	case java.ClassKindRecord:
		return "record"
	case java.ClassKindAnnotation:
		return "@interface"
	}
	return "class"
}

func (p *JavaPrettyPrinter) printClassDecl(id tree.NodeID) {
	n := p.t.Node(id)
	p.printComments(id)
	p.printAnnotationLines(n.Mods)
	header := modifierString(n.Mods) + classKeyword(n.ClassKind) + " " + n.Name
	if n.Super != "" {
		header += " extends " + n.Super
	}
	p.printLine(header + " {")
	p.indent++

	constants := p.t.Members(id, tree.KindEnumConstant)
	for i, c := range constants {
		p.printComments(c)
		sep := ","
		if i == len(constants)-1 {
			sep = ";"
		}
		p.printLine(p.enumConstant(c) + sep)
	}
	for _, member := range n.Children {
		if p.t.Kind(member) == tree.KindEnumConstant {
			continue
		}
		p.printMember(member)
	}

	p.indent--
	p.printLine("}")
}

func (p *JavaPrettyPrinter) enumConstant(id tree.NodeID) string {
	n := p.t.Node(id)
	if len(n.Children) == 0 {
		return n.Name
	}
	return n.Name + "(" + p.exprList(n.Children) + ")"
}

func (p *JavaPrettyPrinter) printFieldDecl(id tree.NodeID) {
	n := p.t.Node(id)
	p.printComments(id)
	p.printAnnotationLines(n.Mods)
	line := modifierString(n.Mods) + n.Type + " " + n.Name
	if init := p.t.Initializer(id); init.IsValid() {
		line += " = " + p.expr(init)
	}
	p.printLine(line + ";")
}

func (p *JavaPrettyPrinter) parameterList(id tree.NodeID) string {
	var parts []string
	for _, param := range p.t.Params(id) {
		parts = append(parts, p.parameter(param))
	}
	return strings.Join(parts, ", ")
}

func (p *JavaPrettyPrinter) parameter(id tree.NodeID) string {
	n := p.t.Node(id)
	s := inlineAnnotations(n.Mods)
	if n.Mods.Final {
		s += "final "
	}
	if n.Type != "" {
		s += n.Type + " "
	}
	return s + n.Name
}

func (p *JavaPrettyPrinter) printMethodDecl(id tree.NodeID) {
	n := p.t.Node(id)
	p.printComments(id)
	p.printAnnotationLines(n.Mods)
	p.writeIndent()
	p.write(modifierString(n.Mods) + n.Type + " " + n.Name + "(" + p.parameterList(id) + ")")
	if n.Value != "" {
		p.write(" throws " + n.Value)
	}
	body := p.t.Body(id)
	if !body.IsValid() {
		p.write(";")
		p.newline()
		return
	}
	p.write(" ")
	p.printBlock(body)
	p.newline()
}

func (p *JavaPrettyPrinter) printConstructorDecl(id tree.NodeID) {
	n := p.t.Node(id)
	p.printComments(id)
	p.printAnnotationLines(n.Mods)
	p.writeIndent()
	p.write(modifierString(n.Mods) + n.Name + "(" + p.parameterList(id) + ") ")
	p.printBlock(p.t.Body(id))
	p.newline()
}

func (p *JavaPrettyPrinter) printInitializer(id tree.NodeID) {
	n := p.t.Node(id)
	p.printComments(id)
	p.writeIndent()
	if n.Mods.Static {
		p.write("static ")
	}
	p.printBlock(p.t.Body(id))
	p.newline()
}
