package format

import (
	"strings"

	"github.com/dhamidi/jintro/java/tree"
)

func (p *JavaPrettyPrinter) exprList(ids []tree.NodeID) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, p.expr(id))
	}
	return strings.Join(parts, ", ")
}

func (p *JavaPrettyPrinter) expr(id tree.NodeID) string {
	n := p.t.Node(id)
	if n == nil {
		return ""
	}
	switch n.Kind {
	case tree.KindLiteral:
		return n.Value
	case tree.KindName:
		return n.Name
	case tree.KindFieldAccess:
		return p.expr(p.t.Child(id, 0)) + "." + n.Name
	case tree.KindThis:
		if n.Name != "" {
			return n.Name + ".this"
		}
		return "this"
	case tree.KindBinary, tree.KindAssign:
		return p.expr(p.t.Child(id, 0)) + " " + n.Value + " " + p.expr(p.t.Child(id, 1))
	case tree.KindUnary:
		if n.Postfix {
			return p.expr(p.t.Child(id, 0)) + n.Value
		}
		return n.Value + p.expr(p.t.Child(id, 0))
	case tree.KindCall:
		args := n.Children
		recv := ""
		if n.Qualified && len(args) > 0 {
			recv = p.expr(args[0]) + "."
			args = args[1:]
		}
		return recv + n.Name + "(" + p.exprList(args) + ")"
	case tree.KindNew:
		return "new " + n.Type + "(" + p.exprList(n.Children) + ")"
	case tree.KindParen:
		return "(" + p.expr(p.t.Child(id, 0)) + ")"
	case tree.KindCast:
		return "(" + n.Type + ") " + p.expr(p.t.Child(id, 0))
	case tree.KindConditional:
		return p.expr(p.t.Child(id, 0)) + " ? " + p.expr(p.t.Child(id, 1)) + " : " + p.expr(p.t.Child(id, 2))
	case tree.KindArrayAccess:
		return p.expr(p.t.Child(id, 0)) + "[" + p.expr(p.t.Child(id, 1)) + "]"
	case tree.KindLambda:
		return p.lambda(id)
	}
	return ""
}

func (p *JavaPrettyPrinter) lambda(id tree.NodeID) string {
	params := p.t.Params(id)
	var head string
	if len(params) == 1 && p.t.Node(params[0]).Type == "" {
		head = p.t.Name(params[0])
	} else {
		head = "(" + p.parameterList(id) + ")"
	}
	children := p.t.Children(id)
	body := children[len(children)-1]
	if p.t.Kind(body) != tree.KindBlock {
		return head + " -> " + p.expr(body)
	}
	// Block bodies are rendered on one line.
	var sb strings.Builder
	sb.WriteString(head + " -> {")
	for _, stmt := range p.t.Children(body) {
		var buf strings.Builder
		inner := &JavaPrettyPrinter{w: &buf, t: p.t, indentStr: p.indentStr}
		inner.printStatementBody(stmt)
		sb.WriteString(" " + strings.ReplaceAll(strings.TrimSpace(buf.String()), "\n", " "))
	}
	sb.WriteString(" }")
	return sb.String()
}
