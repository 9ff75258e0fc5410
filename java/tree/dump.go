package tree

import (
	"strings"
)

// Dump renders the subtree at id as an indented outline, one node per line.
func Dump(t *Tree, id NodeID) string {
	var sb strings.Builder
	dumpIndent(t, id, 0, &sb)
	return sb.String()
}

func dumpIndent(t *Tree, id NodeID, indent int, sb *strings.Builder) {
	n := t.Node(id)
	if n == nil {
		return
	}
	sb.WriteString(strings.Repeat("  ", indent))
	sb.WriteString(n.Kind.String())
	if n.Name != "" {
		sb.WriteString(" " + n.Name)
	}
	if n.Type != "" {
		sb.WriteString(" : " + n.Type)
	}
	if n.Value != "" {
		sb.WriteString(" " + n.Value)
	}
	if n.Ref.IsValid() {
		sb.WriteString(" -> " + n.Ref.String())
	}
	sb.WriteString("\n")
	for _, c := range n.Children {
		dumpIndent(t, c, indent+1, sb)
	}
}
