// Package naming suggests names for a member about to be introduced.
package naming

import (
	"slices"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/dhamidi/jintro/java"
	"github.com/dhamidi/jintro/java/tree"
)

// Context describes where the value comes from.
type Context struct {
	// Source is the name the expression was produced by: a method name for
	// calls, the referenced name for identifiers and field accesses.
	Source string
	// Constant requests SCREAMING_SNAKE_CASE names.
	Constant bool
}

// ContextOf derives a Context from an expression in t.
func ContextOf(t *tree.Tree, expr tree.NodeID) Context {
	n := t.Node(expr)
	if n == nil {
		return Context{}
	}
	switch n.Kind {
	case tree.KindCall, tree.KindName, tree.KindFieldAccess:
		return Context{Source: n.Name}
	case tree.KindParen, tree.KindCast:
		return ContextOf(t, t.Child(expr, 0))
	}
	return Context{}
}

var accessorPrefixes = []string{"get", "is", "has", "to", "as", "create", "new", "compute", "find", "load", "read"}

var keywords = map[string]bool{
	"abstract": true, "assert": true, "boolean": true, "break": true, "byte": true, "case": true,
	"catch": true, "char": true, "class": true, "const": true, "continue": true, "default": true,
	"do": true, "double": true, "else": true, "enum": true, "extends": true, "final": true,
	"finally": true, "float": true, "for": true, "goto": true, "if": true, "implements": true,
	"import": true, "instanceof": true, "int": true, "interface": true, "long": true, "native": true,
	"new": true, "package": true, "private": true, "protected": true, "public": true, "return": true,
	"short": true, "static": true, "strictfp": true, "super": true, "switch": true, "synchronized": true,
	"this": true, "throw": true, "throws": true, "transient": true, "try": true, "void": true,
	"volatile": true, "while": true, "true": true, "false": true, "null": true, "var": true,
}

// Suggest returns candidate names, best first. Names taken in existing are
// made unique with a numeric suffix, so the result is never empty.
func Suggest(existing []string, typ string, ctx Context) []string {
	var raw []string
	raw = append(raw, fromSource(ctx.Source)...)
	raw = append(raw, fromType(typ)...)
	raw = append(raw, "value")

	taken := make(map[string]bool, len(existing))
	for _, name := range existing {
		taken[name] = true
	}
	var out []string
	for _, base := range raw {
		name := strcase.ToLowerCamel(base)
		if ctx.Constant {
			name = strcase.ToScreamingSnake(base)
		}
		if name == "" || keywords[name] {
			continue
		}
		name = unique(name, taken)
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}

func unique(name string, taken map[string]bool) string {
	if !taken[name] {
		return name
	}
	for i := 1; ; i++ {
		candidate := name + strconv.Itoa(i)
		if !taken[candidate] {
			return candidate
		}
	}
}

// fromSource turns getUserName into userName and name.
func fromSource(source string) []string {
	if source == "" {
		return nil
	}
	words := strings.Split(strcase.ToSnake(source), "_")
	if len(words) > 1 && slices.Contains(accessorPrefixes, words[0]) {
		words = words[1:]
	}
	return tails(words)
}

// fromType turns java.util.List<String>[] into lists, and HttpClient into
// httpClient and client. Primitive types yield their initial.
func fromType(typ string) []string {
	typ = strings.TrimSpace(typ)
	if typ == "" {
		return nil
	}
	plural := false
	for strings.HasSuffix(typ, "[]") {
		typ = strings.TrimSuffix(typ, "[]")
		plural = true
	}
	if i := strings.IndexByte(typ, '<'); i >= 0 {
		typ = typ[:i]
	}
	if i := strings.LastIndexByte(typ, '.'); i >= 0 {
		typ = typ[i+1:]
	}
	if java.IsPrimitiveType(typ) {
		if plural {
			return []string{typ + "s"}
		}
		return []string{typ[:1]}
	}
	words := strings.Split(strcase.ToSnake(typ), "_")
	names := tails(words)
	if plural {
		for i := range names {
			names[i] += "s"
		}
	}
	return names
}

// tails returns the word list joined from each start position, longest
// first: [http client] gives http_client and client.
func tails(words []string) []string {
	var out []string
	for i := range words {
		if words[i] == "" {
			continue
		}
		out = append(out, strings.Join(words[i:], "_"))
	}
	return out
}
