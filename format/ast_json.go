package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/jintro/java"
	"github.com/dhamidi/jintro/java/tree"
)

// ASTJSONEncoder writes program trees as nested JSON objects. Declarations
// that are referenced carry an "id", and references point at it with "ref",
// so the output can be read back with DecodeTree.
type ASTJSONEncoder struct {
	w io.Writer
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(t *tree.Tree, id tree.NodeID) error {
	text, err := e.MarshalText(t, id)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *ASTJSONEncoder) MarshalText(t *tree.Tree, id tree.NodeID) ([]byte, error) {
	referenced := map[tree.NodeID]bool{}
	tree.Walk(t, id, func(c tree.NodeID) bool {
		if ref := t.Node(c).Ref; ref.IsValid() {
			referenced[ref] = true
		}
		return true
	})
	return json.MarshalIndent(nodeToJSON(t, id, referenced), "", "  ")
}

type astJSONNode struct {
	Kind        string         `json:"kind"`
	ID          string         `json:"id,omitempty"`
	Name        string         `json:"name,omitempty"`
	Type        string         `json:"type,omitempty"`
	Value       string         `json:"value,omitempty"`
	Visibility  string         `json:"visibility,omitempty"`
	Static      bool           `json:"static,omitempty"`
	Final       bool           `json:"final,omitempty"`
	Abstract    bool           `json:"abstract,omitempty"`
	Annotations []string       `json:"annotations,omitempty"`
	Comments    []string       `json:"comments,omitempty"`
	ClassKind   string         `json:"classKind,omitempty"`
	Super       string         `json:"extends,omitempty"`
	Module      string         `json:"module,omitempty"`
	Exported    bool           `json:"exported,omitempty"`
	ReadOnly    bool           `json:"readOnly,omitempty"`
	Postfix     bool           `json:"postfix,omitempty"`
	Qualified   bool           `json:"qualified,omitempty"`
	Ref         string         `json:"ref,omitempty"`
	Children    []*astJSONNode `json:"children,omitempty"`
}

func handleLabel(id tree.NodeID) string {
	return strings.TrimPrefix(id.String(), "#")
}

func nodeToJSON(t *tree.Tree, id tree.NodeID, referenced map[tree.NodeID]bool) *astJSONNode {
	n := t.Node(id)
	jn := &astJSONNode{
		Kind:        n.Kind.String(),
		Name:        n.Name,
		Type:        n.Type,
		Value:       n.Value,
		Static:      n.Mods.Static,
		Final:       n.Mods.Final,
		Abstract:    n.Mods.Abstract,
		Annotations: n.Mods.Annotations,
		Comments:    n.Comments,
		ClassKind:   string(n.ClassKind),
		Super:       n.Super,
		Module:      n.Module,
		Exported:    n.Exported,
		ReadOnly:    n.ReadOnly,
		Postfix:     n.Postfix,
		Qualified:   n.Qualified,
	}
	if n.Mods.Visibility != "" && n.Mods.Visibility != java.VisibilityPackage {
		jn.Visibility = string(n.Mods.Visibility)
	}
	if referenced[id] {
		jn.ID = handleLabel(id)
	}
	if n.Ref.IsValid() {
		jn.Ref = handleLabel(n.Ref)
	}
	if len(n.Children) > 0 {
		jn.Children = make([]*astJSONNode, len(n.Children))
		for i, child := range n.Children {
			jn.Children[i] = nodeToJSON(t, child, referenced)
		}
	}
	return jn
}

// DecodeTree reads a program from JSON. The top-level object may be a
// Program or a single CompilationUnit. It returns the tree and the handles
// of every node that carried an "id".
func DecodeTree(r io.Reader) (*tree.Tree, map[string]tree.NodeID, error) {
	var root astJSONNode
	if err := json.NewDecoder(r).Decode(&root); err != nil {
		return nil, nil, fmt.Errorf("decode tree: %w", err)
	}
	b := tree.NewBuilder()
	units := []*astJSONNode{&root}
	if root.Kind == tree.KindProgram.String() {
		units = root.Children
	}
	for _, u := range units {
		d, err := jsonToDraft(u)
		if err != nil {
			return nil, nil, err
		}
		if d.Kind != tree.KindCompilationUnit {
			return nil, nil, fmt.Errorf("decode tree: expected CompilationUnit, got %s", d.Kind)
		}
		b.Unit(d)
	}
	return b.Finish()
}

func jsonToDraft(jn *astJSONNode) (*tree.Draft, error) {
	kind, ok := tree.ParseNodeKind(jn.Kind)
	if !ok {
		return nil, fmt.Errorf("decode tree: unknown node kind %q", jn.Kind)
	}
	vis, err := java.ParseVisibility(jn.Visibility)
	if err != nil {
		return nil, fmt.Errorf("decode tree: %s %s: %w", jn.Kind, jn.Name, err)
	}
	d := &tree.Draft{
		Node: tree.Node{
			Kind:  kind,
			Name:  jn.Name,
			Type:  jn.Type,
			Value: jn.Value,
			Mods: tree.Modifiers{
				Visibility:  vis,
				Static:      jn.Static,
				Final:       jn.Final,
				Abstract:    jn.Abstract,
				Annotations: jn.Annotations,
			},
			Comments:  jn.Comments,
			Super:     jn.Super,
			Module:    jn.Module,
			Exported:  jn.Exported,
			ReadOnly:  jn.ReadOnly,
			Postfix:   jn.Postfix,
			Qualified: jn.Qualified,
		},
		Label:    jn.ID,
		RefLabel: jn.Ref,
	}
	if kind == tree.KindClassDecl {
		if d.ClassKind, err = java.ParseClassKind(jn.ClassKind); err != nil {
			return nil, fmt.Errorf("decode tree: class %s: %w", jn.Name, err)
		}
	}
	for _, child := range jn.Children {
		cd, err := jsonToDraft(child)
		if err != nil {
			return nil, err
		}
		d.Items = append(d.Items, cd)
	}
	return d, nil
}
