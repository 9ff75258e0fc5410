package format

import (
	"fmt"
	"io"

	"github.com/dhamidi/jintro/java/tree"
)

// Encoder writes the subtree at id in one output format.
type Encoder interface {
	Encode(t *tree.Tree, id tree.NodeID) error
}

// Names lists the formats NewEncoder accepts.
var Names = []string{"java", "json", "line"}

func NewEncoder(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "java":
		return NewJavaPrettyPrinter(w), nil
	case "json":
		return NewASTJSONEncoder(w), nil
	case "line":
		return NewLineEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format: %s (want java, json or line)", name)
}
