package java

import "fmt"

type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
	VisibilityPackage   Visibility = "package"
)

// Visibilities lists every access level from least to most permissive.
var Visibilities = []Visibility{
	VisibilityPrivate,
	VisibilityPackage,
	VisibilityProtected,
	VisibilityPublic,
}

// Rank orders access levels: private < package < protected < public.
// The empty visibility is package access; unknown values rank below private.
func (v Visibility) Rank() int {
	switch v {
	case VisibilityPrivate:
		return 0
	case VisibilityPackage, "":
		return 1
	case VisibilityProtected:
		return 2
	case VisibilityPublic:
		return 3
	}
	return -1
}

// AtLeast reports whether v is at least as permissive as other.
func (v Visibility) AtLeast(other Visibility) bool {
	return v.Rank() >= other.Rank()
}

// Keyword returns the source modifier for v, which is empty for package access.
func (v Visibility) Keyword() string {
	if v == VisibilityPackage || v == "" {
		return ""
	}
	return string(v)
}

func ParseVisibility(s string) (Visibility, error) {
	switch s {
	case "public":
		return VisibilityPublic, nil
	case "protected":
		return VisibilityProtected, nil
	case "private":
		return VisibilityPrivate, nil
	case "package", "package-private", "":
		return VisibilityPackage, nil
	}
	return "", fmt.Errorf("unknown visibility %q", s)
}

type ClassKind string

const (
	ClassKindClass      ClassKind = "class"
	ClassKindInterface  ClassKind = "interface"
	ClassKindEnum       ClassKind = "enum"
	ClassKindAnnotation ClassKind = "annotation"
	ClassKindRecord     ClassKind = "record"
)

func ParseClassKind(s string) (ClassKind, error) {
	switch ClassKind(s) {
	case ClassKindClass, ClassKindInterface, ClassKindEnum, ClassKindAnnotation, ClassKindRecord:
		return ClassKind(s), nil
	case "":
		return ClassKindClass, nil
	}
	return "", fmt.Errorf("unknown class kind %q", s)
}

// IsPrimitiveType reports whether name is one of Java's primitive types.
func IsPrimitiveType(name string) bool {
	switch name {
	case "boolean", "byte", "char", "short", "int", "long", "float", "double":
		return true
	}
	return false
}
