package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/dhamidi/jintro/format"
	"github.com/dhamidi/jintro/java"
	"github.com/dhamidi/jintro/java/naming"
	"github.com/dhamidi/jintro/java/refactor"
	"github.com/dhamidi/jintro/java/tree"
)

// requestFile is the TOML form of one introduction. Node references are
// the "id" values of the program JSON.
type requestFile struct {
	Program string         `toml:"program"`
	Target  targetConfig   `toml:"target"`
	Member  settingsConfig `toml:"member"`
}

type targetConfig struct {
	Local string   `toml:"local"`
	Exprs []string `toml:"exprs"`
	Scope string   `toml:"scope"`
}

type settingsConfig struct {
	Name             string `toml:"name"`
	Type             string `toml:"type"`
	Visibility       string `toml:"visibility"`
	Static           bool   `toml:"static"`
	Final            bool   `toml:"final"`
	Constant         bool   `toml:"constant"`
	EnumConstant     bool   `toml:"enum_constant"`
	Placement        string `toml:"placement"`
	ReplaceAll       bool   `toml:"replace_all"`
	DeleteOriginal   bool   `toml:"delete_original"`
	TargetClass      string `toml:"target_class"`
	Annotate         bool   `toml:"annotate"`
	ConfirmCollision bool   `toml:"confirm_collision"`
}

// loadedRequest is a request file resolved against its program.
type loadedRequest struct {
	Path        string
	ProgramPath string
	Tree        *tree.Tree
	Handles     map[string]tree.NodeID
	Config      requestFile
}

func loadRequestFile(path string) (requestFile, error) {
	var cfg requestFile
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return requestFile{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return requestFile{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if strings.TrimSpace(cfg.Program) == "" {
		return requestFile{}, fmt.Errorf("%s: missing program", path)
	}
	if !meta.IsDefined("target") {
		return requestFile{}, fmt.Errorf("%s: missing [target]", path)
	}
	if (cfg.Target.Local == "") == (len(cfg.Target.Exprs) == 0) {
		return requestFile{}, fmt.Errorf("%s: [target] needs exactly one of local or exprs", path)
	}
	return cfg, nil
}

// loadRequest reads a request file and the program it points at. The
// program path is relative to the request file.
func loadRequest(path string) (*loadedRequest, error) {
	cfg, err := loadRequestFile(path)
	if err != nil {
		return nil, err
	}
	programPath := cfg.Program
	if !filepath.IsAbs(programPath) {
		programPath = filepath.Join(filepath.Dir(path), programPath)
	}
	t, handles, err := loadProgram(programPath)
	if err != nil {
		return nil, err
	}
	return &loadedRequest{Path: path, ProgramPath: programPath, Tree: t, Handles: handles, Config: cfg}, nil
}

func loadProgram(path string) (*tree.Tree, map[string]tree.NodeID, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open program: %w", err)
	}
	defer f.Close()
	t, handles, err := format.DecodeTree(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debugf("loaded %s: %d nodes, %d ids", path, t.Len(), len(handles))
	return t, handles, nil
}

func (r *loadedRequest) handle(id string) (tree.NodeID, error) {
	h, ok := r.Handles[id]
	if !ok {
		return tree.NoNode, fmt.Errorf("%s: no node with id %q in %s", r.Path, id, r.ProgramPath)
	}
	return h, nil
}

func (r *loadedRequest) target() (refactor.Target, error) {
	tc := r.Config.Target
	if tc.Local != "" {
		local, err := r.handle(tc.Local)
		if err != nil {
			return refactor.Target{}, err
		}
		return refactor.LocalTarget(local), nil
	}
	exprs := make([]tree.NodeID, len(tc.Exprs))
	for i, id := range tc.Exprs {
		h, err := r.handle(id)
		if err != nil {
			return refactor.Target{}, err
		}
		exprs[i] = h
	}
	return refactor.ExprTarget(exprs[0], exprs[1:]...), nil
}

func (r *loadedRequest) scope() (tree.NodeID, error) {
	if r.Config.Target.Scope == "" {
		return tree.NoNode, nil
	}
	return r.handle(r.Config.Target.Scope)
}

func (c settingsConfig) settings() (refactor.Settings, error) {
	s := refactor.Settings{
		Name:             c.Name,
		Type:             c.Type,
		Static:           c.Static,
		Final:            c.Final,
		Constant:         c.Constant,
		EnumConstant:     c.EnumConstant,
		ReplaceAll:       c.ReplaceAll,
		DeleteOriginal:   c.DeleteOriginal,
		TargetClass:      c.TargetClass,
		Annotate:         c.Annotate,
		ConfirmCollision: c.ConfirmCollision,
	}
	vis := c.Visibility
	if vis == "" {
		vis = string(java.VisibilityPrivate)
	}
	v, err := java.ParseVisibility(vis)
	if err != nil {
		return refactor.Settings{}, err
	}
	s.Visibility = v
	switch c.Placement {
	case "", "auto":
		s.AutoPlacement = true
	default:
		if s.Placement, err = refactor.ParsePlacement(c.Placement); err != nil {
			return refactor.Settings{}, err
		}
	}
	return s, nil
}

// request assembles the engine request. A missing member name is filled
// in from the first name suggestion.
func (r *loadedRequest) request(session refactor.Session) (refactor.Request, error) {
	target, err := r.target()
	if err != nil {
		return refactor.Request{}, err
	}
	scope, err := r.scope()
	if err != nil {
		return refactor.Request{}, err
	}
	s, err := r.Config.Member.settings()
	if err != nil {
		return refactor.Request{}, fmt.Errorf("%s: %w", r.Path, err)
	}
	if s.Name == "" {
		suggestions := suggestFor(r.Tree, target, s)
		s.Name = suggestions[0]
		log.Infof("no member name given, using %s", s.Name)
	}
	return refactor.Request{
		Tree:     r.Tree,
		Target:   target,
		Scope:    scope,
		Settings: s,
		Session:  session,
	}, nil
}

// suggestFor asks the naming service for names that do not clash with the
// destination class's fields.
func suggestFor(t *tree.Tree, target refactor.Target, s refactor.Settings) []string {
	selection := target.Selection()
	dest := t.EnclosingClass(selection)
	if s.TargetClass != "" {
		if c := t.ClassNamed(s.TargetClass); c.IsValid() {
			dest = c
		}
	}
	var existing []string
	for _, m := range t.Children(dest) {
		if k := t.Kind(m); k == tree.KindFieldDecl || k == tree.KindEnumConstant {
			existing = append(existing, t.Name(m))
		}
	}
	slices.Sort(existing)

	typ, ctx := s.Type, naming.Context{Constant: s.Constant || s.EnumConstant}
	if target.IsLocal() {
		ctx.Source = t.Name(selection)
		if typ == "" {
			typ = t.Node(selection).Type
		}
	} else {
		ctx.Source = naming.ContextOf(t, selection).Source
	}
	return naming.Suggest(existing, typ, ctx)
}
