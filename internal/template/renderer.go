package template

import (
	"fmt"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.starlark.net/syntax"
)

var fileOptions = &syntax.FileOptions{}

// RenderString parses and renders input with the given variables.
func RenderString(input, file string, vars map[string]any) (string, error) {
	tmpl, err := Parse(input, file)
	if err != nil {
		return "", err
	}
	return Render(tmpl, vars)
}

// Render renders a parsed template. Each call uses its own Starlark thread,
// so a Template may be rendered concurrently.
func Render(tmpl *Template, vars map[string]any) (string, error) {
	env := make(starlark.StringDict, len(vars))
	for name, v := range vars {
		sv, err := ToStarlark(v)
		if err != nil {
			return "", fmt.Errorf("variable %q: %w", name, err)
		}
		env[name] = sv
	}

	r := &renderer{
		thread: &starlark.Thread{
			Name:  tmpl.File,
			Print: func(_ *starlark.Thread, _ string) {},
		},
		file: tmpl.File,
	}

	var sb strings.Builder
	if err := r.renderNodes(&sb, tmpl.Nodes, env); err != nil {
		return "", err
	}
	return sb.String(), nil
}

type renderer struct {
	thread *starlark.Thread
	file   string
}

func (r *renderer) renderNodes(sb *strings.Builder, nodes []Node, env starlark.StringDict) error {
	for _, n := range nodes {
		switch node := n.(type) {
		case *TextNode:
			sb.WriteString(node.Text)

		case *ExprNode:
			v, err := r.eval(node.Expr, node.Pos(), env)
			if err != nil {
				return err
			}
			sb.WriteString(format(v))

		case *IfBlock:
			if err := r.renderIf(sb, node, env); err != nil {
				return err
			}

		case *ForBlock:
			if err := r.renderFor(sb, node, env); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *renderer) renderIf(sb *strings.Builder, node *IfBlock, env starlark.StringDict) error {
	ok, err := r.truth(node.Condition, node.Pos(), env)
	if err != nil {
		return err
	}
	if ok {
		return r.renderNodes(sb, node.Body, env)
	}

	for _, branch := range node.ElseIfs {
		ok, err := r.truth(branch.Condition, node.Pos(), env)
		if err != nil {
			return err
		}
		if ok {
			return r.renderNodes(sb, branch.Body, env)
		}
	}

	if node.Else != nil {
		return r.renderNodes(sb, node.Else, env)
	}
	return nil
}

func (r *renderer) renderFor(sb *strings.Builder, node *ForBlock, env starlark.StringDict) error {
	seq, err := r.eval(node.IterExpr, node.Pos(), env)
	if err != nil {
		return err
	}

	iterable, ok := seq.(starlark.Iterable)
	if !ok {
		return WrapRenderError(node.Pos(), fmt.Sprintf("cannot iterate over %s", seq.Type()), nil)
	}

	var items []starlark.Value
	iter := iterable.Iterate()
	var item starlark.Value
	for iter.Next(&item) {
		items = append(items, item)
	}
	iter.Done()

	// Loop scope shadows the outer environment without modifying it
	scope := make(starlark.StringDict, len(env)+2)
	for k, v := range env {
		scope[k] = v
	}

	for i, item := range items {
		scope[node.VarName] = item
		scope["loop"] = starlarkstruct.FromStringDict(starlarkstruct.Default, starlark.StringDict{
			"index":  starlark.MakeInt(i + 1),
			"index0": starlark.MakeInt(i),
			"first":  starlark.Bool(i == 0),
			"last":   starlark.Bool(i == len(items)-1),
			"length": starlark.MakeInt(len(items)),
		})
		if err := r.renderNodes(sb, node.Body, scope); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) eval(expr string, pos Position, env starlark.StringDict) (starlark.Value, error) {
	v, err := starlark.EvalOptions(fileOptions, r.thread, r.file, expr, env)
	if err != nil {
		return nil, WrapRenderError(pos, fmt.Sprintf("failed to evaluate %q", expr), err)
	}
	return v, nil
}

func (r *renderer) truth(expr string, pos Position, env starlark.StringDict) (bool, error) {
	v, err := r.eval(expr, pos, env)
	if err != nil {
		return false, err
	}
	return bool(v.Truth()), nil
}

// format converts a value to its SQL text. Strings are written raw, None as nothing.
func format(v starlark.Value) string {
	switch val := v.(type) {
	case starlark.String:
		return string(val)
	case starlark.NoneType:
		return ""
	default:
		return v.String()
	}
}
