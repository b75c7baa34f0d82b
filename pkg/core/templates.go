package core

import "sort"

// Template categories.
const (
	CategoryQuotes      = "quotes"
	CategoryFunctions   = "functions"
	CategoryExpressions = "expressions"
	CategoryTypes       = "types"
	CategoryStatements  = "statements"
)

// TemplateSet maps category -> rule name -> SQL template.
// Values handed out by dialects are always private copies.
type TemplateSet map[string]map[string]string

// Clone returns a deep copy of the set.
func (s TemplateSet) Clone() TemplateSet {
	out := make(TemplateSet, len(s))
	for category, rules := range s {
		copied := make(map[string]string, len(rules))
		for name, tmpl := range rules {
			copied[name] = tmpl
		}
		out[category] = copied
	}
	return out
}

// Get returns a single template and whether it exists.
func (s TemplateSet) Get(category, name string) (string, bool) {
	rules, ok := s[category]
	if !ok {
		return "", false
	}
	tmpl, ok := rules[name]
	return tmpl, ok
}

// Categories returns the category names in sorted order.
func (s TemplateSet) Categories() []string {
	names := make([]string, 0, len(s))
	for category := range s {
		names = append(names, category)
	}
	sort.Strings(names)
	return names
}

// Names returns the rule names in a category in sorted order.
func (s TemplateSet) Names(category string) []string {
	rules := s[category]
	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PatchOp is the kind of change a TemplatePatch applies.
type PatchOp int

const (
	// PatchOverride sets (or adds) a template.
	PatchOverride PatchOp = iota
	// PatchRemove deletes a template.
	PatchRemove
)

// TemplatePatch is a declarative change to a TemplateSet.
type TemplatePatch struct {
	Op       PatchOp
	Category string
	Name     string
	Value    string // PatchOverride only
}

// Override returns a patch that sets category.name to value.
func Override(category, name, value string) TemplatePatch {
	return TemplatePatch{Op: PatchOverride, Category: category, Name: name, Value: value}
}

// Remove returns a patch that deletes category.name.
func Remove(category, name string) TemplatePatch {
	return TemplatePatch{Op: PatchRemove, Category: category, Name: name}
}

// Apply returns a new set with patches applied in order.
// The receiver is left untouched.
func (s TemplateSet) Apply(patches ...TemplatePatch) TemplateSet {
	out := s.Clone()
	for _, p := range patches {
		switch p.Op {
		case PatchOverride:
			rules, ok := out[p.Category]
			if !ok {
				rules = make(map[string]string)
				out[p.Category] = rules
			}
			rules[p.Name] = p.Value
		case PatchRemove:
			delete(out[p.Category], p.Name)
		}
	}
	return out
}
