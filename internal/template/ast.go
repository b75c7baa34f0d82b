// Package template renders the SQL templates that dialects publish in their
// template sets. The syntax is the Jinja subset used by those templates:
// {{ expr }} for values, {% if %}/{% elif %}/{% else %}/{% endif %} and
// {% for x in xs %}/{% endfor %} for control flow, {# ... #} for comments.
// Expressions and conditions are evaluated as Starlark.
package template

// Position tracks source location for error reporting.
type Position struct {
	File   string
	Line   int
	Column int
}

// Node is the interface for all template AST nodes.
type Node interface {
	Pos() Position
	node() // marker method to restrict implementation
}

type nodeBase struct {
	pos Position
}

func (n *nodeBase) Pos() Position { return n.pos }
func (n *nodeBase) node()         {}

// TextNode represents literal SQL text.
type TextNode struct {
	nodeBase
	Text string
}

// ExprNode represents a {{ expr }} expression.
type ExprNode struct {
	nodeBase
	Expr string
}

// StmtKind identifies the type of control flow statement.
type StmtKind int

// StmtKind constants for control flow statement types.
const (
	StmtUnknown StmtKind = iota
	StmtFor              // {% for x in items %}
	StmtEndFor           // {% endfor %}
	StmtIf               // {% if cond %}
	StmtElif             // {% elif cond %}
	StmtElse             // {% else %}
	StmtEndIf            // {% endif %}
)

func (k StmtKind) String() string {
	switch k {
	case StmtFor:
		return "for"
	case StmtEndFor:
		return "endfor"
	case StmtIf:
		return "if"
	case StmtElif:
		return "elif"
	case StmtElse:
		return "else"
	case StmtEndIf:
		return "endif"
	default:
		return "unknown"
	}
}

// ForBlock represents a complete for loop with its body.
type ForBlock struct {
	nodeBase
	VarName  string
	IterExpr string
	Body     []Node
}

// IfBlock represents a complete if/elif/else conditional.
type IfBlock struct {
	nodeBase
	Condition string
	Body      []Node
	ElseIfs   []Branch
	Else      []Node // nil when there is no else branch
}

// Branch represents an elif branch.
type Branch struct {
	Condition string
	Body      []Node
}

// Template represents a complete parsed template.
type Template struct {
	Nodes []Node
	File  string
}
