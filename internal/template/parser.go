package template

import "strings"

// reserved words that cannot name a loop variable
var reserved = map[string]bool{
	"and": true, "break": true, "continue": true, "def": true, "elif": true,
	"else": true, "for": true, "if": true, "in": true, "lambda": true,
	"load": true, "not": true, "or": true, "pass": true, "return": true,
	"True": true, "False": true, "None": true,
	"as": true, "class": true, "from": true, "import": true, "is": true,
	"while": true, "with": true, "yield": true,
}

// Parse tokenizes and parses a template.
func Parse(input, file string) (*Template, error) {
	tokens, err := NewLexer(input, file).Tokenize()
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}
	nodes, term, err := p.parseNodes()
	if err != nil {
		return nil, err
	}
	if term != nil {
		return nil, NewUnmatchedBlockError(term.pos, term.kind)
	}

	return &Template{Nodes: nodes, File: file}, nil
}

// stmt is a classified {% ... %} statement.
type stmt struct {
	kind    StmtKind
	expr    string
	varName string
	pos     Position
}

type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) next() Token {
	tok := p.tokens[p.pos]
	if tok.Type != TokenEOF {
		p.pos++
	}
	return tok
}

// parseNodes collects nodes until EOF or one of the stop statements.
// The terminating statement is returned so the caller can decide what follows.
func (p *parser) parseNodes(stop ...StmtKind) ([]Node, *stmt, error) {
	var nodes []Node

	for {
		tok := p.next()

		switch tok.Type {
		case TokenEOF:
			return nodes, nil, nil

		case TokenText:
			nodes = append(nodes, &TextNode{nodeBase: nodeBase{pos: tok.Pos}, Text: tok.Value})

		case TokenExpr:
			if tok.Value == "" {
				return nil, nil, NewParseErrorf(tok.Pos, "empty expression")
			}
			nodes = append(nodes, &ExprNode{nodeBase: nodeBase{pos: tok.Pos}, Expr: tok.Value})

		case TokenStmt:
			st, err := classify(tok)
			if err != nil {
				return nil, nil, err
			}

			switch st.kind {
			case StmtIf:
				block, err := p.parseIf(st)
				if err != nil {
					return nil, nil, err
				}
				nodes = append(nodes, block)
			case StmtFor:
				block, err := p.parseFor(st)
				if err != nil {
					return nil, nil, err
				}
				nodes = append(nodes, block)
			default:
				for _, k := range stop {
					if st.kind == k {
						return nodes, &st, nil
					}
				}
				return nil, nil, NewUnmatchedBlockError(st.pos, st.kind)
			}
		}
	}
}

func (p *parser) parseIf(open stmt) (*IfBlock, error) {
	block := &IfBlock{nodeBase: nodeBase{pos: open.pos}, Condition: open.expr}

	body, term, err := p.parseNodes(StmtElif, StmtElse, StmtEndIf)
	if err != nil {
		return nil, err
	}
	block.Body = body

	for {
		if term == nil {
			return nil, NewUnmatchedBlockError(open.pos, StmtIf)
		}

		switch term.kind {
		case StmtElif:
			branch := Branch{Condition: term.expr}
			branch.Body, term, err = p.parseNodes(StmtElif, StmtElse, StmtEndIf)
			if err != nil {
				return nil, err
			}
			block.ElseIfs = append(block.ElseIfs, branch)

		case StmtElse:
			elseBody, end, err := p.parseNodes(StmtEndIf)
			if err != nil {
				return nil, err
			}
			if end == nil {
				return nil, NewUnmatchedBlockError(open.pos, StmtIf)
			}
			if elseBody == nil {
				elseBody = []Node{}
			}
			block.Else = elseBody
			return block, nil

		default: // StmtEndIf
			return block, nil
		}
	}
}

func (p *parser) parseFor(open stmt) (*ForBlock, error) {
	body, term, err := p.parseNodes(StmtEndFor)
	if err != nil {
		return nil, err
	}
	if term == nil {
		return nil, NewUnmatchedBlockError(open.pos, StmtFor)
	}
	return &ForBlock{
		nodeBase: nodeBase{pos: open.pos},
		VarName:  open.varName,
		IterExpr: open.expr,
		Body:     body,
	}, nil
}

// classify splits a statement into its keyword and argument.
func classify(tok Token) (stmt, error) {
	keyword, rest, _ := strings.Cut(tok.Value, " ")
	rest = strings.TrimSpace(rest)
	st := stmt{pos: tok.Pos}

	switch keyword {
	case "if", "elif":
		st.kind = StmtIf
		if keyword == "elif" {
			st.kind = StmtElif
		}
		if rest == "" {
			return st, NewParseErrorf(tok.Pos, "'%s' requires a condition", keyword)
		}
		st.expr = rest

	case "else", "endif", "endfor":
		if rest != "" {
			return st, NewParseErrorf(tok.Pos, "unexpected content after '%s'", keyword)
		}
		switch keyword {
		case "else":
			st.kind = StmtElse
		case "endif":
			st.kind = StmtEndIf
		default:
			st.kind = StmtEndFor
		}

	case "for":
		name, iter, ok := strings.Cut(rest, " in ")
		name = strings.TrimSpace(name)
		iter = strings.TrimSpace(iter)
		if !ok || iter == "" {
			return st, NewParseErrorf(tok.Pos, "invalid for statement: expected 'for <name> in <expr>'")
		}
		if !isIdent(name) {
			return st, NewParseErrorf(tok.Pos, "invalid loop variable %q", name)
		}
		st.kind = StmtFor
		st.varName = name
		st.expr = iter

	default:
		return st, NewParseErrorf(tok.Pos, "unknown statement %q", keyword)
	}

	return st, nil
}

func isIdent(s string) bool {
	if s == "" || reserved[s] {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
