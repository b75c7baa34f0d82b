package template

import (
	"strings"
	"unicode/utf8"
)

// TokenType identifies the type of token.
type TokenType int

// TokenType constants for template token types.
const (
	TokenText    TokenType = iota // Literal SQL text
	TokenExpr                     // Expression content (between {{ and }})
	TokenStmt                     // Statement content (between {% and %})
	TokenComment                  // Comment content (between {# and #})
	TokenEOF                      // End of input
)

func (t TokenType) String() string {
	switch t {
	case TokenText:
		return "TEXT"
	case TokenExpr:
		return "EXPR"
	case TokenStmt:
		return "STMT"
	case TokenComment:
		return "COMMENT"
	case TokenEOF:
		return "EOF"
	default:
		return "UNKNOWN"
	}
}

// Delimiters.
const (
	exprOpen     = "{{"
	exprClose    = "}}"
	stmtOpen     = "{%"
	stmtClose    = "%}"
	commentOpen  = "{#"
	commentClose = "#}"
)

// Token represents a lexical token.
type Token struct {
	Type  TokenType
	Value string
	Pos   Position
}

// Lexer tokenizes a template string.
type Lexer struct {
	input    string
	file     string
	pos      int // current position in input
	line     int // current line number (1-based)
	col      int // current column number (1-based)
	lastLine int // line at start of current token
	lastCol  int // column at start of current token
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input, file string) *Lexer {
	return &Lexer{
		input: input,
		file:  file,
		line:  1,
		col:   1,
	}
}

// Tokenize converts the input into a slice of tokens.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token

	for {
		tok, err := l.nextToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == TokenComment {
			continue
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
	}

	return tokens, nil
}

func (l *Lexer) nextToken() (Token, error) {
	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: l.position()}, nil
	}

	switch {
	case l.matchString(exprOpen):
		return l.scanDelimited(TokenExpr, exprClose, "unclosed expression: missing '}}'", true)
	case l.matchString(stmtOpen):
		return l.scanDelimited(TokenStmt, stmtClose, "unclosed statement: missing '%}'", false)
	case l.matchString(commentOpen):
		return l.scanDelimited(TokenComment, commentClose, "unclosed comment: missing '#}'", false)
	}

	return l.scanText()
}

func (l *Lexer) atDelimiter() bool {
	return l.matchString(exprOpen) || l.matchString(stmtOpen) || l.matchString(commentOpen)
}

// scanText scans literal text until a delimiter or EOF.
func (l *Lexer) scanText() (Token, error) {
	l.markStart()
	start := l.pos

	for l.pos < len(l.input) && !l.atDelimiter() {
		l.advance()
	}

	if l.pos == start {
		return Token{}, NewLexError(l.position(), "unexpected state in lexer")
	}

	return Token{
		Type:  TokenText,
		Value: l.input[start:l.pos],
		Pos:   l.startPosition(),
	}, nil
}

// scanDelimited scans from an opening delimiter to closeDelim.
// trackBraces lets expressions contain dict literals such as {"a": 1}.
func (l *Lexer) scanDelimited(typ TokenType, closeDelim, unclosedMsg string, trackBraces bool) (Token, error) {
	l.markStart()

	// Opening delimiters are all two bytes
	l.pos += 2
	l.col += 2

	contentStart := l.pos
	depth := 0

	for l.pos < len(l.input) {
		if depth == 0 && l.matchString(closeDelim) {
			content := strings.TrimSpace(l.input[contentStart:l.pos])

			l.pos += len(closeDelim)
			l.col += len(closeDelim)

			return Token{
				Type:  typ,
				Value: content,
				Pos:   l.startPosition(),
			}, nil
		}

		if trackBraces {
			r := l.peek()
			if r == '{' {
				depth++
			} else if r == '}' && depth > 0 {
				depth--
			}
		}

		l.advance()
	}

	return Token{}, NewLexError(l.startPosition(), unclosedMsg)
}

// peek returns the current rune without advancing.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

// advance moves to the next rune, updating position tracking.
func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}

	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *Lexer) matchString(s string) bool {
	return strings.HasPrefix(l.input[l.pos:], s)
}

func (l *Lexer) markStart() {
	l.lastLine = l.line
	l.lastCol = l.col
}

func (l *Lexer) position() Position {
	return Position{File: l.file, Line: l.line, Column: l.col}
}

func (l *Lexer) startPosition() Position {
	return Position{File: l.file, Line: l.lastLine, Column: l.lastCol}
}
