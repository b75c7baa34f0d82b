package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexer_PlainText(t *testing.T) {
	input := "SELECT * FROM users"
	tokens, err := NewLexer(input, "test.sql").Tokenize()
	require.NoError(t, err)

	require.Len(t, tokens, 2) // TEXT + EOF
	assert.Equal(t, TokenText, tokens[0].Type)
	assert.Equal(t, input, tokens[0].Value)
	assert.Equal(t, TokenEOF, tokens[1].Type)
}

func TestLexer_Sequence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "expression",
			input: "{{ expr }} ASC",
			expected: []Token{
				{Type: TokenExpr, Value: "expr"},
				{Type: TokenText, Value: " ASC"},
			},
		},
		{
			name:  "statement",
			input: "{% if asc %}ASC{% else %}DESC{% endif %}",
			expected: []Token{
				{Type: TokenStmt, Value: "if asc"},
				{Type: TokenText, Value: "ASC"},
				{Type: TokenStmt, Value: "else"},
				{Type: TokenText, Value: "DESC"},
				{Type: TokenStmt, Value: "endif"},
			},
		},
		{
			name:  "comment is dropped",
			input: "a{# note #}b",
			expected: []Token{
				{Type: TokenText, Value: "a"},
				{Type: TokenText, Value: "b"},
			},
		},
		{
			name:  "dict literal inside expression",
			input: `{{ {"a": 1}["a"] }}`,
			expected: []Token{
				{Type: TokenExpr, Value: `{"a": 1}["a"]`},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := NewLexer(tt.input, "test.sql").Tokenize()
			require.NoError(t, err)
			require.Len(t, tokens, len(tt.expected)+1)

			for i, exp := range tt.expected {
				assert.Equal(t, exp.Type, tokens[i].Type, "token[%d] type", i)
				assert.Equal(t, exp.Value, tokens[i].Value, "token[%d] value", i)
			}
			assert.Equal(t, TokenEOF, tokens[len(tokens)-1].Type)
		})
	}
}

func TestLexer_Unclosed(t *testing.T) {
	tests := []struct {
		input string
		msg   string
	}{
		{"SELECT {{ column", "missing '}}'"},
		{"{% if x", "missing '%}'"},
		{"{# note", "missing '#}'"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := NewLexer(tt.input, "test.sql").Tokenize()
			require.Error(t, err)

			var lexErr *LexError
			require.ErrorAs(t, err, &lexErr)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLexer_PositionTracking(t *testing.T) {
	input := "line1\n{{ expr }}"
	tokens, err := NewLexer(input, "test.sql").Tokenize()
	require.NoError(t, err)
	require.Len(t, tokens, 3)

	assert.Equal(t, Position{File: "test.sql", Line: 1, Column: 1}, tokens[0].Pos)
	assert.Equal(t, Position{File: "test.sql", Line: 2, Column: 1}, tokens[1].Pos)
}
