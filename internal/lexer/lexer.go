// Package lexer tokenizes Quil program text.
//
// Quil is line oriented: the lexer emits NEWLINE between instructions and an
// INDENT token at the start of every indented non-blank line, which is how the
// parser recognizes DEFCAL bodies. Keywords are not distinguished here; they
// arrive as IDENT and the parser matches them by value.
package lexer

import "fmt"

const (
	// Special
	EOF = "EOF"

	// Layout
	NEWLINE = "NEWLINE" // end of an instruction: '\n' or ';'
	INDENT  = "INDENT"  // leading whitespace on a non-blank line

	// Literals
	IDENT     = "IDENT"     // identifiers and keywords: RX, DECLARE, SHIFT-PHASE, …
	VARIABLE  = "VARIABLE"  // parameter variables: %theta (value excludes '%')
	INT       = "INT"       // integer literals: 0, 42
	FLOAT     = "FLOAT"     // real literals: 3.14, 1e-06
	IMAGINARY = "IMAGINARY" // imaginary literals: 2i, 0.5i (value excludes 'i')
	STRING    = "STRING"    // quoted strings: "rf" (value keeps the quotes)

	// Delimiters
	LPAREN   = "LPAREN"   // (
	RPAREN   = "RPAREN"   // )
	LBRACKET = "LBRACKET" // [
	RBRACKET = "RBRACKET" // ]
	COMMA    = "COMMA"    // ,
	COLON    = "COLON"    // :

	// Operators
	PLUS  = "PLUS"  // +
	MINUS = "MINUS" // -
	STAR  = "STAR"  // *
	SLASH = "SLASH" // /
	CARET = "CARET" // ^
)

// Token represents a single lexical token produced by the lexer.
type Token struct {
	Type   string
	Value  string
	Line   int
	Column int
}

func (t Token) String() string {
	if t.Value == "" {
		return t.Type
	}
	return fmt.Sprintf("%s %q", t.Type, t.Value)
}

// LexError represents an error encountered during lexing.
type LexError struct {
	Message string
	Lexeme  string
	Line    int
	Column  int
}

func (e LexError) Error() string {
	return fmt.Sprintf("line %d, col %d: %s (got %q)", e.Line, e.Column, e.Message, e.Lexeme)
}

// Lex tokenizes the input. Lexing continues past errors so that every problem
// in the input is reported; the token stream always ends with EOF.
func Lex(input string) ([]Token, []LexError) {
	var tokens []Token
	var errors []LexError
	line, col, i := 1, 1, 0
	lineStart := true

	for i < len(input) {
		ch := input[i]

		if lineStart {
			lineStart = false
			start := i
			for i < len(input) && (input[i] == ' ' || input[i] == '\t') {
				i++
			}
			width := i - start
			if width > 0 && !blankRest(input, i) {
				tokens = append(tokens, Token{INDENT, input[start:i], line, col})
			}
			col += width
			continue
		}

		if ch == '\n' {
			tokens = appendNewline(tokens, line, col)
			line++
			col = 1
			i++
			lineStart = true
			continue
		}

		if ch == ' ' || ch == '\t' || ch == '\r' {
			i++
			col++
			continue
		}

		if ch == ';' {
			tokens = appendNewline(tokens, line, col)
			i++
			col++
			continue
		}

		// Comments run to end of line.
		if ch == '#' {
			for i < len(input) && input[i] != '\n' {
				i++
				col++
			}
			continue
		}

		if ch == '"' {
			tok, err, newI := lexString(input, i, line, col)
			if err != nil {
				errors = append(errors, *err)
			} else {
				tokens = append(tokens, tok)
			}
			col += newI - i
			i = newI
			continue
		}

		if isDigit(ch) || ch == '.' && i+1 < len(input) && isDigit(input[i+1]) {
			tok, newI := lexNumber(input, i, line, col)
			tokens = append(tokens, tok)
			col += newI - i
			i = newI
			continue
		}

		if ch == '%' {
			end := scanIdentifier(input, i+1)
			if end == i+1 {
				errors = append(errors, LexError{"expected variable name after '%'", "%", line, col})
				i++
				col++
				continue
			}
			tokens = append(tokens, Token{VARIABLE, input[i+1 : end], line, col})
			col += end - i
			i = end
			continue
		}

		if isIdentStart(ch) {
			end := scanIdentifier(input, i)
			tokens = append(tokens, Token{IDENT, input[i:end], line, col})
			col += end - i
			i = end
			continue
		}

		if typ, ok := punctuation[ch]; ok {
			tokens = append(tokens, Token{typ, string(ch), line, col})
			i++
			col++
			continue
		}

		errors = append(errors, LexError{
			Message: "unexpected character",
			Lexeme:  string(ch),
			Line:    line,
			Column:  col,
		})
		i++
		col++
	}

	tokens = appendNewline(tokens, line, col)
	tokens = append(tokens, Token{EOF, "", line, col})
	return tokens, errors
}

var punctuation = map[byte]string{
	'(': LPAREN,
	')': RPAREN,
	'[': LBRACKET,
	']': RBRACKET,
	',': COMMA,
	':': COLON,
	'+': PLUS,
	'-': MINUS,
	'*': STAR,
	'/': SLASH,
	'^': CARET,
}

// appendNewline collapses runs of blank lines into a single NEWLINE and drops
// leading ones.
func appendNewline(tokens []Token, line, col int) []Token {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type == NEWLINE {
		return tokens
	}
	return append(tokens, Token{NEWLINE, "", line, col})
}

// blankRest reports whether the line starting at i holds only whitespace or a comment.
func blankRest(input string, i int) bool {
	for ; i < len(input); i++ {
		switch input[i] {
		case ' ', '\t', '\r':
			continue
		case '\n', '#':
			return true
		default:
			return false
		}
	}
	return true
}

// scanIdentifier returns the end of the identifier starting at i.
// Dashes are allowed inside an identifier but never at its end, so "a-"
// followed by a non-identifier character stops before the dash.
func scanIdentifier(input string, i int) int {
	if i >= len(input) || !isIdentStart(input[i]) {
		return i
	}
	end := i + 1
	for end < len(input) && (isIdentPart(input[end]) || input[end] == '-') {
		end++
	}
	for end > i+1 && input[end-1] == '-' {
		end--
	}
	return end
}

func lexString(input string, start, line, col int) (Token, *LexError, int) {
	i := start + 1
	for i < len(input) {
		switch input[i] {
		case '\\':
			i += 2
			continue
		case '\n':
			return Token{}, &LexError{"unterminated string literal (newline in string)", input[start:i], line, col}, i
		case '"':
			return Token{STRING, input[start : i+1], line, col}, nil, i + 1
		}
		i++
	}
	return Token{}, &LexError{"unterminated string literal", input[start:], line, col}, len(input)
}

func lexNumber(input string, start, line, col int) (Token, int) {
	i := start
	typ := INT
	for i < len(input) && isDigit(input[i]) {
		i++
	}
	if i < len(input) && input[i] == '.' {
		typ = FLOAT
		i++
		for i < len(input) && isDigit(input[i]) {
			i++
		}
	}
	if i < len(input) && (input[i] == 'e' || input[i] == 'E') {
		j := i + 1
		if j < len(input) && (input[j] == '+' || input[j] == '-') {
			j++
		}
		if j < len(input) && isDigit(input[j]) {
			typ = FLOAT
			i = j
			for i < len(input) && isDigit(input[i]) {
				i++
			}
		}
	}
	value := input[start:i]
	if i < len(input) && input[i] == 'i' && (i+1 >= len(input) || !isIdentPart(input[i+1])) {
		return Token{IMAGINARY, value, line, col}, i + 1
	}
	return Token{typ, value, line, col}, i
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_'
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
