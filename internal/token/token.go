// Package token defines the token kinds produced by the lexer.
package token

import (
	"fmt"

	"zephyr-lang/internal/span"
)

// Kind identifies the type of a token.
type Kind int

const (
	// Special tokens
	ILLEGAL Kind = iota
	EOF
	NEWLINE

	// Literals
	IDENT  // identifiers: x, total, myVar
	NUMBER // numeric literals: 42, 3.14 (one kind, double domain)
	STRING // string literals: "hello", 'world'

	// Operators
	ASSIGN  // =
	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	PERCENT // %

	EQ  // ==
	NEQ // !=
	LT  // <
	LTE // <=
	GT  // >
	GTE // >=

	AND // &&
	OR  // ||

	// Delimiters
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]
	COMMA     // ,
	DOT       // .
	SEMICOLON // ;
	COLON     // :

	// Keywords
	KW_LET
	KW_CONST
	KW_VAR
	KW_FUNCTION
	KW_IF
	KW_ELSE
	KW_WHILE
	KW_RETURN
	KW_ASYNC
	KW_AWAIT
	KW_TRY
	KW_CATCH
	KW_THROW
	KW_TRUE
	KW_FALSE
	KW_NULL
	KW_UNDEFINED
)

var kindNames = map[Kind]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",
	NEWLINE: "NEWLINE",

	IDENT:  "IDENT",
	NUMBER: "NUMBER",
	STRING: "STRING",

	ASSIGN:  "=",
	PLUS:    "+",
	MINUS:   "-",
	STAR:    "*",
	SLASH:   "/",
	PERCENT: "%",
	EQ:      "==",
	NEQ:     "!=",
	LT:      "<",
	LTE:     "<=",
	GT:      ">",
	GTE:     ">=",
	AND:     "&&",
	OR:      "||",

	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	LBRACKET:  "[",
	RBRACKET:  "]",
	COMMA:     ",",
	DOT:       ".",
	SEMICOLON: ";",
	COLON:     ":",

	KW_LET:       "let",
	KW_CONST:     "const",
	KW_VAR:       "var",
	KW_FUNCTION:  "function",
	KW_IF:        "if",
	KW_ELSE:      "else",
	KW_WHILE:     "while",
	KW_RETURN:    "return",
	KW_ASYNC:     "async",
	KW_AWAIT:     "await",
	KW_TRY:       "try",
	KW_CATCH:     "catch",
	KW_THROW:     "throw",
	KW_TRUE:      "true",
	KW_FALSE:     "false",
	KW_NULL:      "null",
	KW_UNDEFINED: "undefined",
}

// String returns the human-readable name for a token kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeyword reports whether the kind is a keyword.
func (k Kind) IsKeyword() bool {
	return k >= KW_LET && k <= KW_UNDEFINED
}

// IsLiteral reports whether the kind is an ident, number, or string.
func (k Kind) IsLiteral() bool {
	return k >= IDENT && k <= STRING
}

var keywords = map[string]Kind{
	"let":       KW_LET,
	"const":     KW_CONST,
	"var":       KW_VAR,
	"function":  KW_FUNCTION,
	"if":        KW_IF,
	"else":      KW_ELSE,
	"while":     KW_WHILE,
	"return":    KW_RETURN,
	"async":     KW_ASYNC,
	"await":     KW_AWAIT,
	"try":       KW_TRY,
	"catch":     KW_CATCH,
	"throw":     KW_THROW,
	"true":      KW_TRUE,
	"false":     KW_FALSE,
	"null":      KW_NULL,
	"undefined": KW_UNDEFINED,
}

// LookupIdent returns the keyword Kind for ident, or IDENT if it is not a keyword.
func LookupIdent(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return IDENT
}

// Token is a lexical token with its kind, text, and source location.
type Token struct {
	Kind   Kind      `json:"kind"`
	Lexeme string    `json:"lexeme"`
	Span   span.Span `json:"span"`
}

// String returns a human-readable representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("%s %q %s", t.Kind, t.Lexeme, t.Span.Start)
}
