// ==============================================================================================
// FILE: token/token.go
// ==============================================================================================
// PACKAGE: token
// PURPOSE: Defines the vocabulary the tokenizer emits: the closed set of lexical kinds a lumen
//          source string decomposes into, each carrying the source range it was scanned from.
// ==============================================================================================

package token

import "github.com/amoghasbhardwaj/lumen/sourcemap"

// Kind identifies the lexical category of a Token.
type Kind int

const (
	LeftParen Kind = iota
	RightParen
	Apostrophe
	Dot
	Number
	Identifier
	Boolean
	String
	EOF
)

func (k Kind) String() string {
	switch k {
	case LeftParen:
		return "LeftParen"
	case RightParen:
		return "RightParen"
	case Apostrophe:
		return "Apostrophe"
	case Dot:
		return "Dot"
	case Number:
		return "Number"
	case Identifier:
		return "Identifier"
	case Boolean:
		return "Boolean"
	case String:
		return "String"
	case EOF:
		return "EOF"
	default:
		return "Unknown"
	}
}

// Token is a single lexical unit scanned from source text.
//
// Text carries the semantic payload for Number/Identifier (raw lexeme, still
// needing conversion by the parser) and String (the already-unescaped
// contents). Bool carries the value for Boolean tokens.
type Token struct {
	Kind  Kind
	Text  string
	Bool  bool
	Range sourcemap.Range
}
