// ==============================================================================================
// FILE: evalerror/evalerror.go
// ==============================================================================================
// PACKAGE: evalerror
// PURPOSE: The closed set of error kinds the tokenizer, parser, and evaluator can raise. Every
//          runtime failure is a (kind, range) pair pointing at the smallest construct
//          responsible; this package is imported by every stage so a tokenize error and a
//          WrongNumberOfArguments error travel through the same ADT up to the REPL/CLI.
// ==============================================================================================

package evalerror

import (
	"fmt"

	"github.com/amoghasbhardwaj/lumen/sourcemap"
)

// Kind enumerates every error a lumen program can raise, lexer through
// evaluator. Parse-time kinds are listed first.
type Kind int

const (
	InvalidNumber Kind = iota
	UnexpectedCharacter
	UnsupportedEscapeSequence
	UnterminatedString
	MissingRightParen
	UnexpectedRightParen
	MalformedDottedList

	UnboundVariable
	MalformedExpression
	MalformedSpecialForm
	MalformedBindingList
	ExpectedNumber
	ExpectedCallable
	ExpectedProcedure
	ExpectedIdentifier
	ExpectedPair
	ExpectedList
	WrongNumberOfArguments
	DuplicateParameter
	DuplicateVariableInBindings
	StackOverflow
	KeyboardInterrupt
	DivisionByZero
	AssertionFailure
)

var names = map[Kind]string{
	InvalidNumber:               "InvalidNumber",
	UnexpectedCharacter:         "UnexpectedCharacter",
	UnsupportedEscapeSequence:   "UnsupportedEscapeSequence",
	UnterminatedString:          "UnterminatedString",
	MissingRightParen:           "MissingRightParen",
	UnexpectedRightParen:        "UnexpectedRightParen",
	MalformedDottedList:         "MalformedDottedList",
	UnboundVariable:             "UnboundVariable",
	MalformedExpression:         "MalformedExpression",
	MalformedSpecialForm:        "MalformedSpecialForm",
	MalformedBindingList:        "MalformedBindingList",
	ExpectedNumber:              "ExpectedNumber",
	ExpectedCallable:            "ExpectedCallable",
	ExpectedProcedure:           "ExpectedProcedure",
	ExpectedIdentifier:          "ExpectedIdentifier",
	ExpectedPair:                "ExpectedPair",
	ExpectedList:                "ExpectedList",
	WrongNumberOfArguments:      "WrongNumberOfArguments",
	DuplicateParameter:          "DuplicateParameter",
	DuplicateVariableInBindings: "DuplicateVariableInBindings",
	StackOverflow:               "StackOverflow",
	KeyboardInterrupt:           "KeyboardInterrupt",
	DivisionByZero:              "DivisionByZero",
	AssertionFailure:            "AssertionFailure",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "UnknownError"
}

// IsParseKind reports whether k originates from the tokenizer or parser,
// i.e. whether it should render as "Parse(kind)" rather than the bare kind name.
func (k Kind) IsParseKind() bool {
	return k <= MalformedDottedList
}

// Error is the single error type raised anywhere in lumen: a kind plus the
// smallest source range responsible. Name is populated for UnboundVariable.
type Error struct {
	Kind  Kind
	Range sourcemap.Range
	Name  string
}

// New builds an Error with no extra payload.
func New(kind Kind, r sourcemap.Range) *Error {
	return &Error{Kind: kind, Range: r}
}

// NewUnboundVariable builds the one error kind that carries an identifier.
func NewUnboundVariable(name string, r sourcemap.Range) *Error {
	return &Error{Kind: UnboundVariable, Range: r, Name: name}
}

func (e *Error) Error() string {
	if e.Kind == UnboundVariable {
		return fmt.Sprintf("UnboundVariable(%s)", e.Name)
	}
	if e.Kind.IsParseKind() {
		return fmt.Sprintf("Parse(%s)", e.Kind)
	}
	return e.Kind.String()
}
