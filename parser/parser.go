// ==============================================================================================
// FILE: parser/parser.go
// ==============================================================================================
// PACKAGE: parser
// PURPOSE: Recursive-descent parser. Consumes the token stream, interns identifiers, and builds
//          source-mapped pair-chain expressions — code and data share the same representation,
//          so parsing IS building the runtime value a `quote` will later return unevaluated.
// ==============================================================================================

package parser

import (
	"strconv"

	"github.com/amoghasbhardwaj/lumen/evalerror"
	"github.com/amoghasbhardwaj/lumen/interner"
	"github.com/amoghasbhardwaj/lumen/lexer"
	"github.com/amoghasbhardwaj/lumen/object"
	"github.com/amoghasbhardwaj/lumen/sourcemap"
	"github.com/amoghasbhardwaj/lumen/token"
)

// Parser turns one source's token stream into a sequence of top-level
// expressions.
type Parser struct {
	lex    *lexer.Lexer
	names  *interner.Interner
	pairs  *object.PairManager
	source sourcemap.SourceID

	cur, peek       token.Token
	curErr, peekErr *evalerror.Error

	quoteSym interner.Symbol
}

// New returns a parser over l, a lexer already positioned over the source
// registered under id.
func New(l *lexer.Lexer, names *interner.Interner, pairs *object.PairManager, id sourcemap.SourceID) *Parser {
	p := &Parser{lex: l, names: names, pairs: pairs, source: id, quoteSym: names.Intern("quote")}
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur, p.curErr = p.peek, p.peekErr
	p.peek, p.peekErr = p.lex.Next()
}

// ParseProgram parses every top-level expression in the source until EOF.
func (p *Parser) ParseProgram() ([]object.Node, *evalerror.Error) {
	var exprs []object.Node
	for {
		if p.curErr != nil {
			return nil, p.curErr
		}
		if p.cur.Kind == token.EOF {
			return exprs, nil
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
}

func (p *Parser) parseExpr() (object.Node, *evalerror.Error) {
	if p.curErr != nil {
		return object.Node{}, p.curErr
	}
	switch p.cur.Kind {
	case token.LeftParen:
		return p.parseCombination()
	case token.Apostrophe:
		return p.parseQuote()
	case token.Number:
		return p.parseNumber()
	case token.Identifier:
		n := object.Symbol(p.names.Intern(p.cur.Text), p.cur.Range)
		p.advance()
		return n, nil
	case token.Boolean:
		n := object.Bool(p.cur.Bool, p.cur.Range)
		p.advance()
		return n, nil
	case token.String:
		n := object.String(p.cur.Text, p.cur.Range)
		p.advance()
		return n, nil
	case token.RightParen:
		return object.Node{}, evalerror.New(evalerror.UnexpectedRightParen, p.cur.Range)
	case token.Dot:
		return object.Node{}, evalerror.New(evalerror.MalformedDottedList, p.cur.Range)
	default:
		return object.Node{}, evalerror.New(evalerror.UnexpectedCharacter, p.cur.Range)
	}
}

func (p *Parser) parseNumber() (object.Node, *evalerror.Error) {
	v, err := strconv.ParseFloat(p.cur.Text, 64)
	if err != nil {
		return object.Node{}, evalerror.New(evalerror.InvalidNumber, p.cur.Range)
	}
	n := object.Number(v, p.cur.Range)
	p.advance()
	return n, nil
}

// parseQuote desugars 'e into (quote e), the quote symbol carrying the
// apostrophe's own source range.
func (p *Parser) parseQuote() (object.Node, *evalerror.Error) {
	quoteRange := p.cur.Range
	p.advance()
	inner, err := p.parseExpr()
	if err != nil {
		return object.Node{}, err
	}
	full := sourcemap.Span(quoteRange, inner.Range)
	innerPair := p.pairs.Allocate(inner, object.EmptyList(inner.Range))
	quoteSymNode := object.Symbol(p.quoteSym, quoteRange)
	innerNode := object.Node{Value: object.Value{Kind: object.KindPair, Pair: innerPair}, Range: full}
	outer := p.pairs.Allocate(quoteSymNode, innerNode)
	return object.Node{Value: object.Value{Kind: object.KindPair, Pair: outer}, Range: full}, nil
}

// parseCombination parses a parenthesized form: a proper list of
// sub-expressions, optionally ending in `. tail`, into a pair chain.
func (p *Parser) parseCombination() (object.Node, *evalerror.Error) {
	openRange := p.cur.Range
	p.advance() // consume '('

	var items []object.Node
	var tail object.Node
	haveTail := false

	for {
		if p.curErr != nil {
			return object.Node{}, p.curErr
		}
		switch p.cur.Kind {
		case token.RightParen:
			closeRange := p.cur.Range
			p.advance()
			full := sourcemap.Range{Start: openRange.Start, End: closeRange.End, Source: openRange.Source}
			if !haveTail {
				tail = object.EmptyList(closeRange)
			}
			return p.buildList(items, tail, full), nil
		case token.EOF:
			return object.Node{}, evalerror.New(evalerror.MissingRightParen, openRange)
		case token.Dot:
			if haveTail || len(items) == 0 {
				return object.Node{}, evalerror.New(evalerror.MalformedDottedList, p.cur.Range)
			}
			p.advance()
			t, err := p.parseExpr()
			if err != nil {
				return object.Node{}, err
			}
			tail = t
			haveTail = true
			if p.curErr != nil {
				return object.Node{}, p.curErr
			}
			if p.cur.Kind != token.RightParen {
				return object.Node{}, evalerror.New(evalerror.MalformedDottedList, p.cur.Range)
			}
		default:
			item, err := p.parseExpr()
			if err != nil {
				return object.Node{}, err
			}
			items = append(items, item)
		}
	}
}

// buildList constructs the pair chain for items terminated by tail. An
// empty combination `()` parses to EmptyList directly — it never becomes a
// pair at all (evaluating it raises MalformedExpression).
func (p *Parser) buildList(items []object.Node, tail object.Node, full sourcemap.Range) object.Node {
	if len(items) == 0 {
		return object.Node{Value: object.Value{Kind: object.KindEmptyList}, Range: full}
	}
	cur := tail
	for i := len(items) - 1; i >= 0; i-- {
		pr := p.pairs.Allocate(items[i], cur)
		r := sourcemap.Span(items[i].Range, cur.Range)
		if i == 0 {
			r = full
		}
		cur = object.Node{Value: object.Value{Kind: object.KindPair, Pair: pr}, Range: r}
	}
	return cur
}
