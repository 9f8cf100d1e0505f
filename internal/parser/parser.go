package parser

import (
	"fmt"
	"strconv"

	merrors "github.com/KimNorgaard/go-munch/errors"
	"github.com/KimNorgaard/go-munch/internal/ast"
	"github.com/KimNorgaard/go-munch/internal/lexer"
	"github.com/KimNorgaard/go-munch/internal/token"
)

type prefixParseFn func() ast.Expression

// Parser holds the state of the parser.
type Parser struct {
	l      *lexer.Lexer
	errors merrors.ParseErrors

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.Type]prefixParseFn
}

// New creates a new parser.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = make(map[token.Type]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifierOrCall)
	p.registerPrefix(token.INT, p.parseIntegerLiteral)
	p.registerPrefix(token.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.TRUE, p.parseBooleanLiteral)
	p.registerPrefix(token.FALSE, p.parseBooleanLiteral)
	p.registerPrefix(token.NONE, p.parseNoneLiteral)
	p.registerPrefix(token.ELLIPSIS, p.parseEllipsisLiteral)
	p.registerPrefix(token.LBRACK, p.parseListLiteral)
	p.registerPrefix(token.LPAREN, p.parseTupleOrGroup)
	p.registerPrefix(token.LBRACE, p.parseDictLiteral)
	p.registerPrefix(token.ILLEGAL, p.parseIllegal)

	// Read two tokens, so curToken and peekToken are both set.
	p.nextToken()
	p.nextToken()

	return p
}

// Errors returns the syntax errors encountered during parsing.
func (p *Parser) Errors() merrors.ParseErrors {
	return p.errors
}

// Parse parses a single expression that must span the whole input.
func (p *Parser) Parse() ast.Expression {
	if p.curTokenIs(token.EOF) {
		p.errorf(p.curToken, "empty input")
		return nil
	}

	expr := p.parseExpression()

	if len(p.errors) == 0 && !p.curTokenIs(token.EOF) {
		p.errorf(p.curToken, "unexpected token after main value: %s ('%s')", p.curToken.Type, p.curToken.Literal)
	}

	return expr
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) parseExpression() ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken.Type)
		return nil
	}
	return prefix()
}

// The contract for all parse functions is that they are entered with p.curToken
// being the first token of the construct, and they must return with p.curToken
// pointing to the token *after* the construct.

func (p *Parser) parseIdentifierOrCall() ast.Expression {
	ident := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	p.nextToken()
	if !p.curTokenIs(token.LPAREN) {
		return ident
	}
	return p.parseCall(ident)
}

func (p *Parser) parseCall(fn *ast.Identifier) ast.Expression {
	call := &ast.CallExpression{Token: p.curToken, Function: fn}
	p.nextToken() // Consume '('

	for !p.curTokenIs(token.RPAREN) && !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.ASSIGN) {
			kw := &ast.KeywordArgument{Name: &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}}
			p.nextToken()
			kw.Token = p.curToken
			p.nextToken() // Consume '='
			kw.Value = p.parseExpression()
			if kw.Value == nil {
				return nil
			}
			call.Keywords = append(call.Keywords, kw)
		} else {
			if len(call.Keywords) > 0 {
				p.errorf(p.curToken, "positional argument follows keyword argument")
				return nil
			}
			arg := p.parseExpression()
			if arg == nil {
				return nil
			}
			call.Args = append(call.Args, arg)
		}

		if p.curTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		if !p.curTokenIs(token.RPAREN) && !p.curTokenIs(token.EOF) {
			p.errorf(p.curToken, "expected ',' or ')' in call to %s, got %s", fn.Value, p.curToken.Type)
			return nil
		}
	}

	if !p.curTokenIs(token.RPAREN) {
		p.errorf(p.curToken, "unterminated call to %s, expected ')' got %s", fn.Value, p.curToken.Type)
		return nil
	}
	p.nextToken() // Consume ')'
	return call
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	lit := &ast.IntegerLiteral{Token: p.curToken}
	value, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.errorf(p.curToken, "could not parse %q as integer: %s", p.curToken.Literal, err)
		p.nextToken()
		return nil
	}
	lit.Value = value
	p.nextToken()
	return lit
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	lit := &ast.FloatLiteral{Token: p.curToken}
	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.errorf(p.curToken, "could not parse %q as float: %s", p.curToken.Literal, err)
		p.nextToken()
		return nil
	}
	lit.Value = value
	p.nextToken()
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expression {
	expr := &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
	p.nextToken()
	return expr
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	expr := &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
	p.nextToken()
	return expr
}

func (p *Parser) parseNoneLiteral() ast.Expression {
	expr := &ast.NoneLiteral{Token: p.curToken}
	p.nextToken()
	return expr
}

func (p *Parser) parseEllipsisLiteral() ast.Expression {
	expr := &ast.EllipsisLiteral{Token: p.curToken}
	p.nextToken()
	return expr
}

func (p *Parser) parseIllegal() ast.Expression {
	p.errorf(p.curToken, "illegal token encountered: %s", p.curToken.Literal)
	p.nextToken()
	return nil
}

func (p *Parser) parseListLiteral() ast.Expression {
	list := &ast.ListLiteral{Token: p.curToken}
	p.nextToken() // Consume '['

	elements, _, ok := p.parseExpressionList(token.RBRACK)
	if !ok {
		return nil
	}
	list.Elements = elements
	p.nextToken() // Consume ']'
	return list
}

// parseTupleOrGroup handles "()", "(x,)", "(x, y)" and the grouping "(x)".
func (p *Parser) parseTupleOrGroup() ast.Expression {
	tuple := &ast.TupleLiteral{Token: p.curToken}
	p.nextToken() // Consume '('

	elements, trailingComma, ok := p.parseExpressionList(token.RPAREN)
	if !ok {
		return nil
	}
	p.nextToken() // Consume ')'
	if len(elements) == 1 && !trailingComma {
		return elements[0]
	}
	tuple.Elements = elements
	return tuple
}

// parseExpressionList parses comma separated expressions up to end, leaving
// p.curToken on end. It reports whether the last element was followed by a
// comma.
func (p *Parser) parseExpressionList(end token.Type) ([]ast.Expression, bool, bool) {
	list := []ast.Expression{}
	trailingComma := false
	for !p.curTokenIs(end) && !p.curTokenIs(token.EOF) {
		expr := p.parseExpression()
		if expr == nil {
			return nil, false, false
		}
		list = append(list, expr)
		trailingComma = false

		if p.curTokenIs(token.COMMA) {
			trailingComma = true
			p.nextToken()
			continue
		}
		if !p.curTokenIs(end) && !p.curTokenIs(token.EOF) {
			p.errorf(p.curToken, "expected ',' or '%s', got %s", end, p.curToken.Type)
			return nil, false, false
		}
	}
	if !p.curTokenIs(end) {
		p.errorf(p.curToken, "unterminated literal, expected '%s' got %s", end, p.curToken.Type)
		return nil, false, false
	}
	return list, trailingComma, true
}

func (p *Parser) parseDictLiteral() ast.Expression {
	dict := &ast.DictLiteral{Token: p.curToken, Pairs: []*ast.PairExpression{}}
	p.nextToken() // Consume '{'

	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		pair := p.parsePair()
		if pair == nil {
			return nil
		}
		dict.Pairs = append(dict.Pairs, pair)

		if p.curTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		if !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
			p.errorf(p.curToken, "expected ',' or '}' in dict, got %s", p.curToken.Type)
			return nil
		}
	}

	if !p.curTokenIs(token.RBRACE) {
		p.errorf(p.curToken, "unterminated dict literal, expected '}' got %s", p.curToken.Type)
		return nil
	}
	p.nextToken() // Consume '}'
	return dict
}

func (p *Parser) parsePair() *ast.PairExpression {
	key := p.parseExpression()
	if key == nil {
		return nil
	}

	if !p.curTokenIs(token.COLON) {
		p.errorf(p.curToken, "expected ':' after key, got %s", p.curToken.Type)
		return nil
	}
	pair := &ast.PairExpression{Token: p.curToken, Key: key}
	p.nextToken() // Consume ':'

	pair.Value = p.parseExpression()
	if pair.Value == nil {
		return nil
	}
	return pair
}

func (p *Parser) registerPrefix(tokenType token.Type, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) noPrefixParseFnError(t token.Type) {
	p.errorf(p.curToken, "no prefix parse function for %s ('%s') found", t, p.curToken.Literal)
}

func (p *Parser) errorf(tok token.Token, format string, args ...any) {
	p.errors = append(p.errors, merrors.ParseError{
		Message: fmt.Sprintf(format, args...),
		Line:    tok.Line,
		Column:  tok.Column,
	})
}

func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.Type) bool {
	return p.peekToken.Type == t
}
