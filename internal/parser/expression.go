package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/quilt/internal/ir"
	"github.com/roach88/quilt/internal/lexer"
)

// ---------------------------------------------------------------------------
// Precedence levels for Pratt expression parsing
// ---------------------------------------------------------------------------

const (
	precNone     = iota
	precAdditive // + -
	precMultiply // * /
	precUnary    // - +
	precPower    // ^ (right associative)
)

func infixPrecedence(typ string) int {
	switch typ {
	case lexer.PLUS, lexer.MINUS:
		return precAdditive
	case lexer.STAR, lexer.SLASH:
		return precMultiply
	case lexer.CARET:
		return precPower
	}
	return precNone
}

var infixOperators = map[string]ir.InfixOperator{
	lexer.PLUS:  ir.InfixPlus,
	lexer.MINUS: ir.InfixMinus,
	lexer.STAR:  ir.InfixStar,
	lexer.SLASH: ir.InfixSlash,
	lexer.CARET: ir.InfixCaret,
}

// parseExpression parses a full expression. It returns nil after recording
// an error.
func (p *Parser) parseExpression() ir.Expression {
	return p.parsePrecedence(precAdditive)
}

func (p *Parser) parsePrecedence(minPrec int) ir.Expression {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}

	for {
		prec := infixPrecedence(p.peek().Type)
		if prec == precNone || prec < minPrec {
			return left
		}
		opTok := p.advance()

		next := prec + 1
		if opTok.Type == lexer.CARET {
			next = prec
		}
		right := p.parsePrecedence(next)
		if right == nil {
			return nil
		}
		left = ir.FoldInfix(left, infixOperators[opTok.Type], right)
	}
}

func (p *Parser) parsePrefix() ir.Expression {
	tok := p.peek()

	switch tok.Type {
	case lexer.MINUS:
		p.advance()
		operand := p.parsePrecedence(precUnary)
		if operand == nil {
			return nil
		}
		return ir.FoldPrefix(ir.PrefixMinus, operand)

	case lexer.PLUS:
		p.advance()
		operand := p.parsePrecedence(precUnary)
		if operand == nil {
			return nil
		}
		return ir.FoldPrefix(ir.PrefixPlus, operand)

	case lexer.INT, lexer.FLOAT:
		p.advance()
		v, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			p.addError(tok, fmt.Sprintf("invalid number %s", tok.Value))
			return nil
		}
		return ir.NewNumber(v)

	case lexer.IMAGINARY:
		p.advance()
		v, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			p.addError(tok, fmt.Sprintf("invalid imaginary number %si", tok.Value))
			return nil
		}
		return ir.Number{Value: complex(0, v)}

	case lexer.VARIABLE:
		p.advance()
		return ir.NewVariable(tok.Value)

	case lexer.LPAREN:
		p.advance()
		inner := p.parseExpression()
		if inner == nil {
			return nil
		}
		if _, ok := p.expect(lexer.RPAREN, "expected ')' after expression"); !ok {
			return nil
		}
		return inner

	case lexer.IDENT:
		return p.parseIdentExpression()
	}

	p.addError(tok, fmt.Sprintf("expected expression (got %s)", tok))
	return nil
}

// parseIdentExpression handles pi, builtin function calls and memory addresses.
func (p *Parser) parseIdentExpression() ir.Expression {
	tok := p.peek()

	if strings.EqualFold(tok.Value, "pi") {
		p.advance()
		return ir.PiConstant{}
	}

	if p.peekAt(1).Type == lexer.LPAREN {
		fn, ok := ir.LookupFunction(tok.Value)
		if !ok {
			p.addError(tok, fmt.Sprintf("unknown function %s", tok.Value))
			return nil
		}
		p.advance() // name
		p.advance() // (
		arg := p.parseExpression()
		if arg == nil {
			return nil
		}
		if _, ok := p.expect(lexer.RPAREN, "expected ')' after function argument"); !ok {
			return nil
		}
		return ir.FunctionCall{Function: fn, Argument: arg}
	}

	ref, ok := p.parseMemoryReference()
	if !ok {
		return nil
	}
	return ir.Address{Reference: ref}
}

// parseOptionalExpressionList parses "(expr, ...)" when present.
func (p *Parser) parseOptionalExpressionList() []ir.Expression {
	if !p.match(lexer.LPAREN) {
		return nil
	}
	var exprs []ir.Expression
	for {
		e := p.parseExpression()
		if e == nil {
			return nil
		}
		exprs = append(exprs, e)
		if !p.match(lexer.COMMA) {
			break
		}
	}
	if _, ok := p.expect(lexer.RPAREN, "expected ')' after parameters"); !ok {
		return nil
	}
	return exprs
}
