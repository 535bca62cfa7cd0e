package syntax

import (
	"fmt"
	"strings"

	symErrors "mercator-hq/symc/pkg/expr/errors"
)

// DefaultMaxDepth bounds nesting so that hostile input cannot exhaust the stack.
const DefaultMaxDepth = 1000

// Option configures Parse.
type Option func(*parser)

// WithMaxDepth sets the maximum nesting depth. Zero or less means
// DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(p *parser) {
		if n > 0 {
			p.maxDepth = n
		}
	}
}

// Parse parses text into a generic tree. Blank input yields an empty Symbol.
// Malformed input fails with an ErrorTypeSyntax error whose message starts
// with "Syntax error".
func Parse(text string, opts ...Option) (Node, error) {
	p := &parser{lex: newLexer(text), input: text, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(p)
	}

	if strings.TrimSpace(text) == "" {
		return &Symbol{Position: Position{Line: 1, Column: 1}}, nil
	}

	n, err := p.parse()
	if err != nil {
		if e, ok := err.(*symErrors.Error); ok {
			return nil, symErrors.WithInput(e, text)
		}
		return nil, err
	}
	return n, nil
}

type parser struct {
	lex      *lexer
	input    string
	tok      token
	depth    int
	maxDepth int
}

func syntaxError(pos Position, msg string) *symErrors.Error {
	return &symErrors.Error{
		Type:     symErrors.ErrorTypeSyntax,
		Message:  "Syntax error: " + msg,
		Position: pos,
	}
}

func (p *parser) parse() (Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	n, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.unexpected("end of input")
	}
	return n, nil
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) expect(kind tokenKind) error {
	if p.tok.kind != kind {
		return p.unexpected(kind.String())
	}
	return p.advance()
}

func (p *parser) unexpected(want string) error {
	if p.tok.kind == tokEOF {
		return syntaxError(p.tok.pos, fmt.Sprintf("expected %s but reached end of input", want))
	}
	return syntaxError(p.tok.pos, fmt.Sprintf("expected %s, found %s", want, p.tok.describe()))
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return syntaxError(p.tok.pos, fmt.Sprintf("expression nested deeper than %d levels", p.maxDepth))
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

// parseSum parses term (('+'|'-') term)*.
func (p *parser) parseSum() (Node, error) {
	pos := p.tok.pos
	first, err := p.parseProduct()
	if err != nil {
		return nil, err
	}

	terms := []Node{first}
	for p.tok.kind == tokPlus || p.tok.kind == tokMinus {
		negate := p.tok.kind == tokMinus
		if err := p.advance(); err != nil {
			return nil, err
		}
		term, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		if negate {
			term = negative(term)
		}
		terms = append(terms, term)
	}

	if len(terms) == 1 {
		return first, nil
	}
	return NewCall("Plus", pos, terms...), nil
}

// parseProduct parses factor (('*'|'/')? factor)*. Juxtaposition multiplies.
func (p *parser) parseProduct() (Node, error) {
	pos := p.tok.pos
	first, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	factors := []Node{first}
	for {
		switch {
		case p.tok.kind == tokStar || p.tok.kind == tokSlash:
			divide := p.tok.kind == tokSlash
			if err := p.advance(); err != nil {
				return nil, err
			}
			f, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			if divide {
				f = NewCall("Power", f.Pos(), f, &Integer{Text: "-1", Position: f.Pos()})
			}
			factors = append(factors, f)

		case startsPrimary(p.tok.kind):
			f, err := p.parsePower()
			if err != nil {
				return nil, err
			}
			factors = append(factors, f)

		default:
			if len(factors) == 1 {
				return first, nil
			}
			return NewCall("Times", pos, factors...), nil
		}
	}
}

func startsPrimary(k tokenKind) bool {
	return k == tokInt || k == tokIdent || k == tokLParen
}

// parseUnary parses ('-'|'+')* power.
func (p *parser) parseUnary() (Node, error) {
	switch p.tok.kind {
	case tokMinus:
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return negative(operand), nil

	case tokPlus:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return p.parseUnary()
	}
	return p.parsePower()
}

// parsePower parses postfix ('^' unary)?; '^' is right-associative.
func (p *parser) parsePower() (Node, error) {
	base, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokCaret {
		return base, nil
	}
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	if err := p.advance(); err != nil {
		return nil, err
	}
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return NewCall("Power", base.Pos(), base, exp), nil
}

// parsePostfix parses primary ('[' args ']')*.
func (p *parser) parsePostfix() (Node, error) {
	n, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokLBracket {
		if err := p.enter(); err != nil {
			return nil, err
		}
		args, err := p.parseArgs()
		p.leave()
		if err != nil {
			return nil, err
		}
		n = &Function{Head: n, Args: args, Position: n.Pos()}
	}
	return n, nil
}

// parseArgs parses '[' (sum (',' sum)*)? ']'.
func (p *parser) parseArgs() ([]Node, error) {
	if err := p.expect(tokLBracket); err != nil {
		return nil, err
	}
	args := []Node{}
	if p.tok.kind == tokRBracket {
		return args, p.advance()
	}
	for {
		arg, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		switch p.tok.kind {
		case tokComma:
			if err := p.advance(); err != nil {
				return nil, err
			}
		case tokRBracket:
			return args, p.advance()
		default:
			return nil, p.unexpected("',' or ']'")
		}
	}
}

func (p *parser) parsePrimary() (Node, error) {
	tok := p.tok
	switch tok.kind {
	case tokInt:
		return &Integer{Text: tok.text, Position: tok.pos}, p.advance()

	case tokIdent:
		return &Symbol{Name: tok.text, Position: tok.pos}, p.advance()

	case tokLParen:
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return inner, nil
	}
	return nil, p.unexpected("an expression")
}

// negative returns -n: a negative literal for integers, Times[-1, n] otherwise.
func negative(n Node) Node {
	if i, ok := n.(*Integer); ok && !strings.HasPrefix(i.Text, "-") {
		return &Integer{Text: "-" + i.Text, Position: i.Position}
	}
	return NewCall("Times", n.Pos(), &Integer{Text: "-1", Position: n.Pos()}, n)
}
