// Package parser implements the rlox recursive-descent parser.
//
// The parser consumes the token stream produced by pkg/lexer and
// produces a list of statements (pkg/ast). It performs syntactic
// analysis and encodes operator precedence through a layered grammar:
// a curTok/peekTok two-token window, one parsing function per grammar
// layer, following the classic C-like precedence-climbing structure:
//
//	program     := declaration* EOF
//	declaration := varDecl | funDecl | statement
//	statement   := printStmt | blockStmt | ifStmt | whileStmt
//	             | forStmt | returnStmt | exprStmt
//	expression  := assignment
//	assignment  := IDENT '=' assignment | logic_or
//	logic_or    := logic_and ( 'or'  logic_and )*
//	logic_and   := equality  ( 'and' equality  )*
//	equality    := comparison (( '!=' | '==' ) comparison)*
//	comparison  := term       (( '>' | '>=' | '<' | '<=' ) term)*
//	term        := factor     (( '-' | '+' ) factor)*
//	factor      := unary      (( '/' | '*' ) unary)*
//	unary       := ( '!' | '-' ) unary | call
//	call        := primary ( '(' arguments? ')' )*
//	primary     := NUMBER | STRING | BOOLEAN | 'nil' | IDENT
//	             | '(' expression ( ',' expression )* ')'
//
// Error policy: syntax errors accumulate in Errors() rather than
// panicking, but the parse as a whole is reported as failed if any
// occurred — there is no panic-mode synchronization.
package parser

import (
	"fmt"
	"strconv"

	"github.com/kristofer/rlox/pkg/ast"
	"github.com/kristofer/rlox/pkg/lexer"
	"github.com/kristofer/rlox/pkg/token"
)

const maxArgs = 255

// Parser holds parsing state over a single source input. Create a new
// Parser for each program; it is single-use.
type Parser struct {
	l      *lexer.Lexer
	cur    token.Token
	peek   token.Token
	prev   token.Token // the token most recently consumed by advance()
	nextID int
	errors []string
}

// New creates a parser for the given source text.
func New(input string) *Parser {
	p := &Parser{l: lexer.New(input)}
	p.advance()
	p.advance()
	return p
}

// Errors returns the accumulated syntax error messages.
func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) advance() {
	p.prev = p.cur
	p.cur = p.peek
	tok, err := p.l.Next()
	if err != nil {
		p.errors = append(p.errors, err.Error())
	}
	p.peek = tok
}

func (p *Parser) check(k token.Kind) bool { return p.cur.Kind == k }

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

// expect consumes the current token if it has kind k, else records a
// syntax error and returns the current token without consuming it.
func (p *Parser) expect(k token.Kind, msg string) token.Token {
	if p.check(k) {
		tok := p.cur
		p.advance()
		return tok
	}
	p.errorAt(p.cur, msg)
	return p.cur
}

func (p *Parser) errorAt(tok token.Token, msg string) {
	p.errors = append(p.errors, fmt.Sprintf("line %d: %s", tok.Line, msg))
}

func (p *Parser) newID() int {
	id := p.nextID
	p.nextID++
	return id
}

// Parse parses the whole program and returns its statements. If any
// syntax errors were recorded, it returns them as a single error
// alongside the (possibly partial) statement list.
func (p *Parser) Parse() ([]ast.Stmt, error) {
	var statements []ast.Stmt
	for !p.check(token.EOF) {
		stmt := p.declaration()
		if stmt != nil {
			statements = append(statements, stmt)
		}
	}
	if len(p.errors) > 0 {
		return statements, fmt.Errorf("parse errors: %v", p.errors)
	}
	return statements, nil
}

func (p *Parser) declaration() ast.Stmt {
	switch {
	case p.match(token.Var):
		return p.varDeclaration()
	case p.match(token.Fun):
		return p.funDeclaration("function")
	default:
		return p.statement()
	}
}

func (p *Parser) varDeclaration() ast.Stmt {
	name := p.expect(token.Identifier, "expected variable name after 'var'")

	var init ast.Expr
	if p.match(token.Equal) {
		init = p.expression()
	}
	p.expect(token.Semicolon, "expected ';' after variable declaration")
	return &ast.VarDeclStmt{Name: name, Initializer: init}
}

func (p *Parser) funDeclaration(kind string) ast.Stmt {
	name := p.expect(token.Identifier, "expected "+kind+" name after 'fun'")
	p.expect(token.LeftParen, "expected '(' after "+kind+" name")

	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			if len(params) >= maxArgs {
				p.errorAt(p.cur, fmt.Sprintf("cannot have more than %d parameters", maxArgs))
			}
			params = append(params, p.expect(token.Identifier, "expected parameter name"))
			if !p.match(token.Comma) {
				break
			}
		}
	}
	p.expect(token.RightParen, "expected ')' after parameters")
	p.expect(token.LeftBrace, "expected '{' before "+kind+" body")
	body := p.block()
	return &ast.FunDeclStmt{Name: name, Parameters: params, Body: body}
}

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.Print):
		return p.printStatement()
	case p.match(token.LeftBrace):
		return &ast.BlockStmt{Statements: p.block()}
	case p.match(token.If):
		return p.ifStatement()
	case p.match(token.While):
		return p.whileStatement()
	case p.match(token.For):
		return p.forStatement()
	case p.match(token.Return):
		return p.returnStatement()
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) printStatement() ast.Stmt {
	value := p.expression()
	p.expect(token.Semicolon, "expected ';' after value")
	return &ast.PrintStmt{Expression: value}
}

func (p *Parser) expressionStatement() ast.Stmt {
	expr := p.expression()
	p.expect(token.Semicolon, "expected ';' after expression")
	return &ast.ExpressionStmt{Expression: expr}
}

func (p *Parser) block() []ast.Stmt {
	var statements []ast.Stmt
	for !p.check(token.RightBrace) && !p.check(token.EOF) {
		stmt := p.declaration()
		if stmt != nil {
			statements = append(statements, stmt)
		}
	}
	p.expect(token.RightBrace, "expected '}' after block")
	return statements
}

func (p *Parser) ifStatement() ast.Stmt {
	p.expect(token.LeftParen, "expected '(' after 'if'")
	condition := p.expression()
	p.expect(token.RightParen, "expected ')' after if condition")

	thenBranch := p.statement()
	var elseBranch ast.Stmt
	if p.match(token.Else) {
		elseBranch = p.statement()
	}
	return &ast.IfStmt{Condition: condition, Then: thenBranch, Else: elseBranch}
}

func (p *Parser) whileStatement() ast.Stmt {
	p.expect(token.LeftParen, "expected '(' after 'while'")
	condition := p.expression()
	p.expect(token.RightParen, "expected ')' after while condition")
	body := p.statement()
	return &ast.WhileStmt{Condition: condition, Body: body}
}

// forStatement desugars `for (init; cond; incr) body` into
// `Block(init, While(cond, Block(body, incr)))` — there is no
// dedicated ast.ForStmt node.
func (p *Parser) forStatement() ast.Stmt {
	p.expect(token.LeftParen, "expected '(' after 'for'")

	var initializer ast.Stmt
	switch {
	case p.match(token.Semicolon):
		initializer = nil
	case p.match(token.Var):
		initializer = p.varDeclaration()
	default:
		initializer = p.expressionStatement()
	}

	var condition ast.Expr
	if !p.check(token.Semicolon) {
		condition = p.expression()
	}
	p.expect(token.Semicolon, "expected ';' after loop condition")

	var increment ast.Expr
	if !p.check(token.RightParen) {
		increment = p.expression()
	}
	p.expect(token.RightParen, "expected ')' after for clauses")

	body := p.statement()

	if increment != nil {
		body = &ast.BlockStmt{Statements: []ast.Stmt{body, &ast.ExpressionStmt{Expression: increment}}}
	}

	if condition == nil {
		condition = &ast.LiteralBoolean{ID: p.newID(), Value: true}
	}
	body = &ast.WhileStmt{Condition: condition, Body: body}

	if initializer != nil {
		body = &ast.BlockStmt{Statements: []ast.Stmt{initializer, body}}
	}

	return body
}

func (p *Parser) returnStatement() ast.Stmt {
	keyword := p.prev // the 'return' token, consumed by statement()'s match()

	var value ast.Expr = &ast.NilLiteral{ID: p.newID()}
	if !p.check(token.Semicolon) {
		value = p.expression()
	}
	p.expect(token.Semicolon, "expected ';' after return value")
	return &ast.ReturnStmt{Keyword: keyword, Value: value}
}

// expression-layer grammar, low to high precedence.

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

func (p *Parser) assignment() ast.Expr {
	expr := p.or()

	if p.match(token.Equal) {
		equalsLine := p.prev.Line
		value := p.assignment()

		if ident, ok := expr.(*ast.Identifier); ok {
			return &ast.Assignment{ID: p.newID(), Target: ident.Name, Value: value}
		}
		p.errors = append(p.errors, fmt.Sprintf("line %d: invalid assignment target", equalsLine))
		return expr
	}
	return expr
}

func (p *Parser) or() ast.Expr {
	expr := p.and()
	for p.check(token.Or) {
		op := p.cur
		p.advance()
		right := p.and()
		expr = &ast.Logical{ID: p.newID(), Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) and() ast.Expr {
	expr := p.equality()
	for p.check(token.And) {
		op := p.cur
		p.advance()
		right := p.equality()
		expr = &ast.Logical{ID: p.newID(), Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	for p.check(token.BangEqual) || p.check(token.EqualEqual) {
		op := p.cur
		p.advance()
		right := p.comparison()
		expr = &ast.Binary{ID: p.newID(), Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) comparison() ast.Expr {
	expr := p.term()
	for p.check(token.Greater) || p.check(token.GreaterEqual) || p.check(token.Less) || p.check(token.LessEqual) {
		op := p.cur
		p.advance()
		right := p.term()
		expr = &ast.Binary{ID: p.newID(), Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) term() ast.Expr {
	expr := p.factor()
	for p.check(token.Minus) || p.check(token.Plus) {
		op := p.cur
		p.advance()
		right := p.factor()
		expr = &ast.Binary{ID: p.newID(), Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) factor() ast.Expr {
	expr := p.unary()
	for p.check(token.Slash) || p.check(token.Star) {
		op := p.cur
		p.advance()
		right := p.unary()
		expr = &ast.Binary{ID: p.newID(), Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.check(token.Bang) || p.check(token.Minus) {
		op := p.cur
		p.advance()
		operand := p.unary()
		return &ast.Unary{ID: p.newID(), Op: op, Operand: operand}
	}
	return p.call()
}

func (p *Parser) call() ast.Expr {
	expr := p.primary()
	for {
		if p.match(token.LeftParen) {
			expr = p.finishCall(expr)
		} else {
			break
		}
	}
	return expr
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RightParen) {
		for {
			if len(args) >= maxArgs {
				p.errorAt(p.cur, fmt.Sprintf("cannot have more than %d arguments", maxArgs))
			}
			args = append(args, p.expression())
			if !p.match(token.Comma) {
				break
			}
		}
	}
	closing := p.expect(token.RightParen, "expected ')' after arguments")
	return &ast.Call{ID: p.newID(), Callee: callee, ClosingTok: closing, Arguments: args}
}

// primary parses literals, identifiers, groupings, and the comma form
// `( a , b , c )`. The comma form is only recognized at primary
// position.
func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.Number):
		return p.numberLiteral()
	case p.match(token.String):
		return &ast.LiteralString{ID: p.newID(), Value: p.prev.Lexeme}
	case p.match(token.True):
		return &ast.LiteralBoolean{ID: p.newID(), Value: true}
	case p.match(token.False):
		return &ast.LiteralBoolean{ID: p.newID(), Value: false}
	case p.match(token.Nil):
		return &ast.NilLiteral{ID: p.newID()}
	case p.match(token.Identifier):
		return &ast.Identifier{ID: p.newID(), Name: p.prev}
	case p.match(token.LeftParen):
		return p.groupingOrComma()
	default:
		p.errorAt(p.cur, fmt.Sprintf("unexpected token %s", p.cur.Kind))
		p.advance()
		return &ast.NilLiteral{ID: p.newID()}
	}
}

func (p *Parser) numberLiteral() ast.Expr {
	lexeme := p.prev.Lexeme
	value, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		p.errorAt(p.prev, fmt.Sprintf("could not parse %q as a number", lexeme))
		value = 0
	}
	return &ast.LiteralNumber{ID: p.newID(), Value: value}
}

func (p *Parser) groupingOrComma() ast.Expr {
	first := p.expression()
	if p.check(token.Comma) {
		exprs := []ast.Expr{first}
		for p.match(token.Comma) {
			exprs = append(exprs, p.expression())
		}
		p.expect(token.RightParen, "expected ')' after comma expression")
		return &ast.Comma{ID: p.newID(), Expressions: exprs}
	}
	p.expect(token.RightParen, "expected ')' after expression")
	return &ast.Grouping{ID: p.newID(), Inner: first}
}
