package parser

import (
	"fmt"
	"lox/internal/lexer"
	"lox/internal/parsetree"
	"lox/internal/token"
)

const (
	_          int = iota
	LOWEST         // entry point
	ASSIGNMENT     // =
	LOGICAL_OR     // or
	LOGICAL_AND    // and
	EQUALS         // == !=
	COMPARISON     // > >= < <=
	SUM            // + -
	PRODUCT        // * /
	PREFIX         // -x or !x
	CALL           // callee(x), value.attr
)

var precedences = map[token.TokenType]int{
	token.ASSIGN:   ASSIGNMENT,
	token.OR:       LOGICAL_OR,
	token.AND:      LOGICAL_AND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       COMPARISON,
	token.LT_EQ:    COMPARISON,
	token.GT:       COMPARISON,
	token.GT_EQ:    COMPARISON,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.SLASH:    PRODUCT,
	token.ASTERISK: PRODUCT,
	token.PERIOD:   CALL,
	token.LPAREN:   CALL,
}

// binaryRules maps operator tokens to the grammar rule carried on the parse
// tree; the transform step resolves each rule to a primitive operation.
var binaryRules = map[token.TokenType]string{
	token.PLUS:     parsetree.RuleAdd,
	token.MINUS:    parsetree.RuleSub,
	token.ASTERISK: parsetree.RuleMul,
	token.SLASH:    parsetree.RuleDiv,
	token.EQ:       parsetree.RuleEq,
	token.NOT_EQ:   parsetree.RuleNe,
	token.GT:       parsetree.RuleGt,
	token.GT_EQ:    parsetree.RuleGe,
	token.LT:       parsetree.RuleLt,
	token.LT_EQ:    parsetree.RuleLe,
	token.AND:      parsetree.RuleAnd,
	token.OR:       parsetree.RuleOr,
}

type (
	prefixParseFn func() parsetree.Node
	infixParseFn  func(parsetree.Node) parsetree.Node
)

type Parser struct {
	l      *lexer.Lexer
	errors []string

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l:      l,
		errors: []string{},
	}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseVariable)
	p.registerPrefix(token.NUMBER, p.parseLiteral)
	p.registerPrefix(token.STRING, p.parseLiteral)
	p.registerPrefix(token.TRUE, p.parseLiteral)
	p.registerPrefix(token.FALSE, p.parseLiteral)
	p.registerPrefix(token.NIL, p.parseLiteral)
	p.registerPrefix(token.BANG, p.parsePrefixExpression)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	p.registerInfix(token.PLUS, p.parseBinaryExpression)
	p.registerInfix(token.MINUS, p.parseBinaryExpression)
	p.registerInfix(token.SLASH, p.parseBinaryExpression)
	p.registerInfix(token.ASTERISK, p.parseBinaryExpression)
	p.registerInfix(token.EQ, p.parseBinaryExpression)
	p.registerInfix(token.NOT_EQ, p.parseBinaryExpression)
	p.registerInfix(token.LT, p.parseBinaryExpression)
	p.registerInfix(token.LT_EQ, p.parseBinaryExpression)
	p.registerInfix(token.GT, p.parseBinaryExpression)
	p.registerInfix(token.GT_EQ, p.parseBinaryExpression)
	p.registerInfix(token.AND, p.parseBinaryExpression)
	p.registerInfix(token.OR, p.parseBinaryExpression)
	p.registerInfix(token.ASSIGN, p.parseAssignExpression)
	p.registerInfix(token.LPAREN, p.parseCallExpression)
	p.registerInfix(token.PERIOD, p.parseGetattrExpression)

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.TokenType) {
	msg := fmt.Sprintf("expected next token to be %s, got %s instead",
		t, p.peekToken.Type)
	p.errors = append(p.errors, msg)
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// ParseProgram consumes the whole token stream and returns the parse tree
// rooted at the program rule.
func (p *Parser) ParseProgram() *parsetree.Tree {
	program := parsetree.NewTree(parsetree.RuleProgram)

	for !p.curTokenIs(token.EOF) {
		stmt := p.parseDeclaration()
		if stmt != nil {
			program.Children = append(program.Children, stmt)
		}
		p.nextToken()
	}

	return program
}

func (p *Parser) parseDeclaration() parsetree.Node {
	switch p.curToken.Type {
	case token.VAR:
		return p.parseVarDecl()
	case token.FUNCTION:
		return p.parseFunDecl()
	case token.CLASS:
		p.errors = append(p.errors, "class declarations are not supported")
		p.skipToSemicolon()
		return nil
	default:
		return p.parseStatement()
	}
}

func (p *Parser) parseStatement() parsetree.Node {
	switch p.curToken.Type {
	case token.PRINT:
		return p.parsePrintStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.DO:
		return p.parseDoWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.LBRACE:
		return p.parseBlock()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) skipToSemicolon() {
	for !p.curTokenIs(token.SEMICOLON) && !p.curTokenIs(token.EOF) {
		p.nextToken()
	}
}

// var_decl: "var" IDENT ( ":" IDENT )? ( "=" expression )? ";"
func (p *Parser) parseVarDecl() parsetree.Node {
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	decl := parsetree.NewTree(parsetree.RuleVarDecl, parsetree.NewLeaf(p.curToken))

	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		decl.Children = append(decl.Children,
			parsetree.NewTree(parsetree.RuleType, parsetree.NewLeaf(p.curToken)))
	}

	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		value := p.parseExpression(LOWEST)
		if value == nil {
			return nil
		}
		decl.Children = append(decl.Children, value)
	}

	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return decl
}

// fun_decl: "fun" IDENT "(" params? ")" block
func (p *Parser) parseFunDecl() parsetree.Node {
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := parsetree.NewLeaf(p.curToken)

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params := p.parseParams()
	if params == nil {
		return nil
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}

	return parsetree.NewTree(parsetree.RuleFunDecl, name, params, body)
}

// params: param ( "," param )*, cur is LPAREN on entry and RPAREN on exit
func (p *Parser) parseParams() parsetree.Node {
	params := parsetree.NewTree(parsetree.RuleParams)

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}

	for {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		param := parsetree.NewTree(parsetree.RuleParam, parsetree.NewLeaf(p.curToken))
		if p.peekTokenIs(token.COLON) {
			p.nextToken()
			if !p.expectPeek(token.IDENT) {
				return nil
			}
			param.Children = append(param.Children,
				parsetree.NewTree(parsetree.RuleType, parsetree.NewLeaf(p.curToken)))
		}
		params.Children = append(params.Children, param)

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return params
}

// block: "{" declaration* "}", cur is LBRACE on entry and RBRACE on exit
func (p *Parser) parseBlock() parsetree.Node {
	block := parsetree.NewTree(parsetree.RuleBlock)

	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		stmt := p.parseDeclaration()
		if stmt != nil {
			block.Children = append(block.Children, stmt)
		}
		p.nextToken()
	}

	if !p.curTokenIs(token.RBRACE) {
		p.errors = append(p.errors, "expected '}' to close block")
		return nil
	}
	return block
}

func (p *Parser) parsePrintStatement() parsetree.Node {
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return parsetree.NewTree(parsetree.RulePrint, expr)
}

func (p *Parser) parseReturnStatement() parsetree.Node {
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		return parsetree.NewTree(parsetree.RuleReturn)
	}
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return parsetree.NewTree(parsetree.RuleReturn, expr)
}

func (p *Parser) parseIfStatement() parsetree.Node {
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if cond == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	p.nextToken()
	then := p.parseStatement()
	if then == nil {
		return nil
	}

	ifStmt := parsetree.NewTree(parsetree.RuleIf, cond, then)

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		p.nextToken()
		alt := p.parseStatement()
		if alt == nil {
			return nil
		}
		ifStmt.Children = append(ifStmt.Children, alt)
	}

	return ifStmt
}

func (p *Parser) parseWhileStatement() parsetree.Node {
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if cond == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	p.nextToken()
	body := p.parseStatement()
	if body == nil {
		return nil
	}

	return parsetree.NewTree(parsetree.RuleWhile, cond, body)
}

// do_while: "do" statement "while" "(" expression ")" ";"
func (p *Parser) parseDoWhileStatement() parsetree.Node {
	p.nextToken()
	body := p.parseStatement()
	if body == nil {
		return nil
	}

	if !p.expectPeek(token.WHILE) {
		return nil
	}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if cond == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}

	return parsetree.NewTree(parsetree.RuleDoWhile, body, cond)
}

// for_stmt: "for" "(" ( var_decl | expression ";" | ";" ) expression? ";" expression? ")" statement
//
// An omitted initializer is kept on the tree as the bare ";" token so the
// transform step can tell "no initializer" apart from a real one.
func (p *Parser) parseForStatement() parsetree.Node {
	if !p.expectPeek(token.LPAREN) {
		return nil
	}

	var init parsetree.Node
	switch {
	case p.peekTokenIs(token.SEMICOLON):
		p.nextToken()
		init = parsetree.NewLeaf(p.curToken) // placeholder token
	case p.peekTokenIs(token.VAR):
		p.nextToken()
		init = p.parseVarDecl()
	default:
		p.nextToken()
		init = p.parseExpression(LOWEST)
		if init != nil && !p.expectPeek(token.SEMICOLON) {
			return nil
		}
	}
	if init == nil {
		return nil
	}
	forInit := parsetree.NewTree(parsetree.RuleForInit, init)

	forCond := parsetree.NewTree(parsetree.RuleForCond)
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	} else {
		p.nextToken()
		cond := p.parseExpression(LOWEST)
		if cond == nil {
			return nil
		}
		if !p.expectPeek(token.SEMICOLON) {
			return nil
		}
		forCond.Children = append(forCond.Children, cond)
	}

	forIncr := parsetree.NewTree(parsetree.RuleForIncr)
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
	} else {
		p.nextToken()
		incr := p.parseExpression(LOWEST)
		if incr == nil {
			return nil
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		forIncr.Children = append(forIncr.Children, incr)
	}

	p.nextToken()
	body := p.parseStatement()
	if body == nil {
		return nil
	}

	return parsetree.NewTree(parsetree.RuleFor, forInit, forCond, forIncr, body)
}

func (p *Parser) parseExpressionStatement() parsetree.Node {
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return parsetree.NewTree(parsetree.RuleExprStmt, expr)
}

func (p *Parser) parseExpression(precedence int) parsetree.Node {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken.Type)
		return nil
	}
	left := prefix()

	for left != nil && !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}

	return left
}

func (p *Parser) noPrefixParseFnError(t token.TokenType) {
	msg := fmt.Sprintf("no prefix parse function for %s found", t)
	p.errors = append(p.errors, msg)
}

func (p *Parser) parseVariable() parsetree.Node {
	return parsetree.NewTree(parsetree.RuleVariable, parsetree.NewLeaf(p.curToken))
}

func (p *Parser) parseLiteral() parsetree.Node {
	return parsetree.NewLeaf(p.curToken)
}

func (p *Parser) parsePrefixExpression() parsetree.Node {
	rule := parsetree.RuleNeg
	if p.curToken.Type == token.BANG {
		rule = parsetree.RuleNot
	}
	p.nextToken()
	operand := p.parseExpression(PREFIX)
	if operand == nil {
		return nil
	}
	return parsetree.NewTree(rule, operand)
}

func (p *Parser) parseGroupedExpression() parsetree.Node {
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return parsetree.NewTree(parsetree.RuleGroup, expr)
}

func (p *Parser) parseBinaryExpression(left parsetree.Node) parsetree.Node {
	rule := binaryRules[p.curToken.Type]
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return parsetree.NewTree(rule, left, right)
}

// parseAssignExpression rewrites `target = value` into an assign or setattr
// rule. Assignment is right-associative, hence the lowered precedence on the
// right-hand side.
func (p *Parser) parseAssignExpression(left parsetree.Node) parsetree.Node {
	p.nextToken()
	value := p.parseExpression(ASSIGNMENT - 1)
	if value == nil {
		return nil
	}

	target, ok := left.(*parsetree.Tree)
	if !ok {
		p.errors = append(p.errors, "invalid assignment target")
		return nil
	}

	switch target.Rule {
	case parsetree.RuleVariable:
		return parsetree.NewTree(parsetree.RuleAssign, target, value)
	case parsetree.RuleGetattr:
		return parsetree.NewTree(parsetree.RuleSetattr,
			target.Children[0], target.Children[1], value)
	default:
		p.errors = append(p.errors, "invalid assignment target")
		return nil
	}
}

func (p *Parser) parseCallExpression(callee parsetree.Node) parsetree.Node {
	call := parsetree.NewTree(parsetree.RuleCall, callee)

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return call
	}

	p.nextToken()
	arg := p.parseExpression(LOWEST)
	if arg == nil {
		return nil
	}
	call.Children = append(call.Children, arg)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		arg := p.parseExpression(LOWEST)
		if arg == nil {
			return nil
		}
		call.Children = append(call.Children, arg)
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return call
}

func (p *Parser) parseGetattrExpression(value parsetree.Node) parsetree.Node {
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	return parsetree.NewTree(parsetree.RuleGetattr, value, parsetree.NewLeaf(p.curToken))
}
