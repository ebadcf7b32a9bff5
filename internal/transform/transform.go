// Package transform turns the generic parse tree produced by the grammar
// front end into the typed syntax tree the evaluator walks. There is one
// visit method per grammar rule; pass-through rules return their single
// meaningful child. This is also where `for` loops are desugared into
// `while` loops and operator rules are bound to primitive operations.
package transform

import (
	"fmt"
	"lox/internal/ast"
	"lox/internal/parsetree"
	"lox/internal/token"
	"strconv"
)

// binaryOps binds operator rule names to primitive operations.
var binaryOps = map[string]ast.Op{
	parsetree.RuleAdd: ast.OpAdd,
	parsetree.RuleSub: ast.OpSub,
	parsetree.RuleMul: ast.OpMul,
	parsetree.RuleDiv: ast.OpDiv,
	parsetree.RuleGt:  ast.OpGt,
	parsetree.RuleGe:  ast.OpGe,
	parsetree.RuleLt:  ast.OpLt,
	parsetree.RuleLe:  ast.OpLe,
	parsetree.RuleEq:  ast.OpEq,
	parsetree.RuleNe:  ast.OpNe,
}

type Builder struct{}

func New() *Builder {
	return &Builder{}
}

// Program is the entry point: it expects the program rule and returns the
// evaluable root node.
func (b *Builder) Program(node parsetree.Node) (*ast.Program, error) {
	tree, ok := node.(*parsetree.Tree)
	if !ok || tree.Rule != parsetree.RuleProgram {
		return nil, fmt.Errorf("expected program rule, got %s", node.String())
	}
	return b.program(tree)
}

func (b *Builder) program(t *parsetree.Tree) (*ast.Program, error) {
	program := &ast.Program{}
	for _, child := range t.Children {
		stmt, err := b.buildStmt(child)
		if err != nil {
			return nil, err
		}
		program.Statements = append(program.Statements, stmt)
	}
	return program, nil
}

// build dispatches on the rule name (or token type, for leaves).
func (b *Builder) build(node parsetree.Node) (ast.Node, error) {
	switch node := node.(type) {
	case *parsetree.Leaf:
		return b.literal(node)
	case *parsetree.Tree:
		switch node.Rule {
		case parsetree.RuleProgram:
			return b.program(node)
		case parsetree.RuleBlock:
			return b.block(node)
		case parsetree.RuleVarDecl:
			return b.varDecl(node)
		case parsetree.RuleFunDecl:
			return b.funDecl(node)
		case parsetree.RulePrint:
			return b.printStmt(node)
		case parsetree.RuleReturn:
			return b.returnStmt(node)
		case parsetree.RuleIf:
			return b.ifStmt(node)
		case parsetree.RuleWhile:
			return b.whileStmt(node)
		case parsetree.RuleDoWhile:
			return b.doWhile(node)
		case parsetree.RuleFor:
			return b.forStmt(node)
		case parsetree.RuleExprStmt:
			return b.exprStmt(node)
		case parsetree.RuleAssign:
			return b.assign(node)
		case parsetree.RuleSetattr:
			return b.setattr(node)
		case parsetree.RuleGetattr:
			return b.getattr(node)
		case parsetree.RuleOr:
			return b.or(node)
		case parsetree.RuleAnd:
			return b.and(node)
		case parsetree.RuleAdd, parsetree.RuleSub, parsetree.RuleMul, parsetree.RuleDiv,
			parsetree.RuleGt, parsetree.RuleGe, parsetree.RuleLt, parsetree.RuleLe,
			parsetree.RuleEq, parsetree.RuleNe:
			return b.binOp(node)
		case parsetree.RuleNot:
			return b.unaryOp(node, ast.OpNot)
		case parsetree.RuleNeg:
			return b.unaryOp(node, ast.OpNeg)
		case parsetree.RuleCall:
			return b.call(node)
		case parsetree.RuleVariable:
			return b.variable(node)
		case parsetree.RuleGroup:
			// pass-through rule: the group is its inner expression
			return b.buildExpr(b.child(node, 0))
		default:
			return nil, fmt.Errorf("unknown grammar rule %q", node.Rule)
		}
	}
	return nil, fmt.Errorf("unexpected parse tree node %s", node.String())
}

func (b *Builder) buildExpr(node parsetree.Node) (ast.Expression, error) {
	if node == nil {
		return nil, fmt.Errorf("missing expression node")
	}
	built, err := b.build(node)
	if err != nil {
		return nil, err
	}
	expr, ok := built.(ast.Expression)
	if !ok {
		return nil, fmt.Errorf("expected expression, got %s", built.String())
	}
	return expr, nil
}

func (b *Builder) buildStmt(node parsetree.Node) (ast.Statement, error) {
	if node == nil {
		return nil, fmt.Errorf("missing statement node")
	}
	built, err := b.build(node)
	if err != nil {
		return nil, err
	}
	switch built := built.(type) {
	case ast.Statement:
		return built, nil
	case ast.Expression:
		return &ast.ExpressionStatement{Token: firstToken(node), Expression: built}, nil
	}
	return nil, fmt.Errorf("expected statement, got %s", built.String())
}

func (b *Builder) child(t *parsetree.Tree, i int) parsetree.Node {
	if i >= len(t.Children) {
		return nil
	}
	return t.Children[i]
}

func (b *Builder) leafChild(t *parsetree.Tree, i int) (*parsetree.Leaf, error) {
	leaf, ok := b.child(t, i).(*parsetree.Leaf)
	if !ok {
		return nil, fmt.Errorf("malformed %s node: expected token child at %d", t.Rule, i)
	}
	return leaf, nil
}

func (b *Builder) block(t *parsetree.Tree) (*ast.Block, error) {
	block := &ast.Block{Token: firstToken(t)}
	for _, child := range t.Children {
		stmt, err := b.buildStmt(child)
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
	}
	return block, nil
}

// varDecl children: name token, then an optional type annotation tree and an
// optional initializer in either order of presence.
func (b *Builder) varDecl(t *parsetree.Tree) (ast.Statement, error) {
	name, err := b.leafChild(t, 0)
	if err != nil {
		return nil, err
	}
	decl := &ast.VarDef{Token: name.Tok, Name: name.Tok.Literal}

	for _, child := range t.Children[1:] {
		if tree, ok := child.(*parsetree.Tree); ok && tree.Rule == parsetree.RuleType {
			annot, err := b.leafChild(tree, 0)
			if err != nil {
				return nil, err
			}
			decl.TypeAnnotation = annot.Tok.Literal
			continue
		}
		value, err := b.buildExpr(child)
		if err != nil {
			return nil, err
		}
		decl.Value = value
	}
	return decl, nil
}

func (b *Builder) funDecl(t *parsetree.Tree) (ast.Statement, error) {
	name, err := b.leafChild(t, 0)
	if err != nil {
		return nil, err
	}

	paramsTree, ok := b.child(t, 1).(*parsetree.Tree)
	if !ok || paramsTree.Rule != parsetree.RuleParams {
		return nil, fmt.Errorf("malformed fun_decl node: expected params")
	}
	params, err := b.params(paramsTree)
	if err != nil {
		return nil, err
	}

	bodyTree, ok := b.child(t, 2).(*parsetree.Tree)
	if !ok || bodyTree.Rule != parsetree.RuleBlock {
		return nil, fmt.Errorf("malformed fun_decl node: expected block body")
	}
	body, err := b.block(bodyTree)
	if err != nil {
		return nil, err
	}

	return &ast.FunctionDecl{
		Token:      name.Tok,
		Name:       name.Tok.Literal,
		Parameters: params,
		Body:       body,
	}, nil
}

func (b *Builder) params(t *parsetree.Tree) ([]*ast.Param, error) {
	params := make([]*ast.Param, 0, len(t.Children))
	for _, child := range t.Children {
		tree, ok := child.(*parsetree.Tree)
		if !ok || tree.Rule != parsetree.RuleParam {
			return nil, fmt.Errorf("malformed params node: %s", child.String())
		}
		name, err := b.leafChild(tree, 0)
		if err != nil {
			return nil, err
		}
		param := &ast.Param{Token: name.Tok, Name: name.Tok.Literal}
		if annotTree, ok := b.child(tree, 1).(*parsetree.Tree); ok && annotTree.Rule == parsetree.RuleType {
			annot, err := b.leafChild(annotTree, 0)
			if err != nil {
				return nil, err
			}
			param.TypeAnnotation = annot.Tok.Literal
		}
		params = append(params, param)
	}
	return params, nil
}

func (b *Builder) printStmt(t *parsetree.Tree) (ast.Statement, error) {
	expr, err := b.buildExpr(b.child(t, 0))
	if err != nil {
		return nil, err
	}
	return &ast.PrintStmt{Token: firstToken(t), Expression: expr}, nil
}

func (b *Builder) returnStmt(t *parsetree.Tree) (ast.Statement, error) {
	ret := &ast.ReturnStmt{Token: firstToken(t)}
	if len(t.Children) > 0 {
		value, err := b.buildExpr(t.Children[0])
		if err != nil {
			return nil, err
		}
		ret.Value = value
	}
	return ret, nil
}

func (b *Builder) ifStmt(t *parsetree.Tree) (ast.Statement, error) {
	cond, err := b.buildExpr(b.child(t, 0))
	if err != nil {
		return nil, err
	}
	then, err := b.buildStmt(b.child(t, 1))
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{Token: firstToken(t), Condition: cond, Then: then}
	if len(t.Children) > 2 {
		alt, err := b.buildStmt(t.Children[2])
		if err != nil {
			return nil, err
		}
		stmt.Else = alt
	}
	return stmt, nil
}

func (b *Builder) whileStmt(t *parsetree.Tree) (ast.Statement, error) {
	cond, err := b.buildExpr(b.child(t, 0))
	if err != nil {
		return nil, err
	}
	body, err := b.buildStmt(b.child(t, 1))
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Token: firstToken(t), Condition: cond, Body: body}, nil
}

func (b *Builder) doWhile(t *parsetree.Tree) (ast.Statement, error) {
	body, err := b.buildStmt(b.child(t, 0))
	if err != nil {
		return nil, err
	}
	cond, err := b.buildExpr(b.child(t, 1))
	if err != nil {
		return nil, err
	}
	return &ast.DoWhileStmt{Token: firstToken(t), Body: body, Condition: cond}, nil
}

// forStmt desugars `for (init; cond; incr) body` into a while loop:
// an increment clause is folded into the body block, a missing condition
// defaults to the literal true, and a real initializer (anything but the
// bare ";" placeholder token) prefixes the loop inside a wrapping block.
func (b *Builder) forStmt(t *parsetree.Tree) (ast.Statement, error) {
	if len(t.Children) != 4 {
		return nil, fmt.Errorf("malformed for_stmt node: %s", t.String())
	}
	initTree, err := b.clause(t.Children[0], parsetree.RuleForInit)
	if err != nil {
		return nil, err
	}
	if len(initTree.Children) != 1 {
		return nil, fmt.Errorf("malformed for_init node: %s", initTree.String())
	}
	condTree, err := b.clause(t.Children[1], parsetree.RuleForCond)
	if err != nil {
		return nil, err
	}
	incrTree, err := b.clause(t.Children[2], parsetree.RuleForIncr)
	if err != nil {
		return nil, err
	}

	body, err := b.buildStmt(t.Children[3])
	if err != nil {
		return nil, err
	}

	if len(incrTree.Children) > 0 {
		incr, err := b.buildStmt(incrTree.Children[0])
		if err != nil {
			return nil, err
		}
		body = &ast.Block{Token: firstToken(t), Statements: []ast.Statement{body, incr}}
	}

	var cond ast.Expression = &ast.BooleanLiteral{
		Token: token.Token{Type: token.TRUE, Literal: "true"},
		Value: true,
	}
	if len(condTree.Children) > 0 {
		cond, err = b.buildExpr(condTree.Children[0])
		if err != nil {
			return nil, err
		}
	}

	loop := &ast.WhileStmt{Token: firstToken(t), Condition: cond, Body: body}

	if _, placeholder := initTree.Children[0].(*parsetree.Leaf); !placeholder {
		init, err := b.buildStmt(initTree.Children[0])
		if err != nil {
			return nil, err
		}
		return &ast.Block{Token: firstToken(t), Statements: []ast.Statement{init, loop}}, nil
	}
	return &ast.Block{Token: firstToken(t), Statements: []ast.Statement{loop}}, nil
}

func (b *Builder) clause(node parsetree.Node, rule string) (*parsetree.Tree, error) {
	tree, ok := node.(*parsetree.Tree)
	if !ok || tree.Rule != rule {
		return nil, fmt.Errorf("malformed for_stmt node: expected %s clause", rule)
	}
	return tree, nil
}

// exprStmt is a pass-through rule: buildStmt wraps the expression.
func (b *Builder) exprStmt(t *parsetree.Tree) (ast.Statement, error) {
	return b.buildStmt(b.child(t, 0))
}

func (b *Builder) assign(t *parsetree.Tree) (ast.Expression, error) {
	target, ok := b.child(t, 0).(*parsetree.Tree)
	if !ok || target.Rule != parsetree.RuleVariable {
		return nil, fmt.Errorf("malformed assign node: %s", t.String())
	}
	name, err := b.leafChild(target, 0)
	if err != nil {
		return nil, err
	}
	value, err := b.buildExpr(b.child(t, 1))
	if err != nil {
		return nil, err
	}
	return &ast.Assign{Token: name.Tok, Name: name.Tok.Literal, Value: value}, nil
}

func (b *Builder) setattr(t *parsetree.Tree) (ast.Expression, error) {
	obj, err := b.buildExpr(b.child(t, 0))
	if err != nil {
		return nil, err
	}
	attr, err := b.leafChild(t, 1)
	if err != nil {
		return nil, err
	}
	value, err := b.buildExpr(b.child(t, 2))
	if err != nil {
		return nil, err
	}
	return &ast.Setattr{Token: attr.Tok, Object: obj, Attr: attr.Tok.Literal, Value: value}, nil
}

func (b *Builder) getattr(t *parsetree.Tree) (ast.Expression, error) {
	obj, err := b.buildExpr(b.child(t, 0))
	if err != nil {
		return nil, err
	}
	attr, err := b.leafChild(t, 1)
	if err != nil {
		return nil, err
	}
	return &ast.Getattr{Token: attr.Tok, Object: obj, Attr: attr.Tok.Literal}, nil
}

func (b *Builder) or(t *parsetree.Tree) (ast.Expression, error) {
	left, right, err := b.pair(t)
	if err != nil {
		return nil, err
	}
	return &ast.Or{Token: firstToken(t), Left: left, Right: right}, nil
}

func (b *Builder) and(t *parsetree.Tree) (ast.Expression, error) {
	left, right, err := b.pair(t)
	if err != nil {
		return nil, err
	}
	return &ast.And{Token: firstToken(t), Left: left, Right: right}, nil
}

func (b *Builder) binOp(t *parsetree.Tree) (ast.Expression, error) {
	op, ok := binaryOps[t.Rule]
	if !ok {
		return nil, fmt.Errorf("unknown binary operator rule %q", t.Rule)
	}
	left, right, err := b.pair(t)
	if err != nil {
		return nil, err
	}
	return &ast.BinOp{Token: firstToken(t), Op: op, Left: left, Right: right}, nil
}

func (b *Builder) pair(t *parsetree.Tree) (ast.Expression, ast.Expression, error) {
	left, err := b.buildExpr(b.child(t, 0))
	if err != nil {
		return nil, nil, err
	}
	right, err := b.buildExpr(b.child(t, 1))
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func (b *Builder) unaryOp(t *parsetree.Tree, op ast.Op) (ast.Expression, error) {
	operand, err := b.buildExpr(b.child(t, 0))
	if err != nil {
		return nil, err
	}
	return &ast.UnaryOp{Token: firstToken(t), Op: op, Operand: operand}, nil
}

func (b *Builder) call(t *parsetree.Tree) (ast.Expression, error) {
	callee, err := b.buildExpr(b.child(t, 0))
	if err != nil {
		return nil, err
	}
	call := &ast.Call{Token: firstToken(t), Callee: callee}
	for _, child := range t.Children[1:] {
		arg, err := b.buildExpr(child)
		if err != nil {
			return nil, err
		}
		call.Arguments = append(call.Arguments, arg)
	}
	return call, nil
}

func (b *Builder) variable(t *parsetree.Tree) (ast.Expression, error) {
	name, err := b.leafChild(t, 0)
	if err != nil {
		return nil, err
	}
	return &ast.Var{Token: name.Tok, Name: name.Tok.Literal}, nil
}

// literal maps a literal token to its host-native value.
func (b *Builder) literal(leaf *parsetree.Leaf) (ast.Expression, error) {
	tok := leaf.Tok
	switch tok.Type {
	case token.NUMBER:
		value, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number literal %q: %w", tok.Literal, err)
		}
		return &ast.NumberLiteral{Token: tok, Value: value}, nil
	case token.STRING:
		return &ast.StringLiteral{Token: tok, Value: tok.Literal}, nil
	case token.TRUE:
		return &ast.BooleanLiteral{Token: tok, Value: true}, nil
	case token.FALSE:
		return &ast.BooleanLiteral{Token: tok, Value: false}, nil
	case token.NIL:
		return &ast.NilLiteral{Token: tok}, nil
	default:
		return nil, fmt.Errorf("unexpected token %s in parse tree", tok.Type)
	}
}

// firstToken walks to the leftmost token beneath a node; used to give
// synthesized nodes a source anchor.
func firstToken(node parsetree.Node) token.Token {
	switch node := node.(type) {
	case *parsetree.Leaf:
		return node.Tok
	case *parsetree.Tree:
		for _, child := range node.Children {
			if tok := firstToken(child); tok.Type != "" {
				return tok
			}
		}
	}
	return token.Token{}
}
