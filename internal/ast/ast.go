package ast

import (
	"bytes"
	"lox/internal/token"
	"strconv"
	"strings"
)

// Op identifies the primitive operation bound to a BinOp or UnaryOp node
// during syntax-tree construction.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv // floor division
	OpGt
	OpGe
	OpLt
	OpLe
	OpEq
	OpNe
	OpNot
	OpNeg
)

var opNames = [...]string{"+", "-", "*", "/", ">", ">=", "<", "<=", "==", "!=", "!", "-"}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return "?"
}

// The base Node interface
type Node interface {
	TokenLiteral() string
	String() string
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
}

type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Statements {
		out.WriteString(s.String())
	}
	return out.String()
}

type Block struct {
	Token      token.Token // the leading token of the first statement, when present
	Statements []Statement
}

func (b *Block) statementNode()       {}
func (b *Block) TokenLiteral() string { return b.Token.Literal }
func (b *Block) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for _, s := range b.Statements {
		out.WriteString(s.String())
	}
	out.WriteString(" }")
	return out.String()
}

// Param is one function parameter; the type annotation is carried through
// from source but has no runtime meaning.
type Param struct {
	Token          token.Token // the parameter name token
	Name           string
	TypeAnnotation string
}

func (p *Param) String() string {
	if p.TypeAnnotation != "" {
		return p.Name + ": " + p.TypeAnnotation
	}
	return p.Name
}

type VarDef struct {
	Token          token.Token // the declared name token
	Name           string
	TypeAnnotation string
	Value          Expression // nil when declared without initializer
}

func (vd *VarDef) statementNode()       {}
func (vd *VarDef) TokenLiteral() string { return vd.Token.Literal }
func (vd *VarDef) String() string {
	var out bytes.Buffer
	out.WriteString("var ")
	out.WriteString(vd.Name)
	if vd.TypeAnnotation != "" {
		out.WriteString(": " + vd.TypeAnnotation)
	}
	if vd.Value != nil {
		out.WriteString(" = ")
		out.WriteString(vd.Value.String())
	}
	out.WriteString(";")
	return out.String()
}

type FunctionDecl struct {
	Token      token.Token // the function name token
	Name       string
	Parameters []*Param
	Body       *Block
}

func (fd *FunctionDecl) statementNode()       {}
func (fd *FunctionDecl) TokenLiteral() string { return fd.Token.Literal }
func (fd *FunctionDecl) String() string {
	params := make([]string, 0, len(fd.Parameters))
	for _, p := range fd.Parameters {
		params = append(params, p.String())
	}
	return "fun " + fd.Name + "(" + strings.Join(params, ", ") + ") " + fd.Body.String()
}

type PrintStmt struct {
	Token      token.Token // the printed expression's leading token
	Expression Expression
}

func (ps *PrintStmt) statementNode()       {}
func (ps *PrintStmt) TokenLiteral() string { return ps.Token.Literal }
func (ps *PrintStmt) String() string       { return "print " + ps.Expression.String() + ";" }

type ReturnStmt struct {
	Token token.Token // the returned expression's leading token, if any
	Value Expression  // nil for a bare return
}

func (rs *ReturnStmt) statementNode()       {}
func (rs *ReturnStmt) TokenLiteral() string { return rs.Token.Literal }
func (rs *ReturnStmt) String() string {
	if rs.Value != nil {
		return "return " + rs.Value.String() + ";"
	}
	return "return;"
}

type IfStmt struct {
	Token     token.Token // the condition's leading token
	Condition Expression
	Then      Statement
	Else      Statement // nil when absent
}

func (is *IfStmt) statementNode()       {}
func (is *IfStmt) TokenLiteral() string { return is.Token.Literal }
func (is *IfStmt) String() string {
	var out bytes.Buffer
	out.WriteString("if (")
	out.WriteString(is.Condition.String())
	out.WriteString(") ")
	out.WriteString(is.Then.String())
	if is.Else != nil {
		out.WriteString(" else ")
		out.WriteString(is.Else.String())
	}
	return out.String()
}

type WhileStmt struct {
	Token     token.Token // the condition's leading token
	Condition Expression
	Body      Statement
}

func (ws *WhileStmt) statementNode()       {}
func (ws *WhileStmt) TokenLiteral() string { return ws.Token.Literal }
func (ws *WhileStmt) String() string {
	return "while (" + ws.Condition.String() + ") " + ws.Body.String()
}

type DoWhileStmt struct {
	Token     token.Token // the body's leading token
	Body      Statement
	Condition Expression
}

func (dw *DoWhileStmt) statementNode()       {}
func (dw *DoWhileStmt) TokenLiteral() string { return dw.Token.Literal }
func (dw *DoWhileStmt) String() string {
	return "do " + dw.Body.String() + " while (" + dw.Condition.String() + ");"
}

type ExpressionStatement struct {
	Token      token.Token // the first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExpressionStatement) String() string {
	if es.Expression != nil {
		return es.Expression.String() + ";"
	}
	return ";"
}

type NumberLiteral struct {
	Token token.Token
	Value float64
}

func (nl *NumberLiteral) expressionNode()      {}
func (nl *NumberLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NumberLiteral) String() string       { return strconv.FormatFloat(nl.Value, 'f', -1, 64) }

type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) String() string       { return `"` + sl.Value + `"` }

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (bl *BooleanLiteral) expressionNode()      {}
func (bl *BooleanLiteral) TokenLiteral() string { return bl.Token.Literal }
func (bl *BooleanLiteral) String() string       { return strconv.FormatBool(bl.Value) }

type NilLiteral struct {
	Token token.Token
}

func (nl *NilLiteral) expressionNode()      {}
func (nl *NilLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NilLiteral) String() string       { return "nil" }

type Var struct {
	Token token.Token
	Name  string
}

func (v *Var) expressionNode()      {}
func (v *Var) TokenLiteral() string { return v.Token.Literal }
func (v *Var) String() string       { return v.Name }

type Assign struct {
	Token token.Token // the target name token
	Name  string
	Value Expression
}

func (a *Assign) expressionNode()      {}
func (a *Assign) TokenLiteral() string { return a.Token.Literal }
func (a *Assign) String() string       { return a.Name + " = " + a.Value.String() }

type BinOp struct {
	Token token.Token // the expression's leading token
	Op    Op
	Left  Expression
	Right Expression
}

func (b *BinOp) expressionNode()      {}
func (b *BinOp) TokenLiteral() string { return b.Token.Literal }
func (b *BinOp) String() string {
	return "(" + b.Left.String() + " " + b.Op.String() + " " + b.Right.String() + ")"
}

// And short-circuits: the right operand is only evaluated when the left is
// truthy. Deliberately not a BinOp.
type And struct {
	Token token.Token
	Left  Expression
	Right Expression
}

func (a *And) expressionNode()      {}
func (a *And) TokenLiteral() string { return a.Token.Literal }
func (a *And) String() string       { return "(" + a.Left.String() + " and " + a.Right.String() + ")" }

// Or short-circuits: the right operand is only evaluated when the left is
// falsy.
type Or struct {
	Token token.Token
	Left  Expression
	Right Expression
}

func (o *Or) expressionNode()      {}
func (o *Or) TokenLiteral() string { return o.Token.Literal }
func (o *Or) String() string       { return "(" + o.Left.String() + " or " + o.Right.String() + ")" }

type UnaryOp struct {
	Token   token.Token // the expression's leading token
	Op      Op
	Operand Expression
}

func (u *UnaryOp) expressionNode()      {}
func (u *UnaryOp) TokenLiteral() string { return u.Token.Literal }
func (u *UnaryOp) String() string       { return "(" + u.Op.String() + u.Operand.String() + ")" }

type Call struct {
	Token     token.Token // the callee's leading token
	Callee    Expression
	Arguments []Expression
}

func (c *Call) expressionNode()      {}
func (c *Call) TokenLiteral() string { return c.Token.Literal }
func (c *Call) String() string {
	args := make([]string, 0, len(c.Arguments))
	for _, a := range c.Arguments {
		args = append(args, a.String())
	}
	return c.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}

type Getattr struct {
	Token  token.Token // the attribute name token
	Object Expression
	Attr   string
}

func (g *Getattr) expressionNode()      {}
func (g *Getattr) TokenLiteral() string { return g.Token.Literal }
func (g *Getattr) String() string       { return g.Object.String() + "." + g.Attr }

type Setattr struct {
	Token  token.Token // the attribute name token
	Object Expression
	Attr   string
	Value  Expression
}

func (s *Setattr) expressionNode()      {}
func (s *Setattr) TokenLiteral() string { return s.Token.Literal }
func (s *Setattr) String() string {
	return s.Object.String() + "." + s.Attr + " = " + s.Value.String()
}

// Placeholder nodes for the class extension. The grammar never produces
// them; evaluating one is a NOT_IMPLEMENTED failure.

type This struct {
	Token token.Token
}

func (t *This) expressionNode()      {}
func (t *This) TokenLiteral() string { return t.Token.Literal }
func (t *This) String() string       { return "this" }

type Super struct {
	Token token.Token
	Attr  string
}

func (s *Super) expressionNode()      {}
func (s *Super) TokenLiteral() string { return s.Token.Literal }
func (s *Super) String() string       { return "super." + s.Attr }

type ClassDecl struct {
	Token token.Token
	Name  string
}

func (c *ClassDecl) statementNode()       {}
func (c *ClassDecl) TokenLiteral() string { return c.Token.Literal }
func (c *ClassDecl) String() string       { return "class " + c.Name + " {}" }
