// Package parsetree defines the generic parse tree handed from the grammar
// front end to syntax-tree construction. Interior nodes carry a grammar rule
// name and ordered children; leaves carry raw tokens. The tree knows nothing
// about evaluation; all meaning is assigned during transformation.
package parsetree

import (
	"bytes"
	"lox/internal/token"
)

// Grammar rule names. The parser emits these and the transform package
// dispatches one visit method per rule.
const (
	RuleProgram  = "program"
	RuleBlock    = "block"
	RuleVarDecl  = "var_decl"
	RuleFunDecl  = "fun_decl"
	RuleParams   = "params"
	RuleParam    = "param"
	RuleType     = "type"
	RulePrint    = "print_stmt"
	RuleReturn   = "return_stmt"
	RuleIf       = "if_stmt"
	RuleWhile    = "while_stmt"
	RuleDoWhile  = "do_while"
	RuleFor      = "for_stmt"
	RuleForInit  = "for_init"
	RuleForCond  = "for_cond"
	RuleForIncr  = "for_incr"
	RuleExprStmt = "expr_stmt"

	RuleAssign   = "assign"
	RuleSetattr  = "setattr"
	RuleGetattr  = "getattr"
	RuleOr       = "or"
	RuleAnd      = "and"
	RuleEq       = "eq"
	RuleNe       = "ne"
	RuleGt       = "gt"
	RuleGe       = "ge"
	RuleLt       = "lt"
	RuleLe       = "le"
	RuleAdd      = "add"
	RuleSub      = "sub"
	RuleMul      = "mul"
	RuleDiv      = "div"
	RuleNot      = "not"
	RuleNeg      = "neg"
	RuleCall     = "call"
	RuleVariable = "variable"
	RuleGroup    = "group"
)

// Node is either a *Tree (an interior grammar rule) or a *Leaf (a token).
type Node interface {
	String() string
	parseTreeNode()
}

type Tree struct {
	Rule     string
	Children []Node
}

func (t *Tree) parseTreeNode() {}

func (t *Tree) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(t.Rule)
	for _, c := range t.Children {
		out.WriteString(" ")
		out.WriteString(c.String())
	}
	out.WriteString(")")
	return out.String()
}

type Leaf struct {
	Tok token.Token
}

func (l *Leaf) parseTreeNode() {}

func (l *Leaf) String() string {
	if l.Tok.Type == token.STRING {
		return `"` + l.Tok.Literal + `"`
	}
	return l.Tok.Literal
}

func NewTree(rule string, children ...Node) *Tree {
	return &Tree{Rule: rule, Children: children}
}

func NewLeaf(tok token.Token) *Leaf {
	return &Leaf{Tok: tok}
}
