package evaluator

import (
	"fmt"
	"io"
	"log/slog"
	"lox/internal/ast"
	"lox/internal/object"
	"math"
	"os"
)

var (
	NIL   = object.NIL
	TRUE  = object.TRUE
	FALSE = object.FALSE
)

// Evaluator walks the syntax tree against an environment stack. Execution is
// strictly synchronous: every node runs to completion before control returns
// to its caller, and print output follows statement order exactly.
type Evaluator struct {
	envStack []*object.Environment
	out      io.Writer
}

// New creates an evaluator rooted at env. Print statements write to out;
// a nil out falls back to stdout.
func New(env *object.Environment, out io.Writer) *Evaluator {
	if out == nil {
		out = os.Stdout
	}
	return &Evaluator{
		envStack: []*object.Environment{env},
		out:      out,
	}
}

func (e *Evaluator) PushEnv(env *object.Environment) {
	e.envStack = append(e.envStack, env)
}

func (e *Evaluator) CurrentEnv() *object.Environment {
	if len(e.envStack) == 0 {
		panic("environment stack is empty")
	}
	return e.envStack[len(e.envStack)-1]
}

func (e *Evaluator) PopEnv() {
	if len(e.envStack) == 0 {
		panic("attempted to pop from an empty environment stack")
	}
	e.envStack = e.envStack[:len(e.envStack)-1]
}

func (e *Evaluator) Eval(node ast.Node) object.Object {
	switch node := node.(type) {

	// Statements
	case *ast.Program:
		return e.evalProgram(node)

	case *ast.Block:
		return e.evalBlock(node)

	case *ast.ExpressionStatement:
		return e.Eval(node.Expression)

	case *ast.VarDef:
		return e.evalVarDef(node)

	case *ast.FunctionDecl:
		fn := &object.Function{
			Name:       node.Name,
			Parameters: node.Parameters,
			Body:       node.Body,
			Env:        e.CurrentEnv(), // the defining scope, not the call scope
		}
		e.CurrentEnv().Define(node.Name, fn)
		return NIL

	case *ast.PrintStmt:
		value := e.Eval(node.Expression)
		if e.isError(value) {
			return value
		}
		fmt.Fprintln(e.out, value.Inspect())
		return NIL

	case *ast.ReturnStmt:
		var value object.Object = NIL
		if node.Value != nil {
			value = e.Eval(node.Value)
			if e.isError(value) {
				return value
			}
		}
		return &object.ReturnValue{Value: value}

	case *ast.IfStmt:
		return e.evalIfStmt(node)

	case *ast.WhileStmt:
		return e.evalWhileStmt(node)

	case *ast.DoWhileStmt:
		return e.evalDoWhileStmt(node)

	// Expressions
	case *ast.NumberLiteral:
		return &object.Float{Value: node.Value}

	case *ast.StringLiteral:
		return &object.String{Value: node.Value}

	case *ast.BooleanLiteral:
		return nativeBoolToBooleanObject(node.Value)

	case *ast.NilLiteral:
		return NIL

	case *ast.Var:
		return e.evalVar(node)

	case *ast.Assign:
		return e.evalAssign(node)

	case *ast.And:
		left := e.Eval(node.Left)
		if e.isError(left) {
			return left
		}
		if !object.Truthy(left) {
			return left
		}
		return e.Eval(node.Right)

	case *ast.Or:
		left := e.Eval(node.Left)
		if e.isError(left) {
			return left
		}
		if object.Truthy(left) {
			return left
		}
		return e.Eval(node.Right)

	case *ast.UnaryOp:
		operand := e.Eval(node.Operand)
		if e.isError(operand) {
			return operand
		}
		return e.evalUnaryOp(node.Op, operand)

	case *ast.BinOp:
		left := e.Eval(node.Left)
		if e.isError(left) {
			return left
		}
		right := e.Eval(node.Right)
		if e.isError(right) {
			return right
		}
		return e.evalBinOp(node.Op, left, right)

	case *ast.Call:
		return e.evalCall(node)

	case *ast.Getattr:
		return e.evalGetattr(node)

	case *ast.Setattr:
		return e.evalSetattr(node)

	// Class placeholders: the grammar never emits these, and the language
	// subset assigns them no behavior.
	case *ast.This, *ast.Super:
		return newError(object.NOT_IMPLEMENTED, "class semantics are not implemented: %s", node.String())

	case *ast.ClassDecl:
		return newError(object.NOT_IMPLEMENTED, "class semantics are not implemented: %s", node.String())
	}

	return newError(object.TYPE_ERROR, "unknown syntax node: %s", node.String())
}

func (e *Evaluator) evalProgram(program *ast.Program) object.Object {
	var result object.Object = NIL

	for _, statement := range program.Statements {
		result = e.Eval(statement)

		switch result := result.(type) {
		case *object.ReturnValue:
			// A return signal must never escape past the outermost call.
			return newError(object.CONTROL_ERROR, "return outside of function")
		case *object.Error:
			return result
		}
	}

	return result
}

// evalBlock runs statements in a fresh child environment. The child is
// dropped when the block completes unless a closure created inside it still
// holds a reference.
func (e *Evaluator) evalBlock(block *ast.Block) object.Object {
	blockEnv := object.NewEnclosedEnvironment(e.CurrentEnv())
	e.PushEnv(blockEnv)
	defer e.PopEnv()

	return e.evalStatements(block.Statements)
}

// evalStatements evaluates a statement sequence against the current
// environment, stopping the instant a return signal or error appears.
func (e *Evaluator) evalStatements(statements []ast.Statement) object.Object {
	var result object.Object = NIL

	for _, statement := range statements {
		result = e.Eval(statement)

		if result != nil {
			rt := result.Type()
			if rt == object.RETURN_VALUE_OBJ || rt == object.ERROR_OBJ {
				return result
			}
		}
	}

	return result
}

func (e *Evaluator) evalVarDef(node *ast.VarDef) object.Object {
	var value object.Object = NIL
	if node.Value != nil {
		value = e.Eval(node.Value)
		if e.isError(value) {
			return value
		}
	}
	value = object.AutoConvert(node.Name, value)
	e.CurrentEnv().Define(node.Name, value)
	return NIL
}

func (e *Evaluator) evalVar(node *ast.Var) object.Object {
	if value, ok := e.CurrentEnv().Get(node.Name); ok {
		return value
	}
	return newError(object.UNDEFINED_VARIABLE, "undefined variable '%s'", node.Name)
}

// evalAssign stores into the nearest enclosing environment that defines the
// name; the expression's value is the stored (possibly coerced) value.
func (e *Evaluator) evalAssign(node *ast.Assign) object.Object {
	value := e.Eval(node.Value)
	if e.isError(value) {
		return value
	}
	value = object.AutoConvert(node.Name, value)
	if _, ok := e.CurrentEnv().Assign(node.Name, value); !ok {
		return newError(object.UNDEFINED_VARIABLE, "undefined variable '%s'", node.Name)
	}
	return value
}

func (e *Evaluator) evalIfStmt(node *ast.IfStmt) object.Object {
	condition := e.Eval(node.Condition)
	if e.isError(condition) {
		return condition
	}
	if object.Truthy(condition) {
		return e.Eval(node.Then)
	}
	if node.Else != nil {
		return e.Eval(node.Else)
	}
	return NIL
}

// evalWhileStmt checks the condition before each iteration.
func (e *Evaluator) evalWhileStmt(node *ast.WhileStmt) object.Object {
	for {
		condition := e.Eval(node.Condition)
		if e.isError(condition) {
			return condition
		}
		if !object.Truthy(condition) {
			return NIL
		}
		result := e.Eval(node.Body)
		if result != nil {
			rt := result.Type()
			if rt == object.RETURN_VALUE_OBJ || rt == object.ERROR_OBJ {
				return result
			}
		}
	}
}

// evalDoWhileStmt runs the body at least once; the condition is checked
// after each execution.
func (e *Evaluator) evalDoWhileStmt(node *ast.DoWhileStmt) object.Object {
	for {
		result := e.Eval(node.Body)
		if result != nil {
			rt := result.Type()
			if rt == object.RETURN_VALUE_OBJ || rt == object.ERROR_OBJ {
				return result
			}
		}
		condition := e.Eval(node.Condition)
		if e.isError(condition) {
			return condition
		}
		if !object.Truthy(condition) {
			return NIL
		}
	}
}

func (e *Evaluator) evalUnaryOp(op ast.Op, operand object.Object) object.Object {
	switch op {
	case ast.OpNot:
		return nativeBoolToBooleanObject(!object.Truthy(operand))
	case ast.OpNeg:
		switch operand := operand.(type) {
		case *object.Integer:
			return &object.Integer{Value: -operand.Value}
		case *object.Float:
			return &object.Float{Value: -operand.Value}
		}
		return newError(object.TYPE_ERROR, "unsupported operand for -: %s", operand.Type())
	}
	return newError(object.TYPE_ERROR, "unknown unary operator %s", op)
}

func (e *Evaluator) evalBinOp(op ast.Op, left, right object.Object) object.Object {
	switch op {
	case ast.OpEq:
		return nativeBoolToBooleanObject(objectsEqual(left, right))
	case ast.OpNe:
		return nativeBoolToBooleanObject(!objectsEqual(left, right))
	}

	if l, lok := object.NumericValue(left); lok {
		if r, rok := object.NumericValue(right); rok {
			return e.evalNumericBinOp(op, left, right, l, r)
		}
	}

	if l, lok := left.(*object.String); lok {
		if r, rok := right.(*object.String); rok {
			return e.evalStringBinOp(op, l.Value, r.Value)
		}
	}

	return newError(object.TYPE_ERROR, "unsupported operand types: %s %s %s",
		left.Type(), op, right.Type())
}

// evalNumericBinOp computes in float64 and applies the integral-collapsing
// rule: when both operands are whole-valued and the raw result is whole, the
// result is an integer, so 2 + 2 renders as 4, never 4.0.
func (e *Evaluator) evalNumericBinOp(op ast.Op, left, right object.Object, l, r float64) object.Object {
	var result float64

	switch op {
	case ast.OpAdd:
		result = l + r
	case ast.OpSub:
		result = l - r
	case ast.OpMul:
		result = l * r
	case ast.OpDiv:
		if r == 0 {
			return newError(object.TYPE_ERROR, "division by zero")
		}
		result = math.Floor(l / r)
	case ast.OpGt:
		return nativeBoolToBooleanObject(l > r)
	case ast.OpGe:
		return nativeBoolToBooleanObject(l >= r)
	case ast.OpLt:
		return nativeBoolToBooleanObject(l < r)
	case ast.OpLe:
		return nativeBoolToBooleanObject(l <= r)
	default:
		return newError(object.TYPE_ERROR, "unsupported operand types: %s %s %s",
			left.Type(), op, right.Type())
	}

	if object.IsWholeNumber(left) && object.IsWholeNumber(right) &&
		result == math.Trunc(result) && !math.IsInf(result, 0) {
		return &object.Integer{Value: int64(result)}
	}
	return &object.Float{Value: result}
}

func (e *Evaluator) evalStringBinOp(op ast.Op, l, r string) object.Object {
	switch op {
	case ast.OpAdd:
		return &object.String{Value: l + r}
	case ast.OpGt:
		return nativeBoolToBooleanObject(l > r)
	case ast.OpGe:
		return nativeBoolToBooleanObject(l >= r)
	case ast.OpLt:
		return nativeBoolToBooleanObject(l < r)
	case ast.OpLe:
		return nativeBoolToBooleanObject(l <= r)
	}
	return newError(object.TYPE_ERROR, "unsupported operand types: %s %s %s",
		object.STRING_OBJ, op, object.STRING_OBJ)
}

func (e *Evaluator) evalCall(node *ast.Call) object.Object {
	callee := e.Eval(node.Callee)
	if e.isError(callee) {
		return callee
	}

	args := make([]object.Object, 0, len(node.Arguments))
	for _, arg := range node.Arguments {
		evaluated := e.Eval(arg)
		if e.isError(evaluated) {
			return evaluated
		}
		args = append(args, evaluated)
	}

	fn, ok := callee.(*object.Function)
	if !ok {
		return newError(object.NOT_CALLABLE, "'%s' is not callable (got %s)",
			node.Callee.String(), callee.Type())
	}
	return e.applyFunction(fn, args)
}

// applyFunction builds the call frame on top of the function's captured
// closure environment (not the caller's; that is what makes scoping lexical)
// and evaluates the body in that same frame, so parameters and top-level
// body locals share one scope.
func (e *Evaluator) applyFunction(fn *object.Function, args []object.Object) object.Object {
	if len(args) != len(fn.Parameters) {
		return newError(object.ARITY_ERROR, "expected %d arguments but got %d",
			len(fn.Parameters), len(args))
	}

	frame := object.NewEnclosedEnvironment(fn.Env)
	for i, param := range fn.Parameters {
		frame.Define(param.Name, args[i])
	}

	slog.Debug("function call",
		slog.String("name", fn.Name),
		slog.Int("args", len(args)))

	e.PushEnv(frame)
	result := e.evalStatements(fn.Body.Statements)
	e.PopEnv()

	// The return signal is consumed here, at the call boundary, and no
	// further.
	if returnValue, ok := result.(*object.ReturnValue); ok {
		return returnValue.Value
	}
	if e.isError(result) {
		return result
	}
	return NIL
}

func (e *Evaluator) evalGetattr(node *ast.Getattr) object.Object {
	obj := e.Eval(node.Object)
	if e.isError(obj) {
		return obj
	}
	instance, ok := obj.(*object.Instance)
	if !ok {
		return newError(object.ATTRIBUTE_ERROR, "%s value has no attributes", obj.Type())
	}
	value, ok := instance.Fields[node.Attr]
	if !ok {
		return newError(object.ATTRIBUTE_ERROR, "undefined attribute '%s'", node.Attr)
	}
	return value
}

// evalSetattr mirrors variable stores: the attribute name drives
// auto-coercion just like a variable name would.
func (e *Evaluator) evalSetattr(node *ast.Setattr) object.Object {
	obj := e.Eval(node.Object)
	if e.isError(obj) {
		return obj
	}
	instance, ok := obj.(*object.Instance)
	if !ok {
		return newError(object.ATTRIBUTE_ERROR, "%s value has no attributes", obj.Type())
	}
	value := e.Eval(node.Value)
	if e.isError(value) {
		return value
	}
	value = object.AutoConvert(node.Attr, value)
	instance.Fields[node.Attr] = value
	return value
}

func objectsEqual(a, b object.Object) bool {
	// Numbers compare by value regardless of representation.
	if av, aok := object.NumericValue(a); aok {
		if bv, bok := object.NumericValue(b); bok {
			return av == bv
		}
		return false
	}

	if a.Type() != b.Type() {
		return false
	}

	switch a := a.(type) {
	case *object.Boolean:
		return a.Value == b.(*object.Boolean).Value
	case *object.String:
		return a.Value == b.(*object.String).Value
	case *object.Nil:
		return true
	}
	return a == b
}

func nativeBoolToBooleanObject(input bool) *object.Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

func newError(kind object.ErrorKind, format string, a ...interface{}) *object.Error {
	return &object.Error{Kind: kind, Message: fmt.Sprintf(format, a...)}
}

func (e *Evaluator) isError(obj object.Object) bool {
	if obj != nil {
		return obj.Type() == object.ERROR_OBJ
	}
	return false
}
