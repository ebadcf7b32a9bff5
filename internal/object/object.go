package object

import (
	"fmt"
	"lox/internal/ast"
	"math"
	"strconv"
	"strings"
)

const (
	NIL_OBJ     = "NIL"
	BOOLEAN_OBJ = "BOOLEAN"
	INTEGER_OBJ = "INTEGER"
	FLOAT_OBJ   = "FLOAT"
	STRING_OBJ  = "STRING"

	FUNCTION_OBJ = "FUNCTION"
	INSTANCE_OBJ = "INSTANCE"

	RETURN_VALUE_OBJ = "RETURN_VALUE"
	ERROR_OBJ        = "ERROR"
)

var (
	NIL   = &Nil{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

type ObjectType string

type Object interface {
	Type() ObjectType
	Inspect() string
}

type Nil struct{}

func (n *Nil) Type() ObjectType { return NIL_OBJ }
func (n *Nil) Inspect() string  { return "nil" }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return fmt.Sprintf("%t", b.Value) }

type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return strconv.FormatInt(i.Value, 10) }

type Float struct {
	Value float64
}

func (f *Float) Type() ObjectType { return FLOAT_OBJ }

// Inspect renders whole-valued floats without a fractional suffix, so a
// float holding 4 prints as "4", never "4.0".
func (f *Float) Inspect() string {
	if f.Value == math.Trunc(f.Value) && !math.IsInf(f.Value, 0) && !math.IsNaN(f.Value) {
		return strconv.FormatInt(int64(f.Value), 10)
	}
	return strconv.FormatFloat(f.Value, 'f', -1, 64)
}

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

// Function is a callable value closing over the environment that was active
// at its declaration site. The closure holds the environment itself, never a
// copy, so later mutations of captured bindings stay visible.
type Function struct {
	Name       string
	Parameters []*ast.Param
	Body       *ast.Block
	Env        *Environment
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string {
	params := make([]string, 0, len(f.Parameters))
	for _, p := range f.Parameters {
		params = append(params, p.String())
	}
	return "fun " + f.Name + "(" + strings.Join(params, ", ") + ")"
}

// Instance is a bag of named attributes. Class semantics are not part of the
// language subset; this is the attribute-storage extension point.
type Instance struct {
	Fields map[string]Object
}

func NewInstance() *Instance {
	return &Instance{Fields: make(map[string]Object)}
}

func (in *Instance) Type() ObjectType { return INSTANCE_OBJ }
func (in *Instance) Inspect() string  { return "<instance>" }

// ReturnValue is the control signal carrying a return's value up to the
// nearest function-call boundary. It never leaks out of the evaluator.
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }

type ErrorKind string

const (
	UNDEFINED_VARIABLE ErrorKind = "UNDEFINED_VARIABLE"
	NOT_CALLABLE       ErrorKind = "NOT_CALLABLE"
	ARITY_ERROR        ErrorKind = "ARITY_ERROR"
	ATTRIBUTE_ERROR    ErrorKind = "ATTRIBUTE_ERROR"
	TYPE_ERROR         ErrorKind = "TYPE_ERROR"
	CONTROL_ERROR      ErrorKind = "CONTROL_ERROR"
	NOT_IMPLEMENTED    ErrorKind = "NOT_IMPLEMENTED"
)

// Error is a runtime failure threaded through evaluation as a value. The
// evaluator never recovers from one; it propagates to whatever harness
// invoked the program.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string  { return string(e.Kind) + ": " + e.Message }
